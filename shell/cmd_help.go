package shell

import (
	"fmt"
	"sort"
)

type helpCmd struct {
}

// help
func (c *helpCmd) Exec(shell *Shell, args []string) {

	keys := make([]string, 0, len(shell.commands)+1)

	for k := range shell.commands {
		keys = append(keys, k)
	}
	keys = append(keys, "exit")

	sort.Strings(keys)

	for _, str := range keys {
		fmt.Fprintf(shell, "- %v\n", str)
	}
}

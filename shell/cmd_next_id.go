package shell

import (
	"errors"
	"fmt"
	"strconv"
)

var errInvalidCount = errors.New("usage: next_id [count]")

// next_id [count]
type nextIDCmd struct {
}

func (c *nextIDCmd) Exec(shell *Shell, args []string) {

	count := 1

	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			manageShellError(errInvalidCount)
		}
		count = n
	}

	ids, err := shell.server.NextIDs(count)
	manageShellError(err)

	for _, id := range ids {
		fmt.Fprintln(shell, id)
	}
}

package shell

import (
	"fmt"
)

// list_sessions
type listSessionsCmd struct {
}

func (c *listSessionsCmd) Exec(shell *Shell, args []string) {

	sessions := shell.server.Sessions()

	for _, session := range sessions {
		fmt.Fprintf(shell, "- %v\n", session)
	}

	fmt.Fprintln(shell, "Num. Sessions:", len(sessions))
}

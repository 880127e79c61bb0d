package shell

import "fmt"

// alerts
type alertsCmd struct {
}

func (c *alertsCmd) Exec(shell *Shell, args []string) {

	alerts := shell.server.Monitor().History()

	if len(alerts) == 0 {
		fmt.Fprintln(shell, "No alerts")
		return
	}

	for _, alert := range alerts {
		fmt.Fprintf(shell, "- %v\n", alert)
	}
}

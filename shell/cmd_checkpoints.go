package shell

import (
	"fmt"

	"github.com/d3ce1t/flakeid/utils"
)

// checkpoints
type checkpointsCmd struct {
}

func (c *checkpointsCmd) Exec(shell *Shell, args []string) {

	checkpoints, err := shell.server.Checkpoints()
	manageShellError(err)

	fmt.Fprintln(shell, rp("-", 83))
	fmt.Fprintf(shell, "| %-3s | %-7s | %-24s | %-36s |\n", "DC", "Machine", "Last timestamp", "Boot id")
	fmt.Fprintln(shell, rp("-", 83))

	for _, state := range checkpoints {
		fmt.Fprintf(shell, "| %-3v | %-7v | %-24v | %-36v |\n",
			ff(state.DataCenterID, 3), ff(state.MachineID, 7),
			ff(utils.FormatMillis(state.LastTimestamp), 24), ff(state.BootID, 36))
	}

	fmt.Fprintln(shell, rp("-", 83))
	fmt.Fprintln(shell, "Num. Checkpoints:", len(checkpoints))
}

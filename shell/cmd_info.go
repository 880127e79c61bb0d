package shell

import (
	"fmt"
	"time"

	"github.com/d3ce1t/flakeid/utils"
)

// info
type infoCmd struct {
}

func (c *infoCmd) Exec(shell *Shell, args []string) {

	gen := shell.server.Generator()
	state := gen.State()

	fmt.Fprintf(shell, "Boot id:        %v\n", shell.server.BootID())
	fmt.Fprintf(shell, "Uptime:         %v\n", shell.server.Uptime().Truncate(time.Second))
	fmt.Fprintf(shell, "Data center id: %v\n", gen.DataCenterID())
	fmt.Fprintf(shell, "Machine id:     %v\n", gen.MachineID())
	fmt.Fprintf(shell, "Epoch:          %v (%v)\n", gen.Epoch(), utils.FormatMillis(gen.Epoch()))

	if state.LastTimestamp >= 0 {
		fmt.Fprintf(shell, "Last timestamp: %v (%v)\n", state.LastTimestamp, utils.FormatMillis(state.LastTimestamp))
	} else {
		fmt.Fprintln(shell, "Last timestamp: none")
	}

	if shell.config != nil {
		fmt.Fprintf(shell, "Maintenance:    %v\n", shell.config.MaintenanceMode())
		fmt.Fprintf(shell, "Checkpoints:    %v (every %v ms)\n", shell.config.DbEnabled(), shell.config.CheckpointIntervalMs())
	}
}

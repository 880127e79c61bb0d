package shell

import (
	"errors"
	"fmt"
	"strconv"
)

var errRetireUsage = errors.New("usage: retire <data_center_id> <machine_id>")

// retire data_center_id machine_id
type retireCmd struct {
}

func (c *retireCmd) Exec(shell *Shell, args []string) {

	if len(args) < 3 {
		manageShellError(errRetireUsage)
	}

	dataCenterID, err := strconv.Atoi(args[1])
	if err != nil {
		manageShellError(errRetireUsage)
	}

	machineID, err := strconv.Atoi(args[2])
	if err != nil {
		manageShellError(errRetireUsage)
	}

	manageShellError(shell.server.RetireIdentity(dataCenterID, machineID))
	fmt.Fprintf(shell, "Checkpoint of dc %v machine %v deleted\n", dataCenterID, machineID)
}

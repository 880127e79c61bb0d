package shell

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/d3ce1t/flakeid/utils"
)

var errDecodeUsage = errors.New("usage: decode <id>")

// decode id
type decodeCmd struct {
}

func (c *decodeCmd) Exec(shell *Shell, args []string) {

	if len(args) < 2 {
		manageShellError(errDecodeUsage)
	}

	id, err := strconv.ParseInt(args[1], 10, 64)
	manageShellError(err)

	if id < 0 {
		manageShellError(errDecodeUsage)
	}

	d := shell.server.Generator().Decode(id)

	fmt.Fprintf(shell, "Id:             %v\n", d.ID)
	fmt.Fprintf(shell, "Timestamp:      %v (%v)\n", d.Timestamp, utils.FormatMillis(d.Timestamp))
	fmt.Fprintf(shell, "Elapsed:        %v ms\n", d.Elapsed)
	fmt.Fprintf(shell, "Data center id: %v\n", d.DataCenterID)
	fmt.Fprintf(shell, "Machine id:     %v\n", d.MachineID)
	fmt.Fprintf(shell, "Sequence:       %v\n", d.Sequence)
}

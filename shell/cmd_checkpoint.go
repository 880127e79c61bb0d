package shell

import "fmt"

// checkpoint
type checkpointCmd struct {
}

func (c *checkpointCmd) Exec(shell *Shell, args []string) {
	manageShellError(shell.server.SaveCheckpoint())
	fmt.Fprintf(shell, "Checkpoint saved at %v\n", shell.server.Generator().State().LastTimestamp)
}

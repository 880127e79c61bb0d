package shell

import "fmt"

// stats
type statsCmd struct {
}

func (c *statsCmd) Exec(shell *Shell, args []string) {
	stats := shell.server.Generator().Stats()
	fmt.Fprintln(shell, rp("-", 52))
	fmt.Fprintf(shell, "| %-14s | %-14s | %-14s |\n", "Issued", "Seq. waits", "Rollbacks")
	fmt.Fprintln(shell, rp("-", 52))
	fmt.Fprintf(shell, "| %-14v | %-14v | %-14v |\n",
		ff(stats.Issued, 14), ff(stats.SequenceWaits, 14), ff(stats.ClockRollbacks, 14))
	fmt.Fprintln(shell, rp("-", 52))
}

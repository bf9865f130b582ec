package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/horizon/core/audit"
)

var hashesCmd = &cobra.Command{
	Use:   "hashes <a> <b>",
	Short: "Compare two schedule hash files",
	Args:  cobra.ExactArgs(2),
	RunE:  diffHashes,
}

func init() {
	rootCmd.AddCommand(hashesCmd)
}

func diffHashes(cmd *cobra.Command, args []string) error {
	a, err := audit.ReadHashes(args[0])
	if err != nil {
		return err
	}
	b, err := audit.ReadHashes(args[1])
	if err != nil {
		return err
	}
	onlyA, onlyB := audit.DiffHashes(a, b)
	out := cmd.OutOrStdout()
	if len(onlyA) == 0 && len(onlyB) == 0 {
		fmt.Fprintf(out, "identical: %d hashes\n", len(a))
		return nil
	}
	for _, h := range onlyA {
		fmt.Fprintf(out, "- %s\n", h)
	}
	for _, h := range onlyB {
		fmt.Fprintf(out, "+ %s\n", h)
	}
	return fmt.Errorf("hash sets differ: %d only in %s, %d only in %s", len(onlyA), args[0], len(onlyB), args[1])
}

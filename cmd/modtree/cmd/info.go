package cmd

import (
	"fmt"
	"strings"

	"github.com/mwantia/modtree"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show backend information",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	return withRepository(cmd.Context(), func(root *modtree.Repository) error {
		out := cmd.OutOrStdout()
		caps := root.Capabilities()

		if b := root.Backend(); b != nil {
			fmt.Fprintf(out, "backend:      %s\n", b.Name())
		}
		fmt.Fprintf(out, "root:         %s\n", root.Path())
		fmt.Fprintf(out, "capabilities: %s\n", strings.Join(caps.Strings(), ", "))
		if caps != nil && caps.MaxObjectSize > 0 {
			fmt.Fprintf(out, "max size:     %d\n", caps.MaxObjectSize)
		}

		return nil
	})
}

package cmd

import (
	"fmt"

	"github.com/mwantia/modtree"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List resources of a repository",
	Long:  "List the resources directly inside a repository, or of the whole subtree with --recursive.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLs,
}

func init() {
	lsCmd.Flags().BoolP("recursive", "r", false, "include resources of all descendant repositories")
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	recursive, err := cmd.Flags().GetBool("recursive")
	if err != nil {
		return err
	}

	return withRepository(cmd.Context(), func(root *modtree.Repository) error {
		resources, err := root.GetResourcesAt(cmd.Context(), path, recursive)
		if err != nil {
			return err
		}

		for _, res := range resources {
			fmt.Fprintln(cmd.OutOrStdout(), res.RelativePath())
		}
		if len(resources) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "(no resources)")
		}

		return nil
	})
}

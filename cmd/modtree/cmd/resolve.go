package cmd

import (
	"errors"
	"fmt"

	"github.com/mwantia/modtree"
	"github.com/spf13/cobra"
)

var errNotFound = errors.New("resource not found")

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Resolve a module path to a resource",
	Long:  "Resolve a path to a resource and print its full path and module name. Exits non-zero if the resource does not exist.",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	return withRepository(cmd.Context(), func(root *modtree.Repository) error {
		res, err := root.GetResource(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if res == nil || !res.Exists() {
			return fmt.Errorf("%w: %s", errNotFound, args[0])
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", res.Path(), res.ModuleName())
		return nil
	})
}

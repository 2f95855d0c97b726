package cmd

import (
	"fmt"
	"io"

	"github.com/mwantia/modtree"
	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <path>...",
	Short: "Print resource content",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	return withRepository(cmd.Context(), func(root *modtree.Repository) error {
		for _, path := range args {
			res, err := root.GetResource(cmd.Context(), path)
			if err != nil {
				return err
			}
			if res == nil {
				return fmt.Errorf("%w: %s", errNotFound, path)
			}

			rc, err := res.Open(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to open '%s': %w", path, err)
			}

			_, err = io.Copy(cmd.OutOrStdout(), rc)
			rc.Close()
			if err != nil {
				return fmt.Errorf("failed to read '%s': %w", path, err)
			}
		}

		return nil
	})
}

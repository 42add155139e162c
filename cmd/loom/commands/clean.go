package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/loom/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the dist directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return c.app.Clean(cmd.Context(), app.CleanOptions{
				All:       all,
				Overrides: options(cmd).Overrides,
			})
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Also remove the build manifests in .loom")
	cmd.Flags().StringP("dist", "d", "", "Output directory to remove (default \"dist\")")

	return cmd
}

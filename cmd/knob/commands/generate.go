package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/knob/internal/app"
)

func (c *CLI) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the generate step without the form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			showOnly, _ := cmd.Flags().GetBool("show-only")
			return c.app.Generate(cmd.Context(), app.GenerateOptions{
				Options:  options(cmd),
				ShowOnly: showOnly,
			})
		},
	}
	cmd.Flags().Bool("show-only", false, "Print the generate command instead of running it")
	return cmd
}

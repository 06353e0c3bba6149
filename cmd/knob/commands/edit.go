package commands

import "github.com/spf13/cobra"

func (c *CLI) newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive cache form (the default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Edit(cmd.Context(), options(cmd))
		},
	}
}

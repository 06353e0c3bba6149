package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/knob/internal/app"
)

func (c *CLI) newConfigureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Run the configure step without the form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			check, _ := cmd.Flags().GetBool("check")
			converge, _ := cmd.Flags().GetInt("converge")
			showOnly, _ := cmd.Flags().GetBool("show-only")

			return c.app.Configure(cmd.Context(), app.ConfigureOptions{
				Options:  options(cmd),
				Check:    check,
				Converge: converge,
				ShowOnly: showOnly,
			})
		},
	}
	cmd.Flags().Bool("check", false, "Validate and rewrite the cache without running the step")
	cmd.Flags().Int("converge", 0, "Repeat configure passes until no new entries appear, at most N times")
	cmd.Flags().Bool("show-only", false, "Print the configure command instead of running it")
	cmd.MarkFlagsMutuallyExclusive("check", "converge", "show-only")
	return cmd
}

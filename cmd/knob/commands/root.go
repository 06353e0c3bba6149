// Package commands implements the CLI commands for knob.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/knob/internal/app"
	"go.trai.ch/knob/internal/build"
)

// CLI represents the command line interface for knob.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Edit(ctx context.Context, opts app.Options) error
	Configure(ctx context.Context, opts app.ConfigureOptions) error
	Generate(ctx context.Context, opts app.GenerateOptions) error
	SetLogJSON(enable bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:   "knob",
		Short: "Edit a build cache and drive configure and generate",
		Long: "knob opens an interactive form on the build cache of the current project.\n" +
			"Edit entries, configure until no new entries appear, then generate.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logJSON, _ := cmd.Flags().GetBool("log-json")
			c.app.SetLogJSON(logJSON)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Edit(cmd.Context(), options(cmd))
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().String("cache", "", "Path of the cache file (overrides the project configuration)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write log records as JSON")

	c.rootCmd = rootCmd
	rootCmd.AddCommand(c.newEditCmd())
	rootCmd.AddCommand(c.newConfigureCmd())
	rootCmd.AddCommand(c.newGenerateCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func options(cmd *cobra.Command) app.Options {
	cache, _ := cmd.Flags().GetString("cache")
	return app.Options{CachePath: cache}
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// rootState carries global flags and the injected clock to subcommands
type rootState struct {
	configPath string
	clock      clockwork.Clock
}

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	return newRootCommand(clockwork.NewRealClock())
}

func newRootCommand(clock clockwork.Clock) *cobra.Command {
	st := &rootState{clock: clock}

	rootCmd := &cobra.Command{
		Use:   "passage-log",
		Short: "Passage Log - plan passages between Channel and Biscay ports",
		Long: `Passage Log keeps a directory of ports with coordinates and computes
sunrise and sunset for passage plans.

Running without a subcommand opens the terminal plan editor.

Examples:
  passage-log ports resolve "Lymington" --persist --interactive
  passage-log ports suggest co
  passage-log sun --port Cowes --date 2024-06-21
  passage-log passage new --from Lymington --to Cherbourg
  passage-log gazetteer import harbours.shp --name-field NAME`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), st)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&st.configPath, "config", "",
		"Path to config file (default searches ., ./configs, ~/.config/passage-log)")

	rootCmd.AddCommand(newTUICommand(st))
	rootCmd.AddCommand(newPortsCommand(st))
	rootCmd.AddCommand(newSunCommand(st))
	rootCmd.AddCommand(newGazetteerCommand(st))
	rootCmd.AddCommand(newPassageCommand(st))

	return rootCmd
}

// withApp wraps a command body with application setup and teardown. Logs
// go to the command's stderr.
func (st *rootState) withApp(fn func(cmd *cobra.Command, args []string, app *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		app, err := openApp(ctx, st.configPath, st.clock, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(cmd, args, app)
	}
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

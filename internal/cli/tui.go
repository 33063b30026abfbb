package cli

import (
	"context"

	"github.com/ngmaloney/passage-log/internal/ui"
	"github.com/spf13/cobra"
)

func newTUICommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal plan editor",
		Long: `Open the interactive plan editor. Port fields autocomplete from the
saved directory; committing a field resolves it and, for online matches,
asks before saving. Logs are written to the configured log file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), st)
		},
	}
}

func runTUI(ctx context.Context, st *rootState) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := openApp(ctx, st.configPath, st.clock, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	return ui.Run(ctx, ui.Deps{
		Ports:    app.Ports,
		Resolver: app.Resolver,
		Passages: app.Passages,
		Logger:   app.Logger,
	})
}

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ngmaloney/passage-log/internal/models"
	"github.com/spf13/cobra"
)

// newPassageCommand creates the passage command with subcommands
func newPassageCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passage",
		Short: "Passage plans",
		Long: `Create and list passage plans. Each plan records a sunrise/sunset
snapshot: sunrise at the origin and sunset at the destination.

Examples:
  passage-log passage new --from Lymington --to Cherbourg --date 2024-06-21
  passage-log passage list
  passage-log passage edit 3f2a --to Guernsey
  passage-log passage sun 3f2a`,
	}

	cmd.AddCommand(newPassageNewCommand(st))
	cmd.AddCommand(newPassageListCommand(st))
	cmd.AddCommand(newPassageEditCommand(st))
	cmd.AddCommand(newPassageSunCommand(st))
	cmd.AddCommand(newPassageDeleteCommand(st))

	return cmd
}

func newPassageNewCommand(st *rootState) *cobra.Command {
	var plan models.Plan

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a passage plan",
		Args:  cobra.NoArgs,
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			p, err := app.Passages.Create(cmd.Context(), plan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", p.ID)
			printPassage(cmd, p)
			return nil
		}),
	}

	cmd.Flags().StringVar(&plan.From, "from", "", "Departure port")
	cmd.Flags().StringVar(&plan.To, "to", "", "Destination port, or \"local\"")
	cmd.Flags().StringVar(&plan.Date, "date", "", "Date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&plan.Vessel, "vessel", "", "Vessel name")
	cmd.Flags().StringVar(&plan.Skipper, "skipper", "", "Skipper")
	cmd.Flags().StringVar(&plan.Crew, "crew", "", "Crew")

	return cmd
}

func newPassageListCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List passages, newest first",
		Args:  cobra.NoArgs,
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			list := app.Passages.List()
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No passages")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tPASSAGE\tSUN")
			for _, p := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(p.ID), p.Plan.Date, p.Title(), orDash(p.Plan.SunriseSet))
			}
			return w.Flush()
		}),
	}
}

func newPassageEditCommand(st *rootState) *cobra.Command {
	var edit models.Plan

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a passage plan",
		Long: `Change fields of a passage plan. Only the flags given are changed.
Changing the route or date recomputes the sunrise/sunset snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			current, err := app.Passages.Get(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			plan := current.Plan
			if flags.Changed("from") {
				plan.From = edit.From
			}
			if flags.Changed("to") {
				plan.To = edit.To
			}
			if flags.Changed("date") {
				plan.Date = edit.Date
			}
			if flags.Changed("vessel") {
				plan.Vessel = edit.Vessel
			}
			if flags.Changed("skipper") {
				plan.Skipper = edit.Skipper
			}
			if flags.Changed("crew") {
				plan.Crew = edit.Crew
			}

			p, err := app.Passages.UpdatePlan(cmd.Context(), current.ID, plan)
			if err != nil {
				return err
			}
			if flags.Changed("from") || flags.Changed("to") || flags.Changed("date") {
				if p, err = app.Passages.RefreshSunriseSet(cmd.Context(), p.ID); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s\n", shortID(p.ID))
			printPassage(cmd, p)
			return nil
		}),
	}

	cmd.Flags().StringVar(&edit.From, "from", "", "Departure port")
	cmd.Flags().StringVar(&edit.To, "to", "", "Destination port, or \"local\"")
	cmd.Flags().StringVar(&edit.Date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&edit.Vessel, "vessel", "", "Vessel name")
	cmd.Flags().StringVar(&edit.Skipper, "skipper", "", "Skipper")
	cmd.Flags().StringVar(&edit.Crew, "crew", "", "Crew")

	return cmd
}

func newPassageSunCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "sun ID",
		Short: "Recompute a passage's sunrise/sunset",
		Args:  cobra.ExactArgs(1),
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			p, err := app.Passages.RefreshSunriseSet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPassage(cmd, p)
			return nil
		}),
	}
}

func newPassageDeleteCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a passage",
		Args:  cobra.ExactArgs(1),
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if err := app.Passages.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
			return nil
		}),
	}
}

func printPassage(cmd *cobra.Command, p models.Passage) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  %s\n", p.Title())
	fmt.Fprintf(out, "  Date:            %s\n", p.Plan.Date)
	fmt.Fprintf(out, "  Sunrise/Sunset:  %s\n", orDash(p.Plan.SunriseSet))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ngmaloney/passage-log/internal/geocoding"
	"github.com/ngmaloney/passage-log/internal/models"
	"github.com/ngmaloney/passage-log/internal/ports"
	"github.com/ngmaloney/passage-log/internal/resolver"
	"github.com/spf13/cobra"
)

// newPortsCommand creates the ports command with subcommands
func newPortsCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "Manage the port directory",
		Long: `List, add, remove and resolve saved ports.

Ports are remembered with optional coordinates. The most recently used
ports are ranked first in suggestions.

Examples:
  passage-log ports list
  passage-log ports add "Bembridge" "50 41.2N" "1 05.5W"
  passage-log ports resolve "St Vaast" --persist --interactive
  passage-log ports suggest ham`,
	}

	cmd.AddCommand(newPortsListCommand(st))
	cmd.AddCommand(newPortsAddCommand(st))
	cmd.AddCommand(newPortsRemoveCommand(st))
	cmd.AddCommand(newPortsResolveCommand(st))
	cmd.AddCommand(newPortsSuggestCommand(st))
	cmd.AddCommand(newPortsCleanCommand(st))

	return cmd
}

func newPortsListCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved ports alphabetically",
		Args:  cobra.NoArgs,
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			all := app.Ports.Directory().ListAll()
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved ports")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPOSITION")
			for _, p := range all {
				fmt.Fprintf(w, "%s\t%s\n", p.Name, formatRecordPosition(p))
			}
			return w.Flush()
		}),
	}
}

func newPortsAddCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add NAME [LAT LON]",
		Short: "Save a port, optionally with coordinates",
		Long: `Save a port by name. Coordinates may be decimal degrees (50.7587)
or degrees and decimal minutes (50 45.52N).`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("expected NAME or NAME LAT LON, got %d arguments", len(args))
			}
			return nil
		},
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			var lat, lon string
			if len(args) == 3 {
				lat, lon = args[1], args[2]
			}
			rec, err := app.Ports.AddManual(cmd.Context(), args[0], lat, lon)
			if err != nil {
				return fmt.Errorf("adding port: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s %s\n", rec.Name, formatRecordPosition(rec))
			return nil
		}),
	}

	cmd.Flags().SetInterspersed(false)

	return cmd
}

func newPortsRemoveCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a saved port",
		Args:  cobra.ExactArgs(1),
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if err := app.Ports.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", args[0])
			return nil
		}),
	}
}

func newPortsResolveCommand(st *rootState) *cobra.Command {
	var opts resolver.Options

	cmd := &cobra.Command{
		Use:   "resolve NAME",
		Short: "Resolve a port name to coordinates",
		Long: `Resolve a port name through the saved directory, the offline gazetteer
and, when enabled, the online geocoder.

With --interactive an online match is offered for confirmation and a miss
offers manual entry; answers are read from standard input. With --persist
a confirmed position is saved to the directory.`,
		Args: cobra.ExactArgs(1),
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			out := cmd.OutOrStdout()
			res := app.Resolver.Resolve(cmd.Context(), args[0], opts)

			hit := res.Coordinate
			if res.Pending != nil {
				in := bufio.NewScanner(cmd.InOrStdin())
				d := promptDecision(in, out, *res.Pending)
				var err error
				hit, err = app.Resolver.Confirm(cmd.Context(), *res.Pending, d)
				if err != nil {
					return fmt.Errorf("confirming %s: %w", args[0], err)
				}
			}

			if hit == nil {
				return fmt.Errorf("%s: %w", args[0], geocoding.ErrNoMatch)
			}
			printResolved(out, hit)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&opts.Persist, "persist", false, "Save a confirmed position to the directory")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", false, "Ask before using online matches")

	return cmd
}

func newPortsSuggestCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [QUERY]",
		Short: "Show ranked port suggestions",
		Long:  `Without a query the most recently used ports are listed.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			dir := app.Ports.Directory()
			for _, name := range ports.Suggest(query, dir.ListAll(), dir.Recent()) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}),
	}
}

func newPortsCleanCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Drop implausible names and stale recent entries",
		Args:  cobra.NoArgs,
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			removed, err := app.Ports.Directory().Clean(cmd.Context())
			if err != nil {
				return fmt.Errorf("cleaning ports: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d entries\n", removed)
			return nil
		}),
	}
}

// promptDecision asks the user what to do with a pending resolution. EOF
// counts as "not now".
func promptDecision(in *bufio.Scanner, out io.Writer, p resolver.Pending) resolver.Decision {
	if p.Proposal != nil {
		fmt.Fprintf(out, "Found %s at %s\n", proposalLabel(p.Proposal), geocoding.FormatDMM(p.Proposal.Lat, p.Proposal.Lon))
		fmt.Fprint(out, "[s]ave / [m]anual / [n]ot now: ")
	} else {
		fmt.Fprintf(out, "No match for %q\n", p.Name)
		if len(p.Hints) > 0 {
			fmt.Fprintf(out, "Did you mean: %s?\n", strings.Join(p.Hints, ", "))
		}
		fmt.Fprint(out, "[m]anual / [n]ot now: ")
	}

	switch strings.ToLower(readLine(in)) {
	case "s", "save", "y", "yes":
		if p.Proposal != nil {
			return resolver.Decision{Action: resolver.Accept}
		}
	case "m", "manual":
		fmt.Fprint(out, "Latitude: ")
		lat := readLine(in)
		fmt.Fprint(out, "Longitude: ")
		lon := readLine(in)
		return resolver.Decision{Action: resolver.Manual, Lat: lat, Lon: lon}
	}
	return resolver.Decision{Action: resolver.Decline}
}

func readLine(in *bufio.Scanner) string {
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func proposalLabel(c *models.ResolvedCoordinate) string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

func printResolved(out io.Writer, c *models.ResolvedCoordinate) {
	fmt.Fprintf(out, "%s  %s  (%.5f, %.5f)  [%s]\n",
		c.Name, geocoding.FormatDMM(c.Lat, c.Lon), c.Lat, c.Lon, c.Source)
}

func formatRecordPosition(p models.PortRecord) string {
	if !p.HasCoords() {
		return "-"
	}
	return geocoding.FormatDMM(p.Coords.Lat, p.Coords.Lon)
}

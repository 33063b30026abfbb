package cli

import (
	"errors"
	"fmt"

	"github.com/ngmaloney/passage-log/internal/geocoding"
	"github.com/ngmaloney/passage-log/internal/resolver"
	"github.com/spf13/cobra"
)

// errNoSunEvents is returned when the date is malformed or the sun neither
// rises nor sets at the position
var errNoSunEvents = errors.New("no sunrise/sunset for that date and position")

func newSunCommand(st *rootState) *cobra.Command {
	var (
		portName string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "sun [DATE LAT LON]",
		Short: "Show sunrise and sunset",
		Long: `Show sunrise and sunset in the display timezone for a date and
position, or for a named port.

Examples:
  passage-log sun 2024-06-21 50.7587 -1.5406
  passage-log sun 2024-06-21 "50 45.52N" "1 32.44W"
  passage-log sun --port Cherbourg --date 2024-12-21`,
		Args: func(cmd *cobra.Command, args []string) error {
			if portName != "" && len(args) > 0 {
				return errors.New("use either --port or DATE LAT LON")
			}
			if portName == "" && len(args) != 3 {
				return errors.New("expected DATE LAT LON or --port NAME")
			}
			return nil
		},
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			var lat, lon float64
			label := ""

			if portName != "" {
				res := app.Resolver.Resolve(cmd.Context(), portName, resolver.Options{})
				if !res.Found() {
					return fmt.Errorf("%s: %w", portName, geocoding.ErrNoMatch)
				}
				lat, lon, label = res.Coordinate.Lat, res.Coordinate.Lon, res.Coordinate.Name
				if date == "" {
					date = app.Passages.Today()
				}
			} else {
				c, err := geocoding.ParseLatLon(args[1], args[2])
				if err != nil {
					return fmt.Errorf("parsing position: %w", err)
				}
				date, lat, lon = args[0], c.Lat, c.Lon
				label = geocoding.FormatDMM(lat, lon)
			}

			times := app.Sun.SunTimes(date, lat, lon)
			if times == nil {
				return errNoSunEvents
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", label, date)
			fmt.Fprintf(cmd.OutOrStdout(), "  Sunrise: %s\n", times.Sunrise)
			fmt.Fprintf(cmd.OutOrStdout(), "  Sunset:  %s\n", times.Sunset)
			return nil
		}),
	}

	cmd.Flags().StringVar(&portName, "port", "", "Resolve the position from a port name")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today)")
	// West longitudes such as -1.540 are positionals, not shorthand flags
	cmd.Flags().SetInterspersed(false)

	return cmd
}

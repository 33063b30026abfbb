package cli

import (
	"fmt"

	"github.com/ngmaloney/passage-log/internal/geocoding"
	"github.com/spf13/cobra"
)

func newGazetteerCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gazetteer",
		Short: "Manage the offline gazetteer",
	}
	cmd.AddCommand(newGazetteerImportCommand(st))
	cmd.AddCommand(newGazetteerListCommand(st))
	return cmd
}

func newGazetteerImportCommand(st *rootState) *cobra.Command {
	var nameField string

	cmd := &cobra.Command{
		Use:   "import SHAPEFILE",
		Short: "Import harbour points from a shapefile",
		Long: `Import named harbour points from an ESRI shapefile into the offline
gazetteer. Points outside the sanity radius are skipped. Built-in entries
take precedence over imported ones with the same name.`,
		Args: cobra.ExactArgs(1),
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			n, err := geocoding.ImportShapefile(cmd.Context(), app.DB, args[0], nameField, app.Config.GeoRegion(), app.Logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d harbours\n", n)
			return nil
		}),
	}

	cmd.Flags().StringVar(&nameField, "name-field", "NAME", "DBF attribute holding the harbour name")

	return cmd
}

func newGazetteerListCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List gazetteer entries",
		Args:  cobra.NoArgs,
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			for _, e := range app.Gazetteer.Entries() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s  %s\n", e.Name, geocoding.FormatDMM(e.Lat, e.Lon), e.Source)
			}
			return nil
		}),
	}
}

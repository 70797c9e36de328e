package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/translayer/internal/capture"
	"github.com/ironsheep/translayer/internal/region"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List catalogue regions scaled to a resolution",
	Long: `List the region catalogue. Rectangles are scaled from the catalogue's
design resolution to --width x --height, or to the primary display with
--display. With no size the design rectangles are shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		catalogue, err := cfg.Catalogue()
		if err != nil {
			return err
		}

		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		display, _ := cmd.Flags().GetBool("display")
		format, _ := cmd.Flags().GetString("format")

		target := catalogue.Design()
		switch {
		case display:
			target, err = capture.DisplayResolution()
			if err != nil {
				return err
			}
		case width != 0 || height != 0:
			target = region.Resolution{Width: width, Height: height}
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid resolution %s", target)
			}
		}

		entries := catalogue.Scaled(target)
		out := cmd.OutOrStdout()
		switch format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		case "yaml":
			// Same shape LoadCatalogue reads, so the output can seed a catalogue file.
			doc := struct {
				Design  region.Resolution                `yaml:"design"`
				Regions map[region.Name]region.Rectangle `yaml:"regions"`
			}{Design: target, Regions: make(map[region.Name]region.Rectangle, len(entries))}
			for _, e := range entries {
				doc.Regions[e.Name] = e.Rectangle
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return err
			}
			return enc.Close()
		case "table", "":
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(tw, "# %s (design %s)\n", target, catalogue.Design())
			_, _ = fmt.Fprintln(tw, "NAME\tLEFT\tTOP\tRIGHT\tBOTTOM\tSIZE")
			for _, e := range entries {
				r := e.Rectangle
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%dx%d\n", e.Name, r.Left, r.Top, r.Right, r.Bottom, e.Width, e.Height)
			}
			return tw.Flush()
		default:
			return fmt.Errorf("unknown format %q: want table, json or yaml", format)
		}
	},
}

func init() {
	regionsCmd.Flags().Int("width", 0, "target width in pixels")
	regionsCmd.Flags().Int("height", 0, "target height in pixels")
	regionsCmd.Flags().Bool("display", false, "scale to the primary display resolution")
	regionsCmd.Flags().String("format", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(regionsCmd)
}

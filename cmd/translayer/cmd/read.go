package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/translayer/internal/capture"
	"github.com/ironsheep/translayer/internal/config"
	"github.com/ironsheep/translayer/internal/imaging"
	"github.com/ironsheep/translayer/internal/pipeline"
	"github.com/ironsheep/translayer/internal/region"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read text from the target window or a bitmap file",
	Long: `Read one line of text. The source is the target process window, or a
bitmap file with --bitmap. The area is a catalogue region (--region), a
rectangle (--rect left,top,right,bottom) or, with neither, the whole image.

Catalogue regions are scaled to the size of the image being read.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		name, _ := cmd.Flags().GetString("region")
		rectSpec, _ := cmd.Flags().GetString("rect")
		bitmapPath, _ := cmd.Flags().GetString("bitmap")
		asJSON, _ := cmd.Flags().GetBool("json")

		if name != "" && rectSpec != "" {
			return errors.New("--region and --rect are mutually exclusive")
		}
		var rect *region.Rectangle
		if rectSpec != "" {
			r, err := region.Parse(rectSpec)
			if err != nil {
				return err
			}
			rect = &r
		}

		var (
			res pipeline.Result
			err error
		)
		if bitmapPath != "" {
			res, err = readBitmap(cfg, bitmapPath, region.Name(name), rect)
		} else {
			res, err = readWindow(cfg, region.Name(name), rect)
		}
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		return nil
	},
}

func readWindow(cfg *config.Config, name region.Name, rect *region.Rectangle) (pipeline.Result, error) {
	reader, _, err := newReader(cfg)
	if err != nil {
		return pipeline.Result{}, err
	}
	target, err := capture.Attach(cfg.ProcessName)
	if err != nil {
		return pipeline.Result{}, err
	}

	var (
		res pipeline.Result
		ok  bool
	)
	if name != "" {
		res, ok, err = reader.ReadRegion(target.Window, name)
	} else {
		res, ok, err = reader.Read(target.Window, rect)
	}
	if err != nil {
		return pipeline.Result{}, err
	}
	if !ok {
		return pipeline.Result{}, errNotForeground
	}
	return res, nil
}

func readBitmap(cfg *config.Config, path string, name region.Name, rect *region.Rectangle) (pipeline.Result, error) {
	start := time.Now()
	info, err := imaging.LoadBitmapInfo(path)
	if err != nil {
		return pipeline.Result{}, err
	}
	if name != "" {
		catalogue, err := cfg.Catalogue()
		if err != nil {
			return pipeline.Result{}, err
		}
		r, err := catalogue.Lookup(name, region.Resolution{Width: info.Width, Height: info.Height})
		if err != nil {
			return pipeline.Result{}, err
		}
		rect = &r
	}

	text, err := newRecognizer(cfg).RecognizeFile(path, rect)
	if err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.Result{
		Text:   text,
		Region: name,
		Rect:   rect,
		Width:  info.Width,
		Height: info.Height,
		At:     start,
		Took:   time.Since(start),
	}, nil
}

func init() {
	readCmd.Flags().String("region", "", "catalogue region name")
	readCmd.Flags().String("rect", "", "rectangle as left,top,right,bottom")
	readCmd.Flags().String("bitmap", "", "read from this image file instead of the window")
	readCmd.Flags().Bool("json", false, "print the full result as JSON")
	rootCmd.AddCommand(readCmd)
}

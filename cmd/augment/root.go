package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ds124wfegd/imgaug/config"
	"github.com/ds124wfegd/imgaug/internal/pkg/augment"
	"github.com/ds124wfegd/imgaug/internal/pkg/codec"
	"github.com/ds124wfegd/imgaug/internal/pkg/processor"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// flagKeys binds command line flags to configuration keys, so a flag beats the
// environment, which beats config.yaml.
var flagKeys = map[string]string{
	"rotation-range":     "augment.rotation_range",
	"width-shift-range":  "augment.width_shift_range",
	"height-shift-range": "augment.height_shift_range",
	"shear-range":        "augment.shear_range",
	"zoom-range":         "augment.zoom_range",
	"horizontal-flip":    "augment.horizontal_flip",
	"fill-mode":          "augment.fill_mode",
	"output-dir":         "augment.output_dir",
	"format":             "augment.format",
	"workers":            "processor.workers",
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		seed       int64
		targetSize string
		verbose    bool
	)
	def := augment.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "augment <img_path> <num_images_to_augment>",
		Short: "Write randomly transformed copies of an image",
		Long: `augment applies random rotation, shift, shear, zoom and horizontal flip to a
single image and writes the requested number of augmented copies to a directory.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[1])
			if err != nil || count < 1 {
				return errors.Wrapf(augment.ErrInvalidConfig, "number of images must be a positive integer, got %q", args[1])
			}

			v, err := config.LoadConfig()
			if err != nil {
				return err
			}
			for name, key := range flagKeys {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
					return errors.Wrapf(err, "bind flag %s", name)
				}
			}
			cfg, err := config.ParseConfig(v)
			if err != nil {
				return err
			}

			level := "info"
			if verbose {
				level = "debug"
			}
			log := config.NewLogger(config.LogConfig{Level: level, Format: "text"}, stderr)

			augCfg, err := cfg.Augment.ToAugment()
			if err != nil {
				return err
			}
			format, err := codec.ParseFormat(cfg.Augment.Format)
			if err != nil {
				return err
			}

			width, height := cfg.Augment.TargetWidth, cfg.Augment.TargetHeight
			if targetSize != "" {
				if width, height, err = parseTargetSize(targetSize); err != nil {
					return err
				}
			}

			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			log.WithField("seed", seed).Debug("augmenting")

			bar := progressbar.NewOptions(count,
				progressbar.OptionSetWriter(stderr),
				progressbar.OptionSetDescription("augmenting"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			res, err := processor.AugmentFile(cmd.Context(), processor.LocalJob{
				SourcePath:   args[0],
				OutputDir:    cfg.Augment.OutputDir,
				Count:        count,
				Config:       augCfg,
				Format:       format,
				Seed:         seed,
				Workers:      cfg.Processor.Workers,
				TargetWidth:  width,
				TargetHeight: height,
				OnImage: func(string) {
					_ = bar.Add(1)
				},
			}, log)
			if err != nil {
				return err
			}
			_ = bar.Finish()

			fmt.Fprintf(stdout, "Augmentation completed. %d augmented images are saved in '%s'.\n", len(res.Files), res.OutputDir)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64("rotation-range", def.RotationRange, "degree range for random rotations")
	flags.Float64("width-shift-range", def.WidthShiftRange, "fraction of width for random horizontal shifts, in [0, 1)")
	flags.Float64("height-shift-range", def.HeightShiftRange, "fraction of height for random vertical shifts, in [0, 1)")
	flags.Float64("shear-range", def.ShearRange, "shear angle range in degrees")
	flags.Float64("zoom-range", def.ZoomRange, "zoom factors are drawn from [1-z, 1+z]")
	flags.Bool("horizontal-flip", def.HorizontalFlip, "randomly flip images horizontally")
	flags.String("fill-mode", def.FillMode.String(), "fill for points outside the image: nearest, constant, reflect or wrap")
	flags.String("output-dir", "augmented_images", "directory the augmented images are written to")
	flags.String("format", "jpg", "output format: jpg, png, gif, tiff or bmp")
	flags.Int("workers", 4, "number of images rendered in parallel")
	flags.Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	flags.StringVar(&targetSize, "target-size", "", "resize the source to WxH before augmenting")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	return cmd
}

// parseTargetSize parses "WxH" into positive dimensions.
func parseTargetSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, errors.Wrapf(augment.ErrInvalidConfig, "target size %q is not WxH", s)
	}
	width, errW := strconv.Atoi(strings.TrimSpace(w))
	height, errH := strconv.Atoi(strings.TrimSpace(h))
	if errW != nil || errH != nil || width < 1 || height < 1 {
		return 0, 0, errors.Wrapf(augment.ErrInvalidConfig, "target size %q is not WxH", s)
	}
	return width, height, nil
}

package entity

import (
	"github.com/ds124wfegd/imgaug/internal/pkg/augment"
)

// AugmentForm is the multipart form accepted by POST /augment. Absent options fall back to
// the configured defaults.
type AugmentForm struct {
	Count            int      `form:"count" binding:"required,min=1"`
	RotationRange    *float64 `form:"rotation_range" binding:"omitempty,gte=0"`
	WidthShiftRange  *float64 `form:"width_shift_range" binding:"omitempty,gte=0,lt=1"`
	HeightShiftRange *float64 `form:"height_shift_range" binding:"omitempty,gte=0,lt=1"`
	ShearRange       *float64 `form:"shear_range" binding:"omitempty,gte=0"`
	ZoomRange        *float64 `form:"zoom_range" binding:"omitempty,gte=0"`
	HorizontalFlip   *bool    `form:"horizontal_flip"`
	FillMode         string   `form:"fill_mode" binding:"omitempty,oneof=nearest constant reflect wrap"`
	Format           string   `form:"format" binding:"omitempty,oneof=jpg jpeg png gif tif tiff bmp"`
	Seed             *int64   `form:"seed"`
}

// Config overlays the submitted options on defaults and validates the result.
func (f AugmentForm) Config(defaults augment.Config) (augment.Config, error) {
	cfg := defaults
	if f.RotationRange != nil {
		cfg.RotationRange = *f.RotationRange
	}
	if f.WidthShiftRange != nil {
		cfg.WidthShiftRange = *f.WidthShiftRange
	}
	if f.HeightShiftRange != nil {
		cfg.HeightShiftRange = *f.HeightShiftRange
	}
	if f.ShearRange != nil {
		cfg.ShearRange = *f.ShearRange
	}
	if f.ZoomRange != nil {
		cfg.ZoomRange = *f.ZoomRange
	}
	if f.HorizontalFlip != nil {
		cfg.HorizontalFlip = *f.HorizontalFlip
	}
	if f.FillMode != "" {
		mode, err := augment.ParseFillMode(f.FillMode)
		if err != nil {
			return augment.Config{}, err
		}
		cfg.FillMode = mode
	}
	return cfg, cfg.Validate()
}

package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/imgaug/internal/pkg/augment"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 6), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, "cat.png")
	require.NoError(t, imaging.Save(img, path))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	cmd := newRootCmd(&stdout, io.Discard)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestAugmentCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	src := writeSource(t, dir)

	t.Run("writes the requested images", func(t *testing.T) {
		out := filepath.Join(dir, "out")
		stdout, err := execute(t, src, "3", "--output-dir", out, "--format", "png", "--seed", "7", "--fill-mode", "reflect")
		require.NoError(t, err)
		assert.Equal(t, "Augmentation completed. 3 augmented images are saved in '"+out+"'.\n", stdout)

		for _, name := range []string{"cat_aug0.png", "cat_aug1.png", "cat_aug2.png"} {
			img, err := imaging.Open(filepath.Join(out, name))
			require.NoError(t, err, name)
			assert.Equal(t, 40, img.Bounds().Dx())
			assert.Equal(t, 30, img.Bounds().Dy())
		}
	})

	t.Run("target size resizes the source", func(t *testing.T) {
		out := filepath.Join(dir, "small")
		_, err := execute(t, src, "1", "--output-dir", out, "--format", "png", "--target-size", "20x10")
		require.NoError(t, err)

		img, err := imaging.Open(filepath.Join(out, "cat_aug0.png"))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())
	})

	t.Run("missing source creates nothing", func(t *testing.T) {
		out := filepath.Join(dir, "never")
		_, err := execute(t, filepath.Join(dir, "nope.jpg"), "2", "--output-dir", out)
		require.Error(t, err)
		assert.True(t, errors.Is(err, augment.ErrUnreadableFile))
		_, statErr := os.Stat(out)
		assert.True(t, os.IsNotExist(statErr))
	})

	tests := []struct {
		name string
		args []string
	}{
		{name: "zero count", args: []string{src, "0"}},
		{name: "count not a number", args: []string{src, "many"}},
		{name: "shift of one", args: []string{src, "1", "--width-shift-range", "1"}},
		{name: "negative rotation", args: []string{src, "1", "--rotation-range", "-5"}},
		{name: "unknown fill mode", args: []string{src, "1", "--fill-mode", "smear"}},
		{name: "unknown format", args: []string{src, "1", "--format", "webp"}},
		{name: "bad target size", args: []string{src, "1", "--target-size", "20by10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append(tt.args, "--output-dir", filepath.Join(dir, "bad"))...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, augment.ErrInvalidConfig), err.Error())
		})
	}

	t.Run("wrong number of arguments", func(t *testing.T) {
		_, err := execute(t, src)
		assert.Error(t, err)
	})
}

func TestParseTargetSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{in: "224x224", w: 224, h: 224},
		{in: "640X480", w: 640, h: 480},
		{in: " 32 x 16 ", w: 32, h: 16},
		{in: "0x10", wantErr: true},
		{in: "10", wantErr: true},
		{in: "axb", wantErr: true},
		{in: "-1x4", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := parseTargetSize(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, augment.ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.w, w)
			assert.Equal(t, tt.h, h)
		})
	}
}

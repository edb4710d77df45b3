package processor

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/imgaug/internal/pkg/augment"
	"github.com/ds124wfegd/imgaug/internal/pkg/codec"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LocalJob describes one augmentation of a file on disk.
type LocalJob struct {
	SourcePath string
	OutputDir  string
	Count      int
	Config     augment.Config
	Format     imaging.Format
	Seed       int64
	Workers    int
	// TargetWidth and TargetHeight resize the source before augmenting; zero keeps it.
	TargetWidth  int
	TargetHeight int
	// OnImage is called after each file is written. It may be called concurrently.
	OnImage func(path string)
}

type LocalResult struct {
	OutputDir string
	Files     []string
}

// AugmentFile loads the source, writes Count augmented copies into OutputDir and returns
// their paths in index order. The source is read before anything is created on disk.
func AugmentFile(ctx context.Context, job LocalJob, log logrus.FieldLogger) (*LocalResult, error) {
	if job.Count < 1 {
		return nil, errors.Wrapf(augment.ErrInvalidConfig, "number of images must be >= 1, got %d", job.Count)
	}
	if err := job.Config.Validate(); err != nil {
		return nil, err
	}

	src, err := codec.Load(job.SourcePath)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"source": job.SourcePath,
		"width":  src.Width,
		"height": src.Height,
	}).Debug("loaded source image")

	src = codec.Resize(src, job.TargetWidth, job.TargetHeight)

	aug, err := augment.New(job.Config, rand.New(rand.NewSource(job.Seed)))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(job.OutputDir, 0755); err != nil {
		return nil, errors.Wrapf(augment.ErrWriteError, "create %s: %v", job.OutputDir, err)
	}

	stem := Stem(job.SourcePath)
	ext := codec.Extension(job.Format)
	files := make([]string, job.Count)
	err = aug.Generate(ctx, src, job.Count, job.Workers, func(i int, img *augment.Image) error {
		path := filepath.Join(job.OutputDir, OutputName(stem, i, ext))
		if err := codec.Save(img, path, job.Format); err != nil {
			return err
		}
		files[i] = path
		log.WithField("file", path).Debug("saved augmented image")
		if job.OnImage != nil {
			job.OnImage(path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &LocalResult{OutputDir: job.OutputDir, Files: files}, nil
}

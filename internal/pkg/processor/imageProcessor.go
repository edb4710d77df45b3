package processor

import (
	"bytes"
	"context"
	"math/rand"
	"time"

	"github.com/ds124wfegd/imgaug/internal/database"
	"github.com/ds124wfegd/imgaug/internal/entity"
	"github.com/ds124wfegd/imgaug/internal/pkg/augment"
	"github.com/ds124wfegd/imgaug/internal/pkg/codec"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type ImageProcessor interface {
	Process(ctx context.Context, task entity.AugmentationTask) error
}

type imageProcessor struct {
	repo    database.JobRepository
	workers int
	log     logrus.FieldLogger
}

func NewImageProcessor(repo database.JobRepository, workers int, log logrus.FieldLogger) ImageProcessor {
	return &imageProcessor{repo: repo, workers: workers, log: log.WithField("component", "processor")}
}

// Process renders the images of one job into storage and records the outcome on the job.
func (p *imageProcessor) Process(ctx context.Context, task entity.AugmentationTask) error {
	log := p.log.WithField("job_id", task.JobID)
	log.WithField("count", task.Count).Info("processing job")
	start := time.Now()

	outputs, err := p.render(ctx, task)
	if err != nil {
		if _, uerr := p.repo.UpdateStatus(task.JobID, entity.StatusFailed, nil, err.Error()); uerr != nil {
			p.discardDeleted(log, task.JobID, uerr)
			log.WithError(uerr).Error("failed to update status")
		}
		return errors.Wrapf(err, "job %s", task.JobID)
	}

	if _, err := p.repo.UpdateStatus(task.JobID, entity.StatusCompleted, outputs, ""); err != nil {
		p.discardDeleted(log, task.JobID, err)
		return errors.Wrap(err, "failed to update status")
	}

	log.WithFields(logrus.Fields{
		"count":    len(outputs),
		"duration": time.Since(start).String(),
	}).Info("completed job")
	return nil
}

// discardDeleted removes outputs written for a job that was deleted while it was rendering.
func (p *imageProcessor) discardDeleted(log logrus.FieldLogger, id string, err error) {
	if !errors.Is(err, database.ErrJobNotFound) {
		return
	}
	if derr := p.repo.DeleteOutputs(id); derr != nil {
		log.WithError(derr).Error("failed to remove outputs of deleted job")
		return
	}
	log.Info("job deleted while processing, outputs removed")
}

func (p *imageProcessor) render(ctx context.Context, task entity.AugmentationTask) ([]string, error) {
	job, err := p.repo.FindByID(task.JobID)
	if err != nil {
		return nil, err
	}
	if task.Count < 1 {
		return nil, errors.Wrapf(augment.ErrInvalidConfig, "count must be >= 1, got %d", task.Count)
	}

	format, err := codec.ParseFormat(task.Format)
	if err != nil {
		return nil, err
	}

	src, err := p.loadOriginal(job)
	if err != nil {
		return nil, err
	}

	aug, err := augment.New(task.Config, rand.New(rand.NewSource(task.Seed)))
	if err != nil {
		return nil, err
	}

	stem := task.SourceName
	if stem == "" {
		stem = Stem(job.Original)
	}
	outputs := make([]string, task.Count)
	ext := codec.Extension(format)
	err = aug.Generate(ctx, src, task.Count, p.workers, func(i int, img *augment.Image) error {
		var buf bytes.Buffer
		if err := codec.Encode(&buf, img, format); err != nil {
			return err
		}
		name := OutputName(stem, i, ext)
		if err := p.repo.SaveOutput(task.JobID, name, &buf); err != nil {
			return errors.Wrapf(augment.ErrWriteError, "%s: %v", name, err)
		}
		outputs[i] = name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outputs, nil
}

func (p *imageProcessor) loadOriginal(job *entity.Job) (*augment.Image, error) {
	reader, err := p.repo.OpenOriginal(job)
	if err != nil {
		return nil, errors.Wrapf(augment.ErrUnreadableFile, "original of job %s: %v", job.ID, err)
	}
	defer reader.Close()
	return codec.Decode(reader)
}

package service

import (
	"context"
	"io"
	"math/rand"
	"mime/multipart"

	"github.com/ds124wfegd/imgaug/internal/entity"
	"github.com/ds124wfegd/imgaug/internal/pkg/augment"
	"github.com/ds124wfegd/imgaug/internal/pkg/codec"
	"github.com/ds124wfegd/imgaug/internal/pkg/processor"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrImageNotReady is returned when an output is requested before the job completed.
	ErrImageNotReady = errors.New("image not ready")
	ErrImageNotFound = errors.New("image not found")
)

func (s *augmentService) Submit(ctx context.Context, id string, file *multipart.FileHeader, form entity.AugmentForm) (*entity.Job, error) {
	cfg, err := form.Config(s.opts.Defaults)
	if err != nil {
		return nil, err
	}
	if s.opts.MaxCount > 0 && form.Count > s.opts.MaxCount {
		return nil, errors.Wrapf(augment.ErrInvalidConfig, "count %d exceeds the limit of %d", form.Count, s.opts.MaxCount)
	}
	formatName := form.Format
	if formatName == "" {
		formatName = s.opts.DefaultFormat
	}
	format, err := codec.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	seed := rand.Int63()
	if form.Seed != nil {
		seed = *form.Seed
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	original, err := s.repo.SaveOriginal(id, file.Filename, src)
	if err != nil {
		return nil, err
	}

	job := &entity.Job{
		ID:         id,
		Status:     entity.StatusProcessing,
		SourceName: processor.Stem(file.Filename),
		Original:   original,
		Count:      form.Count,
		Seed:       seed,
		Format:     codec.Extension(format),
		Config:     cfg,
	}
	if err := s.repo.Save(job); err != nil {
		return nil, err
	}

	if err := s.producer.SendTask(ctx, job.Task()); err != nil {
		if _, uerr := s.repo.UpdateStatus(id, entity.StatusFailed, nil, err.Error()); uerr != nil {
			s.log.WithError(uerr).WithField("job_id", id).Error("failed to mark job as failed")
		}
		return nil, errors.Wrap(err, "enqueue task")
	}

	s.log.WithFields(logrus.Fields{
		"job_id": id,
		"count":  job.Count,
		"format": job.Format,
	}).Info("job submitted")
	return job, nil
}

func (s *augmentService) GetJob(id string) (*entity.Job, error) {
	return s.repo.FindByID(id)
}

func (s *augmentService) DeleteJob(id string) error {
	return s.repo.Delete(id)
}

// OpenImage returns the output with the given index and its file name.
func (s *augmentService) OpenImage(id string, index int) (io.ReadCloser, string, error) {
	job, err := s.repo.FindByID(id)
	if err != nil {
		return nil, "", err
	}
	if job.Status != entity.StatusCompleted {
		return nil, "", errors.Wrapf(ErrImageNotReady, "job %s is %s", id, job.Status)
	}
	if index < 0 || index >= len(job.Outputs) {
		return nil, "", errors.Wrapf(ErrImageNotFound, "job %s has no image %d", id, index)
	}
	name := job.Outputs[index]
	r, err := s.repo.OpenOutput(id, name)
	if err != nil {
		return nil, "", err
	}
	return r, name, nil
}

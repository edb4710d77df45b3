package service

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/ds124wfegd/imgaug/internal/database"
	"github.com/ds124wfegd/imgaug/internal/entity"
	"github.com/ds124wfegd/imgaug/internal/pkg/augment"
	"github.com/ds124wfegd/imgaug/internal/pkg/kafka"
	"github.com/sirupsen/logrus"
)

type AugmentService interface {
	Submit(ctx context.Context, id string, file *multipart.FileHeader, form entity.AugmentForm) (*entity.Job, error)
	GetJob(id string) (*entity.Job, error)
	DeleteJob(id string) error
	OpenImage(id string, index int) (io.ReadCloser, string, error)
}

// Options are the service-wide limits and defaults.
type Options struct {
	Defaults      augment.Config
	DefaultFormat string
	MaxCount      int
}

type augmentService struct {
	repo     database.JobRepository
	producer kafka.Producer
	opts     Options
	log      logrus.FieldLogger
}

func NewAugmentService(repo database.JobRepository, producer kafka.Producer, opts Options, log logrus.FieldLogger) AugmentService {
	return &augmentService{
		repo:     repo,
		producer: producer,
		opts:     opts,
		log:      log.WithField("component", "service"),
	}
}

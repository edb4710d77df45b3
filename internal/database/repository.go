package database

import (
	"io"
	"sync"

	"github.com/ds124wfegd/imgaug/internal/entity"
	"github.com/ds124wfegd/imgaug/internal/pkg/storage"
	"github.com/pkg/errors"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Save(job *entity.Job) error
	FindByID(id string) (*entity.Job, error)
	Delete(id string) error
	UpdateStatus(id, status string, outputs []string, errMsg string) (*entity.Job, error)
	SaveOriginal(id, filename string, file io.Reader) (string, error)
	OpenOriginal(job *entity.Job) (io.ReadCloser, error)
	SaveOutput(id, name string, file io.Reader) error
	OpenOutput(id, name string) (io.ReadCloser, error)
	// DeleteOutputs removes every rendered image of the job. Missing outputs are not an error.
	DeleteOutputs(id string) error
}

type fileJobRepository struct {
	storage storage.FileStorage
	// guards read-modify-write of metadata files
	mu sync.Mutex
}

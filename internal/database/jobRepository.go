package database

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path"
	"time"

	"github.com/ds124wfegd/imgaug/internal/entity"
	"github.com/ds124wfegd/imgaug/internal/pkg/storage"
	"github.com/pkg/errors"
)

const (
	metadataDir  = "metadata"
	originalDir  = "original"
	processedDir = "processed"
)

func NewJobRepository(storage storage.FileStorage) JobRepository {
	return &fileJobRepository{storage: storage}
}

func (r *fileJobRepository) Save(job *entity.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(job)
}

func (r *fileJobRepository) save(job *entity.Job) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	job.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return r.storage.Save(r.getJobMetadataPath(job.ID), bytes.NewReader(data))
}

func (r *fileJobRepository) FindByID(id string) (*entity.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(id)
}

func (r *fileJobRepository) find(id string) (*entity.Job, error) {
	reader, err := r.storage.Get(r.getJobMetadataPath(id))
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, storage.ErrInvalidPath) {
			return nil, errors.Wrapf(ErrJobNotFound, "id %q", id)
		}
		return nil, err
	}
	defer reader.Close()

	var job entity.Job
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&job); err != nil {
		return nil, errors.Wrapf(err, "decode job %s", id)
	}

	return &job, nil
}

// UpdateStatus changes the status, output list and error message of a stored job.
func (r *fileJobRepository) UpdateStatus(id, status string, outputs []string, errMsg string) (*entity.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, err := r.find(id)
	if err != nil {
		return nil, err
	}
	job.Status = status
	job.Outputs = outputs
	job.Error = errMsg
	if err := r.save(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *fileJobRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.storage.Delete(r.getJobMetadataPath(id)); err != nil {
		if os.IsNotExist(err) || errors.Is(err, storage.ErrInvalidPath) {
			return errors.Wrapf(ErrJobNotFound, "id %q", id)
		}
		return err
	}

	for _, dir := range []string{path.Join(processedDir, id), path.Join(originalDir, id)} {
		if err := r.storage.Delete(dir); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// SaveOriginal stores the uploaded file and returns its storage path.
func (r *fileJobRepository) SaveOriginal(id, filename string, file io.Reader) (string, error) {
	filePath := path.Join(originalDir, id, path.Base(filename))
	if err := r.storage.Save(filePath, file); err != nil {
		return "", err
	}
	return filePath, nil
}

func (r *fileJobRepository) OpenOriginal(job *entity.Job) (io.ReadCloser, error) {
	return r.storage.Get(job.Original)
}

func (r *fileJobRepository) SaveOutput(id, name string, file io.Reader) error {
	return r.storage.Save(path.Join(processedDir, id, path.Base(name)), file)
}

func (r *fileJobRepository) OpenOutput(id, name string) (io.ReadCloser, error) {
	return r.storage.Get(path.Join(processedDir, id, path.Base(name)))
}

func (r *fileJobRepository) DeleteOutputs(id string) error {
	if err := r.storage.Delete(path.Join(processedDir, id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (r *fileJobRepository) getJobMetadataPath(id string) string {
	return path.Join(metadataDir, id+".json")
}

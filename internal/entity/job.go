package entity

import (
	"time"

	"github.com/ds124wfegd/imgaug/internal/pkg/augment"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Job is the stored record of one augmentation request.
type Job struct {
	ID         string         `json:"id"`
	Status     string         `json:"status"`
	SourceName string         `json:"source_name"`
	Original   string         `json:"original"`
	Count      int            `json:"count"`
	Seed       int64          `json:"seed"`
	Format     string         `json:"format"`
	Config     augment.Config `json:"config"`
	Outputs    []string       `json:"outputs,omitempty"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// AugmentationTask is the message put on the queue for the processor.
type AugmentationTask struct {
	JobID      string         `json:"job_id"`
	SourceName string         `json:"source_name"`
	Count      int            `json:"count"`
	Seed       int64          `json:"seed"`
	Format     string         `json:"format"`
	Config     augment.Config `json:"config"`
}

func (j *Job) Task() AugmentationTask {
	return AugmentationTask{
		JobID:      j.ID,
		SourceName: j.SourceName,
		Count:      j.Count,
		Seed:       j.Seed,
		Format:     j.Format,
		Config:     j.Config,
	}
}

type UploadResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type JobResponse struct {
	ID      string         `json:"id"`
	Status  string         `json:"status"`
	Count   int            `json:"count"`
	Config  augment.Config `json:"config"`
	Images  []string       `json:"images,omitempty"`
	Error   string         `json:"error,omitempty"`
	Created time.Time      `json:"created_at"`
}

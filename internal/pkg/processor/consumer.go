package processor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ds124wfegd/imgaug/config"
	"github.com/ds124wfegd/imgaug/internal/entity"
	"github.com/ds124wfegd/imgaug/internal/pkg/augment"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// StartImageProcessorConsumer reads augmentation tasks from Kafka until ctx is cancelled.
// At most maxConcurrent tasks run at the same time.
func StartImageProcessorConsumer(ctx context.Context, cfg config.KafkaConfig, maxConcurrent int, processor ImageProcessor, log logrus.FieldLogger) {

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	defer reader.Close()

	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	slots := make(chan struct{}, maxConcurrent)

	log = log.WithFields(logrus.Fields{"component": "consumer", "topic": cfg.Topic})
	log.WithField("brokers", cfg.Brokers).Info("image processor consumer started")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.WithError(err).Error("error reading message from Kafka")
			continue
		}

		log.WithFields(logrus.Fields{
			"partition": msg.Partition,
			"offset":    msg.Offset,
		}).Debug("received message")

		task, err := decodeTask(msg.Value)
		if err != nil {
			log.WithError(err).Error("failed to parse task")
			continue
		}

		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
			// the next ReadMessage fails and ends the loop
			continue
		}
		go func(t entity.AugmentationTask) {
			defer func() { <-slots }()
			if err := processor.Process(ctx, t); err != nil {
				log.WithError(err).WithField("job_id", t.JobID).Error("processing failed")
			}
		}(task)
	}

	// wait for running tasks
	for i := 0; i < cap(slots); i++ {
		slots <- struct{}{}
	}
	log.Info("image processor consumer stopped")
}

func decodeTask(data []byte) (entity.AugmentationTask, error) {
	var task entity.AugmentationTask
	if err := json.Unmarshal(data, &task); err != nil {
		return task, err
	}
	if task.JobID == "" {
		return task, errors.New("task without job_id")
	}
	if task.Count < 1 {
		return task, errors.Wrapf(augment.ErrInvalidConfig, "task %s: count must be >= 1, got %d", task.JobID, task.Count)
	}
	return task, nil
}

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/ds124wfegd/imgaug/config"
	"github.com/ds124wfegd/imgaug/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Producer interface {
	SendTask(ctx context.Context, task entity.AugmentationTask) error
	Close() error
}

// TaskHandler runs a task in-process. It is used when no broker is reachable.
type TaskHandler func(ctx context.Context, task entity.AugmentationTask) error

type kafkaProducer struct {
	writer  *kafka.Writer
	timeout time.Duration
	log     logrus.FieldLogger
}

// NewProducer connects to the first configured broker and makes sure the topic exists.
// If the broker cannot be reached, tasks are handed to fallback instead.
func NewProducer(cfg config.KafkaConfig, fallback TaskHandler, log logrus.FieldLogger) Producer {
	log = log.WithField("component", "kafka-producer")
	if len(cfg.Brokers) == 0 {
		log.Warn("no Kafka brokers configured, processing tasks in-process")
		return NewInlineProducer(fallback, log)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		log.WithError(err).WithField("brokers", cfg.Brokers).Warn("Kafka connection failed, processing tasks in-process")
		return NewInlineProducer(fallback, log)
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		log.WithError(err).Info("could not create topic (might already exist)")
	} else {
		log.WithField("topic", cfg.Topic).Info("created topic")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	log.WithField("brokers", cfg.Brokers).Info("connected to Kafka")
	return &kafkaProducer{writer: writer, timeout: cfg.WriteTimeout, log: log}
}

func (p *kafkaProducer) SendTask(ctx context.Context, task entity.AugmentationTask) error {
	messageBytes, err := json.Marshal(task)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(task.JobID),
		Value: messageBytes,
		Time:  time.Now(),
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.WithError(err).WithField("job_id", task.JobID).Error("failed to write message to Kafka")
		return err
	}

	p.log.WithField("job_id", task.JobID).Debug("task sent")
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// ErrProducerClosed is returned by SendTask after Close.
var ErrProducerClosed = errors.New("producer closed")

// inlineProducer runs tasks on goroutines of the current process.
type inlineProducer struct {
	handle TaskHandler
	log    logrus.FieldLogger
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewInlineProducer(handle TaskHandler, log logrus.FieldLogger) Producer {
	ctx, cancel := context.WithCancel(context.Background())
	return &inlineProducer{
		handle: handle,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SendTask returns immediately; the task keeps running after the request context ends.
func (p *inlineProducer) SendTask(_ context.Context, task entity.AugmentationTask) error {
	if p.handle == nil {
		return errors.New("no in-process task handler")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrProducerClosed
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.handle(p.ctx, task); err != nil {
			p.log.WithError(err).WithField("job_id", task.JobID).Error("in-process task failed")
		}
	}()
	return nil
}

// Close cancels running tasks and waits for them to return.
func (p *inlineProducer) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	return nil
}

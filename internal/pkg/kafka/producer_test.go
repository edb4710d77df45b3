package kafka

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ds124wfegd/imgaug/config"
	"github.com/ds124wfegd/imgaug/internal/entity"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestInlineProducerRunsHandler(t *testing.T) {
	var mu sync.Mutex
	var got []string
	p := NewInlineProducer(func(_ context.Context, task entity.AugmentationTask) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, task.JobID)
		return nil
	}, quietLogger())

	require.NoError(t, p.SendTask(context.Background(), entity.AugmentationTask{JobID: "a"}))
	require.NoError(t, p.SendTask(context.Background(), entity.AugmentationTask{JobID: "b"}))
	require.NoError(t, p.Close())

	assert.ElementsMatch(t, []string{"a", "b"}, got)
	assert.Error(t, p.SendTask(context.Background(), entity.AugmentationTask{JobID: "c"}))
}

func TestInlineProducerCloseCancelsTasks(t *testing.T) {
	started := make(chan struct{})
	p := NewInlineProducer(func(ctx context.Context, _ entity.AugmentationTask) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, quietLogger())

	require.NoError(t, p.SendTask(context.Background(), entity.AugmentationTask{JobID: "slow"}))
	<-started
	assert.NoError(t, p.Close())
}

func TestNewProducerFallsBackWithoutBroker(t *testing.T) {
	called := make(chan string, 1)
	cfg := config.KafkaConfig{
		Brokers:     []string{"127.0.0.1:1"},
		Topic:       "test",
		DialTimeout: time.Second,
	}
	p := NewProducer(cfg, func(_ context.Context, task entity.AugmentationTask) error {
		called <- task.JobID
		return nil
	}, quietLogger())
	defer p.Close()

	_, ok := p.(*inlineProducer)
	require.True(t, ok, "expected in-process producer, got %T", p)

	require.NoError(t, p.SendTask(context.Background(), entity.AugmentationTask{JobID: "x"}))
	select {
	case id := <-called:
		assert.Equal(t, "x", id)
	case <-time.After(5 * time.Second):
		t.Fatal("handler not called")
	}
}

func TestNewProducerWithoutBrokers(t *testing.T) {
	p := NewProducer(config.KafkaConfig{}, nil, quietLogger())
	defer p.Close()
	assert.Error(t, p.SendTask(context.Background(), entity.AugmentationTask{JobID: "dropped"}))
}

func TestInlineProducerSendDuringClose(t *testing.T) {
	var handled atomic.Int64
	p := NewInlineProducer(func(_ context.Context, _ entity.AugmentationTask) error {
		handled.Add(1)
		return nil
	}, quietLogger())

	var accepted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.SendTask(context.Background(), entity.AugmentationTask{JobID: "t"})
			if err == nil {
				accepted.Add(1)
				return
			}
			assert.ErrorIs(t, err, ErrProducerClosed)
		}()
	}
	require.NoError(t, p.Close())
	wg.Wait()

	// Close waits for every accepted task
	assert.Equal(t, accepted.Load(), handled.Load())
	assert.ErrorIs(t, p.SendTask(context.Background(), entity.AugmentationTask{JobID: "late"}), ErrProducerClosed)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ds124wfegd/imgaug/config"
	"github.com/ds124wfegd/imgaug/internal/database"
	"github.com/ds124wfegd/imgaug/internal/pkg/processor"
	"github.com/ds124wfegd/imgaug/internal/pkg/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}
	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	log := config.NewLogger(cfg.Log, os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	repo := database.NewJobRepository(storage.NewFileStorage(cfg.Storage.BasePath))
	proc := processor.NewImageProcessor(repo, cfg.Processor.Workers, log)

	processor.StartImageProcessorConsumer(ctx, cfg.Kafka, cfg.Processor.MaxConcurrent, proc, log)
	log.Info("processor stopped")
}

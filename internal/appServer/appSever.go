// launching the server, job storage, kafka producer and inline processor
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/imgaug/config"
	"github.com/ds124wfegd/imgaug/internal/database"
	"github.com/ds124wfegd/imgaug/internal/pkg/codec"
	"github.com/ds124wfegd/imgaug/internal/pkg/kafka"
	"github.com/ds124wfegd/imgaug/internal/pkg/processor"
	"github.com/ds124wfegd/imgaug/internal/pkg/storage"
	"github.com/ds124wfegd/imgaug/internal/service"
	"github.com/ds124wfegd/imgaug/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler, logger *logrus.Logger) error {
	s.httpServer = &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12}, // ban on outdate TLS certificate
		ErrorLog:          log.New(logger.WriterLevel(logrus.ErrorLevel), "", 0),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// App holds the wired components behind the HTTP API.
type App struct {
	Router   *gin.Engine
	Producer kafka.Producer
	Log      *logrus.Logger
}

// NewApp wires storage, repository, processor, producer and routes from cfg.
func NewApp(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	defaults, err := cfg.Augment.ToAugment()
	if err != nil {
		return nil, err
	}
	if _, err := codec.ParseFormat(cfg.Augment.Format); err != nil {
		return nil, err
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	fileStorage := storage.NewFileStorage(cfg.Storage.BasePath)
	jobRepo := database.NewJobRepository(fileStorage)
	imgProcessor := processor.NewImageProcessor(jobRepo, cfg.Processor.Workers, logger)
	producer := kafka.NewProducer(cfg.Kafka, imgProcessor.Process, logger)

	augService := service.NewAugmentService(jobRepo, producer, service.Options{
		Defaults:      defaults,
		DefaultFormat: cfg.Augment.Format,
		MaxCount:      cfg.Processor.MaxCount,
	}, logger)
	jobHandler := transport.NewJobHandler(augService, logger)

	return &App{
		Router:   transport.InitRoutes(jobHandler, logger, cfg.Server.MaxUploadBytes),
		Producer: producer,
		Log:      logger,
	}, nil
}

func NewServer(cfg *config.Config) error {
	logger := config.NewLogger(cfg.Log, os.Stdout)

	app, err := NewApp(cfg, logger)
	if err != nil {
		return errors.Wrap(err, "init app")
	}
	defer func() {
		if err := app.Producer.Close(); err != nil {
			logger.WithError(err).Error("close producer")
		}
	}()

	srv := new(Server)
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Run(cfg, app.Router, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	logger.WithField("addr", cfg.GetServerAddress()).Info("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	select {
	case <-quit:
	case err := <-serveErr:
		return errors.Wrap(err, "error occured while running http server")
	}

	logger.Info("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("error occured on server shutting down")
	}
	return nil
}

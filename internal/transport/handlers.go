package transport

import (
	"net/http"

	"github.com/ds124wfegd/imgaug/internal/database"
	"github.com/ds124wfegd/imgaug/internal/pkg/augment"
	"github.com/ds124wfegd/imgaug/internal/pkg/storage"
	"github.com/ds124wfegd/imgaug/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type JobHandler struct {
	service service.AugmentService
	log     logrus.FieldLogger
}

func NewJobHandler(service service.AugmentService, log logrus.FieldLogger) *JobHandler {
	return &JobHandler{service: service, log: log.WithField("component", "http")}
}

// writeError maps error kinds onto HTTP status codes.
func (h *JobHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, augment.ErrInvalidConfig),
		errors.Is(err, augment.ErrInvalidImage),
		errors.Is(err, augment.ErrUnreadableFile),
		errors.Is(err, storage.ErrInvalidPath):
		status = http.StatusBadRequest
	case errors.Is(err, database.ErrJobNotFound),
		errors.Is(err, service.ErrImageNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrImageNotReady):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

package transport

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/ds124wfegd/imgaug/internal/entity"
	"github.com/ds124wfegd/imgaug/internal/pkg/codec"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *JobHandler) Augment(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	if !codec.IsSupported(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image type. Supported: jpg, jpeg, png, gif, tif, tiff, bmp"})
		return
	}

	var form entity.AugmentForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := uuid.New().String()

	job, err := h.service.Submit(c.Request.Context(), id, file, form)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, entity.UploadResponse{
		ID:     job.ID,
		Status: job.Status,
		Count:  job.Count,
	})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	id := c.Param("id")

	job, err := h.service.GetJob(id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response := entity.JobResponse{
		ID:      job.ID,
		Status:  job.Status,
		Count:   job.Count,
		Config:  job.Config,
		Error:   job.Error,
		Created: job.CreatedAt,
	}

	if job.Status == entity.StatusCompleted {
		for i := range job.Outputs {
			response.Images = append(response.Images, fmt.Sprintf("/jobs/%s/images/%d", job.ID, i))
		}
	}

	c.JSON(http.StatusOK, response)
}

func (h *JobHandler) GetImage(c *gin.Context) {
	id := c.Param("id")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image index must be an integer"})
		return
	}

	reader, name, err := h.service.OpenImage(id, index)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf(`inline; filename="%s"`, name),
	})
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.DeleteJob(id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}

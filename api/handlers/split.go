package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rotostampa/pdf-handler/internal/service/split"
	"github.com/rotostampa/pdf-handler/pkg/logger"
	"github.com/rotostampa/pdf-handler/pkg/queue"
	"github.com/rotostampa/pdf-handler/pkg/splitpdf"
)

// SplitHandler exposes the split service over HTTP.
type SplitHandler struct {
	service split.Service
	log     logger.Logger
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SplitResponse carries synchronous split results; Data marshals as base64.
type SplitResponse struct {
	PageCount int                   `json:"pageCount"`
	Results   []splitpdf.PageResult `json:"results"`
}

// URLRequest is the body for the URL-based endpoints.
type URLRequest struct {
	URL    string  `json:"url" binding:"required"`
	Format string  `json:"format"`
	DPI    float64 `json:"dpi"`
}

func NewSplitHandler(service split.Service, log logger.Logger) *SplitHandler {
	return &SplitHandler{service: service, log: log}
}

// SplitDocument splits an uploaded document synchronously.
func (h *SplitHandler) SplitDocument(c *gin.Context) {
	data, _, ok := h.readUpload(c)
	if !ok {
		return
	}
	format, dpi, ok := h.readOptions(c)
	if !ok {
		return
	}

	results, err := h.service.SplitSync(c.Request.Context(), data, format, dpi)
	if err != nil {
		h.handleError(c, "split failed", err)
		return
	}
	c.JSON(http.StatusOK, SplitResponse{PageCount: len(results), Results: results})
}

// SplitFromURL fetches a document by URL and splits it synchronously.
func (h *SplitHandler) SplitFromURL(c *gin.Context) {
	var req URLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Format == "" {
		req.Format = "pdf"
	}

	results, err := h.service.SplitURL(c.Request.Context(), req.URL, req.Format, req.DPI)
	if err != nil {
		h.handleError(c, "split from url failed", err)
		return
	}
	c.JSON(http.StatusOK, SplitResponse{PageCount: len(results), Results: results})
}

// CreateJob submits an async split job for an uploaded document.
func (h *SplitHandler) CreateJob(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid file upload", err)
		return
	}
	defer file.Close()

	format, dpi, ok := h.readOptions(c)
	if !ok {
		return
	}

	job, err := h.service.SubmitJob(c.Request.Context(), file, header.Filename, format, dpi)
	if err != nil {
		h.handleError(c, "submit job failed", err)
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// CreateJobFromURL submits an async split job for a remote document.
func (h *SplitHandler) CreateJobFromURL(c *gin.Context) {
	var req URLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Format == "" {
		req.Format = "pdf"
	}

	job, err := h.service.SubmitURLJob(c.Request.Context(), req.URL, req.Format, req.DPI)
	if err != nil {
		h.handleError(c, "submit job from url failed", err)
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// GetJob reports job status.
func (h *SplitHandler) GetJob(c *gin.Context) {
	job, err := h.service.GetJob(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		h.handleError(c, "get job failed", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DownloadPage streams one completed page artifact.
func (h *SplitHandler) DownloadPage(c *gin.Context) {
	pageNumber, err := strconv.Atoi(c.Param("pageNo"))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid page number", err)
		return
	}

	rc, contentType, err := h.service.OpenPage(c.Request.Context(), c.Param("jobId"), pageNumber)
	if err != nil {
		h.handleError(c, "download page failed", err)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}

// CancelJob cancels a still-pending job.
func (h *SplitHandler) CancelJob(c *gin.Context) {
	jobID := c.Param("jobId")
	if err := h.service.CancelJob(c.Request.Context(), jobID); err != nil {
		h.handleError(c, "cancel job failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobId": jobID, "status": "cancelled"})
}

// Metadata inspects an uploaded document without splitting it.
func (h *SplitHandler) Metadata(c *gin.Context) {
	data, _, ok := h.readUpload(c)
	if !ok {
		return
	}
	md, err := h.service.Metadata(c.Request.Context(), data)
	if err != nil {
		h.handleError(c, "metadata failed", err)
		return
	}
	c.JSON(http.StatusOK, md)
}

func (h *SplitHandler) readUpload(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid file upload", err)
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "reading upload failed", err)
		return nil, "", false
	}
	return data, header.Filename, true
}

func (h *SplitHandler) readOptions(c *gin.Context) (string, float64, bool) {
	format := c.DefaultPostForm("format", "pdf")
	dpiStr := c.DefaultPostForm("dpi", "0")
	dpi, err := strconv.ParseFloat(dpiStr, 64)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid dpi", err)
		return "", 0, false
	}
	return format, dpi, true
}

// handleError maps core errors onto HTTP statuses.
func (h *SplitHandler) handleError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, splitpdf.ErrParse),
		errors.Is(err, splitpdf.ErrInvalidFormat),
		errors.Is(err, splitpdf.ErrInvalidDimensions):
		status = http.StatusBadRequest
	case errors.Is(err, splitpdf.ErrPageNotFound),
		errors.Is(err, queue.ErrJobNotFound):
		status = http.StatusNotFound
	}
	h.respondError(c, status, message, err)
}

func (h *SplitHandler) respondError(c *gin.Context, status int, message string, err error) {
	h.log.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)
	resp := ErrorResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

// Package split orchestrates document splitting for the HTTP API and the
// async worker: synchronous splits for small documents, storage-backed jobs
// for everything else.
package split

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/rotostampa/pdf-handler/internal/models"
	"github.com/rotostampa/pdf-handler/pkg/fetcher"
	"github.com/rotostampa/pdf-handler/pkg/logger"
	"github.com/rotostampa/pdf-handler/pkg/queue"
	"github.com/rotostampa/pdf-handler/pkg/splitpdf"
	"github.com/rotostampa/pdf-handler/pkg/storage"
)

// Service is the split orchestration surface.
type Service interface {
	// SplitSync splits in-process and returns every page artifact.
	SplitSync(ctx context.Context, data []byte, format string, dpi float64) ([]splitpdf.PageResult, error)
	// SplitURL fetches the document first, then splits synchronously.
	SplitURL(ctx context.Context, url, format string, dpi float64) ([]splitpdf.PageResult, error)
	// SubmitJob stores the input and enqueues an async split.
	SubmitJob(ctx context.Context, r io.Reader, filename, format string, dpi float64) (*models.SplitJob, error)
	// SubmitURLJob fetches the document, then submits it as a job.
	SubmitURLJob(ctx context.Context, url, format string, dpi float64) (*models.SplitJob, error)
	// HandleJob executes one queued job; called by the worker.
	HandleJob(ctx context.Context, jobID string) error
	// GetJob reports job status.
	GetJob(ctx context.Context, id string) (*models.SplitJob, error)
	// OpenPage opens one completed page artifact and reports its MIME type.
	OpenPage(ctx context.Context, jobID string, pageNumber int) (io.ReadCloser, string, error)
	// CancelJob cancels a still-pending job.
	CancelJob(ctx context.Context, id string) error
	// Metadata inspects a document without splitting it.
	Metadata(ctx context.Context, data []byte) (splitpdf.Metadata, error)
	// CleanupExpired deletes job artifacts older than the retention window.
	CleanupExpired(ctx context.Context) error
}

// Config bounds service behavior.
type Config struct {
	MaxFileSize  int64
	MaxSyncPages int
	DefaultDPI   float64
	Workers      int
	FetchLimit   int64
	RetainFor    time.Duration
}

func defaultConfig() *Config {
	return &Config{
		MaxFileSize:  50 << 20,
		MaxSyncPages: 50,
		DefaultDPI:   splitpdf.DefaultDPI,
		Workers:      4,
		FetchLimit:   50 << 20,
		RetainFor:    24 * time.Hour,
	}
}

type service struct {
	queue queue.Queue
	store storage.Storage
	fetch *fetcher.Client
	log   logger.Logger
	cfg   *Config
}

// NewService wires the orchestration layer. Zero cfg fields fall back to defaults.
func NewService(q queue.Queue, store storage.Storage, log logger.Logger, cfg *Config) Service {
	if cfg == nil {
		cfg = defaultConfig()
	}
	def := defaultConfig()
	if cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = def.MaxFileSize
	}
	if cfg.MaxSyncPages == 0 {
		cfg.MaxSyncPages = def.MaxSyncPages
	}
	if cfg.DefaultDPI == 0 {
		cfg.DefaultDPI = def.DefaultDPI
	}
	if cfg.Workers == 0 {
		cfg.Workers = def.Workers
	}
	if cfg.FetchLimit == 0 {
		cfg.FetchLimit = def.FetchLimit
	}
	if cfg.RetainFor == 0 {
		cfg.RetainFor = def.RetainFor
	}
	return &service{
		queue: q,
		store: store,
		fetch: fetcher.New(time.Minute, cfg.FetchLimit),
		log:   log,
		cfg:   cfg,
	}
}

// options normalizes user input shared by every entry point.
func (s *service) options(format string, dpi float64) (splitpdf.Format, float64, error) {
	f, err := splitpdf.ParseFormat(format)
	if err != nil {
		return 0, 0, err
	}
	if dpi == 0 {
		dpi = s.cfg.DefaultDPI
	}
	return f, dpi, nil
}

func (s *service) SplitSync(ctx context.Context, data []byte, format string, dpi float64) ([]splitpdf.PageResult, error) {
	if s.cfg.MaxFileSize > 0 && int64(len(data)) > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("document of %d bytes exceeds the %d byte limit", len(data), s.cfg.MaxFileSize)
	}
	f, dpi, err := s.options(format, dpi)
	if err != nil {
		return nil, err
	}

	// Large documents go through the jobs API. A metadata probe failure is
	// left for the split itself to report.
	if s.cfg.MaxSyncPages > 0 {
		if md, err := splitpdf.ExtractMetadata(data); err == nil && md.Pages > s.cfg.MaxSyncPages {
			return nil, fmt.Errorf("document has %d pages, synchronous splits are capped at %d; submit a job instead",
				md.Pages, s.cfg.MaxSyncPages)
		}
	}

	s.log.Info("splitting document",
		logger.String("format", f.String()),
		logger.Float64("dpi", dpi),
		logger.Int("bytes", len(data)),
	)
	return splitpdf.SplitParallel(ctx, data, f,
		splitpdf.WithDPI(dpi),
		splitpdf.WithWorkers(s.cfg.Workers),
	)
}

func (s *service) SplitURL(ctx context.Context, url, format string, dpi float64) ([]splitpdf.PageResult, error) {
	data, err := s.fetch.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.SplitSync(ctx, data, format, dpi)
}

func (s *service) SubmitJob(ctx context.Context, r io.Reader, filename, format string, dpi float64) (*models.SplitJob, error) {
	f, dpi, err := s.options(format, dpi)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	inputKey := fmt.Sprintf("jobs/%s/input.pdf", id)

	body := io.Reader(r)
	if s.cfg.MaxFileSize > 0 {
		body = io.LimitReader(r, s.cfg.MaxFileSize)
	}
	if err := s.store.Store(ctx, inputKey, "application/pdf", body); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &models.SplitJob{
		ID:           id,
		Status:       models.StatusPending,
		Filename:     filename,
		Format:       f.String(),
		DPI:          dpi,
		InputKey:     inputKey,
		OutputPrefix: fmt.Sprintf("jobs/%s/pages", id),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return nil, err
	}

	s.log.Info("split job submitted",
		logger.String("jobId", job.ID),
		logger.String("filename", filename),
		logger.String("format", job.Format),
	)
	return job, nil
}

func (s *service) SubmitURLJob(ctx context.Context, url, format string, dpi float64) (*models.SplitJob, error) {
	data, err := s.fetch.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.SubmitJob(ctx, readerOf(data), url, format, dpi)
}

func (s *service) HandleJob(ctx context.Context, jobID string) error {
	job, err := s.queue.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status == models.StatusCancelled {
		s.log.Info("skipping cancelled job", logger.String("jobId", jobID))
		return nil
	}

	job.Status = models.StatusRunning
	if err := s.queue.SaveJob(ctx, job); err != nil {
		return err
	}

	results, err := s.runJob(ctx, job)
	if err != nil {
		job.Status = models.StatusFailed
		job.Error = err.Error()
		if saveErr := s.queue.SaveJob(ctx, job); saveErr != nil {
			s.log.Error("saving failed job status", logger.String("jobId", jobID), logger.Error(saveErr))
		}
		return err
	}

	job.Status = models.StatusCompleted
	job.PageCount = len(results)
	if len(results) > 0 {
		job.FormatTag = results[0].FormatTag
	}
	job.Error = ""
	if err := s.queue.SaveJob(ctx, job); err != nil {
		return err
	}

	s.log.Info("split job completed",
		logger.String("jobId", jobID),
		logger.Int("pages", job.PageCount),
	)
	return nil
}

// runJob loads the input, splits it and stores one object per page.
func (s *service) runJob(ctx context.Context, job *models.SplitJob) ([]splitpdf.PageResult, error) {
	rc, err := s.store.Get(ctx, job.InputKey)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read job input: %w", err)
	}

	f, err := splitpdf.ParseFormat(job.Format)
	if err != nil {
		return nil, err
	}
	results, err := splitpdf.SplitParallel(ctx, data, f,
		splitpdf.WithDPI(job.DPI),
		splitpdf.WithWorkers(s.cfg.Workers),
	)
	if err != nil {
		return nil, err
	}

	for _, res := range results {
		key := pageKey(job.OutputPrefix, res.PageNumber, f.Ext())
		if err := s.store.Store(ctx, key, res.FormatTag, readerOf(res.Data)); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *service) GetJob(ctx context.Context, id string) (*models.SplitJob, error) {
	return s.queue.GetJob(ctx, id)
}

func (s *service) OpenPage(ctx context.Context, jobID string, pageNumber int) (io.ReadCloser, string, error) {
	job, err := s.queue.GetJob(ctx, jobID)
	if err != nil {
		return nil, "", err
	}
	if job.Status != models.StatusCompleted {
		return nil, "", fmt.Errorf("job %s is %s, pages are available once completed", jobID, job.Status)
	}
	if pageNumber < 1 || pageNumber > job.PageCount {
		return nil, "", fmt.Errorf("%w: job %s has pages 1..%d, requested %d",
			splitpdf.ErrPageNotFound, jobID, job.PageCount, pageNumber)
	}

	f, err := splitpdf.ParseFormat(job.Format)
	if err != nil {
		return nil, "", err
	}
	rc, err := s.store.Get(ctx, pageKey(job.OutputPrefix, pageNumber, f.Ext()))
	if err != nil {
		return nil, "", err
	}
	return rc, job.FormatTag, nil
}

func (s *service) CancelJob(ctx context.Context, id string) error {
	return s.queue.CancelJob(ctx, id)
}

func (s *service) Metadata(ctx context.Context, data []byte) (splitpdf.Metadata, error) {
	return splitpdf.ExtractMetadata(data)
}

// CleanupExpired removes stored inputs and page artifacts whose retention
// window has passed. Job status records in redis expire on their own TTL;
// this keeps the object store in step with them.
func (s *service) CleanupExpired(ctx context.Context) error {
	threshold := time.Now().Add(-s.cfg.RetainFor)
	if err := s.store.CleanupBefore(ctx, threshold); err != nil {
		return fmt.Errorf("cleanup expired artifacts: %w", err)
	}
	s.log.Info("expired artifacts cleaned", logger.Time("threshold", threshold))
	return nil
}

func pageKey(prefix string, pageNumber int, ext string) string {
	return fmt.Sprintf("%s/%04d%s", prefix, pageNumber, ext)
}

func readerOf(data []byte) io.Reader { return bytes.NewReader(data) }

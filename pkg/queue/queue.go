// Package queue enqueues split jobs on asynq and keeps their status in
// redis so the API can answer polling requests after the worker finishes.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/rotostampa/pdf-handler/internal/models"
)

// TaskTypeSplit is the asynq task type handled by the split worker.
const TaskTypeSplit = "pdf:split"

// ErrJobNotFound reports an unknown or expired job ID.
var ErrJobNotFound = errors.New("split job not found")

// SplitTask is the asynq payload; the job record itself lives in redis.
type SplitTask struct {
	JobID string `json:"jobId"`
}

// Queue is the job transport and status store used by the service layer.
type Queue interface {
	Enqueue(ctx context.Context, job *models.SplitJob) error
	SaveJob(ctx context.Context, job *models.SplitJob) error
	GetJob(ctx context.Context, id string) (*models.SplitJob, error)
	CancelJob(ctx context.Context, id string) error
}

// Config holds queue connection and retry settings.
type Config struct {
	RedisAddr string
	RedisDB   int
	MaxRetry  int
	Timeout   time.Duration
	JobTTL    time.Duration
}

// AsynqQueue implements Queue on asynq plus a redis status record per job.
type AsynqQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	redis     *redis.Client
	maxRetry  int
	timeout   time.Duration
	ttl       time.Duration
}

// New connects the asynq client and the redis status store.
func New(cfg *Config) (*AsynqQueue, error) {
	if cfg.MaxRetry == 0 {
		cfg.MaxRetry = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Minute
	}
	if cfg.JobTTL == 0 {
		cfg.JobTTL = 24 * time.Hour
	}

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB}
	return &AsynqQueue{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		redis:     redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB}),
		maxRetry:  cfg.MaxRetry,
		timeout:   cfg.Timeout,
		ttl:       cfg.JobTTL,
	}, nil
}

func jobKey(id string) string { return fmt.Sprintf("split_job:%s", id) }

// Enqueue persists the pending job record and hands the task to asynq.
func (q *AsynqQueue) Enqueue(ctx context.Context, job *models.SplitJob) error {
	if err := q.SaveJob(ctx, job); err != nil {
		return err
	}

	payload, err := json.Marshal(SplitTask{JobID: job.ID})
	if err != nil {
		return fmt.Errorf("marshal split task: %w", err)
	}
	task := asynq.NewTask(TaskTypeSplit, payload,
		asynq.TaskID(job.ID),
		asynq.MaxRetry(q.maxRetry),
		asynq.Timeout(q.timeout),
		asynq.Queue("default"),
	)
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue split task: %w", err)
	}
	return nil
}

// SaveJob writes the job record with the queue's TTL.
func (q *AsynqQueue) SaveJob(ctx context.Context, job *models.SplitJob) error {
	job.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", job.ID, err)
	}
	if err := q.redis.Set(ctx, jobKey(job.ID), data, q.ttl).Err(); err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	return nil
}

// GetJob loads the job record.
func (q *AsynqQueue) GetJob(ctx context.Context, id string) (*models.SplitJob, error) {
	data, err := q.redis.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load job %s: %w", id, err)
	}
	var job models.SplitJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job %s: %w", id, err)
	}
	return &job, nil
}

// CancelJob removes a still-queued task and marks the record cancelled.
// A job the worker already picked up runs to completion or failure.
func (q *AsynqQueue) CancelJob(ctx context.Context, id string) error {
	job, err := q.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if job.Status != models.StatusPending {
		return fmt.Errorf("job %s is %s, only pending jobs can be cancelled", id, job.Status)
	}
	if err := q.inspector.DeleteTask("default", id); err != nil {
		return fmt.Errorf("cancel job %s: %w", id, err)
	}
	job.Status = models.StatusCancelled
	return q.SaveJob(ctx, job)
}

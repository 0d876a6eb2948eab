package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/rotostampa/pdf-handler/internal/service/split"
	"github.com/rotostampa/pdf-handler/pkg/logger"
	"github.com/rotostampa/pdf-handler/pkg/queue"
)

// SplitWorker consumes pdf:split tasks and runs them through the split
// service.
type SplitWorker struct {
	BaseWorker
	service split.Service
}

// NewSplitWorker builds a worker bound to the given queue settings.
func NewSplitWorker(cfg *Config, svc split.Service, log logger.Logger) (*SplitWorker, error) {
	queues := cfg.Queues
	if len(queues) == 0 {
		queues = map[string]int{"default": 1}
	}
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      queues,
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Minute
			},
		},
	)

	w := &SplitWorker{
		BaseWorker: BaseWorker{
			server: server,
			mux:    asynq.NewServeMux(),
			log:    log,
		},
		service: svc,
	}
	w.mux.HandleFunc(queue.TaskTypeSplit, w.handleSplit)
	return w, nil
}

func (w *SplitWorker) handleSplit(ctx context.Context, t *asynq.Task) error {
	var task queue.SplitTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.log.Error("unmarshal split task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("unmarshal split task: %w", err)
	}
	if task.JobID == "" {
		return fmt.Errorf("split task without job id")
	}

	w.log.Info("processing split job", logger.String("jobId", task.JobID))
	if err := w.service.HandleJob(ctx, task.JobID); err != nil {
		w.log.Error("split job failed",
			logger.String("jobId", task.JobID),
			logger.Error(err),
		)
		return err
	}
	return nil
}

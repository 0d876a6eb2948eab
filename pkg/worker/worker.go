// Package worker hosts the asynq consumers that execute split jobs.
package worker

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/rotostampa/pdf-handler/pkg/logger"
)

// Worker is a long-running task consumer.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
}

// Config holds the worker's queue connection settings.
type Config struct {
	RedisAddr   string
	RedisDB     int
	Concurrency int
	Queues      map[string]int
}

// BaseWorker carries the asynq server plumbing shared by concrete workers.
type BaseWorker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    logger.Logger
}

// Start runs the server until the context is cancelled.
func (w *BaseWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.log.Error("worker server stopped", logger.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

// Stop shuts the server down, letting in-flight tasks finish.
func (w *BaseWorker) Stop() error {
	w.server.Stop()
	w.server.Shutdown()
	return nil
}

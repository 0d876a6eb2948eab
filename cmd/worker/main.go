package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotostampa/pdf-handler/config"
	"github.com/rotostampa/pdf-handler/internal/service/split"
	"github.com/rotostampa/pdf-handler/pkg/logger"
	"github.com/rotostampa/pdf-handler/pkg/queue"
	"github.com/rotostampa/pdf-handler/pkg/storage"
	"github.com/rotostampa/pdf-handler/pkg/worker"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	srvCfg := config.GetServerConfig()
	redisCfg := config.GetRedisConfig()

	store, err := storage.New(storage.Type(srvCfg.StorageType), log)
	if err != nil {
		log.Error("failed to init storage", logger.Error(err))
		os.Exit(1)
	}

	q, err := queue.New(&queue.Config{
		RedisAddr: redisCfg.Addr,
		RedisDB:   redisCfg.DB,
	})
	if err != nil {
		log.Error("failed to init queue", logger.Error(err))
		os.Exit(1)
	}

	svc := split.NewService(q, store, log.Named("split"), &split.Config{
		MaxFileSize: int64(srvCfg.MaxUploadMB) << 20,
		Workers:     srvCfg.SplitWorkers,
	})

	workerCfg := &worker.Config{
		RedisAddr:   redisCfg.Addr,
		RedisDB:     redisCfg.DB,
		Concurrency: redisCfg.Concurrency,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
	}

	splitWorker, err := worker.NewSplitWorker(workerCfg, svc, log.Named("worker"))
	if err != nil {
		log.Error("failed to create worker", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := splitWorker.Start(ctx); err != nil {
		log.Error("failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	// Sweep expired inputs and page artifacts alongside the redis TTL.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := svc.CleanupExpired(ctx); err != nil {
					log.Error("artifact cleanup failed", logger.Error(err))
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down worker")
	splitWorker.Stop()
	log.Info("worker stopped")
}

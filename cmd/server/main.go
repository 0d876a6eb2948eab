package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rotostampa/pdf-handler/api/handlers"
	"github.com/rotostampa/pdf-handler/api/routes"
	"github.com/rotostampa/pdf-handler/config"
	"github.com/rotostampa/pdf-handler/internal/service/split"
	"github.com/rotostampa/pdf-handler/pkg/logger"
	"github.com/rotostampa/pdf-handler/pkg/queue"
	"github.com/rotostampa/pdf-handler/pkg/storage"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/server.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	srvCfg := config.GetServerConfig()
	redisCfg := config.GetRedisConfig()

	store, err := storage.New(storage.Type(srvCfg.StorageType), log)
	if err != nil {
		log.Fatal("failed to init storage", logger.Error(err))
	}

	q, err := queue.New(&queue.Config{
		RedisAddr: redisCfg.Addr,
		RedisDB:   redisCfg.DB,
	})
	if err != nil {
		log.Fatal("failed to init queue", logger.Error(err))
	}

	svc := split.NewService(q, store, log.Named("split"), &split.Config{
		MaxFileSize:  int64(srvCfg.MaxUploadMB) << 20,
		MaxSyncPages: srvCfg.SyncPageLimit,
		Workers:      srvCfg.SplitWorkers,
		FetchLimit:   int64(srvCfg.MaxUploadMB) << 20,
	})

	h := handlers.New(svc, log)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.Setup(r, h)

	srv := &http.Server{
		Addr:    srvCfg.Addr,
		Handler: r,
	}

	go func() {
		log.Info("server starting", logger.String("addr", srvCfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", logger.Error(err))
	}
}

package config

import "sync"

var (
	serverOnce   sync.Once
	serverConfig *ServerConfig
)

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr          string
	MaxUploadMB   int
	SyncPageLimit int // documents above this page count must go through jobs
	StorageType   string
	SplitWorkers  int
}

func GetServerConfig() *ServerConfig {
	serverOnce.Do(func() {
		loadEnv()
		serverConfig = &ServerConfig{
			Addr:          getenv("SERVER_ADDR", ":8080"),
			MaxUploadMB:   getenvInt("MAX_UPLOAD_MB", 50),
			SyncPageLimit: getenvInt("SYNC_PAGE_LIMIT", 50),
			StorageType:   getenv("STORAGE_TYPE", "minio"),
			SplitWorkers:  getenvInt("SPLIT_WORKERS", 4),
		}
	})
	return serverConfig
}

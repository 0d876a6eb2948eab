package config

import "sync"

var (
	minioOnce   sync.Once
	minioConfig *MinioConfig
)

// MinioConfig holds the MinIO object storage settings.
type MinioConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	Region     string
	BucketName string
}

func GetMinioConfig() *MinioConfig {
	minioOnce.Do(func() {
		loadEnv()
		minioConfig = &MinioConfig{
			Endpoint:   getenv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:  getenv("MINIO_ACCESS_KEY", ""),
			SecretKey:  getenv("MINIO_SECRET_KEY", ""),
			UseSSL:     getenvBool("MINIO_USE_SSL", false),
			Region:     getenv("MINIO_REGION", ""),
			BucketName: getenv("MINIO_BUCKET_NAME", "pdf-handler"),
		}
	})
	return minioConfig
}

package config

import "sync"

var (
	s3Once   sync.Once
	s3Config *S3Config
)

// S3Config holds the AWS S3 object storage settings.
type S3Config struct {
	BucketName string
	Region     string
	AccessKey  string
	SecretKey  string
}

func GetS3Config() *S3Config {
	s3Once.Do(func() {
		loadEnv()
		s3Config = &S3Config{
			BucketName: getenv("AWS_S3_BUCKET_NAME", "pdf-handler"),
			Region:     getenv("AWS_REGION", "us-east-1"),
			AccessKey:  getenv("AWS_ACCESS_KEY", ""),
			SecretKey:  getenv("AWS_SECRET_KEY", ""),
		}
	})
	return s3Config
}

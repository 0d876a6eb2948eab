package config

import "sync"

var (
	redisOnce   sync.Once
	redisConfig *RedisConfig
)

// RedisConfig holds queue and job-status store settings.
type RedisConfig struct {
	Addr        string
	DB          int
	Concurrency int
}

func GetRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		loadEnv()
		redisConfig = &RedisConfig{
			Addr:        getenv("REDIS_ADDR", "localhost:6379"),
			DB:          getenvInt("REDIS_DB", 0),
			Concurrency: getenvInt("WORKER_CONCURRENCY", 10),
		}
	})
	return redisConfig
}

package config

import (
	"os"
	"sync"
	"time"
)

type RedisConfig struct {
	URL     string
	LockTTL time.Duration
}

var (
	redisConfig *RedisConfig
	redisOnce   sync.Once
)

// LoadRedisConfig reads the Redis settings. An empty URL selects the
// in-process profile lock.
func LoadRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		redisConfig = &RedisConfig{
			URL:     os.Getenv("REDIS_URL"),
			LockTTL: time.Duration(getInt("LOCK_TTL_SECONDS", 120)) * time.Second,
		}
	})
	return redisConfig
}

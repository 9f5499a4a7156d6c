// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"studyspace/config"

	"github.com/go-redis/redis/v8"
)

// LockClient is the Redis client backing booking leases.
var LockClient *redis.Client

// InitLockClient initializes the Redis client for booking leases (using REDIS_LOCK_DB).
func InitLockClient() {
	LockClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLockDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := LockClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Locks): %v", err)
	}
}

// GetLockClient returns the Redis client for booking leases.
func GetLockClient() *redis.Client {
	if LockClient == nil {
		InitLockClient()
	}
	return LockClient
}

package cache

import (
	"context"
	"time"

	"meetlink_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// InitRedis подключает клиент; при недоступном Redis приложение
// продолжает работать без кеша
func InitRedis(addr, password string, db int) {
	if addr == "" {
		logger.Info("Redis address not configured, cache disabled")
		return
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis connection failed, continuing without cache", "error", err)
		Client = nil
	} else {
		logger.Info("Redis connected successfully", "addr", addr)
	}
}

func GetClient() *redis.Client {
	return Client
}

// SetClient подменяет клиент в тестах (miniredis)
func SetClient(c *redis.Client) {
	Client = c
}

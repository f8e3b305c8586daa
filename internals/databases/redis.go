package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"trainingku_backend/internals/configs"
)

var Redis *redis.Client

// ConnectRedis opsional: kalau REDIS_URL kosong, broadcaster jatuh ke hub in-process.
func ConnectRedis() {
	url := configs.App.RedisURL
	if url == "" {
		log.Println("⚠️ REDIS_URL kosong, realtime pakai hub lokal")
		return
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("❌ REDIS_URL tidak valid: %v", err)
		return
	}
	cli := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		log.Printf("❌ Gagal ping Redis: %v", err)
		_ = cli.Close()
		return
	}
	Redis = cli
	log.Println("✅ Redis connected.")
}

func CloseRedis() {
	if Redis != nil {
		_ = Redis.Close()
	}
}

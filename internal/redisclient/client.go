package redisclient

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/luminance-studio/studio-scheduler/internal/config"
)

// New abre el cliente de redis usado por el lock de slots. Si redis no está
// disponible el server arranca igual: el lock es la primera barrera, no la
// garantía de correctitud (esa vive en Postgres).
func New(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable at %s: %v (slot lock disabled)", cfg.RedisAddr, err)
		return nil
	}

	return client
}

package clients

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pctracer-svc/src/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(cfg *config.Redis) (*RedisClient, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	log.WithField("addr", opts.Addr).Info("Connecting to Redis...")
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Infof("Connected to Redis at %s", opts.Addr)
	return &RedisClient{Client: client}, nil
}

// redisOptions accepts either a redis:// URL or a bare host:port.
func redisOptions(cfg *config.Redis) (*redis.Options, error) {
	if strings.HasPrefix(cfg.Url, "redis://") || strings.HasPrefix(cfg.Url, "rediss://") {
		opts, err := redis.ParseURL(cfg.Url)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if cfg.Password != "" {
			opts.Password = cfg.Password
		}
		if cfg.Db != 0 {
			opts.DB = cfg.Db
		}
		return opts, nil
	}

	return &redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.Db,
	}, nil
}

func (r *RedisClient) Close() error {
	if err := r.Client.Close(); err != nil {
		log.WithError(err).Error("Failed to close Redis client")
		return err
	}
	log.Info("Redis connection closed")
	return nil
}

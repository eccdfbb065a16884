package database

import (
	"os"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// InitRedisCli returns the shared Redis client used for notification
// de-duplication across cron runs. Returns nil client (no error) when
// REDIS_URL is not configured; the notifier then sends unconditionally.
func InitRedisCli() (*redis.Client, error) {
	if Client != nil {
		return Client, nil
	}

	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	cli := redis.NewClient(opts)

	Client = cli

	return cli, nil
}

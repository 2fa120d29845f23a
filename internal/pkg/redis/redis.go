package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "presenze"

func NewClient(addr string, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// Key builds a namespaced redis key: presenze:part1:part2:...
func Key(parts ...string) string {
	return keyPrefix + ":" + strings.Join(parts, ":")
}

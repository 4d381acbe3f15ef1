package redis

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

const historyKeyPrefix = "chatbot:history:"

type IRedis interface {
	AppendHistory(ctx context.Context, sessionID string, entry string, limit int64, ttl time.Duration) error
	GetHistory(ctx context.Context, sessionID string) ([]string, error)
	DeleteHistory(ctx context.Context, sessionID string) error
	Close() error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func historyKey(sessionID string) string {
	return historyKeyPrefix + sessionID
}

// AppendHistory pushes entry onto the session list, keeps only the newest
// limit entries and refreshes the expiry.
func (r *redisClient) AppendHistory(ctx context.Context, sessionID string, entry string, limit int64, ttl time.Duration) error {
	key := historyKey(sessionID)
	logrus.Debug(fmt.Sprintf("Appending history for key %s", key))

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, entry)
	if limit > 0 {
		pipe.LTrim(ctx, key, -limit, -1)
	}
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		logrus.Error(fmt.Sprintf("Error appending history for key %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) GetHistory(ctx context.Context, sessionID string) ([]string, error) {
	key := historyKey(sessionID)
	logrus.Debug(fmt.Sprintf("Getting history for key %s", key))

	vals, err := r.client.LRange(ctx, key, 0, -1).Result()
	if errors.Is(err, redis.Nil) {
		return []string{}, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting history for key %s: %v", key, err))
		return nil, err
	}
	return vals, nil
}

func (r *redisClient) DeleteHistory(ctx context.Context, sessionID string) error {
	key := historyKey(sessionID)
	result, err := r.client.Del(ctx, key).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting history for key %s: %v", key, err))
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("History key %s not found for deletion", key))
	}
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}

// db/redis.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/peacprotocol/peac-engine/logging"
	pdp_model "github.com/peacprotocol/peac-engine/pdp/model"
)

var RedisClient *redis.Client

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func decisionKey(key string) string {
	return "decision:" + key
}

// CacheDecision stores an evaluation result under the given request key
// with the configured TTL.
func CacheDecision(ctx context.Context, key string, result *pdp_model.EvaluationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	ttl := viper.GetDuration("redis.defaultCacheTTL")
	return RedisClient.Set(ctx, decisionKey(key), data, ttl).Err()
}

// GetCachedDecision fetches an evaluation result from the cache. A cache
// miss returns (nil, nil).
func GetCachedDecision(ctx context.Context, key string) (*pdp_model.EvaluationResult, error) {
	data, err := RedisClient.Get(ctx, decisionKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var result pdp_model.EvaluationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InvalidateDecisions drops all cached decisions. Called on policy reload.
func InvalidateDecisions(ctx context.Context) error {
	iter := RedisClient.Scan(ctx, 0, decisionKey("*"), 0).Iterator()
	for iter.Next(ctx) {
		if err := RedisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// RateLimit implements a fixed-window counter per key. Returns true while
// the caller is within the limit.
func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	windowKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := RedisClient.Incr(ctx, windowKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := RedisClient.Expire(ctx, windowKey, per).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(limit), nil
}

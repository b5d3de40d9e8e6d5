package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func InitRedis(addr, password string, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established")
	return rdb, nil
}

func GetProduct(ctx context.Context, rdb *redis.Client, id string) ([]byte, error) {
	return rdb.Get(ctx, productKey(id)).Bytes()
}

func SetProduct(ctx context.Context, rdb *redis.Client, id string, product interface{}, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, productKey(id), data, ttl).Err()
}

func DeleteProduct(ctx context.Context, rdb *redis.Client, id string) error {
	return rdb.Del(ctx, productKey(id)).Err()
}

func GetCategories(ctx context.Context, rdb *redis.Client, vendorID string) ([]byte, error) {
	return rdb.Get(ctx, categoriesKey(vendorID)).Bytes()
}

func SetCategories(ctx context.Context, rdb *redis.Client, vendorID string, categories interface{}, ttl time.Duration) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, categoriesKey(vendorID), data, ttl).Err()
}

func productKey(id string) string { return fmt.Sprintf("product:%s", id) }

func categoriesKey(vendorID string) string { return fmt.Sprintf("vendor:%s:categories", vendorID) }

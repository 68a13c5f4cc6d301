package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"elpro/internal/app/store/entity"
	"elpro/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const navTreeCacheKey = "catalog:nav_tree"

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFromExisting оборачивает готовый клиент (используется в тестах с miniredis)
func NewRedisClientFromExisting(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

func (r *RedisClient) SetNavTree(ctx context.Context, tree []*entity.CategoryNode, ttl time.Duration) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("failed to marshal nav tree: %w", err)
	}

	if err := r.client.Set(ctx, navTreeCacheKey, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "nav_tree")
		return fmt.Errorf("failed to set nav tree in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) GetNavTree(ctx context.Context) ([]*entity.CategoryNode, error) {
	data, err := r.client.Get(ctx, navTreeCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss(serviceName, "nav_tree")
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, "nav_tree")
		return nil, fmt.Errorf("failed to get nav tree from cache: %w", err)
	}

	var tree []*entity.CategoryNode
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to unmarshal nav tree: %w", err)
	}

	metrics.RecordCacheHit(serviceName, "nav_tree")
	return tree, nil
}

func (r *RedisClient) DeleteNavTree(ctx context.Context) error {
	if err := r.client.Del(ctx, navTreeCacheKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "nav_tree")
		return fmt.Errorf("failed to delete nav tree from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

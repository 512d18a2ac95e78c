package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTaskStore implements TaskStore on Redis. Retention is enforced by key
// TTL, so no sweeper is needed.
type RedisTaskStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisConfig holds Redis task store configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// NewRedisTaskStore creates a Redis-backed task store
func NewRedisTaskStore(config *RedisConfig) *RedisTaskStore {
	if config == nil {
		config = &RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "legalassist:task:",
			TTL:    24 * time.Hour,
		}
	}
	if config.TTL <= 0 {
		config.TTL = 24 * time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return &RedisTaskStore{
		client: client,
		prefix: config.Prefix,
		ttl:    config.TTL,
	}
}

// Put stores or replaces a task, resetting its TTL
func (s *RedisTaskStore) Put(ctx context.Context, task *Task) error {
	if task == nil || task.ID == "" {
		return fmt.Errorf("task must have an ID")
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+task.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store task in Redis: %w", err)
	}
	return nil
}

// Get retrieves a task by ID
func (s *RedisTaskStore) Get(ctx context.Context, id string) (*Task, error) {
	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	var task Task
	if err := json.Unmarshal([]byte(data), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

// Ping checks if the Redis connection is alive
func (s *RedisTaskStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisTaskStore) Close() error {
	return s.client.Close()
}

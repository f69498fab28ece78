package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mediaengine/config"
	"mediaengine/types"

	"github.com/redis/go-redis/v9"
)

const redisTimeout = 5 * time.Second

// RedisStore keeps job records as JSON values in a single Redis hash
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and verifies connectivity
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	key := cfg.Key
	if key == "" {
		key = config.DefaultRedisJobsKey
	}
	return &RedisStore{client: client, key: key}, nil
}

// Close closes the underlying Redis client
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Save writes the job under its ID, keeping the original creation time
func (r *RedisStore) Save(ctx context.Context, job types.Job) error {
	if job.ID == "" {
		return errors.New("job id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	now := time.Now().UTC()
	if existing, err := r.get(ctx, job.ID); err == nil {
		job.CreatedAt = existing.CreatedAt
	} else if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}
	if err := r.client.HSet(ctx, r.key, job.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	return nil
}

// Get loads the job with id
func (r *RedisStore) Get(ctx context.Context, id string) (types.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	return r.get(ctx, id)
}

func (r *RedisStore) get(ctx context.Context, id string) (types.Job, error) {
	raw, err := r.client.HGet(ctx, r.key, id).Result()
	if errors.Is(err, redis.Nil) {
		return types.Job{}, ErrNotFound
	}
	if err != nil {
		return types.Job{}, fmt.Errorf("failed to load job %s: %w", id, err)
	}
	return decodeJob(raw)
}

// List loads every job, newest first
func (r *RedisStore) List(ctx context.Context) ([]types.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	values, err := r.client.HVals(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	list := make([]types.Job, 0, len(values))
	for _, raw := range values {
		job, err := decodeJob(raw)
		if err != nil {
			return nil, err
		}
		list = append(list, job)
	}
	sortNewestFirst(list)
	return list, nil
}

func decodeJob(raw string) (types.Job, error) {
	var job types.Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return types.Job{}, fmt.Errorf("failed to decode job: %w", err)
	}
	return job, nil
}

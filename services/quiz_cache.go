package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// QuizCache holds rendered quiz details between reads. Misses and errors are
// never fatal: the database stays the source of truth.
//
// Every quiz has a generation that Invalidate bumps. A reader takes the
// generation before it loads from the database and hands it back to Set, which
// drops the fill when a writer invalidated the quiz in between.
type QuizCache interface {
	Get(ctx context.Context, id uuid.UUID) (*QuizDetails, bool)
	Generation(ctx context.Context, id uuid.UUID) (int64, bool)
	Set(ctx context.Context, details *QuizDetails, generation int64)
	Invalidate(ctx context.Context, id uuid.UUID)
}

type noopCache struct{}

func (noopCache) Get(context.Context, uuid.UUID) (*QuizDetails, bool) { return nil, false }
func (noopCache) Generation(context.Context, uuid.UUID) (int64, bool) { return 0, false }
func (noopCache) Set(context.Context, *QuizDetails, int64)            {}
func (noopCache) Invalidate(context.Context, uuid.UUID)               {}

var errStaleFill = errors.New("quiz changed while loading")

type RedisQuizCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisQuizCache(client *redis.Client, ttl time.Duration) *RedisQuizCache {
	return &RedisQuizCache{redis: client, ttl: ttl}
}

func quizCacheKey(id uuid.UUID) string {
	return "quiz:" + id.String()
}

func quizGenerationKey(id uuid.UUID) string {
	return "quiz:gen:" + id.String()
}

func (c *RedisQuizCache) Get(ctx context.Context, id uuid.UUID) (*QuizDetails, bool) {
	data, err := c.redis.Get(ctx, quizCacheKey(id)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting quiz %s: %v", id, err)
		}
		return nil, false
	}

	var details QuizDetails
	if err := json.Unmarshal([]byte(data), &details); err != nil {
		log.Printf("Failed to unmarshal cached quiz %s: %v", id, err)
		return nil, false
	}
	return &details, true
}

// Generation reports the quiz's current generation. A quiz never invalidated
// is at generation 0. ok is false when Redis cannot be read.
func (c *RedisQuizCache) Generation(ctx context.Context, id uuid.UUID) (int64, bool) {
	gen, err := readGeneration(ctx, c.redis, id)
	if err != nil {
		log.Printf("Redis error getting generation of quiz %s: %v", id, err)
		return 0, false
	}
	return gen, true
}

func (c *RedisQuizCache) Set(ctx context.Context, details *QuizDetails, generation int64) {
	err := c.store(ctx, details, generation)
	if errors.Is(err, errStaleFill) || errors.Is(err, redis.TxFailedErr) {
		return
	}
	if err != nil {
		log.Printf("Failed to cache quiz %s: %v", details.ID, err)
	}
}

func (c *RedisQuizCache) store(ctx context.Context, details *QuizDetails, generation int64) error {
	data, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal quiz details: %w", err)
	}

	genKey := quizGenerationKey(details.ID)
	return c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, details.ID)
		if err != nil {
			return fmt.Errorf("failed to read generation: %w", err)
		}
		if current != generation {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, quizCacheKey(details.ID), data, c.ttl)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to store in Redis: %w", err)
		}
		return nil
	}, genKey)
}

// Invalidate bumps the generation and drops the cached details in one
// transaction, so a fill started before the bump can no longer land.
func (c *RedisQuizCache) Invalidate(ctx context.Context, id uuid.UUID) {
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, quizGenerationKey(id))
		if c.ttl > 0 {
			// outlives any fill that could still be racing
			pipe.Expire(ctx, quizGenerationKey(id), 2*c.ttl)
		}
		pipe.Del(ctx, quizCacheKey(id))
		return nil
	})
	if err != nil {
		log.Printf("Failed to invalidate cached quiz %s: %v", id, err)
	}
}

func readGeneration(ctx context.Context, cmd redis.Cmdable, id uuid.UUID) (int64, error) {
	gen, err := cmd.Get(ctx, quizGenerationKey(id)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

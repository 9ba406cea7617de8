package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a FIFO of ThankYouJob values on a Redis list: producers
// LPUSH and consumers BRPOP.
type RedisQueue struct {
	client *redis.Client
	key    string
}

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

// Push appends job to the list.
func (q *RedisQueue) Push(ctx context.Context, job ThankYouJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("redis queue: marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, body).Err(); err != nil {
		return fmt.Errorf("redis queue: push: %w", err)
	}
	return nil
}

// Handle lets the queue serve as a pool Handler.
func (q *RedisQueue) Handle(ctx context.Context, job ThankYouJob) error {
	return q.Push(ctx, job)
}

// Pop blocks up to wait for the next job.  ok is false when the wait timed
// out with an empty list.
func (q *RedisQueue) Pop(ctx context.Context, wait time.Duration) (job ThankYouJob, ok bool, err error) {
	res, err := q.client.BRPop(ctx, wait, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return job, false, nil
	}
	if err != nil {
		return job, false, err
	}
	// res is [key, value]
	if len(res) != 2 {
		return job, false, fmt.Errorf("redis queue: unexpected reply %v", res)
	}
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return job, false, fmt.Errorf("redis queue: unmarshal: %w", err)
	}
	return job, true, nil
}

// Consume pops jobs and hands them to h until ctx is cancelled.  Handler
// errors are logged and the job dropped.
func (q *RedisQueue) Consume(ctx context.Context, h Handler, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "thankyou-consumer", "key", q.key)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		job, ok, err := q.Pop(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("pop failed", "err", err)
			if !sleep(ctx, 2*time.Second) {
				return ctx.Err()
			}
			continue
		}
		if !ok {
			continue
		}
		if err := h(ctx, job); err != nil {
			log.Error("handle job failed", "job_id", job.ID, "err", err)
		}
	}
}

package segments

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/fluentplan/internal/store"
)

// Counter keeps running segment sizes as assessments are saved, so the live
// view does not scan the store.
type Counter interface {
	Add(ctx context.Context, rec *store.Record) error
	Snapshot(ctx context.Context) (Snapshot, error)
}

// RedisCounter keeps one hash per dimension, keyed
// "fluentplan:segments:<dimension>", with a field per segment.
type RedisCounter struct {
	client *redis.Client
	prefix string
}

// NewRedisCounter creates a counter on client.
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client, prefix: "fluentplan:segments"}
}

func (c *RedisCounter) key(d Dimension) string {
	return fmt.Sprintf("%s:%s", c.prefix, d)
}

// Add increments every segment rec falls into in one transaction.
func (c *RedisCounter) Add(ctx context.Context, rec *store.Record) error {
	pipe := c.client.TxPipeline()
	for d, seg := range Keys(rec) {
		pipe.HIncrBy(ctx, c.key(d), seg, 1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("increment segments: %w", err)
	}
	return nil
}

func (c *RedisCounter) Snapshot(ctx context.Context) (Snapshot, error) {
	snap := make(Snapshot, len(Dimensions))
	for _, d := range Dimensions {
		fields, err := c.client.HGetAll(ctx, c.key(d)).Result()
		if err != nil {
			return nil, fmt.Errorf("read %s segments: %w", d, err)
		}
		counts := make(map[string]int, len(fields))
		for seg, v := range fields {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("segment %s/%s: %w", d, seg, err)
			}
			counts[seg] = n
		}
		snap[d] = counts
	}
	return snap, nil
}

// Reset replaces the live counts with snap, typically Segment(all).Counts().
func (c *RedisCounter) Reset(ctx context.Context, snap Snapshot) error {
	pipe := c.client.TxPipeline()
	for _, d := range Dimensions {
		pipe.Del(ctx, c.key(d))
		for seg, n := range snap[d] {
			pipe.HSet(ctx, c.key(d), seg, n)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("reset segments: %w", err)
	}
	return nil
}

// MemoryCounter is a process-local Counter for single-instance deployments.
type MemoryCounter struct {
	mu     sync.Mutex
	counts Snapshot
}

// NewMemoryCounter returns a counter seeded with snap, which may be nil.
func NewMemoryCounter(snap Snapshot) *MemoryCounter {
	c := &MemoryCounter{counts: Snapshot{}}
	for d, segs := range snap {
		c.counts[d] = map[string]int{}
		for k, n := range segs {
			c.counts[d][k] = n
		}
	}
	return c
}

func (c *MemoryCounter) Add(_ context.Context, rec *store.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for d, seg := range Keys(rec) {
		if c.counts[d] == nil {
			c.counts[d] = map[string]int{}
		}
		c.counts[d][seg]++
	}
	return nil
}

func (c *MemoryCounter) Snapshot(context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := make(Snapshot, len(Dimensions))
	for _, d := range Dimensions {
		snap[d] = map[string]int{}
		for k, n := range c.counts[d] {
			snap[d][k] = n
		}
	}
	return snap, nil
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// MonthlySummaryCache caches computed monthly summaries per owner and
// month. Implementations must treat cache failures as misses; callers
// recompute on any error.
type MonthlySummaryCache interface {
	// Get returns the cached summary, or nil on a miss
	Get(ctx context.Context, ownerID uuid.UUID, year, month int) (*ledger.MonthlySummary, error)

	// Set stores a summary with a TTL
	Set(ctx context.Context, ownerID uuid.UUID, summary ledger.MonthlySummary, ttl time.Duration) error

	// InvalidateOwner drops every cached summary for an owner. Called
	// after any ledger mutation since a write to one month can move the
	// totals of another (edits can change a transaction's date).
	InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error
}

// RedisSummaryCache implements MonthlySummaryCache using Redis
type RedisSummaryCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSummaryCache creates a summary cache backed by an existing Redis client
func NewRedisSummaryCache(client *redis.Client) *RedisSummaryCache {
	return &RedisSummaryCache{
		client:    client,
		keyPrefix: "summary:monthly:",
	}
}

func (c *RedisSummaryCache) key(ownerID uuid.UUID, year, month int) string {
	return fmt.Sprintf("%s%s:%04d-%02d", c.keyPrefix, ownerID, year, month)
}

func (c *RedisSummaryCache) ownerPattern(ownerID uuid.UUID) string {
	return fmt.Sprintf("%s%s:*", c.keyPrefix, ownerID)
}

// Get returns the cached summary, or nil on a miss
func (c *RedisSummaryCache) Get(ctx context.Context, ownerID uuid.UUID, year, month int) (*ledger.MonthlySummary, error) {
	data, err := c.client.Get(ctx, c.key(ownerID, year, month)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read summary cache: %w", err)
	}

	var summary ledger.MonthlySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		// Corrupt entry, treat as a miss
		return nil, nil
	}
	return &summary, nil
}

// Set stores a summary with a TTL
func (c *RedisSummaryCache) Set(ctx context.Context, ownerID uuid.UUID, summary ledger.MonthlySummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := c.client.Set(ctx, c.key(ownerID, summary.Year, summary.Month), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write summary cache: %w", err)
	}
	return nil
}

// InvalidateOwner drops every cached summary for an owner
func (c *RedisSummaryCache) InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error {
	iter := c.client.Scan(ctx, 0, c.ownerPattern(ownerID), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan summary cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary cache: %w", err)
	}
	return nil
}

// Ensure RedisSummaryCache implements MonthlySummaryCache
var _ MonthlySummaryCache = (*RedisSummaryCache)(nil)

// InMemorySummaryCache provides an in-memory implementation for testing
// and single-instance deployments without Redis.
type InMemorySummaryCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
}

type inMemoryEntry struct {
	summary   ledger.MonthlySummary
	ownerID   uuid.UUID
	expiresAt time.Time
}

// NewInMemorySummaryCache creates a new in-memory summary cache
func NewInMemorySummaryCache() *InMemorySummaryCache {
	return &InMemorySummaryCache{
		entries: make(map[string]inMemoryEntry),
	}
}

func inMemoryKey(ownerID uuid.UUID, year, month int) string {
	return fmt.Sprintf("%s:%04d-%02d", ownerID, year, month)
}

// Get returns the cached summary, or nil on a miss
func (c *InMemorySummaryCache) Get(_ context.Context, ownerID uuid.UUID, year, month int) (*ledger.MonthlySummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[inMemoryKey(ownerID, year, month)]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	summary := entry.summary
	return &summary, nil
}

// Set stores a summary with a TTL
func (c *InMemorySummaryCache) Set(_ context.Context, ownerID uuid.UUID, summary ledger.MonthlySummary, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[inMemoryKey(ownerID, summary.Year, summary.Month)] = inMemoryEntry{
		summary:   summary,
		ownerID:   ownerID,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// InvalidateOwner drops every cached summary for an owner
func (c *InMemorySummaryCache) InvalidateOwner(_ context.Context, ownerID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.ownerID == ownerID {
			delete(c.entries, key)
		}
	}
	return nil
}

// Ensure InMemorySummaryCache implements MonthlySummaryCache
var _ MonthlySummaryCache = (*InMemorySummaryCache)(nil)

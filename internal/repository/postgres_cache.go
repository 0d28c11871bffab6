package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartstore/internal/db"
	"github.com/nikolayk812/cartstore/internal/port"
)

// PostgresCache keeps cache entries in the cache_entries table. With a
// positive ttl, entries not written for longer than ttl read as misses and
// are pruned by the next write.
type PostgresCache struct {
	q    *db.Queries
	pool *pgxpool.Pool
	ttl  time.Duration
}

var _ port.PersistentCache = (*PostgresCache)(nil)

func NewPostgresCache(pool *pgxpool.Pool, ttl time.Duration) *PostgresCache {
	return &PostgresCache{
		q:    db.New(pool),
		pool: pool,
		ttl:  ttl,
	}
}

func NewPostgresCacheWithTx(tx pgx.Tx, ttl time.Duration) *PostgresCache {
	return &PostgresCache{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
		ttl:  ttl,
	}
}

func (c *PostgresCache) Read(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	entry, err := c.q.GetEntry(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("q.GetEntry: %w", err)
	}

	if c.ttl > 0 && time.Since(entry.UpdatedAt) > c.ttl {
		return nil, port.ErrCacheMiss
	}

	return entry.Value, nil
}

func (c *PostgresCache) Write(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := withTx(ctx, c.pool, c.q, func(q *db.Queries) (int64, error) {
		updatedAt, err := q.UpsertEntry(ctx, db.UpsertEntryParams{
			Key:   key,
			Value: value,
		})
		if err != nil {
			return 0, fmt.Errorf("q.UpsertEntry: %w", err)
		}

		if c.ttl <= 0 {
			return 0, nil
		}

		// relative to this write, so the cutoff uses the database clock
		pruned, err := q.DeleteEntriesBefore(ctx, updatedAt.Add(-c.ttl))
		if err != nil {
			return 0, fmt.Errorf("q.DeleteEntriesBefore: %w", err)
		}
		return pruned, nil
	})

	return err
}

func (c *PostgresCache) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is empty")
	}

	rowsAffected, err := c.q.DeleteEntry(ctx, key)
	if err != nil {
		return false, fmt.Errorf("q.DeleteEntry: %w", err)
	}

	return rowsAffected > 0, nil
}

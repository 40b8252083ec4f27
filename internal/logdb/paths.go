package logdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/svnplot/schema"
)

// PathInterner maps repository paths to stable integer ids.
// Ids are never reused or deleted; lookups are cached for the interner's lifetime.
type PathInterner struct {
	q       DBTX
	backend schema.DatabaseBackend
	cache   map[string]int64
}

// NewPathInterner creates an interner over q with an empty cache.
func NewPathInterner(q DBTX, backend schema.DatabaseBackend) *PathInterner {
	return &PathInterner{q: q, backend: backend, cache: make(map[string]int64)}
}

// ID returns the id of path, inserting it when it is not stored yet.
func (p *PathInterner) ID(ctx context.Context, path string) (int64, error) {
	if id, ok := p.cache[path]; ok {
		return id, nil
	}

	id, err := p.lookup(ctx, path)
	if errors.Is(err, sql.ErrNoRows) {
		id, err = p.insert(ctx, path)
	}
	if err != nil {
		return 0, err
	}
	p.cache[path] = id
	return id, nil
}

func (p *PathInterner) lookup(ctx context.Context, path string) (int64, error) {
	query := rebind(p.backend, fmt.Sprintf("SELECT id FROM %s WHERE path = ?", PathTable))
	var id int64
	err := p.q.QueryRowContext(ctx, query, path).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up path %q: %w", path, err)
	}
	return id, err
}

func (p *PathInterner) insert(ctx context.Context, path string) (int64, error) {
	if p.backend == schema.PostgreSQLBackend {
		query := fmt.Sprintf("INSERT INTO %s (path) VALUES ($1) RETURNING id", PathTable)
		var id int64
		if err := p.q.QueryRowContext(ctx, query, path).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to insert path %q: %w", path, err)
		}
		return id, nil
	}

	query := fmt.Sprintf("INSERT INTO %s (path) VALUES (?)", PathTable)
	res, err := p.q.ExecContext(ctx, query, path)
	if err != nil {
		return 0, fmt.Errorf("failed to insert path %q: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get id of path %q: %w", path, err)
	}
	return id, nil
}

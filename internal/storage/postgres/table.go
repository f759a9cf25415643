package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var baseColumns = []string{"id", "name", "is_deleted", "version", "created_at", "updated_at"}

type entity[T any] interface {
	*T
	storage.Entity
}

// table is a storage.Store backed by one Postgres table. Kind-specific
// columns are described by columns, with args producing their values for
// writes and dest producing scan targets for reads, both in column order.
type table[T any, PT entity[T]] struct {
	pool    *pgxpool.Pool
	name    string
	columns []string
	args    func(PT) []any
	dest    func(PT) []any
}

func (t *table[T, PT]) selectList() string {
	return strings.Join(append(append([]string{}, baseColumns...), t.columns...), ", ")
}

func (t *table[T, PT]) where(filter storage.Filter) (string, []any) {
	clause := "WHERE is_deleted = $1"
	args := []any{filter.IsDeleted}
	if filter.ID != nil {
		clause += " AND id = $2"
		args = append(args, *filter.ID)
	}
	return clause, args
}

func (t *table[T, PT]) scan(row pgx.Row) (*T, error) {
	doc := new(T)
	meta := PT(doc).Meta()
	dest := []any{&meta.ID, &meta.Name, &meta.IsDeleted, &meta.Version, &meta.CreatedAt, &meta.UpdatedAt}
	dest = append(dest, t.dest(PT(doc))...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return doc, nil
}

func (t *table[T, PT]) FindOne(ctx context.Context, filter storage.Filter) (*T, error) {
	where, args := t.where(filter)
	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY created_at ASC, id ASC LIMIT 1`, t.selectList(), t.name, where)

	doc, err := t.scan(t.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.name, err)
	}
	return doc, nil
}

func (t *table[T, PT]) Find(ctx context.Context, filter storage.Filter) ([]T, error) {
	where, args := t.where(filter)
	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY created_at ASC, id ASC`, t.selectList(), t.name, where)

	rows, err := t.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.name, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		doc, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", t.name, err)
		}
		out = append(out, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", t.name, err)
	}
	return out, nil
}

func (t *table[T, PT]) Exists(ctx context.Context, filter storage.Filter) (bool, error) {
	where, args := t.where(filter)
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s %s)`, t.name, where)

	var exists bool
	if err := t.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", t.name, err)
	}
	return exists, nil
}

func (t *table[T, PT]) Save(ctx context.Context, doc *T) error {
	meta := PT(doc).Meta()
	if meta.ID == uuid.Nil {
		return t.insert(ctx, doc)
	}
	return t.update(ctx, doc)
}

func (t *table[T, PT]) insert(ctx context.Context, doc *T) error {
	meta := PT(doc).Meta()
	now := time.Now().UTC()

	id := uuid.New()
	columns := append(append([]string{}, baseColumns...), t.columns...)
	args := append([]any{id, meta.Name, meta.IsDeleted, 1, now, now}, t.args(PT(doc))...)
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, t.name, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if _, err := t.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", t.name, err)
	}

	meta.ID = id
	meta.Version = 1
	meta.CreatedAt = now
	meta.UpdatedAt = now
	return nil
}

func (t *table[T, PT]) update(ctx context.Context, doc *T) error {
	meta := PT(doc).Meta()

	// $1 id, $2 expected version, $3 name, $4 is_deleted, then kind columns
	sets := []string{"name = $3", "is_deleted = $4", "version = version + 1", "updated_at = now()"}
	for i, col := range t.columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+5))
	}
	args := append([]any{meta.ID, meta.Version, meta.Name, meta.IsDeleted}, t.args(PT(doc))...)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1 AND version = $2 RETURNING version, created_at, updated_at`,
		t.name, strings.Join(sets, ", "))

	err := t.pool.QueryRow(ctx, query, args...).Scan(&meta.Version, &meta.CreatedAt, &meta.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := t.pool.QueryRow(ctx, fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, t.name), meta.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check %s: %w", t.name, err)
		}
		if exists {
			return storage.ErrVersionConflict
		}
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", t.name, err)
	}
	return nil
}

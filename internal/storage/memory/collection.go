package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
)

type document[T any] interface {
	*T
	storage.Entity
	Clone() *T
}

// Collection — in-memory storage.Store for one entity kind. Documents are
// copied on the way in and out so callers never share state with the store.
type Collection[T any, PT document[T]] struct {
	mu    sync.RWMutex
	docs  map[uuid.UUID]*T
	order []uuid.UUID
	now   func() time.Time
}

// NewCollection creates an empty collection.
func NewCollection[T any, PT document[T]]() *Collection[T, PT] {
	return &Collection[T, PT]{
		docs: make(map[uuid.UUID]*T),
		now:  time.Now,
	}
}

func (c *Collection[T, PT]) FindOne(ctx context.Context, filter storage.Filter) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if filter.ID != nil {
		doc, ok := c.docs[*filter.ID]
		if !ok || !filter.Matches(PT(doc).Meta()) {
			return nil, storage.ErrNotFound
		}
		return PT(doc).Clone(), nil
	}

	for _, id := range c.order {
		doc := c.docs[id]
		if filter.Matches(PT(doc).Meta()) {
			return PT(doc).Clone(), nil
		}
	}
	return nil, storage.ErrNotFound
}

// Find returns matching documents in insertion order.
func (c *Collection[T, PT]) Find(ctx context.Context, filter storage.Filter) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0)
	for _, id := range c.order {
		doc := c.docs[id]
		if filter.Matches(PT(doc).Meta()) {
			out = append(out, *PT(doc).Clone())
		}
	}
	return out, nil
}

func (c *Collection[T, PT]) Exists(ctx context.Context, filter storage.Filter) (bool, error) {
	_, err := c.FindOne(ctx, filter)
	if err == storage.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (c *Collection[T, PT]) Save(ctx context.Context, doc *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	meta := PT(doc).Meta()
	now := c.now()

	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
		meta.Version = 1
		meta.CreatedAt = now
		meta.UpdatedAt = now
		c.docs[meta.ID] = PT(doc).Clone()
		c.order = append(c.order, meta.ID)
		return nil
	}

	stored, ok := c.docs[meta.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if PT(stored).Meta().Version != meta.Version {
		return storage.ErrVersionConflict
	}

	meta.Version++
	meta.CreatedAt = PT(stored).Meta().CreatedAt
	meta.UpdatedAt = now
	c.docs[meta.ID] = PT(doc).Clone()
	return nil
}

// Len returns the number of documents regardless of state.
func (c *Collection[T, PT]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

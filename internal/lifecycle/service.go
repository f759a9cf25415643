package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/events"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRetries     = 3
	defaultConcurrency = 8
)

type entity[T any] interface {
	*T
	storage.Entity
}

// Options carries the collaborators shared by all entity services.
type Options struct {
	Logger      logrus.FieldLogger
	Events      events.Publisher
	Retries     int // read-modify-write attempts on version conflict
	Concurrency int // parallel existence checks in FindInvalidElement
}

// Service implements the lifecycle operations common to every entity kind:
// existence checks, listing, lookup, soft delete and restore, plus the
// versioned read-modify-write loop used by kind-specific mutations.
type Service[T any, PT entity[T]] struct {
	name        string
	label       string
	store       storage.Store[T]
	logger      logrus.FieldLogger
	events      events.Publisher
	retries     int
	concurrency int
	totals      func(PT) any
}

// New creates a lifecycle service. name is the machine name used in logs and
// event routing keys ("daily_plan"), label the human one used in messages
// ("Daily plan").
func New[T any, PT entity[T]](name, label string, store storage.Store[T], opts Options) *Service[T, PT] {
	s := &Service[T, PT]{
		name:        name,
		label:       label,
		store:       store,
		logger:      opts.Logger,
		events:      opts.Events,
		retries:     opts.Retries,
		concurrency: opts.Concurrency,
	}
	if s.logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		s.logger = l
	}
	if s.events == nil {
		s.events = events.NopPublisher{}
	}
	if s.retries <= 0 {
		s.retries = defaultRetries
	}
	if s.concurrency <= 0 {
		s.concurrency = defaultConcurrency
	}
	return s
}

// WithTotals sets the projection attached to published events.
func (s *Service[T, PT]) WithTotals(fn func(PT) any) *Service[T, PT] {
	s.totals = fn
	return s
}

// Name returns the machine name of the entity kind.
func (s *Service[T, PT]) Name() string {
	return s.name
}

// Logger returns the logger scoped to this entity kind.
func (s *Service[T, PT]) Logger() logrus.FieldLogger {
	return s.logger.WithField("entity", s.name)
}

// Exists reports whether an active document with id exists. Store failures
// are logged and read as false.
func (s *Service[T, PT]) Exists(ctx context.Context, id uuid.UUID) bool {
	ok, err := s.store.Exists(ctx, storage.ActiveByID(id))
	if err != nil {
		s.Logger().WithError(err).WithField("id", id).Warn("existence check failed")
		return false
	}
	return ok
}

// FindInvalidElement returns the index of the first id that does not refer
// to an active document, or -1. Checks run concurrently; the answer only
// depends on the order of ids.
func (s *Service[T, PT]) FindInvalidElement(ctx context.Context, ids []uuid.UUID) int {
	found := make([]bool, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			found[i] = s.Exists(gctx, id)
			return nil
		})
	}
	_ = g.Wait()

	for i, ok := range found {
		if !ok {
			return i
		}
	}
	return -1
}

// GetAll lists active documents.
func (s *Service[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	docs, err := s.store.Find(ctx, storage.Active())
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return docs, nil
}

// GetAllDeleted lists soft-deleted documents.
func (s *Service[T, PT]) GetAllDeleted(ctx context.Context) ([]T, error) {
	docs, err := s.store.Find(ctx, storage.Deleted())
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return docs, nil
}

// GetByID returns the active document or InstanceNotFound.
func (s *Service[T, PT]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return s.Find(ctx, id, s.instanceNotFound(id))
}

// Find returns the active document with id, or notFound.
func (s *Service[T, PT]) Find(ctx context.Context, id uuid.UUID, notFound *apperr.Error) (*T, error) {
	doc, err := s.store.FindOne(ctx, storage.ActiveByID(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return doc, nil
}

// FindAll resolves every id to its active document, concurrently. The first
// id in input order that cannot be resolved is reported through notFound.
func (s *Service[T, PT]) FindAll(ctx context.Context, ids []uuid.UUID, notFound func(uuid.UUID) *apperr.Error) ([]*T, error) {
	docs := make([]*T, len(ids))
	errs := make([]error, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			docs[i], errs[i] = s.Find(gctx, id, notFound(id))
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// FindAny returns the document with id whatever its deleted flag.
// The boolean is false when no such document was ever stored.
func (s *Service[T, PT]) FindAny(ctx context.Context, id uuid.UUID) (*T, bool, error) {
	for _, filter := range []storage.Filter{storage.ActiveByID(id), storage.DeletedByID(id)} {
		doc, err := s.store.FindOne(ctx, filter)
		if err == nil {
			return doc, true, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, false, apperr.Internal(err)
		}
	}
	return nil, false, nil
}

// DeleteByID flips an active document to deleted.
func (s *Service[T, PT]) DeleteByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return s.mutate(ctx, storage.ActiveByID(id), s.instanceNotFound(id), events.OpDelete, func(doc PT) error {
		doc.Meta().IsDeleted = true
		return nil
	})
}

// RestoreByID flips a deleted document back to active.
func (s *Service[T, PT]) RestoreByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return s.mutate(ctx, storage.DeletedByID(id), s.instanceNotFound(id), events.OpRestore, func(doc PT) error {
		doc.Meta().IsDeleted = false
		return nil
	})
}

// Create persists a new document once and publishes the create event.
func (s *Service[T, PT]) Create(ctx context.Context, doc *T) (*T, error) {
	meta := PT(doc).Meta()
	meta.ID = uuid.Nil
	meta.IsDeleted = false

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, apperr.Internal(err)
	}
	s.published(ctx, PT(doc), events.OpCreate)
	return doc, nil
}

// Update runs fn against a fresh copy of the active document and saves it,
// retrying the whole read-modify-write on version conflicts. fn must only
// touch the copy it is given; any error it returns aborts without saving.
func (s *Service[T, PT]) Update(ctx context.Context, id uuid.UUID, notFound *apperr.Error, fn func(PT) error) (*T, error) {
	return s.mutate(ctx, storage.ActiveByID(id), notFound, events.OpUpdate, fn)
}

// Save persists doc as-is (version-checked) and publishes op. Used by the
// repair tool, which must not retry on conflict.
func (s *Service[T, PT]) Save(ctx context.Context, doc *T, op string) error {
	if err := s.store.Save(ctx, doc); err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			return apperr.Wrap(apperr.KindConcurrentModification, err, "")
		}
		return apperr.Internal(err)
	}
	s.published(ctx, PT(doc), op)
	return nil
}

func (s *Service[T, PT]) mutate(ctx context.Context, filter storage.Filter, notFound *apperr.Error, op string, fn func(PT) error) (*T, error) {
	var id any
	if filter.ID != nil {
		id = *filter.ID
	}

	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		doc, err := s.store.FindOne(ctx, filter)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound
		}
		if err != nil {
			return nil, apperr.Internal(err)
		}

		if err := fn(PT(doc)); err != nil {
			return nil, apperr.From(err)
		}

		err = s.store.Save(ctx, doc)
		switch {
		case err == nil:
			s.published(ctx, PT(doc), op)
			return doc, nil
		case errors.Is(err, storage.ErrVersionConflict):
			lastErr = err
			s.Logger().WithFields(logrus.Fields{
				"id":      id,
				"op":      op,
				"attempt": attempt,
			}).Debug("version conflict, retrying")
			continue
		case errors.Is(err, storage.ErrNotFound):
			return nil, notFound
		default:
			return nil, apperr.Internal(err)
		}
	}

	s.Logger().WithField("id", id).WithField("op", op).Warn("giving up after repeated version conflicts")
	return nil, apperr.Wrap(apperr.KindConcurrentModification, lastErr, "%s was modified concurrently, retry the request", s.label)
}

func (s *Service[T, PT]) published(ctx context.Context, doc PT, op string) {
	meta := doc.Meta()
	s.Logger().WithFields(logrus.Fields{
		"id":      meta.ID,
		"op":      op,
		"version": meta.Version,
	}).Info("saved")

	event := events.Event{
		Kind: s.name,
		ID:   meta.ID,
		Op:   op,
		At:   time.Now().UTC(),
	}
	if s.totals != nil {
		event.Totals = s.totals(doc)
	}
	s.events.Publish(ctx, event)
}

func (s *Service[T, PT]) instanceNotFound(id uuid.UUID) *apperr.Error {
	return apperr.New(apperr.KindInstanceNotFound, "%s with id %s not found", s.label, id)
}

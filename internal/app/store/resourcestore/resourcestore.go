// internal/app/store/resourcestore/resourcestore.go
package resourcestore

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/studyhub/internal/app/gateway"
	"go.uber.org/zap"
)

// Resource is any server-backed entity with a stable identifier.
type Resource interface {
	ResourceID() string
}

// Backend performs the network calls for one resource type. D is the
// draft/patch payload submitted on create and update.
type Backend[T Resource, D any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, draft D) (T, error)
	Update(ctx context.Context, id string, draft D) (T, error)
	Delete(ctx context.Context, id string) error
}

// Getter is an optional backend capability for fetching one entity.
// Backends whose API has no single-entity endpoint simply omit it.
type Getter[T Resource] interface {
	Get(ctx context.Context, id string) (T, error)
}

// Snapshot is a read-only copy of the store state handed to observers.
// Items holds server-confirmed records only.
type Snapshot[T Resource] struct {
	Items     []T
	Selected  string
	Pending   bool
	LastError *gateway.Error
}

// Store is an async CRUD state container for one resource type.
//
// It is single-flight: at most one network operation per store is in
// flight at a time, and a second command issued while Pending is true
// is rejected with a busy error before touching any state. Responses
// therefore always apply in the order their requests were issued.
//
// The store owns its collection exclusively. Callers read snapshots
// and issue commands; they never mutate Items. A dispatched request is
// never cancelled mid-flight: it always resolves and applies, even if
// nobody is left observing.
type Store[T Resource, D any] struct {
	backend Backend[T, D]
	log     *zap.Logger

	mu        sync.Mutex
	items     []T
	selected  string
	pending   bool
	lastError *gateway.Error
	watchers  []chan Snapshot[T]
}

// New creates an empty store bound to a backend.
func New[T Resource, D any](backend Backend[T, D], logger *zap.Logger) *Store[T, D] {
	return &Store[T, D]{
		backend: backend,
		log:     logger,
	}
}

// busyErr is returned when a command is rejected because another
// request for this resource type is already in flight.
func busyErr(op string) *gateway.Error {
	return &gateway.Error{
		Kind:    gateway.KindBusy,
		Op:      op,
		Message: "Another request is already in progress",
	}
}

// IsBusy reports whether err is a busy rejection from a store.
func IsBusy(err error) bool {
	var ge *gateway.Error
	return errors.As(err, &ge) && ge.Kind == gateway.KindBusy
}

// begin claims the single flight slot and clears the previous error.
// It fails with a busy error when a request is already pending.
func (s *Store[T, D]) begin(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return busyErr(op)
	}
	s.pending = true
	s.lastError = nil
	s.notifyLocked()
	return nil
}

// finish resolves the in-flight request, applying the state mutation
// on success or recording the normalized error on failure.
func (s *Store[T, D]) finish(op string, err error, apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if err != nil {
		s.lastError = gateway.Normalize(op, err)
		s.log.Debug("store operation failed",
			zap.String("op", op),
			zap.String("kind", s.lastError.Kind.String()))
		s.notifyLocked()
		return s.lastError
	}
	if apply != nil {
		apply()
	}
	s.notifyLocked()
	return nil
}

// List replaces the collection wholesale with the server's response,
// in response order.
func (s *Store[T, D]) List(ctx context.Context) error {
	const op = "list"
	if err := s.begin(op); err != nil {
		return err
	}
	items, err := s.backend.List(ctx)
	return s.finish(op, err, func() {
		s.items = items
	})
}

// Create submits a draft and, on success, prepends the canonical
// server record so the newest entry appears first. The prepend policy
// is uniform across every resource type.
func (s *Store[T, D]) Create(ctx context.Context, draft D) (T, error) {
	const op = "create"
	var created T
	if err := s.begin(op); err != nil {
		return created, err
	}
	created, err := s.backend.Create(ctx, draft)
	ferr := s.finish(op, err, func() {
		s.items = append([]T{created}, s.items...)
	})
	if ferr != nil {
		var zero T
		return zero, ferr
	}
	return created, nil
}

// Update submits a draft for an existing entity. On success the
// matching entry is replaced with the server record; when no entry
// matches, the response is discarded rather than appended.
func (s *Store[T, D]) Update(ctx context.Context, id string, draft D) (T, error) {
	const op = "update"
	var updated T
	if err := s.begin(op); err != nil {
		return updated, err
	}
	updated, err := s.backend.Update(ctx, id, draft)
	ferr := s.finish(op, err, func() {
		for i := range s.items {
			if s.items[i].ResourceID() == updated.ResourceID() {
				s.items[i] = updated
				return
			}
		}
	})
	if ferr != nil {
		var zero T
		return zero, ferr
	}
	return updated, nil
}

// Refresh refetches one entity and replaces the matching entry with
// the server record. Like Update, a response with no matching entry is
// discarded. Stores whose backend has no single-entity fetch reject
// the call without touching state.
func (s *Store[T, D]) Refresh(ctx context.Context, id string) (T, error) {
	const op = "refresh"
	var fetched T
	getter, ok := s.backend.(Getter[T])
	if !ok {
		return fetched, &gateway.Error{
			Kind:    gateway.KindUnknown,
			Op:      op,
			Message: "Refresh is not supported for this resource",
		}
	}
	if err := s.begin(op); err != nil {
		return fetched, err
	}
	fetched, err := getter.Get(ctx, id)
	ferr := s.finish(op, err, func() {
		for i := range s.items {
			if s.items[i].ResourceID() == fetched.ResourceID() {
				s.items[i] = fetched
				return
			}
		}
	})
	if ferr != nil {
		var zero T
		return zero, ferr
	}
	return fetched, nil
}

// Remove deletes an entity. On success the matching entry is dropped
// and the selection is cleared if it pointed at the removed entity.
func (s *Store[T, D]) Remove(ctx context.Context, id string) error {
	const op = "remove"
	if err := s.begin(op); err != nil {
		return err
	}
	err := s.backend.Delete(ctx, id)
	return s.finish(op, err, func() {
		kept := s.items[:0]
		for _, it := range s.items {
			if it.ResourceID() != id {
				kept = append(kept, it)
			}
		}
		s.items = kept
		if s.selected == id {
			s.selected = ""
		}
	})
}

// Select marks an entity as the one currently expanded in the UI.
func (s *Store[T, D]) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
	s.notifyLocked()
}

// ClearSelected drops the current selection.
func (s *Store[T, D]) ClearSelected() { s.Select("") }

// ClearError idempotently clears the last error. No network effect.
func (s *Store[T, D]) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastError == nil {
		return
	}
	s.lastError = nil
	s.notifyLocked()
}

// Snapshot returns a copy of the current state.
func (s *Store[T, D]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Watch returns a channel that receives a snapshot after every state
// change. Delivery is latest-wins: a slow observer sees the newest
// state, not every intermediate one.
func (s *Store[T, D]) Watch() <-chan Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Snapshot[T], 1)
	s.watchers = append(s.watchers, ch)
	ch <- s.snapshotLocked()
	return ch
}

func (s *Store[T, D]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(s.items))
	copy(items, s.items)
	return Snapshot[T]{
		Items:     items,
		Selected:  s.selected,
		Pending:   s.pending,
		LastError: s.lastError,
	}
}

func (s *Store[T, D]) notifyLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// internal/app/store/rooms/roomstore.go
package roomstore

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dalemusser/studyhub/internal/app/gateway"
	"github.com/dalemusser/studyhub/internal/app/store/resourcestore"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.uber.org/zap"
)

var (
	ErrNameRequired  = errors.New("room name is required")
	ErrGroupRequired = errors.New("no group selected for rooms")
)

// Draft is the caller-facing payload for creating or renaming a room.
type Draft struct {
	Name string
}

// Store is the room resource store, scoped to one group at a time.
// SetGroup rebinds the scope; callers normally follow it with List.
type Store struct {
	*resourcestore.Store[models.Room, gateway.RoomDraft]
	backend *backend
}

// backend adapts the gateway client to the generic store contract.
// The group scope lives here so List knows which collection to fetch.
type backend struct {
	api *gateway.Client

	mu      sync.Mutex
	groupID string
}

func (b *backend) group() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.groupID
}

func (b *backend) setGroup(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.groupID = id
}

func (b *backend) List(ctx context.Context) ([]models.Room, error) {
	gid := b.group()
	if gid == "" {
		return nil, ErrGroupRequired
	}
	return b.api.ListRooms(ctx, gid)
}

func (b *backend) Create(ctx context.Context, draft gateway.RoomDraft) (models.Room, error) {
	return b.api.CreateRoom(ctx, draft)
}

func (b *backend) Update(ctx context.Context, id string, draft gateway.RoomDraft) (models.Room, error) {
	return b.api.UpdateRoom(ctx, id, draft)
}

func (b *backend) Delete(ctx context.Context, id string) error {
	_, err := b.api.DeleteRoom(ctx, id)
	return err
}

// New creates a room store backed by the gateway client. No group is
// scoped initially; List fails until SetGroup is called.
func New(api *gateway.Client, logger *zap.Logger) *Store {
	b := &backend{api: api}
	return &Store{
		Store:   resourcestore.New[models.Room, gateway.RoomDraft](b, logger),
		backend: b,
	}
}

// SetGroup scopes the store to one group's rooms.
func (s *Store) SetGroup(groupID string) {
	s.backend.setGroup(groupID)
}

// Create validates the draft locally, then dispatches it for the
// currently scoped group.
func (s *Store) Create(ctx context.Context, draft Draft) (models.Room, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return models.Room{}, ErrNameRequired
	}
	gid := s.backend.group()
	if gid == "" {
		return models.Room{}, ErrGroupRequired
	}
	return s.Store.Create(ctx, gateway.RoomDraft{Name: name, GroupID: gid})
}

// Update renames a room.
func (s *Store) Update(ctx context.Context, id string, draft Draft) (models.Room, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return models.Room{}, ErrNameRequired
	}
	return s.Store.Update(ctx, id, gateway.RoomDraft{Name: name, GroupID: s.backend.group()})
}

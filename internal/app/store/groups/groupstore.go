// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/studyhub/internal/app/gateway"
	"github.com/dalemusser/studyhub/internal/app/store/resourcestore"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
)

var (
	ErrNameRequired        = errors.New("group name is required")
	ErrDescriptionRequired = errors.New("group description is required")
)

// Draft is the caller-facing payload for creating or updating a group.
// MemberEmails is free-form UI input; it is trimmed, case-folded, and
// deduplicated before submission.
type Draft struct {
	Name         string
	Description  string
	MemberEmails []string
}

// Store is the group resource store: the generic single-flight CRUD
// container bound to the group endpoints, plus draft validation.
type Store struct {
	*resourcestore.Store[models.Group, gateway.GroupDraft]
}

// backend adapts the gateway client to the generic store contract.
type backend struct {
	api *gateway.Client
}

func (b backend) List(ctx context.Context) ([]models.Group, error) {
	return b.api.ListGroups(ctx)
}

func (b backend) Get(ctx context.Context, id string) (models.Group, error) {
	return b.api.GetGroup(ctx, id)
}

func (b backend) Create(ctx context.Context, draft gateway.GroupDraft) (models.Group, error) {
	return b.api.CreateGroup(ctx, draft)
}

func (b backend) Update(ctx context.Context, id string, draft gateway.GroupDraft) (models.Group, error) {
	return b.api.UpdateGroup(ctx, id, draft)
}

func (b backend) Delete(ctx context.Context, id string) error {
	_, err := b.api.DeleteGroup(ctx, id)
	return err
}

// New creates a group store backed by the gateway client.
func New(api *gateway.Client, logger *zap.Logger) *Store {
	return &Store{
		Store: resourcestore.New[models.Group, gateway.GroupDraft](backend{api: api}, logger),
	}
}

// Create validates the draft locally, then dispatches it. A draft
// rejected here never reaches the network and never touches store
// state; the server remains the authority on everything else.
func (s *Store) Create(ctx context.Context, draft Draft) (models.Group, error) {
	wire, err := normalize(draft)
	if err != nil {
		return models.Group{}, err
	}
	return s.Store.Create(ctx, wire)
}

// Update validates the draft locally, then dispatches it against id.
// No local existence check is made; the server decides whether the
// target is still there.
func (s *Store) Update(ctx context.Context, id string, draft Draft) (models.Group, error) {
	wire, err := normalize(draft)
	if err != nil {
		return models.Group{}, err
	}
	return s.Store.Update(ctx, id, wire)
}

func normalize(draft Draft) (gateway.GroupDraft, error) {
	name := strings.TrimSpace(draft.Name)
	desc := strings.TrimSpace(draft.Description)
	if name == "" {
		return gateway.GroupDraft{}, ErrNameRequired
	}
	if desc == "" {
		return gateway.GroupDraft{}, ErrDescriptionRequired
	}
	return gateway.GroupDraft{
		Name:         name,
		Description:  desc,
		MemberEmails: dedupeEmails(draft.MemberEmails),
	}, nil
}

// dedupeEmails trims each address, drops empties, and keeps the first
// occurrence of each case-folded address in input order.
func dedupeEmails(emails []string) []string {
	if len(emails) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		key := text.Fold(e)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

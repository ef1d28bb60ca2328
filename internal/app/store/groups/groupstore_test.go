// internal/app/store/groups/groupstore_test.go
package groupstore_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/app/gateway"
	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.uber.org/zap"
)

func newStore(t *testing.T, fake *testutil.Gateway, token string) *groupstore.Store {
	t.Helper()
	api := gateway.New(fake.URL(), 5*time.Second, testutil.StaticToken(token), zap.NewNop())
	return groupstore.New(api, zap.NewNop())
}

func TestListFetchesServerOrder(t *testing.T) {
	fake := testutil.NewGateway(t)
	fake.SeedGroup(models.Group{Name: "Algebra"})
	fake.SeedGroup(models.Group{Name: "Biology"})
	store := newStore(t, fake, "")

	if err := store.List(context.Background()); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(snap.Items))
	}
	if snap.Items[0].Name != "Algebra" || snap.Items[1].Name != "Biology" {
		t.Errorf("items = [%s %s], want server order [Algebra Biology]",
			snap.Items[0].Name, snap.Items[1].Name)
	}
}

func TestCreateValidation(t *testing.T) {
	fake := testutil.NewGateway(t)
	store := newStore(t, fake, "")

	tests := []struct {
		name    string
		draft   groupstore.Draft
		wantErr error
	}{
		{"missing name", groupstore.Draft{Description: "d"}, groupstore.ErrNameRequired},
		{"blank name", groupstore.Draft{Name: "   ", Description: "d"}, groupstore.ErrNameRequired},
		{"missing description", groupstore.Draft{Name: "n"}, groupstore.ErrDescriptionRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(context.Background(), tt.draft)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
			// Local validation is not a request: no pending flip, no
			// lastError, nothing dispatched.
			snap := store.Snapshot()
			if snap.Pending || snap.LastError != nil || len(snap.Items) != 0 {
				t.Errorf("snapshot = %+v, want untouched state", snap)
			}
		})
	}
}

func TestCreateDedupesInviteeEmails(t *testing.T) {
	fake := testutil.NewGateway(t)
	store := newStore(t, fake, "")

	created, err := store.Create(context.Background(), groupstore.Draft{
		Name:        "Study Group",
		Description: "weekly sessions",
		MemberEmails: []string{
			" ana@example.com ",
			"ANA@example.com",
			"",
			"bo@example.com",
			"bo@example.com",
		},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if len(created.Members) != 2 {
		t.Fatalf("members = %d, want 2 after trim+dedupe", len(created.Members))
	}
	if created.Members[0].Email != "ana@example.com" || created.Members[1].Email != "bo@example.com" {
		t.Errorf("members = [%s %s], want first occurrences in input order",
			created.Members[0].Email, created.Members[1].Email)
	}
}

func TestCreatePrependsNewestFirst(t *testing.T) {
	fake := testutil.NewGateway(t)
	fake.SeedGroup(models.Group{Name: "Old"})
	store := newStore(t, fake, "")
	if err := store.List(context.Background()); err != nil {
		t.Fatalf("List() error: %v", err)
	}

	if _, err := store.Create(context.Background(), groupstore.Draft{Name: "New", Description: "d"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.Items) != 2 || snap.Items[0].Name != "New" {
		t.Errorf("items[0] = %+v, want the new group first", snap.Items[0])
	}
}

func TestUpdateReplacesByID(t *testing.T) {
	fake := testutil.NewGateway(t)
	g := fake.SeedGroup(models.Group{Name: "Before", Description: "d"})
	store := newStore(t, fake, "")
	if err := store.List(context.Background()); err != nil {
		t.Fatalf("List() error: %v", err)
	}

	updated, err := store.Update(context.Background(), g.ID, groupstore.Draft{
		Name:        "After",
		Description: "d2",
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Name != "After" {
		t.Errorf("updated.Name = %q, want %q", updated.Name, "After")
	}
	snap := store.Snapshot()
	if snap.Items[0].Name != "After" {
		t.Errorf("items[0].Name = %q, want replaced record", snap.Items[0].Name)
	}
}

func TestUpdateMissingTargetSetsNotFound(t *testing.T) {
	fake := testutil.NewGateway(t)
	fake.SeedGroup(models.Group{Name: "Only"})
	store := newStore(t, fake, "")
	if err := store.List(context.Background()); err != nil {
		t.Fatalf("List() error: %v", err)
	}

	_, err := store.Update(context.Background(), "missing-id", groupstore.Draft{
		Name:        "x",
		Description: "y",
	})
	var ge *gateway.Error
	if !errors.As(err, &ge) || ge.Kind != gateway.KindNotFound {
		t.Fatalf("Update() error = %v, want not_found", err)
	}
	snap := store.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Name != "Only" {
		t.Errorf("items = %+v, want unchanged", snap.Items)
	}
	if snap.LastError == nil || snap.LastError.Message != "Group not found" {
		t.Errorf("lastError = %v, want the server's message", snap.LastError)
	}
}

func TestRefreshPullsServerRecord(t *testing.T) {
	fake := testutil.NewGateway(t)
	g := fake.SeedGroup(models.Group{Name: "Before", Description: "d"})
	store := newStore(t, fake, "")
	if err := store.List(context.Background()); err != nil {
		t.Fatalf("List() error: %v", err)
	}

	// Another client renames the group behind this store's back.
	api := gateway.New(fake.URL(), 5*time.Second, testutil.StaticToken(""), zap.NewNop())
	if _, err := api.UpdateGroup(context.Background(), g.ID, gateway.GroupDraft{
		Name:        "After",
		Description: "d",
	}); err != nil {
		t.Fatalf("UpdateGroup() error: %v", err)
	}

	refreshed, err := store.Refresh(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if refreshed.Name != "After" {
		t.Errorf("refreshed.Name = %q, want the server's current record", refreshed.Name)
	}
	snap := store.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Name != "After" {
		t.Errorf("items = %+v, want the matching entry replaced", snap.Items)
	}
}

func TestRefreshUnknownIDSetsNotFound(t *testing.T) {
	fake := testutil.NewGateway(t)
	fake.SeedGroup(models.Group{Name: "Only"})
	store := newStore(t, fake, "")
	if err := store.List(context.Background()); err != nil {
		t.Fatalf("List() error: %v", err)
	}

	_, err := store.Refresh(context.Background(), "missing-id")
	var ge *gateway.Error
	if !errors.As(err, &ge) || ge.Kind != gateway.KindNotFound {
		t.Fatalf("Refresh() error = %v, want not_found", err)
	}
	snap := store.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Name != "Only" {
		t.Errorf("items = %+v, want unchanged", snap.Items)
	}
}

func TestRemoveDeletesAndClearsSelection(t *testing.T) {
	fake := testutil.NewGateway(t)
	g := fake.SeedGroup(models.Group{Name: "Doomed"})
	store := newStore(t, fake, "")
	if err := store.List(context.Background()); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	store.Select(g.ID)

	if err := store.Remove(context.Background(), g.ID); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.Items) != 0 {
		t.Errorf("items = %+v, want empty", snap.Items)
	}
	if snap.Selected != "" {
		t.Errorf("selected = %q, want cleared", snap.Selected)
	}
	if len(fake.Groups()) != 0 {
		t.Error("group should be gone server-side")
	}
}

func TestUnauthorizedSurfacesAsKind(t *testing.T) {
	fake := testutil.NewGateway(t)
	fake.RequireToken("good-token")
	store := newStore(t, fake, "stale-token")

	err := store.List(context.Background())
	var ge *gateway.Error
	if !errors.As(err, &ge) || ge.Kind != gateway.KindUnauthorized {
		t.Fatalf("List() error = %v, want unauthorized", err)
	}
}

func TestMissingTokenStillAttemptsCall(t *testing.T) {
	fake := testutil.NewGateway(t)
	store := newStore(t, fake, "")

	if err := store.List(context.Background()); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if got := fake.LastAuthHeader(); got != "" {
		t.Errorf("auth header = %q, want none for anonymous session", got)
	}
}

func TestServerErrorMessageWinsOverFallback(t *testing.T) {
	fake := testutil.NewGateway(t)
	store := newStore(t, fake, "")

	fake.FailNext(http.StatusInternalServerError, "database unavailable")
	if err := store.List(context.Background()); err == nil {
		t.Fatal("List() should fail")
	}
	le := store.Snapshot().LastError
	if le == nil || le.Message != "database unavailable" {
		t.Errorf("lastError = %v, want the server's message", le)
	}
	if le.Kind != gateway.KindUnknown {
		t.Errorf("kind = %v, want unknown for a 500", le.Kind)
	}
}

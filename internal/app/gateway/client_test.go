// internal/app/gateway/client_test.go
package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/studyhub/internal/app/gateway"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/testutil"
)

func newClient(t *testing.T, fake *testutil.Gateway, token string) *gateway.Client {
	t.Helper()
	return gateway.New(fake.URL(), 5*time.Second, testutil.StaticToken(token), zap.NewNop())
}

func TestBearerHeaderIsAttached(t *testing.T) {
	fake := testutil.NewGateway(t)
	api := newClient(t, fake, "tok-123")

	if _, err := api.ListGroups(context.Background()); err != nil {
		t.Fatalf("ListGroups() error: %v", err)
	}
	if got := fake.LastAuthHeader(); got != "Bearer tok-123" {
		t.Errorf("auth header = %q, want bearer token", got)
	}
}

func TestAnonymousRequestOmitsHeader(t *testing.T) {
	fake := testutil.NewGateway(t)
	api := newClient(t, fake, "")

	if _, err := api.ListGroups(context.Background()); err != nil {
		t.Fatalf("ListGroups() error: %v", err)
	}
	if got := fake.LastAuthHeader(); got != "" {
		t.Errorf("auth header = %q, want none", got)
	}
}

func TestErrorKindMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		want    gateway.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, "Invalid credentials", gateway.KindUnauthorized},
		{"bad request", http.StatusBadRequest, "Group name is required", gateway.KindValidation},
		{"unprocessable", http.StatusUnprocessableEntity, "Email is malformed", gateway.KindValidation},
		{"not found", http.StatusNotFound, "Group not found", gateway.KindNotFound},
		{"server error", http.StatusInternalServerError, "boom", gateway.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewGateway(t)
			api := newClient(t, fake, "")

			fake.FailNext(tt.status, tt.message)
			_, err := api.ListGroups(context.Background())
			var ge *gateway.Error
			if !errors.As(err, &ge) {
				t.Fatalf("error = %v, want *gateway.Error", err)
			}
			if ge.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", ge.Kind, tt.want)
			}
			if ge.Message != tt.message {
				t.Errorf("Message = %q, want the server's message", ge.Message)
			}
		})
	}
}

func TestFallbackMessageWhenBodyHasNone(t *testing.T) {
	fake := testutil.NewGateway(t)
	api := newClient(t, fake, "")

	fake.FailNext(http.StatusInternalServerError, "")
	_, err := api.ListGroups(context.Background())
	var ge *gateway.Error
	if !errors.As(err, &ge) {
		t.Fatalf("error = %v, want *gateway.Error", err)
	}
	if ge.Message == "" {
		t.Error("Message should fall back to an operation-specific default")
	}
}

func TestNetworkFailureIsNetworkKind(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	api := gateway.New(srv.URL, time.Second, testutil.StaticToken(""), zap.NewNop())

	_, err := api.ListGroups(context.Background())
	var ge *gateway.Error
	if !errors.As(err, &ge) || ge.Kind != gateway.KindNetwork {
		t.Fatalf("error = %v, want network kind", err)
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()
	api := gateway.New(srv.URL, time.Second, testutil.StaticToken(""), zap.NewNop())

	_, err := api.ListGroups(context.Background())
	var ge *gateway.Error
	if !errors.As(err, &ge) || ge.Kind != gateway.KindUnknown {
		t.Fatalf("error = %v, want unknown kind for an undecodable body", err)
	}
}

func TestLoginReturnsTokenAndUser(t *testing.T) {
	fake := testutil.NewGateway(t)
	api := newClient(t, fake, "")

	reg, err := api.Register(context.Background(), "Ana", "ana@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if reg.Token == "" || reg.User.Email != "ana@example.com" {
		t.Fatalf("Register() = %+v, want token and user echoed", reg)
	}

	creds, err := api.Login(context.Background(), "ana@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if creds.Token == "" {
		t.Error("Login() should return a token")
	}
	if creds.User.Email != "ana@example.com" {
		t.Errorf("user = %+v, want the signed-in account", creds.User)
	}
}

func TestGetGroupFetchesOneRecord(t *testing.T) {
	fake := testutil.NewGateway(t)
	g := fake.SeedGroup(models.Group{Name: "Algebra", Description: "weekly"})
	api := newClient(t, fake, "")

	got, err := api.GetGroup(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("GetGroup() error: %v", err)
	}
	if got.ID != g.ID || got.Name != "Algebra" {
		t.Errorf("GetGroup() = %+v, want the seeded record", got)
	}
}

func TestGetGroupUnknownIDIsNotFound(t *testing.T) {
	fake := testutil.NewGateway(t)
	api := newClient(t, fake, "")

	_, err := api.GetGroup(context.Background(), "missing-id")
	var ge *gateway.Error
	if !errors.As(err, &ge) || ge.Kind != gateway.KindNotFound {
		t.Fatalf("GetGroup() error = %v, want not_found", err)
	}
	if ge.Message != "Group not found" {
		t.Errorf("Message = %q, want the server's message", ge.Message)
	}
}

func TestDeleteGroupReturnsServerMessage(t *testing.T) {
	fake := testutil.NewGateway(t)
	g := fake.SeedGroup(models.Group{Name: "Doomed"})
	api := newClient(t, fake, "")

	msg, err := api.DeleteGroup(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("DeleteGroup() error: %v", err)
	}
	if !strings.Contains(msg, "deleted") {
		t.Errorf("message = %q, want the server's confirmation text", msg)
	}
}

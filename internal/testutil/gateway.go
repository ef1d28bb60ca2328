// internal/testutil/gateway.go
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Gateway is an in-memory stand-in for the remote API, served over
// httptest. It implements the same routes and {message} error bodies
// the real gateway uses, so client tests exercise the full HTTP path.
type Gateway struct {
	t      *testing.T
	Server *httptest.Server

	mu           sync.Mutex
	groups       []models.Group
	rooms        []models.Room
	requireToken string
	lastAuth     string
	failStatus   int
	failMessage  string
}

// NewGateway starts a fake gateway and registers cleanup on t.
func NewGateway(t *testing.T) *Gateway {
	t.Helper()
	g := &Gateway{t: t}

	r := chi.NewRouter()
	r.Get("/groups", g.handleListGroups)
	r.Post("/groups", g.handleCreateGroup)
	r.Get("/groups/{id}", g.handleGetGroup)
	r.Put("/groups/{id}", g.handleUpdateGroup)
	r.Delete("/groups/{id}", g.handleDeleteGroup)
	r.Get("/rooms/{groupID}", g.handleListRooms)
	r.Post("/rooms", g.handleCreateRoom)
	r.Put("/rooms/{id}", g.handleUpdateRoom)
	r.Delete("/rooms/{id}", g.handleDeleteRoom)
	r.Post("/auth/login", g.handleLogin)
	r.Post("/auth/register", g.handleRegister)

	g.Server = httptest.NewServer(r)
	t.Cleanup(g.Server.Close)
	return g
}

// URL returns the fake gateway's origin for client configuration.
func (g *Gateway) URL() string { return g.Server.URL }

// RequireToken makes every route demand this bearer token.
func (g *Gateway) RequireToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requireToken = token
}

// FailNext forces the next request to fail with the given status and
// message body, then clears itself.
func (g *Gateway) FailNext(status int, message string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failStatus = status
	g.failMessage = message
}

// LastAuthHeader reports the Authorization header of the most recent
// request.
func (g *Gateway) LastAuthHeader() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastAuth
}

// SeedGroup inserts a group server-side, filling in ID and timestamps
// when absent, and returns the stored record.
func (g *Gateway) SeedGroup(group models.Group) models.Group {
	g.mu.Lock()
	defer g.mu.Unlock()
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
		group.UpdatedAt = group.CreatedAt
	}
	g.groups = append(g.groups, group)
	return group
}

// SeedRoom inserts a room server-side.
func (g *Gateway) SeedRoom(room models.Room) models.Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now().UTC()
		room.UpdatedAt = room.CreatedAt
	}
	g.rooms = append(g.rooms, room)
	return room
}

// Groups returns a copy of the server-side group collection.
func (g *Gateway) Groups() []models.Group {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]models.Group, len(g.groups))
	copy(out, g.groups)
	return out
}

// gate records auth, applies a forced failure if armed, and enforces
// the required token. Returns false when the request was answered.
func (g *Gateway) gate(w http.ResponseWriter, r *http.Request) bool {
	g.mu.Lock()
	g.lastAuth = r.Header.Get("Authorization")
	status, msg := g.failStatus, g.failMessage
	g.failStatus, g.failMessage = 0, ""
	required := g.requireToken
	g.mu.Unlock()

	if status != 0 {
		writeJSON(w, status, map[string]string{"message": msg})
		return false
	}
	if required != "" && r.Header.Get("Authorization") != "Bearer "+required {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type groupDraft struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	MemberEmails []string `json:"memberEmails"`
}

type roomDraft struct {
	Name    string `json:"name"`
	GroupID string `json:"group"`
}

func (g *Gateway) handleListGroups(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, r) {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.groups == nil {
		writeJSON(w, http.StatusOK, []models.Group{})
		return
	}
	writeJSON(w, http.StatusOK, g.groups)
}

func (g *Gateway) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, grp := range g.groups {
		if grp.ID == id {
			writeJSON(w, http.StatusOK, grp)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Group not found"})
}

func (g *Gateway) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, r) {
		return
	}
	var draft groupDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil || strings.TrimSpace(draft.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Group name is required"})
		return
	}
	now := time.Now().UTC()
	group := models.Group{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		Description: draft.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, email := range draft.MemberEmails {
		group.Members = append(group.Members, models.Member{
			ID:    uuid.NewString(),
			Name:  strings.Split(email, "@")[0],
			Email: email,
		})
	}
	g.mu.Lock()
	g.groups = append(g.groups, group)
	g.mu.Unlock()
	writeJSON(w, http.StatusCreated, group)
}

func (g *Gateway) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	var draft groupDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid payload"})
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.groups {
		if g.groups[i].ID == id {
			g.groups[i].Name = draft.Name
			g.groups[i].Description = draft.Description
			g.groups[i].UpdatedAt = time.Now().UTC()
			writeJSON(w, http.StatusOK, g.groups[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Group not found"})
}

func (g *Gateway) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.groups {
		if g.groups[i].ID == id {
			g.groups = append(g.groups[:i], g.groups[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Group deleted successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Group not found"})
}

func (g *Gateway) handleListRooms(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, r) {
		return
	}
	groupID := chi.URLParam(r, "groupID")
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []models.Room{}
	for _, rm := range g.rooms {
		if rm.GroupID == groupID {
			out = append(out, rm)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (g *Gateway) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, r) {
		return
	}
	var draft roomDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil || strings.TrimSpace(draft.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Room name is required"})
		return
	}
	now := time.Now().UTC()
	room := models.Room{
		ID:        uuid.NewString(),
		Name:      draft.Name,
		GroupID:   draft.GroupID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	g.mu.Lock()
	g.rooms = append(g.rooms, room)
	g.mu.Unlock()
	writeJSON(w, http.StatusCreated, room)
}

func (g *Gateway) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	var draft roomDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid payload"})
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.rooms {
		if g.rooms[i].ID == id {
			g.rooms[i].Name = draft.Name
			g.rooms[i].UpdatedAt = time.Now().UTC()
			writeJSON(w, http.StatusOK, g.rooms[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Room not found"})
}

func (g *Gateway) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.rooms {
		if g.rooms[i].ID == id {
			g.rooms = append(g.rooms[:i], g.rooms[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Room deleted successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Room not found"})
}

func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, r) {
		return
	}
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email and password are required"})
		return
	}
	user := models.User{ID: uuid.NewString(), Name: "Test User", Email: creds.Email}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": MintToken(user),
		"user":  user,
	})
}

func (g *Gateway) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, r) {
		return
	}
	var creds struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid registration"})
		return
	}
	user := models.User{ID: uuid.NewString(), Name: creds.Name, Email: creds.Email}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token": MintToken(user),
		"user":  user,
	})
}

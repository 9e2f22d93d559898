package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/dayglow/internal/backend"
	"github.com/julianstephens/dayglow/internal/events"
	"github.com/julianstephens/dayglow/internal/models"
	"github.com/julianstephens/dayglow/internal/retry"
	"github.com/julianstephens/dayglow/internal/storage/sqlite"
	"github.com/julianstephens/dayglow/internal/toast"
)

var testNow = time.Date(2024, 6, 10, 21, 0, 0, 0, time.Local)

func setupTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	bus := events.NewBus()
	out := &bytes.Buffer{}
	return &Context{
		Ctx:    context.Background(),
		Store:  store,
		Bus:    bus,
		Toasts: toast.NewDispatcher(bus),
		Out:    out,
		Now:    func() time.Time { return testNow },
	}, out
}

// fakeBackend serves the subset of the BaaS API the commands use.
type fakeBackend struct {
	mu       sync.Mutex
	offline  bool
	messages []models.CommunityMessage
	created  map[string][]map[string]any
	nextID   int
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	f := &fakeBackend{created: map[string][]map[string]any{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeBackend) setOffline(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = v
}

func (f *fakeBackend) createdCount(entity string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created[entity])
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.offline {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	user := models.User{ID: "u1", Email: "sam@example.com", DisplayName: "Sam"}
	enc := json.NewEncoder(w)

	switch {
	case r.URL.Path == "/api/health":
		w.WriteHeader(http.StatusOK)
	case r.URL.Path == "/api/apps/app1/auth/login":
		enc.Encode(map[string]any{"access_token": "tok-123", "user": user})
	case r.URL.Path == "/api/apps/app1/entities/User/me":
		enc.Encode(user)
	case strings.HasPrefix(r.URL.Path, "/api/apps/app1/entities/"):
		entity, id, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/api/apps/app1/entities/"), "/")
		switch r.Method {
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			record := map[string]any{}
			if err := json.Unmarshal(body, &record); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.nextID++
			record["id"] = fmt.Sprintf("%s-%d", entity, f.nextID)
			f.created[entity] = append(f.created[entity], record)
			enc.Encode(record)
		case http.MethodGet:
			if id != "" {
				if id == "missing" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				enc.Encode(map[string]any{"id": id})
				return
			}
			if entity == models.EntityCommunityMessage {
				enc.Encode(f.messages)
				return
			}
			enc.Encode([]any{})
		default:
			enc.Encode(map[string]any{"id": id})
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// withBackend points ctx at a fake backend. An empty token leaves it logged out.
func withBackend(t *testing.T, ctx *Context, token string) *fakeBackend {
	t.Helper()
	f, srv := newFakeBackend(t)
	fast := retry.Options{
		Retries: 1,
		Delay:   time.Millisecond,
		Sleep:   func(context.Context, time.Duration) error { return nil },
	}
	client, err := backend.New(backend.Config{BaseURL: srv.URL, AppID: "app1", Token: token, Retry: fast})
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	ctx.Backend = client
	return f
}

func rate(values ...int) []models.Rating {
	ratings := make([]models.Rating, len(values))
	for i, v := range values {
		ratings[i] = models.Rating{Category: models.Categories[i], Value: v}
	}
	return ratings
}

func saveCheckIn(t *testing.T, ctx *Context, date string, ratings []models.Rating) {
	t.Helper()
	if _, err := ctx.Checkins().Submit(ctx.context(), models.CheckIn{Date: date, Ratings: ratings}); err != nil {
		t.Fatalf("Submit(%s): %v", date, err)
	}
}

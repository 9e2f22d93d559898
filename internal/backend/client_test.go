package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julianstephens/dayglow/internal/models"
	"github.com/julianstephens/dayglow/internal/retry"
)

func fastRetry() retry.Options {
	return retry.Options{
		Retries: 2,
		Delay:   time.Millisecond,
		Backoff: true,
		Sleep:   func(context.Context, time.Duration) error { return nil },
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, AppID: "app1", Token: "tok", Retry: fastRetry()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(Config{BaseURL: "https://x"}); !errors.Is(err, ErrNoAppID) {
		t.Errorf("New without app id = %v, want ErrNoAppID", err)
	}
	if _, err := New(Config{BaseURL: "not a url", AppID: "a"}); err == nil {
		t.Error("New with bad url should fail")
	}
	c, err := New(Config{AppID: "a"})
	if err != nil {
		t.Fatalf("New with default url failed: %v", err)
	}
	if c.retry.Retries != 3 {
		t.Errorf("default retries = %d, want 3", c.retry.Retries)
	}
}

func TestListSendsHeadersAndQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/apps/app1/entities/CheckIn" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("X-App-Id"); got != "app1" {
			t.Errorf("X-App-Id = %q", got)
		}
		if r.URL.Query().Get("sort") != "-date" || r.URL.Query().Get("limit") != "2" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]models.RemoteCheckIn{{ID: "a", Date: "2024-06-01"}, {ID: "b", Date: "2024-05-31"}})
	})

	got, err := c.CheckIns().List(context.Background(), ListOptions{Sort: "-date", Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" {
		t.Errorf("List = %+v", got)
	}
}

func TestFilterEncodesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var where map[string]any
		if err := json.Unmarshal([]byte(r.URL.Query().Get("q")), &where); err != nil {
			t.Errorf("bad q: %v", err)
		}
		if where["recipient_id"] != "u1" {
			t.Errorf("filter = %v", where)
		}
		w.Write([]byte(`[]`))
	})

	got, err := c.Messages().Filter(context.Background(), map[string]any{"recipient_id": "u1"}, ListOptions{})
	if err != nil || len(got) != 0 {
		t.Errorf("Filter = %v, %v", got, err)
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	var methods []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			var in models.JournalEntry
			json.NewDecoder(r.Body).Decode(&in)
			in.ID = "j1"
			json.NewEncoder(w).Encode(in)
		case http.MethodPut:
			w.Write([]byte(`{"id":"j1","content":"edited"}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()
	set := c.JournalEntries()

	created, err := set.Create(ctx, models.JournalEntry{Content: "hello"})
	if err != nil || created.ID != "j1" || created.Content != "hello" {
		t.Fatalf("Create = %+v, %v", created, err)
	}
	updated, err := set.Update(ctx, "j1", map[string]any{"content": "edited"})
	if err != nil || updated.Content != "edited" {
		t.Fatalf("Update = %+v, %v", updated, err)
	}
	if err := set.Delete(ctx, "j1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	want := []string{
		"POST /api/apps/app1/entities/JournalEntry",
		"PUT /api/apps/app1/entities/JournalEntry/j1",
		"DELETE /api/apps/app1/entities/JournalEntry/j1",
	}
	if len(methods) != len(want) {
		t.Fatalf("requests = %v", methods)
	}
	for i := range want {
		if methods[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, methods[i], want[i])
		}
	}
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		code    int
		target  error
		network bool
	}{
		{http.StatusUnauthorized, ErrUnauthorized, false},
		{http.StatusNotFound, ErrNotFound, false},
		{http.StatusBadGateway, nil, true},
		{http.StatusServiceUnavailable, nil, true},
		{http.StatusGatewayTimeout, nil, true},
		{http.StatusInternalServerError, nil, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := &StatusError{Code: tt.code}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("errors.Is(%d, %v) = false", tt.code, tt.target)
			}
			if errors.Is(err, ErrUnauthorized) && tt.code != http.StatusUnauthorized {
				t.Errorf("%d should not match ErrUnauthorized", tt.code)
			}
			if got := retry.IsNetworkError(err); got != tt.network {
				t.Errorf("IsNetworkError(%d) = %v, want %v", tt.code, got, tt.network)
			}
		})
	}
}

func TestGatewayErrorsAreRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"id":"b1","code":"streak-3","name":"Three days"}`))
	})

	got, err := c.Badges().Get(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Code != "streak-3" || calls.Load() != 3 {
		t.Errorf("Get = %+v after %d calls", got, calls.Load())
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such record", http.StatusNotFound)
	})

	_, err := c.Badges().Get(context.Background(), "zz")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Body != "no such record" {
		t.Errorf("StatusError body = %+v", se)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestLoginStoresToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/apps/app1/auth/login":
			var req loginRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Email != "a@b.c" || req.Password != "pw" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"access_token":"new-token","user":{"id":"u1","email":"a@b.c"}}`))
		case "/api/apps/app1/entities/User/me":
			if r.Header.Get("Authorization") != "Bearer new-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"id":"u1","email":"a@b.c","full_name":"Alex"}`))
		}
	})
	ctx := context.Background()

	token, user, err := c.Auth().Login(ctx, "a@b.c", "pw")
	if err != nil || token != "new-token" || user.ID != "u1" {
		t.Fatalf("Login = %q, %+v, %v", token, user, err)
	}
	me, err := c.Auth().Me(ctx)
	if err != nil || me.FullName != "Alex" {
		t.Errorf("Me = %+v, %v", me, err)
	}
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping against a live server = %v", err)
	}

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	down, _ := New(Config{BaseURL: url, AppID: "a", Retry: fastRetry()})
	if err := down.Ping(context.Background()); !retry.IsNetworkError(err) {
		t.Errorf("Ping against a closed server = %v, want network error", err)
	}
}

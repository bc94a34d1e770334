// Package testutil provides shared helpers for exercising the cache
// and the API client against in-memory backends.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
)

// FakeAPI is an httptest-backed stand-in for the tracker API. Handlers
// are registered per method+path; unregistered routes return 404 with a
// JSON message body, matching the real server's error shape.
type FakeAPI struct {
	t      *testing.T
	mux    *http.ServeMux
	server *httptest.Server
}

// NewFakeAPI starts a fake tracker API server and returns it with a
// client pointed at it. The server shuts down when the test completes.
func NewFakeAPI(t *testing.T) (*FakeAPI, *api.Client) {
	t.Helper()

	f := &FakeAPI{t: t, mux: http.NewServeMux()}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := f.mux.Handler(r)
		if pattern == "" {
			WriteError(w, http.StatusNotFound, "route not found")
			return
		}
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)

	client := api.NewClient(f.server.URL, 5*time.Second)
	return f, client
}

// Handle registers a handler for a "METHOD /path" mux pattern.
func (f *FakeAPI) Handle(route string, handler http.HandlerFunc) {
	f.mux.HandleFunc(route, handler)
}

// HandleJSON registers a handler that responds with the given status
// and JSON-encoded body for "METHOD /path".
func (f *FakeAPI) HandleJSON(route string, status int, body interface{}) {
	f.Handle(route, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, body)
	})
}

// WriteJSON writes a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError writes the server's {"message": ...} error shape.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}

// DecodeBody unmarshals a request body into dst, failing the test on a
// malformed payload.
func DecodeBody(t *testing.T, r *http.Request, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		t.Fatalf("decoding request body: %v", err)
	}
}

// SampleUser returns a user fixture.
func SampleUser(id, name string) model.User {
	return model.User{
		ID:    id,
		Name:  name,
		Email: strings.ToLower(name) + "@example.com",
		Role:  model.RoleMember,
	}
}

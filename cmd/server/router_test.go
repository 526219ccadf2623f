package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasks-api/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func memoryConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "info", ShutdownTimeoutSeconds: 5},
		Store:  config.StoreConfig{Driver: config.StoreDriverMemory},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	app, err := newApplication(context.Background(), memoryConfig(), testLogger())
	require.NoError(t, err)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return srv
}

type taskBody struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	Deleted     bool    `json:"deleted"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRouter_TaskLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodPost, "/tasks",
		`{"title":"Implement login API","description":"Add JWT auth","priority":"HIGH"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
	created := decode[taskBody](t, resp)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "PENDING", created.Status)

	resp = call(t, srv, http.MethodPatch, "/tasks/1/status", `{"status":"IN_PROGRESS"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "IN_PROGRESS", decode[taskBody](t, resp).Status)

	resp = call(t, srv, http.MethodPatch, "/tasks/1/status", `{"status":"COMPLETED"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "COMPLETED", decode[taskBody](t, resp).Status)

	resp = call(t, srv, http.MethodPatch, "/tasks/1/status", `{"status":"PENDING"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errResp := decode[errorBody](t, resp)
	assert.Equal(t, "BAD_REQUEST", errResp.Error)
	assert.Equal(t, "Cannot transition from COMPLETED to PENDING", errResp.Message)

	resp = call(t, srv, http.MethodDelete, "/tasks/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[taskBody](t, resp).Deleted)

	resp = call(t, srv, http.MethodGet, "/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, srv, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]taskBody](t, resp))
}

func TestRouter_Errors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "unknown task",
			method:      http.MethodGet,
			path:        "/tasks/99",
			wantStatus:  http.StatusNotFound,
			wantMessage: "99",
		},
		{
			name:        "title too long",
			method:      http.MethodPost,
			path:        "/tasks",
			body:        `{"title":"` + strings.Repeat("x", 101) + `","priority":"LOW"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "100 characters",
		},
		{
			name:        "invalid id",
			method:      http.MethodGet,
			path:        "/tasks/abc",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid task id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, decode[errorBody](t, resp).Message, tt.wantMessage)
		})
	}
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

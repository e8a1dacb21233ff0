package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/loftkeeper/pkg/clients/loftapi"
)

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(append([]string{"--api-url", srv.URL, "--token", "tok"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTasksList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks", r.URL.Path)
		assert.Equal(t, "2024-01-05", r.URL.Query().Get("from"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"taskId":"t1","date":"2024-01-05","title":"Clean loft","priority":"MEDIUM","completed":true},
			{"taskId":"t1","date":"2024-01-06","title":"Clean loft","priority":"MEDIUM","completed":false}
		]`))
	}))
	defer srv.Close()

	out, err := run(t, srv, "tasks", "list", "--from", "2024-01-05", "--to", "2024-01-06")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-01-05  [x]")
	assert.Contains(t, out, "2024-01-06  [ ]")
}

func TestTasksComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","taskId":"t1","date":"2024-01-06"}`))
	}))
	defer srv.Close()

	out, err := run(t, srv, "tasks", "complete", "t1", "2024-01-06", "--notes", "done early")
	require.NoError(t, err)
	assert.Equal(t, "completed t1 on 2024-01-06\n", out)

	_, err = run(t, srv, "tasks", "complete", "t1")
	assert.Error(t, err)
}

func TestUnauthorizedSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := run(t, srv, "lofts")
	assert.True(t, errors.Is(err, loftapi.ErrUnauthorized))
}

// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetcher_DownloadsMissingArtifact(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("export") != "download" || r.URL.Query().Get("id") != "movies-id" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		fmt.Fprint(w, "movie_id,title\n1,Avatar\n")
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "movies.csv")
	f := NewFetcher(server.URL, 5*time.Second, nil, Artifact{Name: "movies", Path: path, FileID: "movies-id"})

	if err := f.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if err := f.Ensure(context.Background()); err != nil {
		t.Fatalf("second Ensure() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "movie_id,title\n1,Avatar\n" {
		t.Errorf("artifact contents = %q", data)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, "nested", ".*.part"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestFetcher_SkipsExistingArtifact(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "similarity.npy")
	if err := os.WriteFile(path, []byte("local"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	f := NewFetcher(server.URL, time.Second, nil, Artifact{Name: "similarity", Path: path, FileID: "sim-id"})
	if err := f.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("server calls = %d, want 0", got)
	}
}

func TestFetcher_ConfirmForm(t *testing.T) {
	t.Parallel()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/uc":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, `<html><body><form id="download-form" action="%s/download" method="get">`+
				`<input type="hidden" name="id" value="big-id">`+
				`<input type="hidden" name="confirm" value="t">`+
				`<input type="hidden" name="uuid" value="abc-123">`+
				`</form></body></html>`, server.URL)
		case "/download":
			q := r.URL.Query()
			if q.Get("confirm") != "t" || q.Get("uuid") != "abc-123" || q.Get("id") != "big-id" {
				http.Error(w, "missing confirmation", http.StatusForbidden)
				return
			}
			w.Header().Set("Content-Type", "application/octet-stream")
			fmt.Fprint(w, "payload")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "similarity.npy")
	f := NewFetcher(server.URL+"/uc", 5*time.Second, nil, Artifact{Name: "similarity", Path: path, FileID: "big-id"})
	if err := f.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "payload" {
		t.Errorf("artifact = %q, %v; want payload", data, err)
	}
}

func TestFetcher_ConfirmToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") == "XyZ_9" {
			w.Header().Set("Content-Type", "application/octet-stream")
			fmt.Fprint(w, "payload")
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<a href="/uc?export=download&amp;confirm=XyZ_9&amp;id=x">Download anyway</a>`)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "movies.csv")
	f := NewFetcher(server.URL+"/uc", 5*time.Second, nil, Artifact{Name: "movies", Path: path, FileID: "x"})
	if err := f.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
}

func TestFetcher_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		fileID  string
	}{
		{
			name:    "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			fileID:  "x",
		},
		{
			name: "html without token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, "<html>quota exceeded</html>")
			},
			fileID: "x",
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/octet-stream")
			},
			fileID: "x",
		},
		{
			name:    "no file id",
			handler: func(w http.ResponseWriter, _ *http.Request) {},
			fileID:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tt.handler)
			defer server.Close()

			path := filepath.Join(t.TempDir(), "movies.csv")
			f := NewFetcher(server.URL, time.Second, nil, Artifact{Name: "movies", Path: path, FileID: tt.fileID})
			if err := f.Ensure(context.Background()); err == nil {
				t.Fatal("Ensure() expected error, got nil")
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Errorf("artifact should not exist after failure, stat err = %v", err)
			}
		})
	}
}

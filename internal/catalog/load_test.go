// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/reelmatch/internal/config"
)

func writeArtifacts(t *testing.T, dir string, movies []Movie, m *Matrix) {
	t.Helper()

	var csvBuf, npyBuf bytes.Buffer
	if err := WriteMovies(&csvBuf, movies); err != nil {
		t.Fatalf("WriteMovies() error = %v", err)
	}
	if err := WriteNPY(&npyBuf, m); err != nil {
		t.Fatalf("WriteNPY() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "movies.csv"), csvBuf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "similarity.npy"), npyBuf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
}

func localConfig(dir string) config.CatalogConfig {
	return config.CatalogConfig{
		Dir:            dir,
		MoviesFile:     "movies.csv",
		SimilarityFile: "similarity.npy",
		SkipDownload:   true,
	}
}

func TestLoad_LocalArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeArtifacts(t, dir, testMovies("Avatar", "Titanic", "Spectre"), identity(3))

	c, err := Load(context.Background(), localConfig(dir), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if m, ok := c.Lookup("Spectre"); !ok || m.ID != 102 || m.RowIndex != 2 {
		t.Errorf("Lookup(Spectre) = %+v, %v", m, ok)
	}
}

func TestLoad_DataUnavailable(t *testing.T) {
	t.Parallel()

	t.Run("missing files", func(t *testing.T) {
		t.Parallel()
		_, err := Load(context.Background(), localConfig(t.TempDir()), nil)
		if !errors.Is(err, ErrDataUnavailable) {
			t.Errorf("Load() error = %v, want ErrDataUnavailable", err)
		}
	})

	t.Run("misaligned matrix", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeArtifacts(t, dir, testMovies("A", "B", "C"), identity(2))
		_, err := Load(context.Background(), localConfig(dir), nil)
		if !errors.Is(err, ErrDataUnavailable) {
			t.Errorf("Load() error = %v, want ErrDataUnavailable", err)
		}
	})

	t.Run("corrupt matrix", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeArtifacts(t, dir, testMovies("A"), identity(1))
		if err := os.WriteFile(filepath.Join(dir, "similarity.npy"), []byte("garbage!"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := Load(context.Background(), localConfig(dir), nil)
		if !errors.Is(err, ErrDataUnavailable) {
			t.Errorf("Load() error = %v, want ErrDataUnavailable", err)
		}
	})

	t.Run("download fails", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		cfg := localConfig(t.TempDir())
		cfg.SkipDownload = false
		cfg.DownloadURL = server.URL
		cfg.DownloadTimeout = time.Second
		cfg.MoviesFileID = "movies"
		cfg.SimilarityFileID = "similarity"

		_, err := Load(context.Background(), cfg, nil)
		if !errors.Is(err, ErrDataUnavailable) {
			t.Errorf("Load() error = %v, want ErrDataUnavailable", err)
		}
	})
}

func TestLoad_DownloadsThenDecodes(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeArtifacts(t, src, testMovies("Avatar", "Titanic"), identity(2))
	files := map[string]string{
		"movies-id": filepath.Join(src, "movies.csv"),
		"sim-id":    filepath.Join(src, "similarity.npy"),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, ok := files[r.URL.Query().Get("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		http.ServeFile(w, r, path)
	}))
	defer server.Close()

	cfg := localConfig(t.TempDir())
	cfg.SkipDownload = false
	cfg.DownloadURL = server.URL
	cfg.DownloadTimeout = 5 * time.Second
	cfg.MoviesFileID = "movies-id"
	cfg.SimilarityFileID = "sim-id"

	c, err := Load(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"strings"
	"testing"
)

func TestIndex_Picker(t *testing.T) {
	t.Parallel()

	rec := doGet(t, newTestRouter(t), "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	body := rec.Body.String()
	for _, title := range testTitles {
		if !strings.Contains(body, `<option value="`+title+`"`) {
			t.Errorf("page is missing option %q", title)
		}
	}
	if !strings.Contains(body, ">Recommend</button>") {
		t.Error("page is missing the Recommend button")
	}
	if strings.Contains(body, `class="card"`) {
		t.Error("picker without a title must not render cards")
	}
}

func TestIndex_Recommendations(t *testing.T) {
	t.Parallel()

	rec := doGet(t, newTestRouter(t), "/?title=Avatar", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	if got := strings.Count(body, `class="card"`); got != 5 {
		t.Errorf("rendered %d cards, want 5", got)
	}
	if !strings.Contains(body, `<option value="Avatar" selected>`) {
		t.Error("query title is not selected")
	}

	// Cards appear in rank order.
	last := -1
	for _, title := range []string{"Titanic", "The Avengers", "Inception", "Interstellar", "Skyfall"} {
		idx := strings.Index(body, "<p>"+title+"</p>")
		if idx < 0 {
			t.Fatalf("card %q missing", title)
		}
		if idx < last {
			t.Errorf("card %q out of rank order", title)
		}
		last = idx
	}

	if !strings.Contains(body, `src="https://image.tmdb.org/t/p/w500/101.jpg"`) {
		t.Error("Titanic poster image missing")
	}
	if strings.Count(body, "No poster") != 1 {
		t.Error("want exactly one placeholder, for Skyfall")
	}
}

func TestIndex_Errors(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantText string
	}{
		{"unknown title", "/?title=Nope", http.StatusNotFound, "is not in the catalog."},
		{"empty title", "/?title=", http.StatusBadRequest, "title is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := doGet(t, router, tt.target, nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantText) {
				t.Errorf("page is missing message %q", tt.wantText)
			}
			if strings.Contains(rec.Body.String(), `class="card"`) {
				t.Error("error page must not render cards")
			}
		})
	}
}

func TestIndex_CatalogNotLoaded(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewHandler(nil, nil, nil, "test"), nil).SetupChi()
	rec := doGet(t, router, "/", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "still loading") {
		t.Error("page is missing the loading message")
	}
}

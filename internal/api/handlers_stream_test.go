// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/reelmatch/internal/models"
)

func dialStream(t *testing.T, srv *httptest.Server, title, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/recommend?title=" + url.QueryEscape(title)
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	return dialer.Dial(wsURL, header)
}

func readFrame(t *testing.T, conn *websocket.Conn) models.StreamMessage {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var msg models.StreamMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to decode frame %s: %v", data, err)
	}
	return msg
}

func expectNormalClose(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("after final frame: err = %v, want normal close", err)
	}
}

func TestStreamRecommend_RankOrder(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	conn, resp, err := dialStream(t, srv, "Avatar", srv.URL)
	if err != nil {
		t.Fatalf("Dial() error = %v (response %v)", err, resp)
	}
	defer conn.Close()

	start := readFrame(t, conn)
	if start.Type != models.StreamStart || start.Query == nil || start.Query.Title != "Avatar" || start.Count != 5 {
		t.Fatalf("start frame = %+v", start)
	}

	want := []string{"Titanic", "The Avengers", "Inception", "Interstellar", "Skyfall"}
	for i, title := range want {
		msg := readFrame(t, conn)
		if msg.Type != models.StreamItem || msg.Item == nil {
			t.Fatalf("frame %d = %+v, want item", i, msg)
		}
		if msg.Item.Rank != i+1 || msg.Item.Title != title {
			t.Errorf("frame %d = rank %d %q, want rank %d %q", i, msg.Item.Rank, msg.Item.Title, i+1, title)
		}
		if title == "Skyfall" && msg.Item.PosterURL != nil {
			t.Errorf("Skyfall poster = %q, want null", *msg.Item.PosterURL)
		}
	}

	done := readFrame(t, conn)
	if done.Type != models.StreamDone || done.Count != 5 {
		t.Errorf("done frame = %+v", done)
	}
	expectNormalClose(t, conn)
}

func TestStreamRecommend_UnknownTitle(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	conn, _, err := dialStream(t, srv, "Nope", srv.URL)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	msg := readFrame(t, conn)
	if msg.Type != models.StreamError || msg.Error == nil || msg.Error.Code != models.ErrCodeUnknownTitle {
		t.Fatalf("frame = %+v, want UNKNOWN_TITLE error", msg)
	}
	expectNormalClose(t, conn)
}

func TestStreamRecommend_RejectedBeforeUpgrade(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	tests := []struct {
		name     string
		title    string
		origin   string
		wantCode int
	}{
		{"missing origin", "Avatar", "", http.StatusForbidden},
		{"foreign origin", "Avatar", "https://evil.example.com", http.StatusForbidden},
		{"empty title", "", srv.URL, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conn, resp, err := dialStream(t, srv, tt.title, tt.origin)
			if err == nil {
				conn.Close()
				t.Fatal("Dial() succeeded, want handshake failure")
			}
			if resp == nil || resp.StatusCode != tt.wantCode {
				t.Errorf("handshake response = %v, want status %d", resp, tt.wantCode)
			}
		})
	}
}

func TestStreamRecommend_ConfiguredOrigin(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	conn, _, err := dialStream(t, srv, "Spectre", "https://app.example.com")
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if msg := readFrame(t, conn); msg.Type != models.StreamStart {
		t.Errorf("first frame = %+v, want start", msg)
	}
}

func TestSameHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		origin string
		host   string
		want   bool
	}{
		{"http://localhost:8501", "localhost:8501", true},
		{"https://Movies.Example.com", "movies.example.com", true},
		{"http://localhost:8502", "localhost:8501", false},
		{"null", "localhost:8501", false},
		{"::bad", "localhost", false},
	}
	for _, tt := range tests {
		if got := sameHost(tt.origin, tt.host); got != tt.want {
			t.Errorf("sameHost(%q, %q) = %v, want %v", tt.origin, tt.host, got, tt.want)
		}
	}
}

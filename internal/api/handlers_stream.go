// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/models"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

const (
	streamWriteWait      = 10 * time.Second
	streamMaxMessageSize = 4 * 1024
)

// StreamRecommend handles GET /api/v1/ws/recommend?title=X.
//
// Validation and catalog availability are checked before the upgrade and
// answered as plain JSON errors. After the upgrade the server sends:
//
//	{"type":"start","query":{...},"count":5}
//	{"type":"item","item":{...}}      one per recommendation, in rank order
//	{"type":"done","count":5}
//
// or a single {"type":"error",...} frame, then closes the connection. Client
// messages are ignored; closing the connection cancels outstanding poster
// lookups.
func (h *Handler) StreamRecommend(w http.ResponseWriter, r *http.Request) {
	engine := h.requireEngine(w, r)
	if engine == nil {
		return
	}

	req := parseRecommendRequest(r)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	metrics.WSConnectionsActive.Inc()
	defer metrics.WSConnectionsActive.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s := &recommendStream{conn: conn}
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		defer cancel()
		s.drain()
	}()

	s.run(ctx, engine, req.Title)

	_ = conn.Close() //nolint:errcheck // best-effort cleanup
	<-readDone
}

// recommendStream writes the frames of one streamed recommendation. Only the
// handler goroutine writes; drain only reads.
type recommendStream struct {
	conn *websocket.Conn
}

func (s *recommendStream) run(ctx context.Context, engine *recommend.Engine, title string) {
	logger := logging.Ctx(ctx)

	result, err := engine.Rank(title)
	if err != nil {
		if recommend.IsUnknownTitle(err) {
			s.fail(unknownTitleError(title))
			return
		}
		logger.Warn().Err(err).Msg("Recommendation stream failed")
		s.fail(&models.APIError{Code: models.ErrCodeInternal, Message: "Failed to generate recommendations"})
		return
	}

	query := toMovie(result.Query)
	if err := s.write(models.StreamMessage{Type: models.StreamStart, Query: &query, Count: len(result.Items)}); err != nil {
		return
	}

	err = engine.Resolve(ctx, result, func(item recommend.Item) error {
		rec := toRecommendation(item)
		return s.write(models.StreamMessage{Type: models.StreamItem, Item: &rec})
	})
	switch {
	case err == nil:
		if s.write(models.StreamMessage{Type: models.StreamDone, Count: len(result.Items)}) == nil {
			s.close(websocket.CloseNormalClosure, "")
		}
	case errors.Is(err, context.Canceled):
		logger.Debug().Msg("Recommendation stream closed by client")
	default:
		logger.Warn().Err(err).Msg("Recommendation stream failed")
		s.fail(&models.APIError{Code: models.ErrCodeInternal, Message: "Failed to generate recommendations"})
	}
}

func (s *recommendStream) fail(apiErr *models.APIError) {
	if s.write(models.StreamMessage{Type: models.StreamError, Error: apiErr}) == nil {
		s.close(websocket.CloseNormalClosure, apiErr.Code)
	}
}

func (s *recommendStream) write(msg models.StreamMessage) error {
	msg.Timestamp = time.Now().UTC()
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *recommendStream) close(code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(streamWriteWait)) //nolint:errcheck // peer may be gone
}

// drain reads and discards client frames until the connection fails or
// closes, which is how a client disconnect is noticed.
func (s *recommendStream) drain() {
	s.conn.SetReadLimit(streamMaxMessageSize)
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Debug().Err(err).Msg("Unexpected WebSocket close")
			}
			return
		}
	}
}

// sameHost reports whether origin names host.
func sameHost(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, host)
}

// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageData is the view model of the index page.
type pageData struct {
	Titles          []string
	Selected        string
	Message         string
	Recommendations []recommend.Item
}

// Index handles GET /. Without a title it renders the picker; with
// ?title=X it also renders one card per recommendation. Unknown or invalid
// titles are reported inline.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		h.renderPage(w, r, http.StatusServiceUnavailable, pageData{
			Message: "The movie catalog is still loading. Try again shortly.",
		})
		return
	}

	data := pageData{Titles: h.engine.Catalog().Titles()}

	req := parseRecommendRequest(r)
	if !r.URL.Query().Has("title") {
		h.renderPage(w, r, http.StatusOK, data)
		return
	}

	data.Selected = req.Title
	if apiErr := validateRequest(&req); apiErr != nil {
		data.Message = apiErr.Message
		h.renderPage(w, r, http.StatusBadRequest, data)
		return
	}

	result, err := h.engine.Recommend(r.Context(), req.Title)
	switch {
	case err == nil:
		data.Recommendations = result.Items
		h.renderPage(w, r, http.StatusOK, data)
	case recommend.IsUnknownTitle(err):
		data.Message = "\"" + req.Title + "\" is not in the catalog."
		h.renderPage(w, r, http.StatusNotFound, data)
	default:
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Recommendation page failed")
		data.Message = "Recommendations are unavailable right now."
		h.renderPage(w, r, http.StatusServiceUnavailable, data)
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write page")
	}
}

// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/logging"
)

// maxInterstitialBytes bounds how much of an HTML confirm page is read.
const maxInterstitialBytes = 1 << 20

var (
	confirmParamRe = regexp.MustCompile(`confirm=([0-9A-Za-z_\-]+)`)
	hiddenInputRe  = regexp.MustCompile(`<input[^>]+type="hidden"[^>]+name="([^"]+)"[^>]+value="([^"]*)"`)
	formActionRe   = regexp.MustCompile(`<form[^>]+action="([^"]+)"`)
)

// Artifact is one remote file mirrored to a local path.
type Artifact struct {
	Name   string
	Path   string
	FileID string
}

// Fetcher mirrors artifacts from a file-hosting service. Each artifact is
// downloaded only when its local path does not exist, and Ensure does its
// work at most once per Fetcher.
type Fetcher struct {
	client      *http.Client
	downloadURL string
	artifacts   []Artifact
	logger      zerolog.Logger

	once sync.Once
	err  error
}

// NewFetcher creates a Fetcher. client may be nil.
func NewFetcher(downloadURL string, timeout time.Duration, client *http.Client, artifacts ...Artifact) *Fetcher {
	if client == nil {
		jar, _ := cookiejar.New(nil) //nolint:errcheck // New never fails with nil options
		client = &http.Client{Timeout: timeout, Jar: jar}
	}
	return &Fetcher{
		client:      client,
		downloadURL: downloadURL,
		artifacts:   artifacts,
		logger:      logging.WithComponent("catalog-fetch"),
	}
}

// Ensure downloads every missing artifact. Later calls return the result of
// the first one.
func (f *Fetcher) Ensure(ctx context.Context) error {
	f.once.Do(func() {
		for _, a := range f.artifacts {
			if err := f.ensure(ctx, a); err != nil {
				f.err = err
				return
			}
		}
	})
	return f.err
}

func (f *Fetcher) ensure(ctx context.Context, a Artifact) error {
	if info, err := os.Stat(a.Path); err == nil && !info.IsDir() {
		f.logger.Debug().Str("artifact", a.Name).Str("path", a.Path).Msg("Artifact present, skipping download")
		return nil
	}
	if a.FileID == "" {
		return fmt.Errorf("%s missing at %s and no remote file id configured", a.Name, a.Path)
	}

	start := time.Now()
	f.logger.Info().Str("artifact", a.Name).Str("file_id", a.FileID).Msg("Downloading artifact")

	n, err := f.download(ctx, a)
	if err != nil {
		return fmt.Errorf("download %s: %w", a.Name, err)
	}

	f.logger.Info().
		Str("artifact", a.Name).
		Str("path", a.Path).
		Int64("bytes", n).
		Dur("duration", time.Since(start)).
		Msg("Artifact downloaded")
	return nil
}

func (f *Fetcher) download(ctx context.Context, a Artifact) (int64, error) {
	u, err := url.Parse(f.downloadURL)
	if err != nil {
		return 0, fmt.Errorf("parse download url: %w", err)
	}
	q := u.Query()
	q.Set("export", "download")
	q.Set("id", a.FileID)
	u.RawQuery = q.Encode()

	resp, err := f.get(ctx, u.String())
	if err != nil {
		return 0, err
	}

	// Large files are served behind an HTML "can't scan for viruses" page
	// that needs one confirmed follow-up request.
	if isHTML(resp) {
		next, err := confirmURL(resp, u)
		_ = resp.Body.Close() //nolint:errcheck // body fully consumed or abandoned
		if err != nil {
			return 0, err
		}
		if resp, err = f.get(ctx, next); err != nil {
			return 0, err
		}
		if isHTML(resp) {
			_ = resp.Body.Close() //nolint:errcheck // abandoned response
			return 0, errors.New("file host returned an HTML page instead of the file")
		}
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // read-only body

	return writeAtomic(a.Path, resp.Body)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close() //nolint:errcheck // error response is discarded
		return nil, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}
	return resp, nil
}

func isHTML(resp *http.Response) bool {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return err == nil && mediaType == "text/html"
}

// confirmURL builds the follow-up URL from a confirm interstitial. It
// understands both the form-based page and the older confirm= link or
// download_warning cookie.
func confirmURL(resp *http.Response, original *url.URL) (string, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxInterstitialBytes))
	if err != nil {
		return "", fmt.Errorf("read confirm page: %w", err)
	}
	page := string(body)

	if m := formActionRe.FindStringSubmatch(page); m != nil {
		action, err := original.Parse(html.UnescapeString(m[1]))
		if err != nil {
			return "", fmt.Errorf("parse confirm form action: %w", err)
		}
		q := action.Query()
		for _, in := range hiddenInputRe.FindAllStringSubmatch(page, -1) {
			q.Set(html.UnescapeString(in[1]), html.UnescapeString(in[2]))
		}
		action.RawQuery = q.Encode()
		return action.String(), nil
	}

	token := ""
	if m := confirmParamRe.FindStringSubmatch(page); m != nil {
		token = m[1]
	}
	for _, c := range resp.Cookies() {
		if token == "" && strings.HasPrefix(c.Name, "download_warning") {
			token = c.Value
		}
	}
	if token == "" {
		return "", errors.New("file host returned an HTML page without a confirm token")
	}

	next := *original
	q := next.Query()
	q.Set("confirm", token)
	next.RawQuery = q.Encode()
	return next.String(), nil
}

// writeAtomic streams r into a temp file next to path and renames it into
// place, so a failed download never leaves a partial artifact behind.
func writeAtomic(path string, r io.Reader) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, fmt.Errorf("create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after a successful rename

	n, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close() //nolint:errcheck // write already failed
		return 0, fmt.Errorf("write artifact: %w", err)
	}
	if n == 0 {
		_ = tmp.Close() //nolint:errcheck // nothing written
		return 0, errors.New("file host returned an empty body")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync already failed
		return 0, fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("install artifact: %w", err)
	}
	return n, nil
}

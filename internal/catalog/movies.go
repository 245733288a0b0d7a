// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Accepted header names for the id and title columns.
var (
	idColumns    = []string{"movie_id", "movieid", "id"}
	titleColumns = []string{"title"}
)

// ReadMovies parses a movie table CSV. The first record is a header that
// must name an id column and a title column; other columns are ignored.
// Data row order defines RowIndex.
func ReadMovies(r io.Reader) ([]Movie, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("movie table is empty")
		}
		return nil, fmt.Errorf("read movie table header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	idCol, ok := findColumn(idx, idColumns)
	if !ok {
		return nil, fmt.Errorf("movie table header %v has no id column", header)
	}
	titleCol, ok := findColumn(idx, titleColumns)
	if !ok {
		return nil, fmt.Errorf("movie table header %v has no title column", header)
	}

	var movies []Movie
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read movie table row %d: %w", len(movies)+1, err)
		}
		if idCol >= len(rec) || titleCol >= len(rec) {
			return nil, fmt.Errorf("movie table row %d has %d fields", len(movies)+1, len(rec))
		}

		id, err := strconv.ParseInt(strings.TrimSpace(rec[idCol]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("movie table row %d: invalid id %q", len(movies)+1, rec[idCol])
		}
		movies = append(movies, Movie{
			ID:       id,
			Title:    rec[titleCol],
			RowIndex: len(movies),
		})
	}

	if len(movies) == 0 {
		return nil, fmt.Errorf("movie table has no rows")
	}
	return movies, nil
}

// WriteMovies writes movies as a movie_id,title CSV in row order.
func WriteMovies(w io.Writer, movies []Movie) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	if err := cw.Write([]string{"movie_id", "title"}); err != nil {
		return err
	}
	for _, m := range movies {
		if err := cw.Write([]string{strconv.FormatInt(m.ID, 10), m.Title}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

func findColumn(idx map[string]int, names []string) (int, bool) {
	for _, name := range names {
		if i, ok := idx[name]; ok {
			return i, true
		}
	}
	return 0, false
}

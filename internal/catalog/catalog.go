// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package catalog holds the movie table and its aligned similarity matrix.
//
// A Catalog is immutable once built and safe for any number of concurrent
// readers. Row i of the matrix always describes the movie whose RowIndex is i;
// New refuses inputs that break this alignment.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDataUnavailable is returned when the movie table or similarity matrix
// cannot be fetched, read or decoded.
var ErrDataUnavailable = errors.New("catalog data unavailable")

// Movie is one row of the movie table.
type Movie struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	RowIndex int    `json:"row_index"`
}

// Catalog is the loaded movie table plus similarity matrix.
type Catalog struct {
	movies  []Movie
	matrix  *Matrix
	byTitle map[string]int
	byFold  map[string]int
	byID    map[int64]int
}

// New validates alignment and indexes titles. When titles repeat, the
// lowest row index wins.
func New(movies []Movie, matrix *Matrix) (*Catalog, error) {
	if len(movies) == 0 {
		return nil, fmt.Errorf("%w: movie table is empty", ErrDataUnavailable)
	}
	if matrix == nil {
		return nil, fmt.Errorf("%w: similarity matrix is missing", ErrDataUnavailable)
	}
	if matrix.Len() != len(movies) {
		return nil, fmt.Errorf("%w: similarity matrix is %dx%d but movie table has %d rows",
			ErrDataUnavailable, matrix.Len(), matrix.Len(), len(movies))
	}

	c := &Catalog{
		movies:  make([]Movie, len(movies)),
		matrix:  matrix,
		byTitle: make(map[string]int, len(movies)),
		byFold:  make(map[string]int, len(movies)),
		byID:    make(map[int64]int, len(movies)),
	}
	for i, m := range movies {
		if m.RowIndex != i {
			return nil, fmt.Errorf("%w: movie %d has row index %d at position %d",
				ErrDataUnavailable, m.ID, m.RowIndex, i)
		}
		c.movies[i] = m
		if _, dup := c.byTitle[m.Title]; !dup {
			c.byTitle[m.Title] = i
		}
		if key := foldTitle(m.Title); key != "" {
			if _, dup := c.byFold[key]; !dup {
				c.byFold[key] = i
			}
		}
		if _, dup := c.byID[m.ID]; !dup {
			c.byID[m.ID] = i
		}
	}
	return c, nil
}

// Len returns the number of movies.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// Movies returns a copy of the movie table in row order.
func (c *Catalog) Movies() []Movie {
	out := make([]Movie, len(c.movies))
	copy(out, c.movies)
	return out
}

// Titles returns every title in row order.
func (c *Catalog) Titles() []string {
	out := make([]string, len(c.movies))
	for i, m := range c.movies {
		out[i] = m.Title
	}
	return out
}

// ByRow returns the movie at row index i.
func (c *Catalog) ByRow(i int) (Movie, bool) {
	if i < 0 || i >= len(c.movies) {
		return Movie{}, false
	}
	return c.movies[i], true
}

// ByID returns the first movie with the given external id.
func (c *Catalog) ByID(id int64) (Movie, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Movie{}, false
	}
	return c.movies[i], true
}

// Lookup finds a movie by exact title.
func (c *Catalog) Lookup(title string) (Movie, bool) {
	i, ok := c.byTitle[title]
	if !ok {
		return Movie{}, false
	}
	return c.movies[i], true
}

// LookupFold finds a movie by trimmed, case-insensitive title.
func (c *Catalog) LookupFold(title string) (Movie, bool) {
	i, ok := c.byFold[foldTitle(title)]
	if !ok {
		return Movie{}, false
	}
	return c.movies[i], true
}

// Row returns the similarity scores of row i. The slice aliases catalog
// memory and must not be modified.
func (c *Catalog) Row(i int) []float64 {
	return c.matrix.Row(i)
}

func foldTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

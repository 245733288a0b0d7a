// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"errors"
	"testing"
)

func testMovies(titles ...string) []Movie {
	movies := make([]Movie, len(titles))
	for i, title := range titles {
		movies[i] = Movie{ID: int64(100 + i), Title: title, RowIndex: i}
	}
	return movies
}

func identity(n int) *Matrix {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		rows[i][i] = 1
	}
	m, err := MatrixFromRows(rows)
	if err != nil {
		panic(err)
	}
	return m
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		movies []Movie
		matrix *Matrix
	}{
		{"empty table", nil, identity(1)},
		{"nil matrix", testMovies("A"), nil},
		{"dimension mismatch", testMovies("A", "B", "C"), identity(2)},
		{"misaligned row index", []Movie{{ID: 1, Title: "A", RowIndex: 1}, {ID: 2, Title: "B", RowIndex: 0}}, identity(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.movies, tt.matrix)
			if !errors.Is(err, ErrDataUnavailable) {
				t.Errorf("New() error = %v, want ErrDataUnavailable", err)
			}
		})
	}
}

func TestCatalog_Lookup(t *testing.T) {
	t.Parallel()

	c, err := New(testMovies("Avatar", "Titanic", "Avatar", "The  Dark Knight"), identity(4))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m, ok := c.Lookup("Avatar")
	if !ok {
		t.Fatal("Lookup(Avatar) not found")
	}
	if m.RowIndex != 0 {
		t.Errorf("Lookup(Avatar).RowIndex = %d, want 0 (first match wins)", m.RowIndex)
	}

	if _, ok := c.Lookup("avatar"); ok {
		t.Error("Lookup should be case-sensitive")
	}
	if _, ok := c.Lookup("Avatar "); ok {
		t.Error("Lookup should not trim")
	}

	m, ok = c.LookupFold("  the dark KNIGHT ")
	if !ok || m.RowIndex != 3 {
		t.Errorf("LookupFold() = %+v, %v, want row 3", m, ok)
	}
}

func TestCatalog_Accessors(t *testing.T) {
	t.Parallel()

	c, err := New(testMovies("A", "B", "C"), identity(3))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	titles := c.Titles()
	if len(titles) != 3 || titles[2] != "C" {
		t.Errorf("Titles() = %v", titles)
	}
	if m, ok := c.ByRow(1); !ok || m.Title != "B" {
		t.Errorf("ByRow(1) = %+v, %v", m, ok)
	}
	if _, ok := c.ByRow(3); ok {
		t.Error("ByRow(3) should be out of range")
	}
	if _, ok := c.ByRow(-1); ok {
		t.Error("ByRow(-1) should be out of range")
	}
	if m, ok := c.ByID(102); !ok || m.Title != "C" {
		t.Errorf("ByID(102) = %+v, %v", m, ok)
	}
	if row := c.Row(2); len(row) != 3 || row[2] != 1 || row[0] != 0 {
		t.Errorf("Row(2) = %v", row)
	}

	movies := c.Movies()
	movies[0].Title = "changed"
	if m, _ := c.ByRow(0); m.Title != "A" {
		t.Error("Movies() must return a copy")
	}
}

func TestMatrixFromRows(t *testing.T) {
	t.Parallel()

	m, err := MatrixFromRows([][]float64{{1, 0.5}, {0.5, 1}})
	if err != nil {
		t.Fatalf("MatrixFromRows() error = %v", err)
	}
	if m.Len() != 2 || m.At(0, 1) != 0.5 || m.At(1, 1) != 1 {
		t.Errorf("unexpected matrix contents: %v", m.data)
	}

	if _, err := MatrixFromRows([][]float64{{1, 0}, {0}}); err == nil {
		t.Error("expected error for ragged rows")
	}
	if _, err := MatrixFromRows(nil); err == nil {
		t.Error("expected error for empty matrix")
	}
}

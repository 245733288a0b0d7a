// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import "fmt"

// Matrix is a square similarity matrix stored row-major.
type Matrix struct {
	n    int
	data []float64
}

// NewMatrix wraps row-major data of an n x n matrix.
func NewMatrix(n int, data []float64) (*Matrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("matrix dimension must be positive, got %d", n)
	}
	if len(data) != n*n {
		return nil, fmt.Errorf("matrix data has %d values, want %d for %dx%d", len(data), n*n, n, n)
	}
	return &Matrix{n: n, data: data}, nil
}

// MatrixFromRows copies a slice of equal-length rows into a Matrix.
func MatrixFromRows(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), n)
		}
		data = append(data, row...)
	}
	return NewMatrix(n, data)
}

// Len returns the matrix dimension.
func (m *Matrix) Len() int {
	return m.n
}

// Row returns row i without copying.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n : (i+1)*m.n]
}

// At returns the score at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

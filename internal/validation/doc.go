// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package validation validates API request structs with
// go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use. Fields are reported by their
// `query` tag so error messages name the parameter the client sent.
//
// Custom tags:
//   - printable: string holds no control characters
//
// Example:
//
//	type RecommendRequest struct {
//	    Title string `query:"title" validate:"required,max=500,printable"`
//	}
//
//	if errs := validation.Struct(&req); errs != nil {
//	    // 400 VALIDATION_ERROR with errs.Error() and errs.Details()
//	}
package validation

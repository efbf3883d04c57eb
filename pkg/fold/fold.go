// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package fold normalizes text for case- and accent-insensitive matching.
//
// # Usage
//
// Catalog search folds both the query and every title/label once, so that
// "amelie" matches "Amélie" and "STRASSE" matches "Straße".
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// String returns the folded form of s.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Applies Unicode case folding and recomposes to NFC.
func String(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// Contains reports whether needle occurs in haystack after folding both.
// An empty needle always matches.
func Contains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(String(haystack), String(needle))
}

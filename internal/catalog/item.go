// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog owns the movie catalog: loading it, indexing it, and serving it.

# Architecture

  - Entities: Item (indexed, read-only) and Row (raw ingestion record).
  - Index: Immutable per load; answers label membership and overlap queries.
  - Holder: Publishes the current Index with a single atomic pointer swap.
  - Chain: Ordered providers (database, files, URL, embedded seed); first valid wins.

An Index is never mutated after [Build]. A reload builds a fresh Index and
swaps it in, so readers always see one consistent snapshot.
*/
package catalog

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// # Domain Entities

// Item is one movie as served to clients and ranked by the recommender.
type Item struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Labels       []string `json:"labels"`
	Year         int      `json:"year,omitempty"`
	QualityScore float64  `json:"quality_score"`
}

// Row is a raw catalog record as read from a provider, before validation.
//
// Labels holds the upstream pipe-delimited genre string ("Action|Adventure").
type Row struct {
	ID           int64   `yaml:"id"`
	Title        string  `yaml:"title"`
	Labels       string  `yaml:"labels"`
	QualityScore float64 `yaml:"quality_score"`
}

// PrimaryLabel returns the first-listed label, or "" for an unlabelled item.
//
// Similarity broadening keys on this label, so its position is significant.
func (item Item) PrimaryLabel() string {
	if len(item.Labels) == 0 {
		return ""
	}
	return item.Labels[0]
}

// HasLabel reports whether the item carries the exact label.
func (item Item) HasLabel(label string) bool {
	return slices.Contains(item.Labels, label)
}

// SameLabels reports whether both items carry exactly the same label set.
func (item Item) SameLabels(other Item) bool {
	if len(item.Labels) != len(other.Labels) {
		return false
	}
	for _, label := range item.Labels {
		if !other.HasLabel(label) {
			return false
		}
	}
	return true
}

// # Parsing

// noLabels is the MovieLens marker for an unlabelled movie.
const noLabels = "(no genres listed)"

// ParseLabels splits a pipe-delimited label string.
//
// Blank entries are dropped and duplicates collapse onto their first
// occurrence, so the first-listed label stays first.
func ParseLabels(raw string) []string {
	labels := make([]string, 0, 4)
	for _, part := range strings.Split(raw, "|") {
		label := strings.TrimSpace(part)
		if label == "" || label == noLabels || slices.Contains(labels, label) {
			continue
		}
		labels = append(labels, label)
	}
	return labels
}

// trailingYear matches a release year in parentheses at the end of a title.
var trailingYear = regexp.MustCompile(`\((\d{4})\)\s*$`)

// ParseYear extracts the release year from a title such as "Heat (1995)".
// It returns 0 when the title carries no year.
func ParseYear(title string) int {
	match := trailingYear.FindStringSubmatch(title)
	if match == nil {
		return 0
	}
	year, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return year
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// # File Provider

// FileProvider reads the catalog from the first existing CSV file in a list of paths.
//
// The list mirrors how the service is deployed: a movies.csv next to the
// binary, then one in the parent directory.
type FileProvider struct {
	paths []string
}

// NewFileProvider returns a provider over the given candidate paths.
func NewFileProvider(paths ...string) *FileProvider {
	return &FileProvider{paths: paths}
}

// Name implements [Provider].
func (provider *FileProvider) Name() string {
	return "file"
}

// Load implements [Provider].
func (provider *FileProvider) Load(context.Context) ([]Row, error) {
	for _, path := range provider.paths {
		if strings.TrimSpace(path) == "" {
			continue
		}

		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		rows, err := ParseCSV(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return rows, nil
	}

	return nil, fmt.Errorf("%w: none of %v exists", ErrSourceUnavailable, provider.paths)
}

// # CSV Format

// Accepted header names, compared case-insensitively.
var (
	idColumns     = []string{"movieid", "movie_id", "id"}
	titleColumns  = []string{"title"}
	labelColumns  = []string{"genres", "labels"}
	scoreColumns  = []string{"score", "quality_score", "rating"}
	requiredNames = "MovieID, Title, Genres"
)

// ParseCSV decodes a header-driven catalog CSV (MovieID,Title,Genres[,Score]).
//
// Files that are not valid UTF-8 are decoded as Latin-1, which is how the
// MovieLens exports are encoded. A missing or empty score column yields 0.
func ParseCSV(reader io.Reader) ([]Row, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(raw) {
		raw, err = charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decode latin-1: %w", err)
		}
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	csvReader := csv.NewReader(bytes.NewReader(raw))
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idColumn, titleColumn, labelColumn := columnOf(header, idColumns), columnOf(header, titleColumns), columnOf(header, labelColumns)
	scoreColumn := columnOf(header, scoreColumns)
	if idColumn < 0 || titleColumn < 0 || labelColumn < 0 {
		return nil, fmt.Errorf("header %v must contain %s", header, requiredNames)
	}

	var rows []Row
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := csvReader.FieldPos(0)
		row, err := rowFromRecord(record, idColumn, titleColumn, labelColumn, scoreColumn)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func rowFromRecord(record []string, idColumn, titleColumn, labelColumn, scoreColumn int) (Row, error) {
	field := func(column int) string {
		if column < 0 || column >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[column])
	}

	id, err := strconv.ParseInt(field(idColumn), 10, 64)
	if err != nil {
		return Row{}, fmt.Errorf("invalid id %q", field(idColumn))
	}

	row := Row{ID: id, Title: field(titleColumn), Labels: field(labelColumn)}

	if raw := field(scoreColumn); raw != "" {
		row.QualityScore, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return Row{}, fmt.Errorf("invalid score %q", raw)
		}
	}

	return row, nil
}

func columnOf(header []string, names []string) int {
	for position, column := range header {
		normalized := strings.ToLower(strings.TrimSpace(column))
		for _, name := range names {
			if normalized == name {
				return position
			}
		}
	}
	return -1
}

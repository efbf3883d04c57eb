// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package badger opens the embedded BadgerDB used by the badger interaction store.
//
// Badger's internal logging is routed through slog so its compaction and
// recovery messages share the JSON log stream of the server.
package badger

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Open opens (or creates) a BadgerDB directory.
func Open(path string, logger *slog.Logger) (*badger.DB, error) {
	options := badger.DefaultOptions(path).
		WithLogger(&slogAdapter{logger: logger.With(slog.String("component", "badger"))}).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("badger: failed to open %s: %w", path, err)
	}

	logger.Info("badger_opened", slog.String("path", path))
	return db, nil
}

// OpenInMemory opens a volatile database, used by tests and ephemeral deployments.
func OpenInMemory() (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("badger: failed to open in-memory db: %w", err)
	}
	return db, nil
}

// slogAdapter implements [badger.Logger].
type slogAdapter struct {
	logger *slog.Logger
}

func (adapter *slogAdapter) Errorf(format string, args ...interface{}) {
	adapter.logger.Error(message(format, args))
}

func (adapter *slogAdapter) Warningf(format string, args ...interface{}) {
	adapter.logger.Warn(message(format, args))
}

func (adapter *slogAdapter) Infof(format string, args ...interface{}) {
	adapter.logger.Debug(message(format, args))
}

func (adapter *slogAdapter) Debugf(format string, args ...interface{}) {
	adapter.logger.Debug(message(format, args))
}

func message(format string, args []interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package badger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestOpen_PersistsAcrossReopen writes a key, reopens the directory and reads it back.
*/
func TestOpen_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	db, err := Open(dir, logger)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("k"), []byte("v"))
	}))
	require.NoError(t, db.Close())

	db, err = Open(dir, logger)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("k"))
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		assert.Equal(t, "v", string(value))
		return err
	}))
}

/*
TestSlogAdapter routes badger warnings to slog.
*/
func TestSlogAdapter(t *testing.T) {
	var buffer bytes.Buffer
	adapter := &slogAdapter{logger: slog.New(slog.NewTextHandler(&buffer, nil))}

	adapter.Warningf("value log %d truncated\n", 3)

	assert.Contains(t, buffer.String(), "value log 3 truncated")
	assert.Contains(t, buffer.String(), "level=WARN")
}

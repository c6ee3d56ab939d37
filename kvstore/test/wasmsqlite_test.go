//go:build sqlite_ncruces

package test

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/nbd-wtf/nostr-signer/kvstore/sqlite"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreNcruces(t *testing.T) {
	db, err := sqlx.Connect("sqlite3", filepath.Join(t.TempDir(), "signer.db"))
	require.NoError(t, err, "failed to open sqlite db")
	db.SetMaxOpenConns(1)

	store, err := sqlite.NewStore(db)
	require.NoError(t, err, "failed to setup sqlite store")
	defer store.Close()

	RunTestWith(t, store)
}

package sqlite

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/nbd-wtf/nostr-signer/kvstore"
)

var _ kvstore.KVStore = (*Store)(nil)

// Store keeps keys in a single table of any sqlite database reachable through
// database/sql. The caller picks the driver (modernc, mattn, ncruces, libsql)
// and hands over the connection.
type Store struct {
	db *sqlx.DB

	get *sqlx.Stmt
	set *sqlx.Stmt
	del *sqlx.Stmt
}

func NewStore(db *sqlx.DB) (*Store, error) {
	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS nostr_signer_kv (key text PRIMARY KEY, value blob NOT NULL)`,
	); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	for _, prep := range []struct {
		target **sqlx.Stmt
		query  string
	}{
		{&s.get, `SELECT value FROM nostr_signer_kv WHERE key = ?`},
		{&s.set, `INSERT INTO nostr_signer_kv (key, value) VALUES (?, ?)
		          ON CONFLICT (key) DO UPDATE SET value = excluded.value`},
		{&s.del, `DELETE FROM nostr_signer_kv WHERE key = ?`},
	} {
		stmt, err := db.Preparex(prep.query)
		if err != nil {
			s.closeStatements()
			return nil, err
		}
		*prep.target = stmt
	}

	return s, nil
}

func (s *Store) Get(key []byte) ([]byte, error) {
	var value []byte
	if err := s.get.Get(&value, string(key)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return value, nil
}

func (s *Store) Set(key []byte, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.set.Exec(string(key), value)
	return err
}

func (s *Store) Delete(key []byte) error {
	_, err := s.del.Exec(string(key))
	return err
}

func (s *Store) Close() error {
	s.closeStatements()
	return s.db.Close()
}

func (s *Store) closeStatements() {
	for _, stmt := range []*sqlx.Stmt{s.get, s.set, s.del} {
		if stmt != nil {
			stmt.Close()
		}
	}
}

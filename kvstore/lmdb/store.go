package lmdb

import (
	"os"

	"github.com/PowerDNS/lmdb-go/lmdb"
	"github.com/nbd-wtf/nostr-signer/kvstore"
)

var _ kvstore.KVStore = (*Store)(nil)

// Store keeps keys in a single "signer" database of an LMDB environment.
type Store struct {
	env *lmdb.Env
	dbi lmdb.DBI
}

// NewStore opens (or creates) the environment in the path directory.
func NewStore(path string) (*Store, error) {
	// create directory if it doesn't exist
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}

	env, err := lmdb.NewEnv()
	if err != nil {
		return nil, err
	}

	// this only ever holds a handful of short strings
	env.SetMaxDBs(1)
	env.SetMapSize(1 << 24)

	if err := env.Open(path, lmdb.NoTLS, 0o644); err != nil {
		env.Close()
		return nil, err
	}

	store := &Store{env: env}

	if err := env.Update(func(txn *lmdb.Txn) error {
		dbi, err := txn.OpenDBI("signer", lmdb.Create)
		if err != nil {
			return err
		}
		store.dbi = dbi
		return nil
	}); err != nil {
		env.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.env.View(func(txn *lmdb.Txn) error {
		v, err := txn.Get(s.dbi, key)
		if lmdb.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		// make a copy since v is only valid during the transaction
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) Set(key []byte, value []byte) error {
	return s.env.Update(func(txn *lmdb.Txn) error {
		return txn.Put(s.dbi, key, value, 0)
	})
}

func (s *Store) Delete(key []byte) error {
	return s.env.Update(func(txn *lmdb.Txn) error {
		err := txn.Del(s.dbi, key, nil)
		if lmdb.IsNotFound(err) {
			return nil
		}
		return err
	})
}

func (s *Store) Close() error {
	s.env.Close()
	return nil
}

package memory

import (
	"bytes"

	"github.com/nbd-wtf/nostr-signer/kvstore"
	"github.com/puzpuzpuz/xsync/v3"
)

var _ kvstore.KVStore = (*Store)(nil)

// Store keeps everything in process memory, so nothing survives a restart.
type Store struct {
	data *xsync.MapOf[string, []byte]
}

func NewStore() *Store {
	return &Store{
		data: xsync.NewMapOf[string, []byte](),
	}
}

func (s *Store) Get(key []byte) ([]byte, error) {
	if val, ok := s.data.Load(string(key)); ok {
		// return a copy to prevent modification of stored data
		return bytes.Clone(val), nil
	}
	return nil, nil
}

func (s *Store) Set(key []byte, value []byte) error {
	s.data.Store(string(key), bytes.Clone(value))
	return nil
}

func (s *Store) Delete(key []byte) error {
	s.data.Delete(string(key))
	return nil
}

func (s *Store) Close() error {
	s.data.Clear()
	return nil
}

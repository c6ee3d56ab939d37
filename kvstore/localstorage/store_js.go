//go:build js && wasm

package localstorage

import (
	"fmt"
	"syscall/js"

	"github.com/nbd-wtf/nostr-signer/kvstore"
)

var _ kvstore.KVStore = (*Store)(nil)

type Store struct {
	storage js.Value
	prefix  string
}

// NewStore wraps window.localStorage. Every key is namespaced with prefix,
// which may be empty to share keys with an existing web app.
func NewStore(prefix string) (*Store, error) {
	storage := js.Global().Get("localStorage")
	if storage.IsUndefined() || storage.IsNull() {
		return nil, fmt.Errorf("localStorage is not available")
	}
	return &Store{storage: storage, prefix: prefix}, nil
}

func (s *Store) Get(key []byte) (value []byte, err error) {
	defer catch(&err)

	v := s.storage.Call("getItem", s.prefix+string(key))
	if v.IsNull() || v.IsUndefined() {
		return nil, nil
	}
	return []byte(v.String()), nil
}

func (s *Store) Set(key []byte, value []byte) (err error) {
	defer catch(&err)

	s.storage.Call("setItem", s.prefix+string(key), string(value))
	return nil
}

func (s *Store) Delete(key []byte) (err error) {
	defer catch(&err)

	s.storage.Call("removeItem", s.prefix+string(key))
	return nil
}

func (s *Store) Close() error { return nil }

// setItem throws when the quota is exceeded or storage is disabled
func catch(err *error) {
	if r := recover(); r != nil {
		if jsErr, ok := r.(js.Error); ok {
			*err = fmt.Errorf("localStorage: %s", jsErr.Error())
		} else {
			*err = fmt.Errorf("localStorage: %v", r)
		}
	}
}

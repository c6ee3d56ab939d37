package test

import (
	"testing"

	"github.com/nbd-wtf/nostr-signer/kvstore"
	"github.com/stretchr/testify/require"
)

func RunTestWith(t *testing.T, store kvstore.KVStore) {
	const bunker = "bunker://3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d?relay=wss%3A%2F%2Frelay.nsec.app"
	const clientKey = "5fd85b6d5ba3ff4b7d1bb8a2ac7b76dc13c3e1b2cfa3f4e4b52a7c4ad70bbb31"

	login := []byte("login")
	secret := []byte("nip46clientSecret")

	// nothing there yet
	v, err := store.Get(login)
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, store.Set(login, []byte("NIP-07")))
	v, err = store.Get(login)
	require.NoError(t, err)
	require.Equal(t, "NIP-07", string(v))

	// a new login replaces the previous one
	require.NoError(t, store.Set(login, []byte(bunker)))
	v, err = store.Get(login)
	require.NoError(t, err)
	require.Equal(t, bunker, string(v))

	// keys don't interfere with each other
	require.NoError(t, store.Set(secret, []byte(clientKey)))
	v, err = store.Get(secret)
	require.NoError(t, err)
	require.Equal(t, clientKey, string(v))
	v, err = store.Get(login)
	require.NoError(t, err)
	require.Equal(t, bunker, string(v))

	// returned slices are copies
	v[0] = 'X'
	v, err = store.Get(login)
	require.NoError(t, err)
	require.Equal(t, bunker, string(v))

	require.NoError(t, store.Delete(login))
	v, err = store.Get(login)
	require.NoError(t, err)
	require.Nil(t, v)

	// deleting twice is fine
	require.NoError(t, store.Delete(login))

	v, err = store.Get(secret)
	require.NoError(t, err)
	require.Equal(t, clientKey, string(v))
}

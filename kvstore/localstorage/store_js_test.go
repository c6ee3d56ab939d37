//go:build js && wasm

package localstorage

import (
	"syscall/js"
	"testing"

	"github.com/nbd-wtf/nostr-signer/kvstore/test"
	"github.com/stretchr/testify/require"
)

// installStorage replaces globalThis.localStorage with the object src
// evaluates to, for the duration of the test.
func installStorage(t *testing.T, src string) js.Value {
	global := js.Global()
	previous := global.Get("Object").Call("getOwnPropertyDescriptor", global, "localStorage")

	storage := global.Get("Function").New("return (" + src + ")").Invoke()
	global.Get("Object").Call("defineProperty", global, "localStorage", map[string]any{
		"value":        storage,
		"configurable": true,
		"writable":     true,
	})

	t.Cleanup(func() {
		if previous.IsUndefined() {
			global.Call("eval", "delete globalThis.localStorage")
		} else {
			global.Get("Object").Call("defineProperty", global, "localStorage", previous)
		}
	})
	return storage
}

const mapStorage = `(() => {
	const m = new Map()
	return {
		getItem: (k) => m.has(k) ? m.get(k) : null,
		setItem: (k, v) => { m.set(k, String(v)) },
		removeItem: (k) => { m.delete(k) },
	}
})()`

func TestLocalStorage(t *testing.T) {
	installStorage(t, mapStorage)

	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	test.RunTestWith(t, store)
}

func TestLocalStoragePrefix(t *testing.T) {
	storage := installStorage(t, mapStorage)

	store, err := NewStore("myapp:")
	require.NoError(t, err)

	require.NoError(t, store.Set([]byte("login"), []byte("NIP-07")))
	require.Equal(t, "NIP-07", storage.Call("getItem", "myapp:login").String())
	require.True(t, storage.Call("getItem", "login").IsNull())

	// what the web app stored without a prefix is not visible
	storage.Call("setItem", "nip46clientSecret", "aa")
	v, err := store.Get([]byte("nip46clientSecret"))
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestLocalStorageThrows(t *testing.T) {
	installStorage(t, `{
		getItem: () => null,
		setItem: () => { throw new Error("quota exceeded") },
		removeItem: () => {},
	}`)

	store, err := NewStore("")
	require.NoError(t, err)

	err = store.Set([]byte("login"), []byte("NIP-07"))
	require.ErrorContains(t, err, "quota exceeded")
}

func TestLocalStorageUnavailable(t *testing.T) {
	installStorage(t, "undefined")

	_, err := NewStore("")
	require.Error(t, err)
}

//go:build !(js && wasm)

package nip07

import (
	"context"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	signer "github.com/nbd-wtf/nostr-signer"
	"github.com/nbd-wtf/nostr-signer/kvstore/memory"
	"github.com/stretchr/testify/require"
)

func TestUnavailableOutsideBrowser(t *testing.T) {
	h, err := New()
	require.ErrorIs(t, err, ErrUnavailable)
	require.Nil(t, h)
}

func TestStubHostDegradesRelays(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Set([]byte("login"), []byte("NIP-07")))

	s := signer.New(store, &signer.Options{Host: &Host{}})

	_, err := s.GetPublicKey(ctx)
	require.ErrorIs(t, err, ErrUnavailable)

	evt := nostr.Event{Kind: 1, Content: "hi"}
	require.ErrorIs(t, s.SignEvent(ctx, &evt), ErrUnavailable)

	relays, err := s.GetRelays(ctx)
	require.NoError(t, err)
	require.Empty(t, relays)

	_, err = s.Encrypt(ctx, "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d", "hello")
	require.ErrorIs(t, err, signer.ErrHostNoEncryption)
}

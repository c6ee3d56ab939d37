package signer

import (
	"context"
	"errors"

	"github.com/nbd-wtf/go-nostr"
)

// Host is a signing capability provided by the environment the program runs
// in, like a NIP-07 browser extension (see the nip07 package). Any of these
// calls may block for as long as the user takes to approve them.
type Host interface {
	GetPublicKey(ctx context.Context) (string, error)

	// SignEvent returns the event as signed by the host. It is trusted as-is.
	SignEvent(ctx context.Context, evt nostr.Event) (nostr.Event, error)

	GetRelays(ctx context.Context) (RelayMap, error)

	// NIP04 returns nil if the host can't encrypt.
	NIP04() HostCipher
}

type HostCipher interface {
	Encrypt(ctx context.Context, pubkey string, plaintext string) (string, error)
	Decrypt(ctx context.Context, pubkey string, ciphertext string) (string, error)
}

var _ Host = ManualHost{}

var errNotProvided = errors.New("not provided by this host")

// ManualHost is a Host that delegates all operations to user-provided functions.
// It can be used when an app has some custom way of reaching the user's signer,
// or to fake one. A nil function makes the corresponding call fail, and the
// host only reports NIP-04 support when both ManualEncrypt and ManualDecrypt are set.
type ManualHost struct {
	// ManualGetPublicKey is called when the public key is needed
	ManualGetPublicKey func(context.Context) (string, error)

	// ManualSignEvent is called when an event needs to be signed
	ManualSignEvent func(context.Context, nostr.Event) (nostr.Event, error)

	// ManualGetRelays is called when the relay list is needed
	ManualGetRelays func(context.Context) (RelayMap, error)

	// ManualEncrypt is called when a message needs to be encrypted
	ManualEncrypt func(ctx context.Context, pubkey string, plaintext string) (string, error)

	// ManualDecrypt is called when a message needs to be decrypted
	ManualDecrypt func(ctx context.Context, pubkey string, ciphertext string) (string, error)
}

func (mh ManualHost) GetPublicKey(ctx context.Context) (string, error) {
	if mh.ManualGetPublicKey == nil {
		return "", errNotProvided
	}
	return mh.ManualGetPublicKey(ctx)
}

func (mh ManualHost) SignEvent(ctx context.Context, evt nostr.Event) (nostr.Event, error) {
	if mh.ManualSignEvent == nil {
		return evt, errNotProvided
	}
	return mh.ManualSignEvent(ctx, evt)
}

func (mh ManualHost) GetRelays(ctx context.Context) (RelayMap, error) {
	if mh.ManualGetRelays == nil {
		return nil, errNotProvided
	}
	return mh.ManualGetRelays(ctx)
}

func (mh ManualHost) NIP04() HostCipher {
	if mh.ManualEncrypt == nil || mh.ManualDecrypt == nil {
		return nil
	}
	return manualCipher{mh}
}

type manualCipher struct{ mh ManualHost }

func (mc manualCipher) Encrypt(ctx context.Context, pubkey string, plaintext string) (string, error) {
	return mc.mh.ManualEncrypt(ctx, pubkey, plaintext)
}

func (mc manualCipher) Decrypt(ctx context.Context, pubkey string, ciphertext string) (string, error) {
	return mc.mh.ManualDecrypt(ctx, pubkey, ciphertext)
}

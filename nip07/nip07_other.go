//go:build !(js && wasm)

package nip07

import (
	"context"

	"github.com/nbd-wtf/go-nostr"
	signer "github.com/nbd-wtf/nostr-signer"
)

type Host struct{}

func New() (*Host, error) { return nil, ErrUnavailable }

func (*Host) GetPublicKey(context.Context) (string, error) { return "", ErrUnavailable }

func (*Host) SignEvent(_ context.Context, evt nostr.Event) (nostr.Event, error) {
	return evt, ErrUnavailable
}

func (*Host) GetRelays(context.Context) (signer.RelayMap, error) { return nil, ErrUnavailable }

func (*Host) NIP04() signer.HostCipher { return nil }

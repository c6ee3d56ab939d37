package signer

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip05"
)

// BunkerPointer is everything needed to reach a NIP-46 remote signer.
type BunkerPointer struct {
	PublicKey string
	Relays    []string
	Secret    string
}

// URL renders the pointer back as a bunker:// URL.
func (bp BunkerPointer) URL() string {
	qs := url.Values{}
	for _, r := range bp.Relays {
		qs.Add("relay", r)
	}
	if bp.Secret != "" {
		qs.Set("secret", bp.Secret)
	}
	return "bunker://" + bp.PublicKey + "?" + qs.Encode()
}

// ParseBunkerInput accepts either a bunker:// URL or a NIP-05 identifier whose
// nostr.json advertises NIP-46 relays. Every failure wraps ErrInvalidDescriptor.
func ParseBunkerInput(ctx context.Context, input string) (BunkerPointer, error) {
	input = strings.TrimSpace(input)

	if strings.HasPrefix(input, "bunker://") {
		return parseBunkerURL(input)
	}
	if nip05.IsValidIdentifier(input) {
		return queryBunkerIdentifier(ctx, input)
	}

	return BunkerPointer{}, fmt.Errorf("%w: '%s' is neither a bunker url nor a nip05 identifier",
		ErrInvalidDescriptor, input)
}

func parseBunkerURL(input string) (BunkerPointer, error) {
	parsed, err := url.Parse(input)
	if err != nil {
		return BunkerPointer{}, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}

	target := parsed.Host
	if !nostr.IsValidPublicKey(target) {
		return BunkerPointer{}, fmt.Errorf("%w: '%s' is not a valid public key hex", ErrInvalidDescriptor, target)
	}

	qs := parsed.Query()
	relays := make([]string, 0, len(qs["relay"]))
	for _, r := range qs["relay"] {
		if nostr.IsValidRelayURL(r) {
			relays = append(relays, r)
		}
	}
	if len(relays) == 0 {
		return BunkerPointer{}, fmt.Errorf("%w: no relays", ErrInvalidDescriptor)
	}

	return BunkerPointer{
		PublicKey: target,
		Relays:    relays,
		Secret:    qs.Get("secret"),
	}, nil
}

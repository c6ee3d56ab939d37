// Package nip07 exposes the window.nostr object injected by browser
// extensions as a signer.Host. It only does something when compiled to
// js/wasm; everywhere else New returns ErrUnavailable.
package nip07

import (
	"errors"

	signer "github.com/nbd-wtf/nostr-signer"
)

var ErrUnavailable = errors.New("window.nostr is not available")

var _ signer.Host = (*Host)(nil)

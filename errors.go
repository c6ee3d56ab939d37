package signer

import (
	"errors"
	"fmt"
)

// ErrLogic is wrapped by every error caused by calling an operation without a
// login that can serve it. Retrying won't help: the caller has to log in first
// (or establish the bunker connection).
var ErrLogic = errors.New("logic error")

var (
	ErrNoLogin          = fmt.Errorf("%w: not logged in", ErrLogic)
	ErrUnknownLogin     = fmt.Errorf("%w: unrecognized login", ErrLogic)
	ErrViewOnly         = fmt.Errorf("%w: logged in with a public key only", ErrLogic)
	ErrNoSession        = fmt.Errorf("%w: bunker connection not established", ErrLogic)
	ErrHostUnavailable  = fmt.Errorf("%w: no NIP-07 host available", ErrLogic)
	ErrHostNoEncryption = fmt.Errorf("%w: NIP-07 host doesn't support nip04", ErrLogic)
)

// ErrInvalidDescriptor is returned when a bunker URL or NIP-05 name can't be
// turned into a pubkey plus relays.
var ErrInvalidDescriptor = errors.New("invalid bunker descriptor")

package signer

import (
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr/nip19"
)

const (
	loginKey        = "login"
	clientSecretKey = "nip46clientSecret"

	hostLoginToken = "NIP-07"
)

// Login is what gets persisted under the "login" key: it says which backend
// is active and, for keys, carries the credential itself.
// The only implementations are HostLogin, BunkerLogin, KeyLogin and ViewOnlyLogin.
type Login interface {
	fmt.Stringer
	isLogin()
}

var (
	_ Login = HostLogin{}
	_ Login = BunkerLogin{}
	_ Login = KeyLogin{}
	_ Login = ViewOnlyLogin{}
)

// HostLogin delegates everything to the NIP-07 capability of the host.
type HostLogin struct{}

func (HostLogin) String() string { return hostLoginToken }
func (HostLogin) isLogin()       {}

// BunkerLogin talks to a NIP-46 remote signer.
type BunkerLogin struct {
	URL string
}

func NewBunkerLogin(bp BunkerPointer) BunkerLogin { return BunkerLogin{URL: bp.URL()} }

func (bl BunkerLogin) String() string { return bl.URL }
func (BunkerLogin) isLogin()          {}

// KeyLogin holds the secret key nsec-encoded. It is decoded on every use.
type KeyLogin struct {
	Nsec string
}

func NewKeyLogin(secretKeyHex string) (KeyLogin, error) {
	nsec, err := nip19.EncodePrivateKey(secretKeyHex)
	if err != nil {
		return KeyLogin{}, fmt.Errorf("invalid secret key: %w", err)
	}
	return KeyLogin{Nsec: nsec}, nil
}

func (kl KeyLogin) String() string { return kl.Nsec }
func (KeyLogin) isLogin()          {}

func (kl KeyLogin) secretKey() (string, error) {
	prefix, value, err := nip19.Decode(kl.Nsec)
	if err != nil {
		return "", fmt.Errorf("%w: stored nsec is malformed: %w", ErrLogic, err)
	}
	sk, ok := value.(string)
	if prefix != "nsec" || !ok {
		return "", fmt.Errorf("%w: stored key has prefix '%s'", ErrLogic, prefix)
	}
	return sk, nil
}

// ViewOnlyLogin knows only a public key. It can't be used for anything in
// this package, but it is a valid thing for an app to have persisted.
type ViewOnlyLogin struct {
	Npub string
}

func NewViewOnlyLogin(publicKeyHex string) (ViewOnlyLogin, error) {
	npub, err := nip19.EncodePublicKey(publicKeyHex)
	if err != nil {
		return ViewOnlyLogin{}, fmt.Errorf("invalid public key: %w", err)
	}
	return ViewOnlyLogin{Npub: npub}, nil
}

func (vl ViewOnlyLogin) String() string { return vl.Npub }
func (ViewOnlyLogin) isLogin()          {}

// ParseLogin decodes a persisted login marker. Only the shape is checked here.
func ParseLogin(raw string) (Login, error) {
	switch {
	case raw == "":
		return nil, ErrNoLogin
	case raw == hostLoginToken:
		return HostLogin{}, nil
	case strings.HasPrefix(raw, "bunker://"):
		return BunkerLogin{URL: raw}, nil
	case strings.HasPrefix(raw, "nsec"):
		return KeyLogin{Nsec: raw}, nil
	case strings.HasPrefix(raw, "npub"):
		return ViewOnlyLogin{Npub: raw}, nil
	default:
		return nil, ErrUnknownLogin
	}
}

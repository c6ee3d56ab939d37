package signer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/nostr-signer/kvstore"
)

var _ nostr.Signer = (*Signer)(nil)

// Options contains configuration for a new Signer. All fields are optional.
type Options struct {
	// Host is the NIP-07 capability used when the login is "NIP-07"
	Host Host

	// Dialer opens bunker connections. Defaults to NIP46Dialer over Pool.
	Dialer Dialer

	// Pool is used by the default Dialer, a new one is created if nil
	Pool *nostr.SimplePool

	// OnAuth is called by the default Dialer when a bunker sends an auth_url
	OnAuth func(url string)
}

// Signer gives one way of getting the user's public key, signing events and
// encrypting messages regardless of how they logged in. The login is read
// from the store on every call, so it can be changed at any time.
type Signer struct {
	store kvstore.KVStore
	host  Host
	dial  Dialer

	establishing sync.Mutex
	session      atomic.Pointer[BunkerSession]
}

func New(store kvstore.KVStore, opts *Options) *Signer {
	if opts == nil {
		opts = &Options{}
	}

	s := &Signer{
		store: store,
		host:  opts.Host,
		dial:  opts.Dialer,
	}

	if s.dial == nil {
		pool := opts.Pool
		if pool == nil {
			pool = nostr.NewSimplePool(context.Background())
		}
		s.dial = NIP46Dialer(pool, opts.OnAuth)
	}

	return s
}

// Session returns the established bunker session, or nil.
func (s *Signer) Session() *BunkerSession { return s.session.Load() }

// CurrentLogin decodes whatever login is stored.
func (s *Signer) CurrentLogin() (Login, error) {
	raw, err := s.store.Get([]byte(loginKey))
	if err != nil {
		return nil, fmt.Errorf("failed to read login: %w", err)
	}
	return ParseLogin(string(raw))
}

// SetLogin replaces the stored login.
func (s *Signer) SetLogin(login Login) error {
	if login == nil {
		return ErrNoLogin
	}
	return s.store.Set([]byte(loginKey), []byte(login.String()))
}

// Logout forgets the stored login and closes the bunker session, if any.
// The bunker client secret is kept so the bunker recognizes us next time.
func (s *Signer) Logout() error {
	if previous := s.session.Swap(nil); previous != nil {
		previous.close()
	}
	return s.store.Delete([]byte(loginKey))
}

// activeLogin is the login if it can be used for signing, nothing else is accepted.
func (s *Signer) activeLogin() (Login, error) {
	login, err := s.CurrentLogin()
	if err != nil {
		return nil, err
	}
	if _, ok := login.(ViewOnlyLogin); ok {
		return nil, ErrViewOnly
	}
	return login, nil
}

func (s *Signer) requireHost() (Host, error) {
	if s.host == nil {
		return nil, ErrHostUnavailable
	}
	return s.host, nil
}

func (s *Signer) requireSession() (*BunkerSession, error) {
	session := s.session.Load()
	if session == nil {
		return nil, ErrNoSession
	}
	return session, nil
}

// GetPublicKey returns the hex public key of the logged in user. With a
// bunker this is the key cached when the connection was established.
func (s *Signer) GetPublicKey(ctx context.Context) (string, error) {
	login, err := s.activeLogin()
	if err != nil {
		return "", err
	}

	switch l := login.(type) {
	case HostLogin:
		host, err := s.requireHost()
		if err != nil {
			return "", err
		}
		return host.GetPublicKey(ctx)
	case BunkerLogin:
		session, err := s.requireSession()
		if err != nil {
			return "", err
		}
		return session.PublicKey(), nil
	case KeyLogin:
		sk, err := l.secretKey()
		if err != nil {
			return "", err
		}
		return nostr.GetPublicKey(sk)
	}

	return "", ErrUnknownLogin
}

// SignEvent fills in the event's ID, PubKey and Sig fields.
func (s *Signer) SignEvent(ctx context.Context, evt *nostr.Event) error {
	login, err := s.activeLogin()
	if err != nil {
		return err
	}

	switch l := login.(type) {
	case HostLogin:
		host, err := s.requireHost()
		if err != nil {
			return err
		}
		signed, err := host.SignEvent(ctx, *evt)
		if err != nil {
			return err
		}
		*evt = signed
		return nil
	case BunkerLogin:
		session, err := s.requireSession()
		if err != nil {
			return err
		}
		return session.SignEvent(ctx, evt)
	case KeyLogin:
		sk, err := l.secretKey()
		if err != nil {
			return err
		}
		return signLocally(sk, evt)
	}

	return ErrUnknownLogin
}

// GetRelays returns the relays the signer advertises. With a key login there
// is nothing to return. NIP-07 failures are only logged: the relay list is
// a hint, so callers get an empty map instead.
func (s *Signer) GetRelays(ctx context.Context) (RelayMap, error) {
	login, err := s.activeLogin()
	if err != nil {
		return nil, err
	}

	switch login.(type) {
	case HostLogin:
		host, err := s.requireHost()
		if err != nil {
			InfoLogger.Printf("[NIP-07 getRelays()] %s", err)
			return RelayMap{}, nil
		}
		relays, err := host.GetRelays(ctx)
		if err != nil {
			InfoLogger.Printf("[NIP-07 getRelays()] %s", err)
			return RelayMap{}, nil
		}
		if relays == nil {
			relays = RelayMap{}
		}
		return relays, nil
	case BunkerLogin:
		session, err := s.requireSession()
		if err != nil {
			return nil, err
		}
		return session.GetRelays(ctx)
	case KeyLogin:
		return RelayMap{}, nil
	}

	return nil, ErrUnknownLogin
}

// Encrypt encrypts plaintext to pubkey with NIP-04.
func (s *Signer) Encrypt(ctx context.Context, pubkey string, plaintext string) (string, error) {
	login, err := s.activeLogin()
	if err != nil {
		return "", err
	}

	switch l := login.(type) {
	case HostLogin:
		cipher, err := s.hostCipher()
		if err != nil {
			return "", err
		}
		return cipher.Encrypt(ctx, pubkey, plaintext)
	case BunkerLogin:
		session, err := s.requireSession()
		if err != nil {
			return "", err
		}
		return session.NIP04Encrypt(ctx, pubkey, plaintext)
	case KeyLogin:
		sk, err := l.secretKey()
		if err != nil {
			return "", err
		}
		return encryptLocally(sk, pubkey, plaintext)
	}

	return "", ErrUnknownLogin
}

// Decrypt decrypts a NIP-04 ciphertext exchanged with pubkey.
func (s *Signer) Decrypt(ctx context.Context, pubkey string, ciphertext string) (string, error) {
	login, err := s.activeLogin()
	if err != nil {
		return "", err
	}

	switch l := login.(type) {
	case HostLogin:
		cipher, err := s.hostCipher()
		if err != nil {
			return "", err
		}
		return cipher.Decrypt(ctx, pubkey, ciphertext)
	case BunkerLogin:
		session, err := s.requireSession()
		if err != nil {
			return "", err
		}
		return session.NIP04Decrypt(ctx, pubkey, ciphertext)
	case KeyLogin:
		sk, err := l.secretKey()
		if err != nil {
			return "", err
		}
		return decryptLocally(sk, pubkey, ciphertext)
	}

	return "", ErrUnknownLogin
}

func (s *Signer) hostCipher() (HostCipher, error) {
	host, err := s.requireHost()
	if err != nil {
		return nil, err
	}
	cipher := host.NIP04()
	if cipher == nil {
		return nil, ErrHostNoEncryption
	}
	return cipher, nil
}

package signer

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip46"
)

// RemoteSigner is the part of a NIP-46 client the session needs.
type RemoteSigner interface {
	GetPublicKey(ctx context.Context) (string, error)
	SignEvent(ctx context.Context, evt *nostr.Event) error
	RPC(ctx context.Context, method string, params []string) (string, error)
}

var _ RemoteSigner = (*nip46.BunkerClient)(nil)

// Dialer opens a connection to a bunker and completes the "connect" handshake.
// The connection must stay alive until ctx is canceled.
type Dialer func(ctx context.Context, clientSecretKey string, bp BunkerPointer) (RemoteSigner, error)

// NIP46Dialer connects through go-nostr's nip46 client over the given pool.
// onAuth is called with the URL when the bunker asks the user to authorize us.
func NIP46Dialer(pool *nostr.SimplePool, onAuth func(string)) Dialer {
	if onAuth == nil {
		onAuth = func(url string) {
			InfoLogger.Printf("bunker sent auth_url %s but no handler is set", url)
		}
	}

	return func(ctx context.Context, clientSecretKey string, bp BunkerPointer) (RemoteSigner, error) {
		bunker := nip46.NewBunker(ctx, clientSecretKey, bp.PublicKey, bp.Relays, pool, onAuth)
		if _, err := bunker.RPC(ctx, "connect", []string{bp.PublicKey, bp.Secret}); err != nil {
			return nil, fmt.Errorf("connect to bunker %s failed: %w", bp.PublicKey, err)
		}
		return bunker, nil
	}
}

// BunkerSession is a live connection to a remote signer, together with the
// public key it answered with when it was established.
type BunkerSession struct {
	remote  RemoteSigner
	pointer BunkerPointer
	pubkey  string
	cancel  context.CancelFunc
}

func (bs *BunkerSession) PublicKey() string      { return bs.pubkey }
func (bs *BunkerSession) Pointer() BunkerPointer { return bs.pointer }

func (bs *BunkerSession) SignEvent(ctx context.Context, evt *nostr.Event) error {
	return bs.remote.SignEvent(ctx, evt)
}

func (bs *BunkerSession) GetRelays(ctx context.Context) (RelayMap, error) {
	resp, err := bs.remote.RPC(ctx, "get_relays", []string{})
	if err != nil {
		return nil, err
	}
	return ParseRelayMap(resp)
}

func (bs *BunkerSession) NIP04Encrypt(ctx context.Context, pubkey string, plaintext string) (string, error) {
	return bs.remote.RPC(ctx, "nip04_encrypt", []string{pubkey, plaintext})
}

func (bs *BunkerSession) NIP04Decrypt(ctx context.Context, pubkey string, ciphertext string) (string, error) {
	return bs.remote.RPC(ctx, "nip04_decrypt", []string{pubkey, ciphertext})
}

func (bs *BunkerSession) close() {
	if bs.cancel != nil {
		bs.cancel()
	}
}

// EstablishBunkerConnection parses the descriptor, connects to the bunker it
// points to and caches its public key. It must succeed before any operation can
// be served while a bunker login is active. On failure the previous session,
// if any, is left in place.
func (s *Signer) EstablishBunkerConnection(ctx context.Context, descriptor string) error {
	bp, err := ParseBunkerInput(ctx, descriptor)
	if err != nil {
		return err
	}

	s.establishing.Lock()
	defer s.establishing.Unlock()

	clientSecret, err := s.clientSecret()
	if err != nil {
		return err
	}

	// the connection lives beyond this call, but the handshake is still bound to ctx
	sctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(ctx, cancel)

	remote, err := s.dial(sctx, clientSecret, bp)
	if err != nil {
		stop()
		cancel()
		return err
	}

	pubkey, err := remote.GetPublicKey(sctx)
	if !stop() {
		// ctx was canceled while we were talking to the bunker
		cancel()
		if err == nil {
			err = context.Cause(ctx)
		}
		return err
	}
	if err != nil {
		cancel()
		return fmt.Errorf("failed to get public key from bunker: %w", err)
	}

	DebugLogger.Printf("connected to bunker %s for %s", bp.PublicKey, pubkey)

	previous := s.session.Swap(&BunkerSession{
		remote:  remote,
		pointer: bp,
		pubkey:  pubkey,
		cancel:  cancel,
	})
	if previous != nil {
		previous.close()
	}

	return nil
}

// clientSecret returns the key we identify ourselves to bunkers with,
// generating and storing one the first time.
func (s *Signer) clientSecret() (string, error) {
	stored, err := s.store.Get([]byte(clientSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to read client secret: %w", err)
	}

	if len(stored) > 0 {
		if b, err := hex.DecodeString(string(stored)); err != nil || len(b) != 32 {
			return "", fmt.Errorf("%w: stored client secret is not 32 bytes of hex", ErrLogic)
		}
		return string(stored), nil
	}

	sk, err := btcec.NewPrivateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate client secret: %w", err)
	}
	secret := hex.EncodeToString(sk.Serialize())
	if err := s.store.Set([]byte(clientSecretKey), []byte(secret)); err != nil {
		return "", fmt.Errorf("failed to store client secret: %w", err)
	}
	DebugLogger.Printf("generated a new nip46 client secret")

	return secret, nil
}

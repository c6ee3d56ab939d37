package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nbd-wtf/go-nostr"
	signer "github.com/nbd-wtf/nostr-signer"
	"github.com/nbd-wtf/nostr-signer/kvstore/badger"
	"github.com/spf13/pflag"
)

func main() {
	home, _ := os.UserHomeDir()
	dir := pflag.String("dir", filepath.Join(home, ".nostr-signer"), "where to keep the login")
	login := pflag.String("login", "", "nsec or bunker:// url (or name@domain) to log in with")
	content := pflag.String("content", "hello from nostr-signer", "content of the note to sign")
	verbose := pflag.BoolP("verbose", "v", false, "print debug logs")
	pflag.Parse()

	if *verbose {
		signer.InfoLogger.SetOutput(os.Stderr)
		signer.DebugLogger.SetOutput(os.Stderr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	store, err := badger.NewStore(*dir)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	s := signer.New(store, &signer.Options{
		OnAuth: func(url string) {
			fmt.Fprintf(os.Stderr, "open %s to authorize this client\n", url)
		},
	})

	if err := logIn(ctx, s, *login); err != nil {
		panic(err)
	}

	pk, err := s.GetPublicKey(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Fprintf(os.Stderr, "logged in as %s\n", pk)

	evt := nostr.Event{
		Kind:      1,
		Content:   *content,
		CreatedAt: nostr.Now(),
		Tags:      nostr.Tags{},
	}
	if err := s.SignEvent(ctx, &evt); err != nil {
		panic(err)
	}

	relays, err := s.GetRelays(ctx)
	if err != nil {
		panic(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", " ")
	enc.Encode(struct {
		Event  nostr.Event     `json:"event"`
		Relays signer.RelayMap `json:"relays"`
	}{evt, relays})
}

// logIn stores the login given on the command line, or restores the stored one
// when there is none. Bunker sessions don't survive restarts so they are
// established again every time.
func logIn(ctx context.Context, s *signer.Signer, login string) error {
	if login == "" {
		current, err := s.CurrentLogin()
		if errors.Is(err, signer.ErrNoLogin) {
			return nil
		} else if err != nil {
			return err
		}
		if bl, ok := current.(signer.BunkerLogin); ok {
			return s.EstablishBunkerConnection(ctx, bl.URL)
		}
		return nil
	}

	parsed, err := signer.ParseLogin(login)
	if err != nil && !errors.Is(err, signer.ErrUnknownLogin) {
		return err
	}

	switch l := parsed.(type) {
	case signer.KeyLogin:
		return s.SetLogin(l)
	case signer.HostLogin:
		return fmt.Errorf("NIP-07 is only available inside a browser")
	case signer.ViewOnlyLogin:
		return fmt.Errorf("%s can't sign: %w", l.Npub, signer.ErrViewOnly)
	default:
		// a bunker url or a nip05 name
		if err := s.EstablishBunkerConnection(ctx, login); err != nil {
			return err
		}
		return s.SetLogin(signer.NewBunkerLogin(s.Session().Pointer()))
	}
}

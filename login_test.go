package signer

import (
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogin(t *testing.T) {
	for _, test := range []struct {
		raw      string
		expected Login
		err      error
	}{
		{"", nil, ErrNoLogin},
		{"NIP-07", HostLogin{}, nil},
		{"nip-07", nil, ErrUnknownLogin},
		{"bunker://3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d?relay=wss%3A%2F%2Frelay.nsec.app",
			BunkerLogin{URL: "bunker://3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d?relay=wss%3A%2F%2Frelay.nsec.app"}, nil},
		{"nsec1vl029mgpspedva04g90vltkh6fvh240zqtv9k0t9af8935ke9laqsnlfe5",
			KeyLogin{Nsec: "nsec1vl029mgpspedva04g90vltkh6fvh240zqtv9k0t9af8935ke9laqsnlfe5"}, nil},
		{"npub180cvv07tjdrrgpa0j7j7tmnyl2yr6yr7l8j4s3evf6u64th6gkwsyjh6w6",
			ViewOnlyLogin{Npub: "npub180cvv07tjdrrgpa0j7j7tmnyl2yr6yr7l8j4s3evf6u64th6gkwsyjh6w6"}, nil},
		{"3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d", nil, ErrUnknownLogin},
	} {
		login, err := ParseLogin(test.raw)
		if test.err != nil {
			assert.ErrorIs(t, err, test.err, test.raw)
			assert.ErrorIs(t, err, ErrLogic, test.raw)
			continue
		}
		assert.NoError(t, err, test.raw)
		assert.Equal(t, test.expected, login, test.raw)
		assert.Equal(t, test.raw, login.String())
	}
}

func TestKeyLoginRoundtrip(t *testing.T) {
	sk := nostr.GeneratePrivateKey()

	kl, err := NewKeyLogin(sk)
	require.NoError(t, err)

	parsed, err := ParseLogin(kl.String())
	require.NoError(t, err)
	require.IsType(t, KeyLogin{}, parsed)

	decoded, err := parsed.(KeyLogin).secretKey()
	require.NoError(t, err)
	require.Equal(t, sk, decoded)
}

func TestKeyLoginMalformed(t *testing.T) {
	_, err := KeyLogin{Nsec: "nsec1notreallyakey"}.secretKey()
	require.ErrorIs(t, err, ErrLogic)
}

func TestViewOnlyLogin(t *testing.T) {
	vl, err := NewViewOnlyLogin("3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d")
	require.NoError(t, err)
	require.Equal(t, "npub180cvv07tjdrrgpa0j7j7tmnyl2yr6yr7l8j4s3evf6u64th6gkwsyjh6w6", vl.String())

	_, err = NewViewOnlyLogin("xyz")
	require.Error(t, err)
}

func TestBunkerLoginFromPointer(t *testing.T) {
	bp := BunkerPointer{
		PublicKey: "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d",
		Relays:    []string{"wss://relay.nsec.app"},
	}
	login, err := ParseLogin(NewBunkerLogin(bp).String())
	require.NoError(t, err)
	require.IsType(t, BunkerLogin{}, login)
}

package signer

import (
	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip04"
)

// signLocally stamps the pubkey derived from sk, replacing any preset value.
func signLocally(sk string, evt *nostr.Event) error {
	return evt.Sign(sk)
}

func encryptLocally(sk string, pubkey string, plaintext string) (string, error) {
	shared, err := nip04.ComputeSharedSecret(pubkey, sk)
	if err != nil {
		return "", err
	}
	return nip04.Encrypt(plaintext, shared)
}

func decryptLocally(sk string, pubkey string, ciphertext string) (string, error) {
	shared, err := nip04.ComputeSharedSecret(pubkey, sk)
	if err != nil {
		return "", err
	}
	return nip04.Decrypt(ciphertext, shared)
}

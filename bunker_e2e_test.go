package signer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fiatjaf/eventstore/slicestore"
	"github.com/fiatjaf/khatru"
	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip46"
	"github.com/nbd-wtf/nostr-signer/kvstore/memory"
	"github.com/stretchr/testify/require"
)

// startBunker runs a local relay and a bunker holding userSK answering on it
func startBunker(t *testing.T, ctx context.Context, port int, userSK string) string {
	relay := khatru.NewRelay()
	db := slicestore.SliceStore{}
	db.Init()
	relay.QueryEvents = append(relay.QueryEvents, db.QueryEvents)
	relay.StoreEvent = append(relay.StoreEvent, db.SaveEvent)
	relay.ReplaceEvent = append(relay.ReplaceEvent, db.ReplaceEvent)
	relay.DeleteEvent = append(relay.DeleteEvent, db.DeleteEvent)
	t.Cleanup(db.Close)

	started := make(chan bool)
	go relay.Start("127.0.0.1", port, started)
	t.Cleanup(func() { relay.Shutdown(context.Background()) })
	<-started

	url := fmt.Sprintf("ws://127.0.0.1:%d", port)
	userPK, _ := nostr.GetPublicKey(userSK)

	bunker := nip46.NewStaticKeySigner(userSK)
	bunker.RelaysToAdvertise[url] = nip46.RelayReadWrite{Read: true, Write: true}

	pool := nostr.NewSimplePool(ctx)
	go func() {
		for ie := range pool.SubscribeMany(ctx, []string{url}, nostr.Filter{
			Kinds: []int{nostr.KindNostrConnect},
			Tags:  nostr.TagMap{"p": []string{userPK}},
		}) {
			req, _, resp, err := bunker.HandleRequest(ctx, ie.Event)
			if err != nil {
				continue
			}
			if req.Method == "connect" {
				// let the client's subscription settle before answering the first request
				time.Sleep(300 * time.Millisecond)
			}
			r, err := pool.EnsureRelay(url)
			if err != nil {
				continue
			}
			r.Publish(ctx, resp)
		}
	}()

	// same for ours
	time.Sleep(300 * time.Millisecond)

	return url
}

func TestBunkerEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	userSK := nostr.GeneratePrivateKey()
	userPK, _ := nostr.GetPublicKey(userSK)
	relayURL := startBunker(t, ctx, 48491, userSK)

	bp := BunkerPointer{PublicKey: userPK, Relays: []string{relayURL}}

	store := memory.NewStore()
	s := New(store, &Options{Pool: nostr.NewSimplePool(ctx)})
	require.NoError(t, s.SetLogin(NewBunkerLogin(bp)))

	_, err := s.GetPublicKey(ctx)
	require.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.EstablishBunkerConnection(ctx, bp.URL()))

	pk, err := s.GetPublicKey(ctx)
	require.NoError(t, err)
	require.Equal(t, userPK, pk)

	evt := nostr.Event{Kind: 1, Content: "hi", Tags: nostr.Tags{}, CreatedAt: nostr.Now()}
	require.NoError(t, s.SignEvent(ctx, &evt))
	require.Equal(t, userPK, evt.PubKey)
	ok, err := evt.CheckSignature()
	require.NoError(t, err)
	require.True(t, ok)

	relays, err := s.GetRelays(ctx)
	require.NoError(t, err)
	require.Equal(t, RelayMap{relayURL: {Read: true, Write: true}}, relays)

	peerSK := nostr.GeneratePrivateKey()
	peer, _ := nostr.GetPublicKey(peerSK)
	ciphertext, err := s.Encrypt(ctx, peer, "hello through the bunker")
	require.NoError(t, err)
	plaintext, err := s.Decrypt(ctx, peer, ciphertext)
	require.NoError(t, err)
	require.Equal(t, "hello through the bunker", plaintext)

	// the peer reads it with plain nip04
	fromPeer, err := decryptLocally(peerSK, userPK, ciphertext)
	require.NoError(t, err)
	require.Equal(t, "hello through the bunker", fromPeer)
}

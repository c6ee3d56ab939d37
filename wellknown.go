package signer

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/nbd-wtf/go-nostr"
	"github.com/valyala/fasthttp"
)

var (
	wellKnownScheme = "https"
	wellKnownClient = &fasthttp.Client{
		Name:                "nostr-signer",
		MaxResponseBodySize: 1 << 20,
	}
)

const wellKnownTimeout = 10 * time.Second

type wellKnownResponse struct {
	Names  map[string]string   `json:"names"`
	Relays map[string][]string `json:"relays,omitempty"`
	NIP46  map[string][]string `json:"nip46,omitempty"`
}

func queryBunkerIdentifier(ctx context.Context, fullname string) (BunkerPointer, error) {
	name, domain := "_", fullname
	if spl := strings.SplitN(fullname, "@", 2); len(spl) == 2 {
		name, domain = spl[0], spl[1]
	}

	if err := ctx.Err(); err != nil {
		return BunkerPointer{}, fmt.Errorf("%w: %w", ErrInvalidDescriptor, context.Cause(ctx))
	}

	status, body, err := fetchWellKnown(ctx,
		wellKnownScheme+"://"+domain+"/.well-known/nostr.json?name="+url.QueryEscape(name))
	if err != nil {
		return BunkerPointer{}, fmt.Errorf("%w: failed to fetch nostr.json from %s: %w", ErrInvalidDescriptor, domain, err)
	}
	if status != fasthttp.StatusOK {
		return BunkerPointer{}, fmt.Errorf("%w: %s answered with status %d", ErrInvalidDescriptor, domain, status)
	}

	var result wellKnownResponse
	if err := jsoniter.ConfigFastest.Unmarshal(body, &result); err != nil {
		return BunkerPointer{}, fmt.Errorf("%w: failed to decode nostr.json: %w", ErrInvalidDescriptor, err)
	}

	pubkey, ok := result.Names[name]
	if !ok || !nostr.IsValidPublicKey(pubkey) {
		return BunkerPointer{}, fmt.Errorf("%w: no entry found for the '%s' name", ErrInvalidDescriptor, name)
	}

	relays := result.NIP46[pubkey]
	if len(relays) == 0 {
		relays = result.Relays[pubkey]
	}
	if len(relays) == 0 {
		return BunkerPointer{}, fmt.Errorf("%w: no bunker relays found for the '%s' name", ErrInvalidDescriptor, name)
	}

	return BunkerPointer{PublicKey: pubkey, Relays: relays}, nil
}

// fetchWellKnown returns as soon as ctx is done, the request itself is only
// bounded by a deadline.
func fetchWellKnown(ctx context.Context, uri string) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	release := func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(uri)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(wellKnownTimeout)
	}

	done := make(chan error, 1)
	go func() { done <- wellKnownClient.DoDeadline(req, resp, deadline) }()

	select {
	case err := <-done:
		defer release()
		if err != nil {
			return 0, nil, err
		}
		return resp.StatusCode(), bytes.Clone(resp.Body()), nil
	case <-ctx.Done():
		go func() {
			<-done
			release()
		}()
		return 0, nil, context.Cause(ctx)
	}
}

//go:build js && wasm

package nip07

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/mailru/easyjson"
	"github.com/nbd-wtf/go-nostr"
	signer "github.com/nbd-wtf/nostr-signer"
)

type Host struct {
	nostr js.Value
}

func New() (*Host, error) {
	n := js.Global().Get("nostr")
	if n.IsUndefined() || n.IsNull() {
		return nil, ErrUnavailable
	}
	return &Host{nostr: n}, nil
}

func (h *Host) GetPublicKey(ctx context.Context) (string, error) {
	v, err := await(ctx, h.nostr, "getPublicKey")
	if err != nil {
		return "", err
	}
	if v.Type() != js.TypeString {
		return "", fmt.Errorf("getPublicKey returned %s instead of a string", v.Type())
	}
	return v.String(), nil
}

func (h *Host) SignEvent(ctx context.Context, evt nostr.Event) (nostr.Event, error) {
	j, err := easyjson.Marshal(evt)
	if err != nil {
		return evt, err
	}

	v, err := await(ctx, h.nostr, "signEvent", parseJSON(string(j)))
	if err != nil {
		return evt, err
	}

	var signed nostr.Event
	if err := easyjson.Unmarshal([]byte(stringify(v)), &signed); err != nil {
		return evt, fmt.Errorf("signEvent returned an invalid event: %w", err)
	}
	return signed, nil
}

func (h *Host) GetRelays(ctx context.Context) (signer.RelayMap, error) {
	v, err := await(ctx, h.nostr, "getRelays")
	if err != nil {
		return nil, err
	}
	return signer.ParseRelayMap(stringify(v))
}

func (h *Host) NIP04() signer.HostCipher {
	n04 := h.nostr.Get("nip04")
	if n04.IsUndefined() || n04.IsNull() {
		return nil
	}
	return cipher{n04}
}

type cipher struct {
	nip04 js.Value
}

func (c cipher) Encrypt(ctx context.Context, pubkey string, plaintext string) (string, error) {
	v, err := await(ctx, c.nip04, "encrypt", pubkey, plaintext)
	if err != nil {
		return "", err
	}
	if v.Type() != js.TypeString {
		return "", fmt.Errorf("nip04.encrypt returned %s instead of a string", v.Type())
	}
	return v.String(), nil
}

func (c cipher) Decrypt(ctx context.Context, pubkey string, ciphertext string) (string, error) {
	v, err := await(ctx, c.nip04, "decrypt", pubkey, ciphertext)
	if err != nil {
		return "", err
	}
	if v.Type() != js.TypeString {
		return "", fmt.Errorf("nip04.decrypt returned %s instead of a string", v.Type())
	}
	return v.String(), nil
}

// await calls obj[method](...args) and waits until the promise it returns settles.
func await(ctx context.Context, obj js.Value, method string, args ...any) (result js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("window.nostr %s threw: %v", method, r)
		}
	}()

	if obj.Get(method).Type() != js.TypeFunction {
		return js.Undefined(), fmt.Errorf("window.nostr doesn't implement %s", method)
	}

	resolved := make(chan js.Value, 1)
	rejected := make(chan js.Value, 1)
	onResolve := js.FuncOf(func(_ js.Value, args []js.Value) any {
		resolved <- firstArg(args)
		return nil
	})
	onReject := js.FuncOf(func(_ js.Value, args []js.Value) any {
		rejected <- firstArg(args)
		return nil
	})
	release := func() {
		onResolve.Release()
		onReject.Release()
	}

	js.Global().Get("Promise").Call("resolve", obj.Call(method, args...)).Call("then", onResolve, onReject)

	select {
	case v := <-resolved:
		release()
		return v, nil
	case reason := <-rejected:
		release()
		return js.Undefined(), fmt.Errorf("window.nostr %s rejected: %s", method, describe(reason))
	case <-ctx.Done():
		// the callbacks can only be released once the promise is done with them
		go func() {
			select {
			case <-resolved:
			case <-rejected:
			}
			release()
		}()
		return js.Undefined(), context.Cause(ctx)
	}
}

func firstArg(args []js.Value) js.Value {
	if len(args) == 0 {
		return js.Undefined()
	}
	return args[0]
}

func describe(reason js.Value) string {
	if reason.Type() == js.TypeObject {
		if msg := reason.Get("message"); msg.Type() == js.TypeString {
			return msg.String()
		}
	}
	return stringify(reason)
}

func parseJSON(s string) js.Value {
	return js.Global().Get("JSON").Call("parse", s)
}

func stringify(v js.Value) string {
	if v.IsUndefined() {
		return ""
	}
	return js.Global().Get("JSON").Call("stringify", v).String()
}

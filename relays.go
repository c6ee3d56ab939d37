package signer

import (
	"fmt"

	"github.com/tidwall/gjson"
)

type RelayReadWrite struct {
	Read  bool `json:"read"`
	Write bool `json:"write"`
}

// RelayMap is the relay list a signer advertises, keyed by relay URL.
type RelayMap map[string]RelayReadWrite

// ParseRelayMap reads the JSON object returned by NIP-07 getRelays() and by the
// NIP-46 get_relays method. Entries that aren't objects are skipped.
func ParseRelayMap(raw string) (RelayMap, error) {
	relays := make(RelayMap)
	if raw == "" {
		return relays, nil
	}

	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("relay list is not valid json")
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("relay list is not an object")
	}

	parsed.ForEach(func(url, value gjson.Result) bool {
		if value.IsObject() {
			relays[url.String()] = RelayReadWrite{
				Read:  value.Get("read").Bool(),
				Write: value.Get("write").Bool(),
			}
		}
		return true
	})

	return relays, nil
}

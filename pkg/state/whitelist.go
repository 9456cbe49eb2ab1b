package state

import (
	"encoding/json"
	"sort"
)

// Whitelist is a set of addresses authorized to interact with a manager
// contract. It is kept sorted and deduplicated so that the canonical
// serialization is stable; Add and Remove return new values, leaving the
// receiver untouched.
type Whitelist []string

// NewWhitelist builds a whitelist from the given addresses.
func NewWhitelist(addresses ...string) Whitelist {
	return normalizeWhitelist(addresses)
}

// Contains reports whether address is in the whitelist.
func (w Whitelist) Contains(address string) bool {
	i := sort.SearchStrings(w, address)
	return i < len(w) && w[i] == address
}

// Add returns a new whitelist with address included.
func (w Whitelist) Add(address string) Whitelist {
	if w.Contains(address) {
		return w
	}
	return normalizeWhitelist(append(append([]string{}, w...), address))
}

// Remove returns a new whitelist with address excluded.
func (w Whitelist) Remove(address string) Whitelist {
	out := make(Whitelist, 0, len(w))
	for _, a := range w {
		if a != address {
			out = append(out, a)
		}
	}
	return out
}

// MarshalJSON always emits an array, never null, so an empty whitelist
// serializes as [] in the canonical form.
func (w Whitelist) MarshalJSON() ([]byte, error) {
	if w == nil {
		w = Whitelist{}
	}
	return json.Marshal([]string(w))
}

func (w *Whitelist) UnmarshalJSON(data []byte) error {
	var addresses []string
	if err := json.Unmarshal(data, &addresses); err != nil {
		return err
	}
	*w = normalizeWhitelist(addresses)
	return nil
}

func normalizeWhitelist(addresses []string) Whitelist {
	out := make(Whitelist, 0, len(addresses))
	seen := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

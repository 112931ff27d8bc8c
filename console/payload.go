package console

import (
	"encoding/json"
	"fmt"
	"github.com/bundlectl/bundlectl/bundle"
)

// ParseStatusPayload decodes a bundle status payload. A payload that does not
// decode, or whose records carry an unknown state string, is a hard error:
// a reachable server talking nonsense must never be defaulted to "fine".
func ParseStatusPayload(body string) (bundle.StatusPayload, error) {
	var payload bundle.StatusPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return bundle.StatusPayload{}, fmt.Errorf("console: cannot parse bundle status payload: %s", err)
	}
	for _, rec := range payload.Data {
		if _, err := bundle.StateFromWire(rec.State); err != nil {
			return bundle.StatusPayload{}, err
		}
	}
	return payload, nil
}

// BundleStates extracts the state of every requested symbolic name from a
// parsed payload, synthesizing Missing for names the server did not report.
func BundleStates(symbolicNames []string, payload bundle.StatusPayload) map[string]bundle.State {
	states := make(map[string]bundle.State, len(symbolicNames))
	for _, name := range symbolicNames {
		states[name] = bundle.StateMissing
	}
	for _, rec := range payload.Data {
		if _, requested := states[rec.SymbolicName]; requested {
			// rec.State was validated by ParseStatusPayload
			state, _ := bundle.StateFromWire(rec.State)
			states[rec.SymbolicName] = state
		}
	}
	return states
}

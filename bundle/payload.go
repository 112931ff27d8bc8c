package bundle

import (
	"fmt"
)

// StatusPayload is the top-level JSON object served by the console's bundle
// status endpoints.
type StatusPayload struct {
	Summary []int    `json:"s"`
	Data    []Record `json:"data"`
}

// Record describes one bundle in a status payload. Props is only populated by
// the single-bundle endpoint.
type Record struct {
	SymbolicName string     `json:"symbolicName"`
	State        string     `json:"state"`
	Props        []Property `json:"props,omitempty"`
}

type Property struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// Summary is the coarse bundle-count form of a status payload.
type Summary struct {
	Total     int
	Active    int
	Fragment  int
	Resolved  int
	Installed int
}

// StatusSummary decodes the payload's `s` array.
func (p StatusPayload) StatusSummary() (Summary, error) {
	if len(p.Summary) != 5 {
		return Summary{}, fmt.Errorf("bundle: status summary must have 5 entries, got %d", len(p.Summary))
	}
	return Summary{
		Total:     p.Summary[0],
		Active:    p.Summary[1],
		Fragment:  p.Summary[2],
		Resolved:  p.Summary[3],
		Installed: p.Summary[4],
	}, nil
}

// Prop returns the value of the named property, if present.
func (r Record) Prop(key string) (string, bool) {
	for _, p := range r.Props {
		if p.Key == key {
			if s, ok := p.Value.(string); ok {
				return s, true
			}
			return fmt.Sprintf("%v", p.Value), true
		}
	}
	return "", false
}

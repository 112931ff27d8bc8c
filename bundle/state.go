package bundle

import (
	"fmt"
)

// State is a bundle's lifecycle state as reported by the remote console.
type State string

const (
	StateActive      State = "Active"
	StateFragment    State = "Fragment"
	StateInstalled   State = "Installed"
	StateResolved    State = "Resolved"
	StateUninstalled State = "Uninstalled"

	// StateMissing is synthesized for bundles absent from a status report so
	// that every requested symbolic name has a state. The console never emits
	// it.
	StateMissing State = "Missing"
)

// StateFromWire maps the console's state string to a State. The enumeration
// is closed: an unknown string is a parsing error, not a new state.
func StateFromWire(s string) (State, error) {
	switch State(s) {
	case StateActive, StateFragment, StateInstalled, StateResolved, StateUninstalled:
		return State(s), nil
	}
	return "", fmt.Errorf("bundle: unknown bundle state `%s`", s)
}

// RawCode returns the framework's numeric code for the state. Fragments
// report the Resolved code since a fragment never runs on its own. Missing is
// synthetic and has no framework code.
func (s State) RawCode() int {
	switch s {
	case StateUninstalled:
		return 1
	case StateInstalled:
		return 2
	case StateResolved, StateFragment:
		return 4
	case StateActive:
		return 32
	}
	return -1
}

// IsTerminal reports whether a bundle in this state has finished settling.
// Active, Fragment and Uninstalled are all acceptable end states; Installed,
// Resolved and Missing mean the bundle is still on its way somewhere.
func (s State) IsTerminal() bool {
	switch s {
	case StateActive, StateFragment, StateUninstalled:
		return true
	}
	return false
}

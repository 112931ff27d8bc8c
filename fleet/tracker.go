package fleet

import (
	"fmt"
	"github.com/bundlectl/bundlectl/bundle"
	"github.com/bundlectl/bundlectl/console"
	"net/http"
	"sort"
	"strings"
)

// Tracker waits for bundles on a fleet member to settle into a
// terminal-success state.
type Tracker struct {
	Executor *console.Executor
}

// ValidateAllBundles polls the server's bundle status until none of the named
// bundles is still settling (Installed, Resolved, or absent from the report),
// bounded by the server's own retry policy.
//
// A server that goes inactive mid-poll is absorbed silently: an unreachable
// server is the circuit breaker's business, not a convergence failure. A
// reachable server answering anything but 200, or answering garbage, is a
// hard error and is not retried.
func (t *Tracker) ValidateAllBundles(symbolicNames []string, cfg *console.ServerConfig) error {
	return t.waitForSettled(cfg, func(payload bundle.StatusPayload) map[string]bundle.State {
		return console.BundleStates(symbolicNames, payload)
	})
}

// CheckActiveBundles is the same wait applied to every bundle on the server
// whose symbolic name contains group, instead of an explicit name list.
func (t *Tracker) CheckActiveBundles(group string, cfg *console.ServerConfig) error {
	return t.waitForSettled(cfg, func(payload bundle.StatusPayload) map[string]bundle.State {
		states := make(map[string]bundle.State)
		for _, rec := range payload.Data {
			if !strings.Contains(rec.SymbolicName, group) {
				continue
			}
			state, _ := bundle.StateFromWire(rec.State)
			states[rec.SymbolicName] = state
		}
		return states
	})
}

func (t *Tracker) waitForSettled(cfg *console.ServerConfig, collect func(bundle.StatusPayload) map[string]bundle.State) error {
	var (
		converged bool
		hardErr   error
		states    map[string]bundle.State
	)

	poll := func() {
		resp := t.Executor.DoGet(cfg, console.BundlesStatusURL(cfg))
		switch {
		case resp.Code == console.StatusClientTimeout:
			// DoGet has deactivated the server; the predicate stops us
		case resp.Code != http.StatusOK:
			hardErr = fmt.Errorf("fleet: cannot read bundle status from %s: %d: %s", cfg.Name, resp.Code, resp.Body)
		default:
			payload, err := console.ParseStatusPayload(resp.Body)
			if err != nil {
				hardErr = err
				return
			}
			states = collect(payload)
			converged = allTerminal(states)
		}
	}

	waiting := func() bool {
		return cfg.Active && hardErr == nil && !converged
	}

	if err := Block(cfg.MaxWait(), waiting, poll, cfg.RetryWait()); err != nil {
		return err
	}
	if hardErr != nil {
		return hardErr
	}
	if !cfg.Active {
		fleetLog.Infof("server %s went inactive while waiting for bundles, skipping validation", cfg.Name)
		return nil
	}
	if !converged {
		return fmt.Errorf("fleet: Not all bundles on %s are ACTIVE after %v: %s",
			cfg.Name, cfg.MaxWait(), strings.Join(settling(states), ", "))
	}
	fleetLog.Debugf("all bundles on %s have settled", cfg.Name)
	return nil
}

func allTerminal(states map[string]bundle.State) bool {
	for _, state := range states {
		if !state.IsTerminal() {
			return false
		}
	}
	return true
}

// settling names the bundles still blocking convergence, sorted for stable
// error messages.
func settling(states map[string]bundle.State) []string {
	var names []string
	for name, state := range states {
		if !state.IsTerminal() {
			names = append(names, fmt.Sprintf("%s (%s)", name, state))
		}
	}
	sort.Strings(names)
	return names
}

// ValidateAllBundles waits for the named bundles to settle on every active
// fleet member, in order, failing on the first member that does not converge.
func (f *Fleet) ValidateAllBundles(symbolicNames []string) error {
	t := &Tracker{Executor: f.Executor}
	for _, cfg := range f.Servers {
		if !cfg.Active {
			continue
		}
		if err := t.ValidateAllBundles(symbolicNames, cfg); err != nil {
			return err
		}
	}
	return nil
}

// CheckActiveBundles verifies that every bundle whose symbolic name contains
// group has settled on every active fleet member.
func (f *Fleet) CheckActiveBundles(group string) error {
	t := &Tracker{Executor: f.Executor}
	for _, cfg := range f.Servers {
		if !cfg.Active {
			continue
		}
		if err := t.CheckActiveBundles(group, cfg); err != nil {
			return err
		}
	}
	return nil
}

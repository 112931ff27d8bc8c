package fleet

import (
	"github.com/bundlectl/bundlectl/console"
	"github.com/sirupsen/logrus"
)

var fleetLog = logrus.WithField("module", "fleet")

// Action produces one fleet member's response to the operation being swept
// across the fleet.
type Action func(cfg *console.ServerConfig) console.Response

// Fleet is the ordered collection of servers one operation targets. The
// slice order is the configuration order and is the iteration order of every
// sweep.
type Fleet struct {
	Servers  []*console.ServerConfig
	Executor *console.Executor
}

// DoAcrossServers applies action to every active server in order and reduces
// the responses to one aggregate outcome: a synthetic success, or the first
// bad response encountered. Later bad responses are logged but do not replace
// the first. Inactive servers contribute nothing, so an empty or fully
// deactivated fleet is vacuously successful.
//
// There are no retries at this level; a caller that wants convergence wraps
// the sweep in Block.
func (f *Fleet) DoAcrossServers(missingIsOK bool, action Action) console.Response {
	aggregate := console.SuccessResponse()
	haveBad := false
	for _, cfg := range f.Servers {
		if !cfg.Active {
			fleetLog.Debugf("skipping inactive server %s", cfg.Name)
			continue
		}
		resp := action(cfg)
		if !console.IsBadResponse(resp.Code, missingIsOK) {
			continue
		}
		fleetLog.Errorf("bad response from %s: %d: %s", cfg.Name, resp.Code, resp.Body)
		if !haveBad {
			aggregate = resp
			haveBad = true
		}
	}
	return aggregate
}

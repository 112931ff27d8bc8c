package fleet

import (
	"fmt"
	"github.com/bundlectl/bundlectl/bundle"
	"github.com/bundlectl/bundlectl/console"
)

// Form fields and values understood by the console's bundle control
// endpoints.
const (
	actionField           = "action"
	actionStart           = "start"
	actionStop            = "stop"
	actionRefresh         = "refresh"
	actionUpdate          = "update"
	actionUninstall       = "uninstall"
	actionRefreshPackages = "refreshPackages"

	operationField  = ":operation"
	operationDelete = "delete"

	bundleContentType = "application/java-archive"
)

func (f *Fleet) bundleAction(symbolicName, action string, missingIsOK bool) console.Response {
	fleetLog.Debugf("%s bundle %s across %d servers", action, symbolicName, len(f.Servers))
	return f.DoAcrossServers(missingIsOK, func(cfg *console.ServerConfig) console.Response {
		return f.Executor.DoPost(cfg, console.BundleControlURL(cfg, symbolicName),
			map[string]console.Part{actionField: console.TextPart(action)})
	})
}

// StartBundle asks every active server to start the bundle.
func (f *Fleet) StartBundle(b *bundle.Identity) console.Response {
	return f.bundleAction(b.SymbolicName, actionStart, false)
}

// StopBundle stops the bundle everywhere. A server that does not have the
// bundle is fine: there is nothing to stop.
func (f *Fleet) StopBundle(b *bundle.Identity) console.Response {
	return f.bundleAction(b.SymbolicName, actionStop, true)
}

func (f *Fleet) RefreshBundle(b *bundle.Identity) console.Response {
	return f.bundleAction(b.SymbolicName, actionRefresh, false)
}

func (f *Fleet) UpdateBundle(b *bundle.Identity) console.Response {
	return f.bundleAction(b.SymbolicName, actionUpdate, false)
}

// UninstallBundle uninstalls the bundle everywhere; absence is acceptable.
func (f *Fleet) UninstallBundle(b *bundle.Identity) console.Response {
	return f.bundleAction(b.SymbolicName, actionUninstall, true)
}

// RefreshPackages triggers a fleet-wide package refresh on every server.
func (f *Fleet) RefreshPackages() console.Response {
	return f.DoAcrossServers(false, func(cfg *console.ServerConfig) console.Response {
		return f.Executor.DoPost(cfg, console.BundlesControlURL(cfg),
			map[string]console.Part{actionField: console.TextPart(actionRefreshPackages)})
	})
}

// InstallBundle uploads the bundle artifact into every server's install path,
// creating the path first. The artifact is re-read per server.
func (f *Fleet) InstallBundle(b *bundle.Identity) (console.Response, error) {
	if b.Artifact == nil {
		return console.Response{}, fmt.Errorf("fleet: bundle %s has no artifact to install", b.SymbolicName)
	}
	resp := f.DoAcrossServers(false, func(cfg *console.ServerConfig) console.Response {
		installURL := cfg.BaseURL() + b.InstallPath
		if resp := f.Executor.MakePath(cfg, installURL); console.IsBadResponse(resp.Code, false) {
			return resp
		}
		content, err := b.Artifact.Content()
		if err != nil {
			return console.Response{Code: 0, Body: fmt.Sprintf("cannot read artifact for %s: %s", b.SymbolicName, err)}
		}
		defer content.Close()
		return f.Executor.DoPost(cfg, installURL, map[string]console.Part{
			b.Artifact.Filename(): console.FilePart{
				Filename:    b.Artifact.Filename(),
				ContentType: bundleContentType,
				Content:     content,
			},
		})
	})
	return resp, nil
}

// RemoveBundle deletes the bundle's backing artifact from every server where
// one is addressable. Servers where the bundle is absent, was installed from
// a stream, or lives behind an unrecognized location scheme contribute
// success, since there is nothing to delete there.
func (f *Fleet) RemoveBundle(b *bundle.Identity) console.Response {
	return f.DoAcrossServers(true, func(cfg *console.ServerConfig) console.Response {
		location, err := f.Executor.ResolveBundleLocation(cfg, b.SymbolicName)
		if err != nil {
			return console.Response{Code: 0, Body: err.Error()}
		}
		if location == nil {
			return console.SuccessResponse()
		}
		return f.Executor.DoPost(cfg, location.String(),
			map[string]console.Part{operationField: console.TextPart(operationDelete)})
	})
}

package console

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Markers the console prefixes onto a bundle's recorded install location.
const (
	// locationStreamPrefix marks bundles installed from an input stream; such
	// bundles have no addressable backing artifact.
	locationStreamPrefix = "inputstream:"
	// locationRepoPrefix marks bundles installed from the content repository;
	// the remainder is a repository path on the same server.
	locationRepoPrefix = "jcrinstall:"

	bundleLocationProp = "Bundle Location"
)

// ResolveBundleLocation determines whether and where the bundle's backing
// artifact can be addressed for deletion on the given server. An absent
// result (nil, nil) is not an error: missing bundles, stream-installed
// bundles and unrecognized location schemes are all simply not deletable by
// path. Unrecognized schemes are tolerated on purpose so that newer servers
// with additional install mechanisms do not break removal of everything else.
func (e *Executor) ResolveBundleLocation(cfg *ServerConfig, symbolicName string) (*url.URL, error) {
	resp := e.DoGet(cfg, BundleStatusURL(cfg, symbolicName))
	switch {
	case resp.Code == http.StatusNotFound:
		consoleLog.Infof("bundle %s is not present on %s", symbolicName, cfg.Name)
		return nil, nil
	case resp.Code == StatusClientTimeout:
		// DoGet has already deactivated the server
		return nil, nil
	case resp.Code != http.StatusOK:
		return nil, fmt.Errorf("console: cannot read status of bundle %s on %s: %d: %s", symbolicName, cfg.Name, resp.Code, resp.Body)
	}
	payload, err := ParseStatusPayload(resp.Body)
	if err != nil {
		return nil, err
	}
	for _, rec := range payload.Data {
		if rec.SymbolicName != symbolicName {
			continue
		}
		location, ok := rec.Prop(bundleLocationProp)
		if !ok {
			consoleLog.Warnf("bundle %s on %s has no `%s` property", symbolicName, cfg.Name, bundleLocationProp)
			return nil, nil
		}
		switch {
		case strings.HasPrefix(location, locationStreamPrefix):
			consoleLog.Infof("bundle %s on %s was installed from a stream, nothing to delete", symbolicName, cfg.Name)
			return nil, nil
		case strings.HasPrefix(location, locationRepoPrefix):
			base, err := url.Parse(cfg.BaseURL())
			if err != nil {
				return nil, fmt.Errorf("console: bad base URL for server %s: %s", cfg.Name, err)
			}
			base.Path = strings.TrimPrefix(location, locationRepoPrefix)
			return base, nil
		default:
			consoleLog.Warnf("bundle %s on %s has unrecognized location `%s`", symbolicName, cfg.Name, location)
			return nil, nil
		}
	}
	consoleLog.Warnf("status payload from %s does not mention bundle %s", cfg.Name, symbolicName)
	return nil, nil
}

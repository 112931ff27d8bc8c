package console

import (
	"fmt"
)

const bundlesPath = "/system/console/bundles"

// BundlesControlURL is the fleet-wide bundle control endpoint of a server.
func BundlesControlURL(cfg *ServerConfig) string {
	return cfg.BaseURL() + bundlesPath
}

// BundlesStatusURL lists every bundle on the server with its state.
func BundlesStatusURL(cfg *ServerConfig) string {
	return cfg.BaseURL() + bundlesPath + ".json"
}

// BundleControlURL is the control endpoint of a single bundle.
func BundleControlURL(cfg *ServerConfig, symbolicName string) string {
	return fmt.Sprintf("%s%s/%s", cfg.BaseURL(), bundlesPath, symbolicName)
}

// BundleStatusURL reports a single bundle's state and properties.
func BundleStatusURL(cfg *ServerConfig, symbolicName string) string {
	return fmt.Sprintf("%s%s/%s.json", cfg.BaseURL(), bundlesPath, symbolicName)
}

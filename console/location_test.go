package console

import (
	"encoding/json"
	"fmt"
	"github.com/bundlectl/bundlectl/bundle"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"testing"
)

func locationServer(t *testing.T, code int, rec *bundle.Record) (*httptest.Server, *ServerConfig) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		payload := bundle.StatusPayload{Summary: []int{1, 1, 0, 0, 0}}
		if rec != nil {
			payload.Data = []bundle.Record{*rec}
		}
		json.NewEncoder(w).Encode(payload)
	}))
	return server, configForServer(t, server)
}

func locatedRecord(location string) *bundle.Record {
	return &bundle.Record{
		SymbolicName: "com.example.app",
		State:        "Active",
		Props:        []bundle.Property{{Key: "Bundle Location", Value: location}},
	}
}

func TestResolveBundleLocationRepositoryPath(t *testing.T) {
	server, cfg := locationServer(t, 200, locatedRecord("jcrinstall:/apps/example/install/app.jar"))
	defer server.Close()

	e := &Executor{}
	loc, err := e.ResolveBundleLocation(cfg, "com.example.app")
	assert.NoError(t, err)
	assert.NotNil(t, loc)
	assert.Equal(t, "/apps/example/install/app.jar", loc.Path)
	assert.Equal(t, cfg.BaseURL()+"/apps/example/install/app.jar", loc.String(),
		"scheme, host and port come from the server, the path from the location")
}

func TestResolveBundleLocationStreamInstalled(t *testing.T) {
	server, cfg := locationServer(t, 200, locatedRecord("inputstream:com.example.app.jar"))
	defer server.Close()

	e := &Executor{}
	loc, err := e.ResolveBundleLocation(cfg, "com.example.app")
	assert.NoError(t, err)
	assert.Nil(t, loc)
}

func TestResolveBundleLocationUnknownScheme(t *testing.T) {
	server, cfg := locationServer(t, 200, locatedRecord("launchpad:resources/bundles/app.jar"))
	defer server.Close()

	e := &Executor{}
	loc, err := e.ResolveBundleLocation(cfg, "com.example.app")
	assert.NoError(t, err, "an unrecognized scheme is tolerated, not an error")
	assert.Nil(t, loc)
}

func TestResolveBundleLocationMissingBundle(t *testing.T) {
	server, cfg := locationServer(t, 404, nil)
	defer server.Close()

	e := &Executor{}
	loc, err := e.ResolveBundleLocation(cfg, "com.example.app")
	assert.NoError(t, err)
	assert.Nil(t, loc)
}

func TestResolveBundleLocationMissingProperty(t *testing.T) {
	server, cfg := locationServer(t, 200, &bundle.Record{SymbolicName: "com.example.app", State: "Active"})
	defer server.Close()

	e := &Executor{}
	loc, err := e.ResolveBundleLocation(cfg, "com.example.app")
	assert.NoError(t, err)
	assert.Nil(t, loc)
}

func TestResolveBundleLocationServerError(t *testing.T) {
	server, cfg := locationServer(t, 500, nil)
	defer server.Close()

	e := &Executor{}
	_, err := e.ResolveBundleLocation(cfg, "com.example.app")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestResolveBundleLocationMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not json")
	}))
	defer server.Close()
	cfg := configForServer(t, server)

	e := &Executor{}
	_, err := e.ResolveBundleLocation(cfg, "com.example.app")
	assert.Error(t, err)
}

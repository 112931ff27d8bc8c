package console

import (
	"github.com/bundlectl/bundlectl/bundle"
	"github.com/stretchr/testify/assert"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestSimStatusAndActions(t *testing.T) {
	sim := NewSim([]*SimBundle{
		{SymbolicName: "com.example.app", State: bundle.StateResolved},
		{SymbolicName: "com.example.lib", State: bundle.StateActive},
	})
	server := httptest.NewServer(sim.Router())
	defer server.Close()
	cfg := configForServer(t, server)

	e := &Executor{}
	resp := e.DoGet(cfg, BundlesStatusURL(cfg))
	assert.Equal(t, 200, resp.Code)
	payload, err := ParseStatusPayload(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(payload.Data))
	summary, err := payload.StatusSummary()
	assert.NoError(t, err)
	assert.Equal(t, bundle.Summary{Total: 2, Active: 1, Resolved: 1}, summary)

	resp = e.DoPost(cfg, BundleControlURL(cfg, "com.example.app"),
		map[string]Part{"action": TextPart("start")})
	assert.Equal(t, 200, resp.Code)

	resp = e.DoGet(cfg, BundleStatusURL(cfg, "com.example.app"))
	assert.Equal(t, 200, resp.Code)
	payload, err = ParseStatusPayload(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, string(bundle.StateActive), payload.Data[0].State)

	resp = e.DoGet(cfg, BundleStatusURL(cfg, "com.example.gone"))
	assert.Equal(t, 404, resp.Code)

	resp = e.DoPost(cfg, BundleControlURL(cfg, "com.example.app"),
		map[string]Part{"action": TextPart("selfdestruct")})
	assert.Equal(t, 400, resp.Code)
}

func TestSimSettleReads(t *testing.T) {
	sim := NewSim([]*SimBundle{
		{SymbolicName: "com.example.app", State: bundle.StateResolved, SettleReads: 2},
	})
	server := httptest.NewServer(sim.Router())
	defer server.Close()
	cfg := configForServer(t, server)
	e := &Executor{}

	read := func() string {
		resp := e.DoGet(cfg, BundlesStatusURL(cfg))
		assert.Equal(t, 200, resp.Code)
		payload, err := ParseStatusPayload(resp.Body)
		assert.NoError(t, err)
		return payload.Data[0].State
	}

	assert.Equal(t, "Resolved", read())
	assert.Equal(t, "Resolved", read())
	assert.Equal(t, "Active", read())
}

func TestLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	content := `bundles:
  - symbolicName: com.example.app
    state: Resolved
    location: jcrinstall:/apps/example/install/app.jar
    settleReads: 2
  - symbolicName: com.example.lib
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	bundles, err := LoadInventory(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(bundles))
	assert.Equal(t, bundle.StateResolved, bundles[0].State)
	assert.Equal(t, 2, bundles[0].SettleReads)
	assert.Equal(t, "jcrinstall:/apps/example/install/app.jar", bundles[0].Location)
}

func TestLoadInventoryRejectsUnknownState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	content := `bundles:
  - symbolicName: com.example.app
    state: Starting
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadInventory(path)
	assert.Error(t, err)
}

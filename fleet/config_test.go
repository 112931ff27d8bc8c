package fleet

import (
	"github.com/stretchr/testify/assert"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFleetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.ini")
	content := `; deployment fleet, swept in file order
[author]
protocol = http
machinename = author01
port = 4502
username = deploy
password = secret
retry.ms = 250
max.ms = 4000

[publish]
machinename = publish01
port = 4503
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	servers, err := LoadFleetFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(servers))

	assert.Equal(t, "author", servers[0].Name)
	assert.Equal(t, "http://author01:4502", servers[0].BaseURL())
	assert.Equal(t, "deploy", servers[0].Username)
	assert.Equal(t, "secret", servers[0].Password)
	assert.EqualValues(t, 250, servers[0].RetryWaitMs)
	assert.EqualValues(t, 4000, servers[0].MaxWaitMs)
	assert.True(t, servers[0].Active)

	assert.Equal(t, "publish", servers[1].Name)
	assert.Equal(t, "http://publish01:4503", servers[1].BaseURL())
	assert.Equal(t, "admin", servers[1].Username, "unset properties keep their defaults")
}

func TestLoadFleetFilePreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.ini")
	content := "[zeta]\nport = 1\n\n[alpha]\nport = 2\n\n[mid]\nport = 3\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	servers, err := LoadFleetFile(path)
	assert.NoError(t, err)
	names := []string{}
	for _, s := range servers {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names, "sweep order is file order, not sorted")
}

func TestLoadFleetFileRejectsUnknownProperty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.ini")
	content := "[author]\nhostname = nope\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadFleetFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "author")
}

func TestLoadFleetFileMissing(t *testing.T) {
	_, err := LoadFleetFile(filepath.Join(t.TempDir(), "does-not-exist.ini"))
	assert.Error(t, err)
}

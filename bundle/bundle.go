package bundle

import (
	"fmt"
	"github.com/Masterminds/semver"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ArtifactSource supplies the bytes and upload filename of a bundle's backing
// artifact. Content must return a fresh reader on every call since an upload
// may run once per fleet member.
type ArtifactSource interface {
	Filename() string
	Content() (io.ReadCloser, error)
}

// FileArtifact is an ArtifactSource backed by a local file.
type FileArtifact struct {
	Path string
}

func (f FileArtifact) Filename() string {
	return filepath.Base(f.Path)
}

func (f FileArtifact) Content() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// Identity names one logical bundle and where it is deployed. SymbolicName
// and Version are fixed at construction; InstallPath and Artifact may be
// rebound to target a different deployment location.
type Identity struct {
	SymbolicName string
	Version      string
	InstallPath  string
	Artifact     ArtifactSource
}

// NewIdentity validates the mandatory fields up front: a missing symbolic
// name or a malformed version is a configuration error, not something to
// discover mid-sweep.
func NewIdentity(symbolicName, version, installPath string) (*Identity, error) {
	if symbolicName == "" {
		return nil, fmt.Errorf("bundle: symbolic name is mandatory")
	}
	if version != "" {
		if _, err := semver.NewVersion(normalizeVersion(version)); err != nil {
			return nil, fmt.Errorf("bundle: invalid version `%s` for %s: %s", version, symbolicName, err)
		}
	}
	return &Identity{
		SymbolicName: symbolicName,
		Version:      version,
		InstallPath:  installPath,
	}, nil
}

// normalizeVersion rewrites a four-part framework version qualifier
// (1.2.3.SNAPSHOT) as a semver prerelease (1.2.3-SNAPSHOT).
func normalizeVersion(v string) string {
	parts := strings.SplitN(v, ".", 4)
	if len(parts) == 4 {
		return strings.Join(parts[:3], ".") + "-" + parts[3]
	}
	return v
}

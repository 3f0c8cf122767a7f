package shellcache

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest lists the shell resources cached for offline use. The first
// entry is the root document, which doubles as the offline fallback page.
type Manifest struct {
	Resources []string `yaml:"resources"`
}

// DefaultManifest covers the fixed application shell.
func DefaultManifest() Manifest {
	return Manifest{Resources: []string{
		"/",
		"/index.html",
		"/styles.css",
		"/app.js",
		"/db.js",
		"/manifest.json",
	}}
}

// LoadManifest reads a YAML manifest from path. An empty path or a missing
// file yields the default shell list.
func LoadManifest(path string) (Manifest, error) {
	if path == "" {
		return DefaultManifest(), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultManifest(), nil
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("read shell manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse shell manifest: %w", err)
	}
	if len(m.Resources) == 0 {
		return DefaultManifest(), nil
	}
	return m, nil
}

// Root returns the root document path used as the offline fallback.
func (m Manifest) Root() string {
	if len(m.Resources) == 0 {
		return "/"
	}
	return m.Resources[0]
}

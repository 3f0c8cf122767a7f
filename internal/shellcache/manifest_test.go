package shellcache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scadakit/scriptvault/internal/shellcache"
)

func TestLoadManifestMissingFileUsesDefaults(t *testing.T) {
	m, err := shellcache.LoadManifest(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(m.Resources) == 0 || m.Root() != "/" {
		t.Fatalf("default manifest malformed: %+v", m)
	}
}

func TestLoadManifestFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shell.yaml")
	contents := "resources:\n  - /index.html\n  - /offline.css\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	m, err := shellcache.LoadManifest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(m.Resources) != 2 {
		t.Fatalf("resources = %v", m.Resources)
	}
	if m.Root() != "/index.html" {
		t.Fatalf("root = %q, want first listed resource", m.Root())
	}
}

func TestLoadManifestRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shell.yaml")
	if err := os.WriteFile(path, []byte("resources: {not a list"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := shellcache.LoadManifest(path); err == nil {
		t.Fatalf("malformed manifest should fail to load")
	}
}

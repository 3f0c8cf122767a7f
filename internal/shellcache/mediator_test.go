package shellcache_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/scadakit/scriptvault/internal/shellcache"
	"github.com/scadakit/scriptvault/internal/testutil"
)

// countingShell is an upstream that records how often each path is
// requested.
type countingShell struct {
	pages map[string]string
	hits  map[string]int
}

func newCountingShell() *countingShell {
	return &countingShell{
		pages: map[string]string{
			"/":           "<html>root shell</html>",
			"/index.html": "<html>root shell</html>",
			"/styles.css": "body { margin: 0 }",
			"/app.js":     "console.log('app')",
		},
		hits: map[string]int{},
	}
}

func (c *countingShell) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.hits[r.URL.Path]++
	body, ok := c.pages[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	_, _ = io.WriteString(w, body)
}

func testManifest() shellcache.Manifest {
	return shellcache.Manifest{Resources: []string{"/", "/index.html", "/styles.css", "/app.js"}}
}

func newTestMediator(t *testing.T, upstream http.Handler, version string) *shellcache.Mediator {
	t.Helper()
	db, closeFn := testutil.OpenTestDB(t)
	t.Cleanup(closeFn)
	return shellcache.New(db, upstream, testManifest(), version, zerolog.Nop())
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestInstallCachesShellResources(t *testing.T) {
	shell := newCountingShell()
	m := newTestMediator(t, shell, "v1")
	ctx := context.Background()

	if err := m.Install(ctx); err != nil {
		t.Fatalf("install: %v", err)
	}
	if m.State() != shellcache.StateInstalled {
		t.Fatalf("state = %q after install", m.State())
	}

	installHits := shell.hits["/styles.css"]
	handler := m.Handler()

	for i := 0; i < 3; i++ {
		rec := get(t, handler, "/styles.css")
		if rec.Code != http.StatusOK {
			t.Fatalf("cached shell resource status = %d", rec.Code)
		}
		if rec.Body.String() != "body { margin: 0 }" {
			t.Fatalf("cached body mismatch: %q", rec.Body.String())
		}
	}
	if shell.hits["/styles.css"] != installHits {
		t.Fatalf("cache hits must not contact upstream: %d extra fetches", shell.hits["/styles.css"]-installHits)
	}
}

func TestInstallIsAtomic(t *testing.T) {
	// An upstream missing one shell resource must leave no partial bucket.
	shell := newCountingShell()
	delete(shell.pages, "/app.js")
	m := newTestMediator(t, shell, "v1")
	ctx := context.Background()

	if err := m.Install(ctx); err == nil {
		t.Fatalf("install should fail when a shell resource is missing")
	}

	// Even the resources that fetched fine must not have been cached:
	// a request for one goes to the upstream again.
	before := shell.hits["/styles.css"]
	get(t, m.Handler(), "/styles.css")
	if shell.hits["/styles.css"] != before+1 {
		t.Fatalf("partial install leaked cache entries")
	}
}

func TestActivateKeepsOnlyCurrentBucket(t *testing.T) {
	shell := newCountingShell()
	db, closeFn := testutil.OpenTestDB(t)
	t.Cleanup(closeFn)
	ctx := context.Background()

	old := shellcache.New(db, shell, testManifest(), "v1", zerolog.Nop())
	if err := old.Install(ctx); err != nil {
		t.Fatalf("install v1: %v", err)
	}

	current := shellcache.New(db, shell, testManifest(), "v2", zerolog.Nop())
	if err := current.Install(ctx); err != nil {
		t.Fatalf("install v2: %v", err)
	}
	if err := current.Activate(ctx); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if current.State() != shellcache.StateActivated {
		t.Fatalf("state = %q after activate", current.State())
	}

	// The old generation is gone: a mediator still pinned to v1 finds
	// nothing cached and has to go upstream.
	before := shell.hits["/index.html"]
	get(t, old.Handler(), "/index.html")
	if shell.hits["/index.html"] != before+1 {
		t.Fatalf("stale bucket survived activation")
	}

	// The current generation still serves from cache.
	before = shell.hits["/styles.css"]
	get(t, current.Handler(), "/styles.css")
	if shell.hits["/styles.css"] != before {
		t.Fatalf("current bucket was evicted")
	}
}

func TestMissPopulatesCache(t *testing.T) {
	shell := newCountingShell()
	shell.pages["/extra.js"] = "console.log('extra')"
	m := newTestMediator(t, shell, "v1")
	handler := m.Handler()

	rec := get(t, handler, "/extra.js")
	if rec.Code != http.StatusOK || rec.Body.String() != "console.log('extra')" {
		t.Fatalf("first fetch: status %d body %q", rec.Code, rec.Body.String())
	}
	if shell.hits["/extra.js"] != 1 {
		t.Fatalf("first fetch should hit upstream once")
	}

	get(t, handler, "/extra.js")
	if shell.hits["/extra.js"] != 1 {
		t.Fatalf("second fetch should come from cache")
	}
}

func TestErrorResponsesAreNotCached(t *testing.T) {
	shell := newCountingShell()
	m := newTestMediator(t, shell, "v1")
	handler := m.Handler()

	for i := 0; i < 2; i++ {
		rec := get(t, handler, "/missing.js")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	}
	if shell.hits["/missing.js"] != 2 {
		t.Fatalf("non-success responses must not be cached: %d hits", shell.hits["/missing.js"])
	}
}

type panickyShell struct{}

func (panickyShell) ServeHTTP(http.ResponseWriter, *http.Request) {
	panic("connection refused")
}

func TestOfflineFallbackServesCachedRoot(t *testing.T) {
	shell := newCountingShell()
	db, closeFn := testutil.OpenTestDB(t)
	t.Cleanup(closeFn)
	ctx := context.Background()

	healthy := shellcache.New(db, shell, testManifest(), "v1", zerolog.Nop())
	if err := healthy.Install(ctx); err != nil {
		t.Fatalf("install: %v", err)
	}

	// Same bucket, upstream now unreachable.
	offline := shellcache.New(db, panickyShell{}, testManifest(), "v1", zerolog.Nop())
	rec := get(t, offline.Handler(), "/uncached-page")
	if rec.Code != http.StatusOK {
		t.Fatalf("offline fallback status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "root shell") {
		t.Fatalf("offline fallback should serve the root document, got %q", rec.Body.String())
	}
}

func TestOfflineWithoutCachedRootPropagates(t *testing.T) {
	m := newTestMediator(t, panickyShell{}, "v1")
	rec := get(t, m.Handler(), "/anything")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502 when nothing is cached", rec.Code)
	}
}

func TestNonGETBypassesCache(t *testing.T) {
	shell := newCountingShell()
	m := newTestMediator(t, shell, "v1")
	if err := m.Install(context.Background()); err != nil {
		t.Fatalf("install: %v", err)
	}

	before := shell.hits["/"]
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if shell.hits["/"] != before+1 {
		t.Fatalf("non-GET requests must pass through to the upstream")
	}
}

func TestSyncPlaceholder(t *testing.T) {
	m := newTestMediator(t, newCountingShell(), "v1")
	ctx := context.Background()

	if err := m.Sync(ctx, shellcache.SyncTagScripts); err != nil {
		t.Fatalf("sync-scripts tag: %v", err)
	}
	if err := m.Sync(ctx, "other-tag"); err == nil {
		t.Fatalf("unknown sync tag should be rejected")
	}
}

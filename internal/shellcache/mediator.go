package shellcache

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
)

// State tracks the mediator lifecycle. Transitions are driven by the host
// calling Install and Activate, mirroring a service worker's phases.
type State string

const (
	StateNew        State = "new"
	StateInstalling State = "installing"
	StateInstalled  State = "installed"
	StateActivating State = "activating"
	StateActivated  State = "activated"
)

// BucketName derives the versioned cache bucket name. Bumping the version
// tag is the only supported upgrade mechanism; there is no per-resource
// invalidation.
func BucketName(versionTag string) string {
	return "script-library-" + versionTag
}

// Mediator fronts the shell upstream with a versioned response cache.
// Cache hits are served verbatim with no staleness check; the cache is
// authoritative until the next generation activates.
type Mediator struct {
	buckets  *bucketStore
	upstream http.Handler
	manifest Manifest
	bucket   string
	log      zerolog.Logger

	mu    sync.Mutex
	state State
}

func New(db *sql.DB, upstream http.Handler, manifest Manifest, versionTag string, log zerolog.Logger) *Mediator {
	return &Mediator{
		buckets:  &bucketStore{db: db},
		upstream: upstream,
		manifest: manifest,
		bucket:   BucketName(versionTag),
		log:      log.With().Str("component", "shellcache").Logger(),
		state:    StateNew,
	}
}

func (m *Mediator) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mediator) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Install populates the current bucket with every manifest resource in a
// single transaction. Either the whole shell is cached or none of it is,
// so a broken deployment never becomes the serving generation. The new
// generation is visible immediately; there is no waiting phase.
func (m *Mediator) Install(ctx context.Context) error {
	m.setState(StateInstalling)

	entries := make([]Entry, 0, len(m.manifest.Resources))
	for _, path := range m.manifest.Resources {
		entry, err := m.fetchUpstream(ctx, path)
		if err != nil {
			return fmt.Errorf("install %s: %w", path, err)
		}
		if entry.Status < 200 || entry.Status >= 300 {
			return fmt.Errorf("install %s: upstream returned status %d", path, entry.Status)
		}
		entries = append(entries, *entry)
	}

	if err := m.buckets.putAll(ctx, m.bucket, entries); err != nil {
		return err
	}
	m.setState(StateInstalled)
	m.log.Info().Str("bucket", m.bucket).Int("resources", len(entries)).Msg("shell cached")
	return nil
}

// Activate deletes every bucket except the current one. Exactly one cache
// generation survives.
func (m *Mediator) Activate(ctx context.Context) error {
	m.setState(StateActivating)

	names, err := m.buckets.names(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == m.bucket {
			continue
		}
		if err := m.buckets.drop(ctx, name); err != nil {
			return err
		}
		m.log.Info().Str("bucket", name).Msg("deleted stale cache bucket")
	}
	m.setState(StateActivated)
	return nil
}

// Handler mediates every request: cache hit is served with no upstream
// contact; a miss goes upstream and successful responses are cached for
// next time; an upstream failure falls back to the cached root document.
func (m *Mediator) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			m.upstream.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		entry, err := m.buckets.get(ctx, m.bucket, r.URL.Path)
		if err != nil {
			m.log.Error().Err(err).Str("path", r.URL.Path).Msg("cache lookup failed")
		}
		if entry != nil {
			serveEntry(w, entry)
			return
		}

		live, err := m.fetchUpstream(ctx, r.URL.Path)
		if err != nil {
			m.serveOffline(w, r)
			return
		}
		if live.Status >= 200 && live.Status < 300 {
			if err := m.buckets.put(ctx, m.bucket, *live); err != nil {
				m.log.Error().Err(err).Str("path", r.URL.Path).Msg("cache populate failed")
			}
		}
		serveEntry(w, live)
	})
}

// serveOffline returns the cached root document as a best-effort offline
// page. If the root is not cached either, the failure propagates.
func (m *Mediator) serveOffline(w http.ResponseWriter, r *http.Request) {
	root, err := m.buckets.get(r.Context(), m.bucket, m.manifest.Root())
	if err == nil && root != nil {
		m.log.Warn().Str("path", r.URL.Path).Msg("upstream unreachable, serving offline shell")
		serveEntry(w, root)
		return
	}
	http.Error(w, "upstream unreachable", http.StatusBadGateway)
}

// fetchUpstream issues an in-process request against the upstream handler
// and captures the full response. A panic in the upstream is reported as
// a fetch error rather than tearing down the caller.
func (m *Mediator) fetchUpstream(ctx context.Context, path string) (entry *Entry, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			entry = nil
			err = fmt.Errorf("upstream fetch %s: %v", path, rec)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	rec := &responseCapture{header: make(http.Header), status: http.StatusOK}
	m.upstream.ServeHTTP(rec, req)

	return &Entry{
		Path:        path,
		Status:      rec.status,
		ContentType: rec.header.Get("Content-Type"),
		Header:      rec.header.Clone(),
		Body:        rec.body.Bytes(),
	}, nil
}

// responseCapture buffers an in-process upstream response.
type responseCapture struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (r *responseCapture) Header() http.Header { return r.header }

func (r *responseCapture) WriteHeader(status int) { r.status = status }

func (r *responseCapture) Write(p []byte) (int, error) { return r.body.Write(p) }

func serveEntry(w http.ResponseWriter, e *Entry) {
	for key, values := range e.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	if e.ContentType != "" && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", e.ContentType)
	}
	w.WriteHeader(e.Status)
	_, _ = w.Write(e.Body)
}

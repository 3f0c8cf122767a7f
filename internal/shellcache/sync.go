package shellcache

import (
	"context"
	"fmt"
)

// SyncTagScripts is the background-sync tag registered by the client for
// future cloud synchronization.
const SyncTagScripts = "sync-scripts"

// Sync is the background-sync extension point. The sync-scripts tag is
// accepted but performs no work yet; cloud sync is out of scope.
func (m *Mediator) Sync(ctx context.Context, tag string) error {
	if tag != SyncTagScripts {
		return fmt.Errorf("unknown sync tag %q", tag)
	}
	m.log.Info().Str("tag", tag).Msg("sync requested, nothing to do")
	return nil
}

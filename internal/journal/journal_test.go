package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudsync-io/identity-sync/internal/metrics"
)

func newTestJournal(t *testing.T) Journal {
	t.Helper()
	j, err := New(filepath.Join(t.TempDir(), "badger"), metrics.New(false))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRoundTrip(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	now := time.Now().Unix()
	entries := []Entry{
		{Kind: "project", Name: "demo", Action: "create", Changed: true, ResourceID: "p-1", SyncedAt: now},
		{Kind: "user", Name: "john", Action: "noop", Changed: false, ResourceID: "u-1", SyncedAt: now},
		{Kind: "router", Name: "router1", Action: "update", Changed: true, ResourceID: "r-1", SyncedAt: now},
	}
	for _, e := range entries {
		require.NoError(t, j.Record(ctx, e))
	}

	loaded, err := j.Load(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, entries, loaded)
}

func TestJournalOverwritesPerResource(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	require.NoError(t, j.Record(ctx, Entry{Kind: "project", Name: "demo", Action: "create", Changed: true}))
	require.NoError(t, j.Record(ctx, Entry{Kind: "project", Name: "demo", Action: "noop", Changed: false}))

	loaded, err := j.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "noop", loaded[0].Action)
	assert.False(t, loaded[0].Changed)
}

func TestJournalEmpty(t *testing.T) {
	j := newTestJournal(t)
	loaded, err := j.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

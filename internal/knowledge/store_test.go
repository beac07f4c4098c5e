package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/teampulse/schema"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.yaml"))
	obs, err := store.Observations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, obs)
}

func TestFileStore_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.yaml")
	content := `observations:
  - content: Deploys must drain the payment queue first
    author: alice
    scope: org
    confidence: 0.9
    timestamp: 2024-06-10T10:00:00Z
  - content: Retry budget for ledger writes is three
    author: bob
    scope: payments
    timestamp: 2024-06-12T10:00:00Z
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	obs, err := NewFileStore(path).Observations(context.Background())
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, "alice", obs[0].Author)
	assert.True(t, obs[0].IsOrgWide())
	assert.InDelta(t, 0.9, obs[0].ConfidenceOrDefault(), 1e-9)
	assert.Nil(t, obs[1].Confidence)
	assert.Equal(t, schema.DefaultConfidence, obs[1].ConfidenceOrDefault())
	assert.Equal(t, time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC), obs[1].Timestamp.UTC())
}

func TestFileStore_AppendRoundTrip(t *testing.T) {
	for _, name := range []string{"log.yaml", "log.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			store := NewFileStore(path)
			ctx := context.Background()
			at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

			require.NoError(t, store.Append(ctx, schema.Observation{Content: "first entry", Author: "alice", Scope: "org", Timestamp: at}))
			require.NoError(t, store.Append(ctx, schema.Observation{Content: "second entry", Author: "bob", Scope: "api", Timestamp: at.Add(time.Hour)}))

			obs, err := NewFileStore(path).Observations(ctx)
			require.NoError(t, err)
			require.Len(t, obs, 2)
			assert.Equal(t, "first entry", obs[0].Content)
			assert.Equal(t, "bob", obs[1].Author)

			_, err = os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestFileStore_AppendValidates(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "log.yaml"))
	assert.Error(t, store.Append(context.Background(), schema.Observation{Content: "x"}))
	assert.Error(t, store.Append(context.Background(), schema.Observation{Author: "alice"}))
}

func TestFileStore_ConcurrentAppend(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "log.json"))
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			assert.NoError(t, store.Append(ctx, schema.Observation{Content: "note", Author: "alice", Timestamp: time.Now()}))
		})
	}
	wg.Wait()

	obs, err := store.Observations(ctx)
	require.NoError(t, err)
	assert.Len(t, obs, 10)
}

func TestFileStore_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := NewFileStore(path).Observations(context.Background())
	assert.ErrorContains(t, err, "parsing knowledge log")
}

func TestFileStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileStore("unused.yaml").Observations(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

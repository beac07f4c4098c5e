package core

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithSkipSnapshot(withRunID(context.Background(), "run-1"))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			id, ok := getRunID(ctx)
			assert.True(t, ok, "goroutine %d: run id should be set", i)
			assert.Equal(t, "run-1", id)
			assert.True(t, shouldSkipSnapshot(ctx), "goroutine %d: skip flag should be set", i)
		})
	}
	wg.Wait()
}

// TestContextIsolation tests that different contexts maintain isolation.
func TestContextIsolation(t *testing.T) {
	base := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() {
			want := fmt.Sprintf("run-%d", i)
			ctx := withRunID(base, want)
			got, ok := getRunID(ctx)
			assert.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
	wg.Wait()

	_, ok := getRunID(base)
	assert.False(t, ok, "base context must stay untouched")
	assert.False(t, shouldSkipSnapshot(base))
}

func TestGetRunID_Empty(t *testing.T) {
	_, ok := getRunID(withRunID(context.Background(), ""))
	assert.False(t, ok)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package store_test

import (
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropsense-dev/cropsense/internal/store"
)

func TestResolve_GeneratesUniqueIDs(t *testing.T) {
	st := store.NewSessionStore()

	pattern := regexp.MustCompile(`^chat_[0-9a-f]{32}$`)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := st.Resolve("")
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "duplicate session id %s", id)
		seen[id] = true
	}
}

func TestResolve_AdoptsAndKeepsIDs(t *testing.T) {
	st := store.NewSessionStore()

	// Unknown ids are adopted as-is with an empty history.
	id := st.Resolve("user_7")
	assert.Equal(t, "user_7", id)
	assert.Equal(t, 0, st.Len("user_7"))

	st.Append("user_7", store.Message{Role: store.MessageRoleUser, Content: "hi"})

	// Resolving again returns the same session with history intact.
	assert.Equal(t, "user_7", st.Resolve("user_7"))
	assert.Equal(t, 1, st.Len("user_7"))
}

func TestAppend_PreservesOrder(t *testing.T) {
	st := store.NewSessionStore()
	id := st.Resolve("")

	for i := 0; i < 5; i++ {
		st.Append(id, store.Message{
			Role:      store.MessageRoleUser,
			Content:   fmt.Sprintf("msg-%d", i),
			Timestamp: time.Now(),
		})
	}

	history := st.History(id)
	require.Len(t, history, 5)
	for i, msg := range history {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), msg.Content)
	}
}

func TestHistory_ReturnsCopy(t *testing.T) {
	st := store.NewSessionStore()
	id := st.Resolve("")
	st.Append(id, store.Message{Role: store.MessageRoleUser, Content: "original"})

	history := st.History(id)
	history[0].Content = "mutated"

	assert.Equal(t, "original", st.History(id)[0].Content)
}

func TestRecent_WindowsTail(t *testing.T) {
	st := store.NewSessionStore()
	id := st.Resolve("")
	for i := 0; i < 6; i++ {
		st.Append(id, store.Message{Content: fmt.Sprintf("msg-%d", i)})
	}

	recent := st.Recent(id, 2)
	require.Len(t, recent, 2)
	assert.Equal(t, "msg-4", recent[0].Content)
	assert.Equal(t, "msg-5", recent[1].Content)

	// Window larger than the history returns everything.
	assert.Len(t, st.Recent(id, 100), 6)
	assert.Empty(t, st.Recent(id, 0))
	assert.Empty(t, st.Recent(id, -1))
}

func TestRecent_UnknownSession(t *testing.T) {
	st := store.NewSessionStore()
	assert.Empty(t, st.Recent("missing", 10))
	assert.Empty(t, st.History("missing"))
	assert.Equal(t, 0, st.Len("missing"))
}

func TestSessionStore_ConcurrentAppends(t *testing.T) {
	st := store.NewSessionStore()
	id := st.Resolve("")

	const goroutines = 16
	const perGoroutine = 25

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				st.Append(id, store.Message{Role: store.MessageRoleUser, Content: "x"})
				_ = st.Recent(id, 10)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, st.Len(id))
}

package game

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateOrGetIdempotent(t *testing.T) {
	reg := NewRegistry()

	first := reg.CreateOrGet("r1", func() *Room { return newRoom("r1", ModeDuel, "p1", 0, 8) })
	second := reg.CreateOrGet("r1", func() *Room { return newRoom("r1", ModeDuel, "p2", 0, 8) })

	require.Same(t, first, second)
	assert.Equal(t, "p1", first.OwnerID, "second factory must not run")
	assert.Equal(t, StateWaiting, first.State)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryGetAndRemove(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Get("missing")
	assert.False(t, ok)

	reg.CreateOrGet("r1", func() *Room { return newRoom("r1", ModeDuel, "p1", 0, 8) })
	room, ok := reg.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "r1", room.ID)

	reg.Remove("r1")
	_, ok = reg.Get("r1")
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryConcurrentCreateOrGet(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	rooms := make([]*Room, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rooms[i] = reg.CreateOrGet("shared", func() *Room {
				return newRoom("shared", ModeDuel, fmt.Sprintf("p%d", i), 0, 8)
			})
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, reg.Len())
	for i := 1; i < 32; i++ {
		assert.Same(t, rooms[0], rooms[i])
	}
}

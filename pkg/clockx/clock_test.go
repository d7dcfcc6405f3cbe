package clockx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClock_New_DefaultCapacity(t *testing.T) {
	c := New(0)
	require.NotNil(t, c)
	require.Equal(t, 1, c.Capacity())
	require.Equal(t, 0, c.Size())
}

func TestClock_Unpin_MakesCandidate(t *testing.T) {
	c := New(3)

	c.Unpin(1)
	require.Equal(t, 1, c.Size())

	// Unpinning an already-unpinned frame is idempotent for size.
	c.Unpin(1)
	require.Equal(t, 1, c.Size())
}

func TestClock_Pin_RemovesCandidate(t *testing.T) {
	c := New(2)

	c.Unpin(0)
	require.Equal(t, 1, c.Size())

	c.Pin(0)
	require.Equal(t, 0, c.Size())

	// Pinning an already-pinned/unknown frame is a no-op.
	c.Pin(0)
	require.Equal(t, 0, c.Size())
}

func TestClock_Victim_NoneEvictable(t *testing.T) {
	c := New(2)

	id, ok := c.Victim()
	require.False(t, ok)
	require.Equal(t, -1, id)
}

// TestClock_Replacer_CanonicalScenario reproduces the reference clock
// replacer scenario: six frames unpinned (one twice), three victims
// drawn in order, a pin on an already-victimized frame, a pin on a live
// one, a re-unpin, then three more victims.
func TestClock_Replacer_CanonicalScenario(t *testing.T) {
	c := New(7)

	c.Unpin(1)
	c.Unpin(2)
	c.Unpin(3)
	c.Unpin(4)
	c.Unpin(5)
	c.Unpin(6)
	c.Unpin(1)

	require.Equal(t, 6, c.Size())

	v1, ok := c.Victim()
	require.True(t, ok)
	require.Equal(t, 1, v1)

	v2, ok := c.Victim()
	require.True(t, ok)
	require.Equal(t, 2, v2)

	v3, ok := c.Victim()
	require.True(t, ok)
	require.Equal(t, 3, v3)

	// 3 was already victimized, so pinning it again has no effect.
	c.Pin(3)
	c.Pin(4)
	require.Equal(t, 2, c.Size())

	c.Unpin(4)

	v4, ok := c.Victim()
	require.True(t, ok)
	require.Equal(t, 5, v4)

	v5, ok := c.Victim()
	require.True(t, ok)
	require.Equal(t, 6, v5)

	v6, ok := c.Victim()
	require.True(t, ok)
	require.Equal(t, 4, v6)

	require.Equal(t, 0, c.Size())
}

func TestClock_Victim_SecondChanceThenExhausted(t *testing.T) {
	c := New(3)

	c.Unpin(0)
	c.Unpin(1)
	c.Unpin(2)
	require.Equal(t, 3, c.Size())

	v1, ok := c.Victim()
	require.True(t, ok)

	v2, ok := c.Victim()
	require.True(t, ok)
	require.NotEqual(t, v1, v2)

	v3, ok := c.Victim()
	require.True(t, ok)
	require.NotEqual(t, v1, v3)
	require.NotEqual(t, v2, v3)

	require.Equal(t, 0, c.Size())

	v4, ok := c.Victim()
	require.False(t, ok)
	require.Equal(t, -1, v4)
}

func TestClock_Remove_DropsCandidateRegardlessOfRefBit(t *testing.T) {
	c := New(3)

	c.Unpin(0)
	c.Unpin(1)
	require.Equal(t, 2, c.Size())

	c.Remove(0)
	require.Equal(t, 1, c.Size())

	// Removing again, or an already-absent frame, is a no-op.
	c.Remove(0)
	c.Remove(2)
	require.Equal(t, 1, c.Size())
}

func TestClock_BoundsChecks(t *testing.T) {
	c := New(2)

	require.NotPanics(t, func() {
		c.Pin(-1)
		c.Pin(2)
		c.Unpin(-1)
		c.Unpin(2)
		c.Remove(-1)
		c.Remove(2)
	})

	require.Equal(t, 0, c.Size())
}

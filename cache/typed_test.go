package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func TestTypedRoundTrip(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	typed := NewTyped[payload](store)
	require.NoError(t, typed.Set("k", payload{Name: "Acme", Score: 0.8}, time.Minute))

	got, ok := typed.Get("k")
	require.True(t, ok)
	assert.Equal(t, "Acme", got.Name)
	assert.InDelta(t, 0.8, got.Score, 1e-9)
}

func TestTypedDecodeFailureIsMiss(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	store.Set("k", []byte("{not json"), time.Minute)

	typed := NewTyped[payload](store)
	_, ok := typed.Get("k")
	assert.False(t, ok, "undecodable entry must behave like a miss")

	_, ok = store.Get("k")
	assert.False(t, ok, "undecodable entry must be purged")
}

func TestTypedSliceValues(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	typed := NewTyped[[]string](store)
	require.NoError(t, typed.Set("certs", []string{"ISO 9001", "ISO 14001"}, time.Minute))

	got, ok := typed.Get("certs")
	require.True(t, ok)
	assert.Equal(t, []string{"ISO 9001", "ISO 14001"}, got)
}

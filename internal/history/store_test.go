package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := newTestStore(t)

	entries := []Entry{
		{Question: "What is PIX?", Locale: "en", Answer: "Brazil's instant payment system.", Source: "provider", DurationMs: 120},
		{Question: "¿Qué es SPEI?", Locale: "es", Answer: "El sistema de pagos de México.", Source: "provider", DurationMs: 95},
		{Question: "What is PIX?", Locale: "en", Answer: "Brazil's instant payment system.", Source: "cache", Cached: true, DurationMs: 1},
	}
	for _, entry := range entries {
		require.NoError(t, store.Record(t.Context(), entry))
	}

	recent, err := store.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Newest first: rows share a CURRENT_TIMESTAMP second, so ordering falls
	// back to the id tiebreaker.
	assert.Equal(t, "cache", recent[0].Source)
	assert.True(t, recent[0].Cached)
	assert.Equal(t, "¿Qué es SPEI?", recent[1].Question)
	assert.Equal(t, "What is PIX?", recent[2].Question)
	for _, entry := range recent {
		assert.False(t, entry.CreatedAt.IsZero())
	}
}

func TestStore_Recent_limit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(t.Context(), Entry{
			Question: "question",
			Locale:   "en",
			Answer:   "answer",
			Source:   "provider",
		}))
	}

	recent, err := store.Recent(t.Context(), 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	// A non-positive limit falls back to the default instead of returning
	// nothing.
	recent, err = store.Recent(t.Context(), 0)
	require.NoError(t, err)
	assert.Len(t, recent, 5)
}

func TestStore_Recent_empty(t *testing.T) {
	store := newTestStore(t)

	recent, err := store.Recent(t.Context(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestStore_Record_degraded(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Record(t.Context(), Entry{
		Question: "¿Cómo invierto?",
		Locale:   "es",
		Answer:   "Respuesta de contingencia.",
		Source:   "fallback",
		Degraded: true,
	}))

	recent, err := store.Recent(t.Context(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.True(t, recent[0].Degraded)
	assert.Equal(t, "fallback", recent[0].Source)
}

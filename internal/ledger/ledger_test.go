package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pbaille/witness/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	led, err := New(filepath.Join(t.TempDir(), "witness.db"))
	require.NoError(t, err)
	t.Cleanup(func() { led.Close() })
	return led
}

func TestLedger_RecordAndList(t *testing.T) {
	led := openTestLedger(t)

	first, err := led.Record("2026-08-25", "docs", domain.GrowthReport{
		PreviousCount: 0,
		CurrentCount:  2,
		Delta:         2,
		NewLayerNames: []string{"A", "B"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	time.Sleep(20 * time.Millisecond)

	_, err = led.Record("2026-08-26", "docs", domain.GrowthReport{
		PreviousCount: 2,
		CurrentCount:  3,
		Delta:         1,
		GrowthRate:    0.5,
		NewLayerNames: []string{"C"},
	})
	require.NoError(t, err)

	runs, err := led.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "2026-08-26", runs[0].Date)
	assert.Equal(t, 3, runs[0].Total)
	assert.Equal(t, 1, runs[0].Delta)
	assert.InDelta(t, 0.5, runs[0].GrowthRate, 1e-9)
	assert.Equal(t, []string{"C"}, runs[0].NewLayers)

	assert.Equal(t, "2026-08-25", runs[1].Date)
	assert.Equal(t, []string{"A", "B"}, runs[1].NewLayers)
}

func TestLedger_SameDateAppends(t *testing.T) {
	led := openTestLedger(t)

	_, err := led.Record("2026-08-26", "docs", domain.GrowthReport{CurrentCount: 2})
	require.NoError(t, err)
	_, err = led.Record("2026-08-26", "docs", domain.GrowthReport{CurrentCount: 2})
	require.NoError(t, err)

	runs, err := led.ListRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestLedger_ListRespectsLimit(t *testing.T) {
	led := openTestLedger(t)

	for i := 0; i < 3; i++ {
		_, err := led.Record("2026-08-26", "docs", domain.GrowthReport{})
		require.NoError(t, err)
	}

	runs, err := led.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestLedger_EmptyNewLayers(t *testing.T) {
	led := openTestLedger(t)

	_, err := led.Record("2026-08-26", "docs", domain.GrowthReport{CurrentCount: 1})
	require.NoError(t, err)

	runs, err := led.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Empty(t, runs[0].NewLayers)
}

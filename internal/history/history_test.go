package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestMemoryStoreAppendReturnsPrior(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	prior, err := store.Append(ctx, "AAPL", Record{Timestamp: day(0), Score: 40})
	require.NoError(t, err)
	assert.Empty(t, prior)

	prior, err = store.Append(ctx, "AAPL", Record{Timestamp: day(1), Score: 45})
	require.NoError(t, err)
	require.Len(t, prior, 1)
	assert.Equal(t, 40.0, prior[0].Score)

	series, err := store.Series(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.True(t, series[0].Timestamp.Before(series[1].Timestamp))
}

func TestRetentionEvictsOldestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < RetentionCap+1; i++ {
		_, err := store.Append(ctx, "TSLA", Record{Timestamp: day(i), Score: float64(i)})
		require.NoError(t, err)
	}

	series, err := store.Series(ctx, "TSLA")
	require.NoError(t, err)
	require.Len(t, series, RetentionCap)
	// Record 0 is gone, record 1 is now the oldest.
	assert.Equal(t, 1.0, series[0].Score)
	assert.Equal(t, float64(RetentionCap), series[len(series)-1].Score)
}

func TestSeriesUnknownEntityIsEmpty(t *testing.T) {
	store := NewMemoryStore()
	series, err := store.Series(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestConcurrentAppendsSameEntityLoseNothing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const runs = 50
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Append(ctx, "NVDA", Record{Timestamp: day(i), Score: float64(i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	series, err := store.Series(ctx, "NVDA")
	require.NoError(t, err)
	assert.Len(t, series, runs)
}

func TestDeltasClosestEntryPerWindow(t *testing.T) {
	now := day(10)
	series := []Record{
		{Timestamp: now.Add(-8 * 24 * time.Hour), Score: 40},
		{Timestamp: now.Add(-24 * time.Hour), Score: 45},
	}

	deltas := Deltas(series, 60, now, DefaultWindows())

	require.NotNil(t, deltas["7d"])
	assert.Equal(t, 20.0, *deltas["7d"]) // closest to 7 days ago is the t-8d entry
	require.NotNil(t, deltas["1d"])
	assert.Equal(t, 15.0, *deltas["1d"])

	// No bound on the closest search: the t-8d entry also serves as the
	// 30-day reference.
	require.NotNil(t, deltas["30d"])
	assert.Equal(t, 20.0, *deltas["30d"])
}

func TestDeltasEmptySeriesAllNull(t *testing.T) {
	deltas := Deltas(nil, 55, day(0), DefaultWindows())
	require.Len(t, deltas, 3)
	for name, d := range deltas {
		assert.Nil(t, d, "window %s", name)
	}
}

func TestTrackerComparesAgainstPriorHistoryOnly(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	// First run: nothing to compare against, but the score is recorded.
	deltas, err := tracker.Track(ctx, "AMD", 50, day(0), DefaultWindows())
	require.NoError(t, err)
	assert.Nil(t, deltas["1d"])

	// Second run a day later compares against the first record, never
	// against its own append.
	deltas, err = tracker.Track(ctx, "AMD", 58, day(1), DefaultWindows())
	require.NoError(t, err)
	require.NotNil(t, deltas["1d"])
	assert.Equal(t, 8.0, *deltas["1d"])

	series, err := store.Series(ctx, "AMD")
	require.NoError(t, err)
	assert.Len(t, series, 2)
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	store, err := OpenBadgerInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	prior, err := store.Append(ctx, "MSFT", Record{Timestamp: day(0), Score: 33})
	require.NoError(t, err)
	assert.Empty(t, prior)

	prior, err = store.Append(ctx, "MSFT", Record{Timestamp: day(1), Score: 35})
	require.NoError(t, err)
	require.Len(t, prior, 1)
	assert.Equal(t, 33.0, prior[0].Score)

	series, err := store.Series(ctx, "MSFT")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 35.0, series[1].Score)

	// Entities are isolated.
	other, err := store.Series(ctx, "GOOG")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestBadgerStoreRetention(t *testing.T) {
	store, err := OpenBadgerInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < RetentionCap+5; i++ {
		_, err := store.Append(ctx, "INTC", Record{Timestamp: day(i), Score: float64(i)})
		require.NoError(t, err)
	}

	series, err := store.Series(ctx, "INTC")
	require.NoError(t, err)
	require.Len(t, series, RetentionCap)
	assert.Equal(t, 5.0, series[0].Score)
}

package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(now time.Time) (*Storage, *time.Time) {
	current := now
	s := NewStorage()
	s.now = func() time.Time { return current }
	return s, &current
}

func TestStorage(t *testing.T) {
	storage, _ := newTestStorage(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))

	t.Run("RecordAnalysis", func(t *testing.T) {
		storage.RecordAnalysis("https://example.com/page", 0.5, false)
		storage.RecordAnalysis("https://example.com/page", 1.5, false)
		storage.RecordAnalysis("https://broken.example", 0, true)

		stats := storage.GetCurrentStats()
		assert.Equal(t, 3, stats.Analyses)
		assert.Equal(t, 1, stats.Failures)
		assert.InDelta(t, 1.0, stats.AverageLoadTime(), 1e-9)
		assert.InDelta(t, 100.0/3.0, storage.ErrorRate(), 1e-9)
	})

	t.Run("RecordIssues", func(t *testing.T) {
		storage.RecordIssues(2, 3, 1)
		stats := storage.GetCurrentStats()
		assert.Equal(t, 2, stats.Critical)
		assert.Equal(t, 3, stats.Warning)
		assert.Equal(t, 1, stats.Info)
	})

	t.Run("IncrementCache", func(t *testing.T) {
		storage.IncrementCache(1, 2)
		stats := storage.GetCurrentStats()
		assert.Equal(t, 1, stats.CacheHits)
		assert.Equal(t, 2, stats.CacheMisses)
	})

	t.Run("MonthlyStats", func(t *testing.T) {
		stats, ok := storage.GetMonthlyStats("2024-05")
		require.True(t, ok)
		assert.Equal(t, 3, stats.Analyses)

		_, ok = storage.GetMonthlyStats("1999-01")
		assert.False(t, ok)
	})

	t.Run("PopularURLs", func(t *testing.T) {
		urls := storage.PopularURLs(5)
		require.Len(t, urls, 2)
		assert.Equal(t, URLCount{URL: "https://example.com/page", Count: 2}, urls[0])
		assert.Equal(t, URLCount{URL: "https://broken.example", Count: 1}, urls[1])
		assert.Len(t, storage.PopularURLs(1), 1)
	})
}

func TestStorage_Cleanup(t *testing.T) {
	storage, now := newTestStorage(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))

	for _, month := range []time.Time{
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	} {
		*now = month
		storage.IncrementCache(1, 0)
	}
	*now = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, []string{"2024-05", "2024-04", "2024-02"}, storage.GetAllMonths())

	storage.Cleanup(2)
	assert.Equal(t, []string{"2024-05", "2024-04"}, storage.GetAllMonths())

	storage.Cleanup(0)
	assert.Equal(t, []string{"2024-05"}, storage.GetAllMonths())
}

func TestStorage_UniqueVisitors(t *testing.T) {
	storage, now := newTestStorage(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))

	storage.TrackVisitor("10.0.0.1")
	*now = now.Add(20 * time.Hour)
	storage.TrackVisitor("10.0.0.2")
	storage.TrackVisitor("10.0.0.2")
	*now = now.Add(10 * time.Hour)

	assert.Equal(t, 1, storage.UniqueVisitors(24*time.Hour))
	assert.Equal(t, 2, storage.UniqueVisitors(48*time.Hour))
}

func TestStorage_Snapshot(t *testing.T) {
	storage, _ := newTestStorage(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	storage.RecordAnalysis("https://example.com", 0.2, false)

	limited := storage.Snapshot(false)
	assert.Equal(t, 1, limited["totalRequests"])
	assert.NotContains(t, limited, "popularUrls")

	full := storage.Snapshot(true)
	assert.Contains(t, full, "popularUrls")
	assert.Contains(t, full, "months")
}

func TestCleanURL(t *testing.T) {
	tests := map[string]string{
		"https://example.com/":           "https://example.com",
		"https://example.com/a/b/?q=1#x": "https://example.com/a/b",
		"http://localhost:8082/":         "",
		"http://127.0.0.1/page":          "",
		"https://example.com/API/thing":  "",
		"not a url":                      "",
	}
	for input, want := range tests {
		assert.Equal(t, want, cleanURL(input), input)
	}
}

func TestStorage_ConcurrentAccess(t *testing.T) {
	storage := NewStorage()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				storage.IncrementCache(1, 1)
				storage.RecordAnalysis("https://example.com", 0.1, false)
				storage.GetCurrentStats()
			}
		}()
	}
	wg.Wait()

	stats := storage.GetCurrentStats()
	assert.Equal(t, 1000, stats.CacheHits)
	assert.Equal(t, 1000, stats.Analyses)
}

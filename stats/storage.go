package stats

import (
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// MonthlyStats represents statistics for a specific month
type MonthlyStats struct {
	Analyses      int       `json:"analyses"`
	Failures      int       `json:"failures"`
	CacheHits     int       `json:"cache_hits"`
	CacheMisses   int       `json:"cache_misses"`
	Critical      int       `json:"critical_issues"`
	Warning       int       `json:"warning_issues"`
	Info          int       `json:"info_issues"`
	TotalLoadTime float64   `json:"total_load_time"`
	LastUpdated   time.Time `json:"last_updated"`
}

// AverageLoadTime returns the mean fetch time in seconds of successful analyses
func (m MonthlyStats) AverageLoadTime() float64 {
	succeeded := m.Analyses - m.Failures
	if succeeded <= 0 {
		return 0
	}
	return m.TotalLoadTime / float64(succeeded)
}

// Storage keeps usage statistics in memory, bucketed by month
type Storage struct {
	mutex       sync.RWMutex
	stats       map[string]*MonthlyStats // key: "YYYY-MM"
	visitors    map[string]time.Time     // IP -> last visit
	popularURLs map[string]int
	now         func() time.Time
}

// NewStorage creates a new statistics storage instance
func NewStorage() *Storage {
	return &Storage{
		stats:       make(map[string]*MonthlyStats),
		visitors:    make(map[string]time.Time),
		popularURLs: make(map[string]int),
		now:         time.Now,
	}
}

func (s *Storage) currentLocked() *MonthlyStats {
	month := s.now().Format("2006-01")
	stats, exists := s.stats[month]
	if !exists {
		stats = &MonthlyStats{}
		s.stats[month] = stats
	}
	stats.LastUpdated = s.now()
	return stats
}

// TrackVisitor records a unique visitor
func (s *Storage) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.visitors[ip] = s.now()
}

// RecordAnalysis records one analysis attempt. loadTime is in seconds and
// only counted for successful analyses.
func (s *Storage) RecordAnalysis(rawURL string, loadTime float64, failed bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats := s.currentLocked()
	stats.Analyses++
	if failed {
		stats.Failures++
	} else {
		stats.TotalLoadTime += loadTime
	}

	if cleaned := cleanURL(rawURL); cleaned != "" {
		s.popularURLs[cleaned]++
	}
}

// RecordIssues adds issue counts per severity
func (s *Storage) RecordIssues(critical, warning, info int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats := s.currentLocked()
	stats.Critical += critical
	stats.Warning += warning
	stats.Info += info
}

// IncrementCache increments the cache lookup counters
func (s *Storage) IncrementCache(hits, misses int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats := s.currentLocked()
	stats.CacheHits += hits
	stats.CacheMisses += misses
}

// GetCurrentStats returns statistics for the current month
func (s *Storage) GetCurrentStats() MonthlyStats {
	month := s.now().Format("2006-01")

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stats, exists := s.stats[month]; exists {
		return *stats
	}
	return MonthlyStats{}
}

// GetMonthlyStats returns statistics for a specific month
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stats, exists := s.stats[yearMonth]; exists {
		return *stats, true
	}
	return MonthlyStats{}, false
}

// GetAllMonths returns all months that have statistics, newest first
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// Cleanup keeps only the current month and the retainMonths-1 months before it
func (s *Storage) Cleanup(retainMonths int) {
	if retainMonths < 1 {
		retainMonths = 1
	}
	now := s.now()
	keep := make(map[string]bool, retainMonths)
	for i := 0; i < retainMonths; i++ {
		keep[now.AddDate(0, -i, 0).Format("2006-01")] = true
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for key := range s.stats {
		if !keep[key] {
			delete(s.stats, key)
		}
	}
}

// UniqueVisitors returns the number of visitors seen within window
func (s *Storage) UniqueVisitors(window time.Duration) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	cutoff := s.now().Add(-window)
	count := 0
	for _, lastVisit := range s.visitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

// PopularURLs returns the n most analyzed URLs, most frequent first.
// Ties are broken alphabetically.
func (s *Storage) PopularURLs(n int) []URLCount {
	s.mutex.RLock()
	counts := make([]URLCount, 0, len(s.popularURLs))
	for u, freq := range s.popularURLs {
		counts = append(counts, URLCount{URL: u, Count: freq})
	}
	s.mutex.RUnlock()

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].URL < counts[j].URL
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// URLCount pairs a URL with how often it was analyzed
type URLCount struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// ErrorRate returns this month's failed analyses as a percentage
func (s *Storage) ErrorRate() float64 {
	current := s.GetCurrentStats()
	if current.Analyses == 0 {
		return 0
	}
	return float64(current.Failures) / float64(current.Analyses) * 100
}

// Snapshot summarizes the statistics for the API. Popular URLs are only
// included when detailed is true.
func (s *Storage) Snapshot(detailed bool) map[string]interface{} {
	current := s.GetCurrentStats()

	snapshot := map[string]interface{}{
		"uniqueVisitors24h": s.UniqueVisitors(24 * time.Hour),
		"totalRequests":     current.Analyses,
		"errorRate":         s.ErrorRate(),
		"averageLoadTime":   current.AverageLoadTime(),
		"cacheHits":         current.CacheHits,
		"cacheMisses":       current.CacheMisses,
		"issues": map[string]int{
			"Critical": current.Critical,
			"Warning":  current.Warning,
			"Info":     current.Info,
		},
	}
	if detailed {
		snapshot["popularUrls"] = s.PopularURLs(5)
		snapshot["months"] = s.GetAllMonths()
	}
	return snapshot
}

// cleanURL reduces a URL to scheme, host and path. Local addresses and API
// paths are not tracked and yield "".
func cleanURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}

	if strings.Contains(u.Host, "localhost") ||
		strings.Contains(u.Host, "127.0.0.1") ||
		strings.Contains(strings.ToLower(u.Path), "/api/") {
		return ""
	}

	cleaned := u.Scheme + "://" + u.Host
	if u.Path != "" && u.Path != "/" {
		cleaned += u.Path
	}
	return strings.TrimSuffix(cleaned, "/")
}

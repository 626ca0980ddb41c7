package models

import "time"

// SystemMetrics is a lightweight aggregate snapshot of runtime counters,
// served alongside the Prometheus scrape endpoint for quick inspection.
type SystemMetrics struct {
	CacheHitRatio             float64   `json:"cache_hit_ratio"`
	CacheHits                 uint64    `json:"cache_hits"`
	CacheMisses               uint64    `json:"cache_misses"`
	RequestsTotal             uint64    `json:"requests_total"`
	AverageRequestDurationMs  float64   `json:"average_request_duration_ms"`
	AnalysisRuns              uint64    `json:"analysis_runs"`
	AverageAnalysisDurationMs float64   `json:"average_analysis_duration_ms"`
	DBQueryCount              uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs  float64   `json:"average_db_query_duration_ms"`
	Goroutines                int       `json:"goroutines"`
	GeneratedAt               time.Time `json:"generated_at"`
}

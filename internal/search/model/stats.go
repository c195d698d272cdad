package model

// StatsCounters is a raw snapshot of the process-wide query counters.
type StatsCounters struct {
	QueriesTotal int64
	CacheHits    int64
	LatencySumMS float64
	LatencyCount int64
	ByIntent     map[string]int64
}

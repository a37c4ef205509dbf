// Package static implements the latency port from configured tables.
package static

import (
	"strings"
	"time"
)

// LatencyTable maps network names to base confirmation latency.
type LatencyTable struct {
	latencies      map[string]time.Duration
	defaultLatency time.Duration
	bridgeOverhead time.Duration
}

// NewLatencyTable builds a table from millisecond values as configured.
func NewLatencyTable(latencyMS map[string]int64, defaultMS, bridgeMS int64) *LatencyTable {
	latencies := make(map[string]time.Duration, len(latencyMS))
	for network, ms := range latencyMS {
		latencies[strings.ToLower(network)] = time.Duration(ms) * time.Millisecond
	}
	return &LatencyTable{
		latencies:      latencies,
		defaultLatency: time.Duration(defaultMS) * time.Millisecond,
		bridgeOverhead: time.Duration(bridgeMS) * time.Millisecond,
	}
}

// Latency returns the base latency for network, falling back to the
// configured default for unknown chains.
func (t *LatencyTable) Latency(network string) time.Duration {
	if d, ok := t.latencies[strings.ToLower(network)]; ok {
		return d
	}
	return t.defaultLatency
}

// BridgeOverhead returns the fixed cross-network bridging cost.
func (t *LatencyTable) BridgeOverhead() time.Duration {
	return t.bridgeOverhead
}

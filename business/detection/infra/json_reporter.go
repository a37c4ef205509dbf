package infra

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/DappGoose-Labs/arbagent/business/detection/domain"
)

// JSONReporter streams each cycle's ranked list as one JSON document per
// line, suitable for piping into downstream tooling.
type JSONReporter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// cycleExport is the exported envelope for one detection cycle.
type cycleExport struct {
	ReportedAt    time.Time            `json:"reported_at"`
	Count         int                  `json:"count"`
	Opportunities []domain.Opportunity `json:"opportunities"`
}

// NewJSONReporter creates a reporter encoding to w.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{enc: json.NewEncoder(w)}
}

// Report encodes the cycle's opportunities. Field names and semantics
// follow the Opportunity JSON shape exactly.
func (r *JSONReporter) Report(ctx context.Context, opportunities []domain.Opportunity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(cycleExport{
		ReportedAt:    time.Now(),
		Count:         len(opportunities),
		Opportunities: opportunities,
	})
}

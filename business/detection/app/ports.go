package app

import (
	"context"

	"github.com/DappGoose-Labs/arbagent/business/detection/domain"
	marketdomain "github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
)

// SnapshotProvider hands the scanners an immutable pool snapshot.
type SnapshotProvider interface {
	Current() (*marketdomain.Snapshot, error)
}

// Reporter consumes the ranked opportunity list at the end of each
// detection cycle. Reporter failures are logged, never fatal to a cycle.
type Reporter interface {
	Report(ctx context.Context, opportunities []domain.Opportunity) error
}

package app

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	detectiondomain "github.com/DappGoose-Labs/arbagent/business/detection/domain"
	"github.com/DappGoose-Labs/arbagent/business/validation/domain"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
)

// Pipeline receives each detection cycle's ranked opportunities and
// validates them. Opportunities are independent, so validation runs with
// bounded parallelism; results keep the input order before re-ranking.
// The validated list is replaced wholesale each cycle.
type Pipeline struct {
	validator      *Validator
	maxConcurrency int
	log            logger.LoggerInterface

	mu        sync.RWMutex
	validated []domain.ValidatedOpportunity
}

// NewPipeline creates a Pipeline over the given validator.
func NewPipeline(validator *Validator, maxConcurrency int, log logger.LoggerInterface) *Pipeline {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Pipeline{
		validator:      validator,
		maxConcurrency: maxConcurrency,
		log:            log,
	}
}

// Report implements the detection reporter hook.
func (p *Pipeline) Report(ctx context.Context, opportunities []detectiondomain.Opportunity) error {
	results := make([]domain.ValidatedOpportunity, len(opportunities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrency)
	for i, opp := range opportunities {
		g.Go(func() error {
			results[i] = p.validator.Validate(gctx, opp)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		// A cancelled cycle publishes nothing; the previous validated
		// list stays in place.
		return err
	}

	valid := 0
	for _, r := range results {
		if r.IsValid {
			valid++
		}
	}
	p.log.Info(ctx, "validation completed", "opportunities", len(results), "valid", valid)

	p.mu.Lock()
	p.validated = results
	p.mu.Unlock()
	return nil
}

// Validated returns every verdict from the last completed cycle,
// rejections included.
func (p *Pipeline) Validated() []domain.ValidatedOpportunity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.ValidatedOpportunity(nil), p.validated...)
}

// BestValidated returns accepted opportunities clearing minProfit,
// sorted by expected profit descending, truncated to limit.
func (p *Pipeline) BestValidated(minProfit float64, limit int) []domain.ValidatedOpportunity {
	all := p.Validated()

	filtered := make([]domain.ValidatedOpportunity, 0, len(all))
	for _, v := range all {
		if v.IsValid && v.Opportunity.NetProfitPct >= minProfit {
			filtered = append(filtered, v)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ExpectedProfitUSD.GreaterThan(filtered[j].ExpectedProfitUSD)
	})

	if limit >= 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

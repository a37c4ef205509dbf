package app

import (
	"context"
	"testing"

	"github.com/DappGoose-Labs/arbagent/business/detection/domain"
)

func newTestPipeline(lookup PoolLookup) *Pipeline {
	return NewPipeline(newTestValidator(lookup), 4, testLogger())
}

func TestPipelineReportPublishesVerdicts(t *testing.T) {
	lookup := newStubLookup()
	lookup.add("0xbuy", 200_000)
	lookup.add("0xsell", 400_000)
	p := newTestPipeline(lookup)

	opps := []domain.Opportunity{
		crossOpp(0.018, "polygon", "polygon"),
		crossOpp(0.025, "polygon", "base"),
		triOpp(0.009, 1.02, 0.009), // triangle pools missing from the lookup
	}
	if err := p.Report(context.Background(), opps); err != nil {
		t.Fatalf("Report: %v", err)
	}

	got := p.Validated()
	if len(got) != 3 {
		t.Fatalf("validated = %d entries, want 3 (rejections included)", len(got))
	}
	// Input order survives validation.
	for i := range opps {
		if got[i].Opportunity.ID != opps[i].ID {
			t.Fatalf("entry %d is %s, want %s", i, got[i].Opportunity.ID, opps[i].ID)
		}
	}
	if !got[0].IsValid || !got[1].IsValid {
		t.Errorf("cross-venue verdicts: %v %v", got[0].IsValid, got[1].IsValid)
	}
	if got[2].IsValid {
		t.Error("triangular opportunity with missing pools passed validation")
	}
}

func TestPipelineReportReplacesPreviousCycle(t *testing.T) {
	lookup := newStubLookup()
	lookup.add("0xbuy", 200_000)
	lookup.add("0xsell", 400_000)
	p := newTestPipeline(lookup)

	if err := p.Report(context.Background(), []domain.Opportunity{
		crossOpp(0.018, "polygon", "polygon"),
		crossOpp(0.02, "polygon", "polygon"),
	}); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if err := p.Report(context.Background(), []domain.Opportunity{
		crossOpp(0.03, "polygon", "polygon"),
	}); err != nil {
		t.Fatalf("Report: %v", err)
	}

	got := p.Validated()
	if len(got) != 1 {
		t.Fatalf("validated = %d entries, want 1 after replacement", len(got))
	}
	if got[0].Opportunity.NetProfitPct != 0.03 {
		t.Fatalf("stale cycle survived: %v", got[0].Opportunity.NetProfitPct)
	}
}

func TestPipelineCancelledCycleKeepsPreviousList(t *testing.T) {
	lookup := newStubLookup()
	lookup.add("0xbuy", 200_000)
	lookup.add("0xsell", 400_000)
	p := newTestPipeline(lookup)

	if err := p.Report(context.Background(), []domain.Opportunity{
		crossOpp(0.018, "polygon", "polygon"),
	}); err != nil {
		t.Fatalf("Report: %v", err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Report(cancelled, []domain.Opportunity{
		crossOpp(0.03, "polygon", "polygon"),
		crossOpp(0.04, "polygon", "polygon"),
	}); err == nil {
		t.Fatal("expected error from cancelled cycle")
	}

	got := p.Validated()
	if len(got) != 1 || got[0].Opportunity.NetProfitPct != 0.018 {
		t.Fatalf("cancelled cycle overwrote the published list: %v", got)
	}
}

func TestPipelineBestValidated(t *testing.T) {
	lookup := newStubLookup()
	lookup.add("0xbuy", 200_000)
	lookup.add("0xsell", 400_000)
	p := newTestPipeline(lookup)

	opps := []domain.Opportunity{
		crossOpp(0.006, "polygon", "polygon"),
		crossOpp(0.03, "polygon", "polygon"),
		crossOpp(0.018, "polygon", "polygon"),
		triOpp(0.009, 1.02, 0.009), // rejected, pools unknown
	}
	if err := p.Report(context.Background(), opps); err != nil {
		t.Fatalf("Report: %v", err)
	}

	best := p.BestValidated(0.01, -1)
	if len(best) != 2 {
		t.Fatalf("best = %d entries, want 2", len(best))
	}
	// Higher profit means a larger optimal size too, so expected USD
	// strictly follows net profit here.
	if best[0].Opportunity.NetProfitPct != 0.03 || best[1].Opportunity.NetProfitPct != 0.018 {
		t.Fatalf("best order = %v, %v", best[0].Opportunity.NetProfitPct, best[1].Opportunity.NetProfitPct)
	}
	for _, v := range best {
		if !v.IsValid {
			t.Fatal("rejected opportunity in best list")
		}
	}

	if got := p.BestValidated(0.01, 1); len(got) != 1 {
		t.Fatalf("limit ignored: %d entries", len(got))
	}
	if got := p.BestValidated(0, -1); len(got) != 3 {
		t.Fatalf("zero threshold = %d entries, want 3", len(got))
	}
}

func TestPipelineValidatedReturnsCopy(t *testing.T) {
	lookup := newStubLookup()
	lookup.add("0xbuy", 200_000)
	lookup.add("0xsell", 400_000)
	p := newTestPipeline(lookup)

	if err := p.Report(context.Background(), []domain.Opportunity{
		crossOpp(0.018, "polygon", "polygon"),
	}); err != nil {
		t.Fatalf("Report: %v", err)
	}

	first := p.Validated()
	first[0].IsValid = false

	if got := p.Validated(); !got[0].IsValid {
		t.Fatal("caller mutation leaked into the pipeline")
	}
}

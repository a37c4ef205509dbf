// Package infra contains infrastructure adapters for the detection context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/DappGoose-Labs/arbagent/business/detection/domain"
)

// ConsoleReporter prints each cycle's ranked opportunities to a writer.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterTo creates a reporter writing to w.
func NewConsoleReporterTo(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w}
}

// Report outputs the ranked opportunity list for one cycle.
func (r *ConsoleReporter) Report(ctx context.Context, opportunities []domain.Opportunity) error {
	if len(opportunities) == 0 {
		return nil
	}

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "ARBITRAGE OPPORTUNITIES (%d)\n", len(opportunities))
	fmt.Fprintln(r.out, "================================================================================")

	for i, opp := range opportunities {
		fmt.Fprintf(r.out, "\n#%d  %s  net profit %.4f%%  (gas %.4f%%)\n",
			i+1, opp.Kind, opp.NetProfitPct*100, opp.EstimatedGasPct*100)

		switch opp.Kind {
		case domain.KindCrossVenue:
			cv := opp.CrossVenue
			fmt.Fprintf(r.out, "    Pair:  %s\n", cv.TokenPair)
			fmt.Fprintf(r.out, "    Buy:   %s on %s at %.6f (fee %.4f%%)\n",
				cv.Buy.Venue, cv.Buy.Network, cv.Buy.Price, cv.Buy.Fee*100)
			fmt.Fprintf(r.out, "    Sell:  %s on %s at %.6f (fee %.4f%%)\n",
				cv.Sell.Venue, cv.Sell.Network, cv.Sell.Price, cv.Sell.Fee*100)
			fmt.Fprintf(r.out, "    Spread: %.4f%%\n", cv.PriceDiffPct*100)
		case domain.KindTriangular:
			tr := opp.Triangular
			fmt.Fprintf(r.out, "    Venue: %s on %s\n", tr.Venue, tr.Network)
			fmt.Fprintf(r.out, "    Path:  %s -> %s -> %s -> %s\n",
				tr.TokenA, tr.TokenB, tr.TokenC, tr.TokenA)
			fmt.Fprintf(r.out, "    Round-trip rate: %.6f (fees %.4f%%)\n",
				tr.RoundTripRate, tr.TotalFee*100)
		}
	}

	fmt.Fprintln(r.out, "================================================================================")
	return nil
}

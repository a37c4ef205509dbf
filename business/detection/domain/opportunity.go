package domain

import (
	"time"

	"github.com/google/uuid"

	marketdomain "github.com/DappGoose-Labs/arbagent/business/marketdata/domain"
)

// Kind discriminates the two opportunity shapes.
type Kind string

const (
	KindCrossVenue Kind = "cross_venue"
	KindTriangular Kind = "triangular"
)

// VenueQuote is one side of a cross-venue opportunity.
type VenueQuote struct {
	Venue        string  `json:"venue"`
	Network      string  `json:"network"`
	PoolID       string  `json:"pool_id"`
	Price        float64 `json:"price"`
	Fee          float64 `json:"fee"`
	LiquidityUSD float64 `json:"liquidity_usd"`
}

// CrossVenueDetails describes a buy-low/sell-high spread for one pair.
type CrossVenueDetails struct {
	TokenPair    string     `json:"token_pair"`
	Buy          VenueQuote `json:"buy"`
	Sell         VenueQuote `json:"sell"`
	PriceDiffPct float64    `json:"price_diff_pct"`
}

// TriangularDetails describes a 3-cycle on one venue/network.
type TriangularDetails struct {
	Venue         string             `json:"venue"`
	Network       string             `json:"network"`
	TokenA        marketdomain.Token `json:"token_a"`
	TokenB        marketdomain.Token `json:"token_b"`
	TokenC        marketdomain.Token `json:"token_c"`
	LegPrices     [3]float64         `json:"leg_prices"`
	RoundTripRate float64            `json:"round_trip_rate"`
	TotalFee      float64            `json:"total_fee"`
	PoolIDs       [3]string          `json:"pool_ids"`
}

// Opportunity is a detected arbitrage candidate. Exactly one of
// CrossVenue or Triangular is set, matching Kind.
type Opportunity struct {
	ID              string             `json:"id"`
	Kind            Kind               `json:"type"`
	NetProfitPct    float64            `json:"net_profit_pct"`
	EstimatedGasPct float64            `json:"estimated_gas_pct"`
	CreatedAt       time.Time          `json:"created_at"`
	CrossVenue      *CrossVenueDetails `json:"cross_venue,omitempty"`
	Triangular      *TriangularDetails `json:"triangular,omitempty"`
}

// NewCrossVenue creates a cross-venue opportunity.
func NewCrossVenue(details CrossVenueDetails, netProfitPct, gasPct float64) Opportunity {
	return Opportunity{
		ID:              uuid.NewString(),
		Kind:            KindCrossVenue,
		NetProfitPct:    netProfitPct,
		EstimatedGasPct: gasPct,
		CreatedAt:       time.Now(),
		CrossVenue:      &details,
	}
}

// NewTriangular creates a triangular opportunity.
func NewTriangular(details TriangularDetails, netProfitPct, gasPct float64) Opportunity {
	return Opportunity{
		ID:              uuid.NewString(),
		Kind:            KindTriangular,
		NetProfitPct:    netProfitPct,
		EstimatedGasPct: gasPct,
		CreatedAt:       time.Now(),
		Triangular:      &details,
	}
}

// LegRef points at one pool the opportunity trades through.
type LegRef struct {
	Venue   string
	Network string
	PoolID  string
}

// Legs returns each pool leg in trade order, for validation lookups.
func (o *Opportunity) Legs() []LegRef {
	switch o.Kind {
	case KindCrossVenue:
		cv := o.CrossVenue
		return []LegRef{
			{Venue: cv.Buy.Venue, Network: cv.Buy.Network, PoolID: cv.Buy.PoolID},
			{Venue: cv.Sell.Venue, Network: cv.Sell.Network, PoolID: cv.Sell.PoolID},
		}
	case KindTriangular:
		tr := o.Triangular
		legs := make([]LegRef, 0, 3)
		for _, poolID := range tr.PoolIDs {
			legs = append(legs, LegRef{Venue: tr.Venue, Network: tr.Network, PoolID: poolID})
		}
		return legs
	}
	return nil
}

// CrossNetwork reports whether the trade spans two chains.
func (o *Opportunity) CrossNetwork() bool {
	if o.Kind != KindCrossVenue {
		return false
	}
	return o.CrossVenue.Buy.Network != o.CrossVenue.Sell.Network
}

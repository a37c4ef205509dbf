// Package domain contains the core domain types for the marketdata context.
package domain

// Token identifies a tradable token by its symbol. Address resolution
// belongs to the execution layer and is not modeled here.
type Token string

// VenueKey identifies where a pool lives: a DEX protocol on a specific chain.
type VenueKey struct {
	Venue   string
	Network string
}

// String returns the "<venue>_<network>" form used in config and logs.
func (k VenueKey) String() string {
	return k.Venue + "_" + k.Network
}

// PoolRecord is a liquidity pool in one of two shapes, resolved once at
// ingestion so scanners never have to sniff record structure.
type PoolRecord interface {
	PoolID() string
	Fee() float64
	LiquidityUSD() float64

	sealed()
}

// TwoTokenPool is a constant-product pool holding exactly two tokens.
type TwoTokenPool struct {
	ID         string
	Token0     Token
	Token1     Token
	Reserve0   float64
	Reserve1   float64
	ReserveUSD float64
	FeePct     float64
}

func (p TwoTokenPool) PoolID() string        { return p.ID }
func (p TwoTokenPool) Fee() float64          { return p.FeePct }
func (p TwoTokenPool) LiquidityUSD() float64 { return p.ReserveUSD }
func (p TwoTokenPool) sealed()               {}

// Price returns token1-per-token0, or 0 when reserve0 is empty. A zero
// price propagates as a non-competitive quote rather than an error.
func (p TwoTokenPool) Price() float64 {
	if p.Reserve0 == 0 {
		return 0
	}
	return p.Reserve1 / p.Reserve0
}

// ReversePrice returns token0-per-token1, or 0 when reserve1 is empty.
func (p TwoTokenPool) ReversePrice() float64 {
	if p.Reserve1 == 0 {
		return 0
	}
	return p.Reserve0 / p.Reserve1
}

// MultiTokenPool is a stable-swap style pool holding three or more tokens.
// Pairwise prices are derived as balance ratios, which is a documented
// approximation of the true invariant-curve price.
type MultiTokenPool struct {
	ID         string
	Tokens     []Token
	Balances   []float64
	ReserveUSD float64
	FeePct     float64
}

func (p MultiTokenPool) PoolID() string        { return p.ID }
func (p MultiTokenPool) Fee() float64          { return p.FeePct }
func (p MultiTokenPool) LiquidityUSD() float64 { return p.ReserveUSD }
func (p MultiTokenPool) sealed()               {}

// PairPrice returns the balance-ratio price of Tokens[j] per Tokens[i],
// or 0 when either index is out of range or Balances[i] is empty.
func (p MultiTokenPool) PairPrice(i, j int) float64 {
	if i < 0 || j < 0 || i >= len(p.Balances) || j >= len(p.Balances) {
		return 0
	}
	if p.Balances[i] == 0 {
		return 0
	}
	return p.Balances[j] / p.Balances[i]
}

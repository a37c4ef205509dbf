// Package domain contains the core domain types for the validation context.
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	detectiondomain "github.com/DappGoose-Labs/arbagent/business/detection/domain"
)

// Rejection messages. Checked in order: a missing pool wins over a
// liquidity failure.
const (
	MsgPoolUnavailable       = "Pool details unavailable"
	MsgInsufficientLiquidity = "Insufficient liquidity"
)

// ValidatedOpportunity wraps an Opportunity with the validation verdict.
// Created once per opportunity per cycle and never mutated; the next
// cycle supersedes it.
type ValidatedOpportunity struct {
	Opportunity detectiondomain.Opportunity `json:"opportunity"`

	IsValid bool   `json:"is_valid"`
	Message string `json:"message,omitempty"`

	ExpectedProfitUSD   decimal.Decimal `json:"expected_profit_usd"`
	MaxTradeSizeUSD     decimal.Decimal `json:"max_trade_size_usd"`
	OptimalTradeSizeUSD decimal.Decimal `json:"optimal_trade_size_usd"`

	RiskScore                float64   `json:"risk_score"`
	EstimatedExecutionTimeMS int64     `json:"estimated_execution_time_ms"`
	LegLiquidityUSD          []float64 `json:"leg_liquidity_usd,omitempty"`
	ValidatedAt              time.Time `json:"validated_at"`
}

// Rejected creates a terminal rejection verdict.
func Rejected(opp detectiondomain.Opportunity, message string) ValidatedOpportunity {
	return ValidatedOpportunity{
		Opportunity: opp,
		IsValid:     false,
		Message:     message,
		ValidatedAt: time.Now(),
	}
}

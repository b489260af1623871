package model

import (
	"github.com/shopspring/decimal"
)

// ProfitLossKind is the direction of a P&L entry.
type ProfitLossKind string

const (
	KindProfit ProfitLossKind = "Profit"
	KindLoss   ProfitLossKind = "Loss"
)

// ProfitLoss is a profit or loss booked against an investor.
type ProfitLoss struct {
	ID         string          `json:"_id"`
	InvestorID string          `json:"investorId"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       ProfitLossKind  `json:"type"`
	Date       Date            `json:"date"`
	Note       string          `json:"note,omitempty"`
}

// Signed returns the amount with losses negated.
func (p ProfitLoss) Signed() decimal.Decimal {
	if p.Kind == KindLoss {
		return p.Amount.Abs().Neg()
	}
	return p.Amount.Abs()
}

// NetProfitLoss sums entries, counting losses as negative.
func NetProfitLoss(entries []ProfitLoss) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Signed())
	}
	return total
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tag classifies a transaction (and the investor cohort it belongs to).
type Tag string

const (
	TagOld Tag = "Old"
	TagNew Tag = "New"
)

// Valid reports whether t is Old or New.
func (t Tag) Valid() bool {
	return t == TagOld || t == TagNew
}

// Transaction is a recorded movement of funds for an investor.
// Transactions are immutable once created; they can only be deleted.
type Transaction struct {
	ID           string          `json:"_id"`
	InvestorID   string          `json:"investorId"`
	InvestorName string          `json:"investorName,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Tag          Tag             `json:"tag"`
	Date         Date            `json:"date"`
	Note         string          `json:"note,omitempty"`
	Status       string          `json:"status,omitempty"`
	CreatedAt    time.Time       `json:"createdAt,omitempty"`
}

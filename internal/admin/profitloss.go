package admin

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/investdesk/desk/internal/listing"
	"github.com/investdesk/desk/internal/model"
	"github.com/investdesk/desk/internal/validate"
)

// ProfitLossInput is the create P&L payload.
type ProfitLossInput struct {
	InvestorID string
	Kind       model.ProfitLossKind
	Amount     decimal.Decimal
	Date       model.Date
	Note       string
}

// ProfitLossFromValues converts validated P&L values.
func ProfitLossFromValues(v validate.Values) (ProfitLossInput, error) {
	amt, err := decimal.NewFromString(v.Get("amount"))
	if err != nil {
		return ProfitLossInput{}, fmt.Errorf("parsing amount: %w", err)
	}
	day, err := model.ParseDate(v.Get("date"))
	if err != nil {
		return ProfitLossInput{}, fmt.Errorf("parsing date: %w", err)
	}
	return ProfitLossInput{
		InvestorID: v.Get("investorId"),
		Kind:       model.ProfitLossKind(v.Get("type")),
		Amount:     amt,
		Date:       day,
		Note:       v.Get("note"),
	}, nil
}

// ListProfitLoss fetches one page of P&L entries.
func (s *Service) ListProfitLoss(ctx context.Context, f listing.Filters) (model.Page[model.ProfitLoss], error) {
	return listPage[model.ProfitLoss](ctx, s, pathProfitLoss, "profitLoss", f)
}

// CreateProfitLoss books a P&L entry.
func (s *Service) CreateProfitLoss(ctx context.Context, in ProfitLossInput) (model.ProfitLoss, error) {
	var pl model.ProfitLoss
	body := map[string]any{
		"investorId": in.InvestorID,
		"type":       in.Kind,
		"amount":     amount(in.Amount),
		"date":       in.Date,
		"note":       in.Note,
	}
	if err := s.client.Post(ctx, pathProfitLossCreate, body, &pl); err != nil {
		return pl, err
	}
	s.recordCurrent("create", "profit-loss", pl.ID,
		fmt.Sprintf("%s %s for %s", in.Kind, in.Amount.String(), in.InvestorID))
	return pl, nil
}

package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/investdesk/desk/internal/listing"
	"github.com/investdesk/desk/internal/model"
	"github.com/investdesk/desk/internal/validate"
)

// TransactionInput is the add-transaction payload.
type TransactionInput struct {
	InvestorID string
	Tag        model.Tag
	Amount     decimal.Decimal
	Date       model.Date
	Note       string
}

// amount keeps the decimal's exact text but sends it as a JSON number.
func amount(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func (in TransactionInput) body() map[string]any {
	return map[string]any{
		"tag":        in.Tag,
		"investorId": in.InvestorID,
		"amount":     amount(in.Amount),
		"date":       in.Date,
		"note":       in.Note,
	}
}

// TransactionFromValues converts validated add-transaction values.
func TransactionFromValues(v validate.Values) (TransactionInput, error) {
	amt, err := decimal.NewFromString(v.Get("amount"))
	if err != nil {
		return TransactionInput{}, fmt.Errorf("parsing amount: %w", err)
	}
	day, err := model.ParseDate(v.Get("date"))
	if err != nil {
		return TransactionInput{}, fmt.Errorf("parsing date: %w", err)
	}
	return TransactionInput{
		InvestorID: v.Get("investorId"),
		Tag:        model.Tag(v.Get("tag")),
		Amount:     amt,
		Date:       day,
		Note:       v.Get("note"),
	}, nil
}

// ListTransactions fetches one page of transactions.
func (s *Service) ListTransactions(ctx context.Context, f listing.Filters) (model.Page[model.Transaction], error) {
	return listPage[model.Transaction](ctx, s, pathTransactions, "transactions", f)
}

// AddTransaction records a transaction.
func (s *Service) AddTransaction(ctx context.Context, in TransactionInput) (model.Transaction, error) {
	var txn model.Transaction
	if err := s.client.Post(ctx, pathTransactionAdd, in.body(), &txn); err != nil {
		return txn, err
	}
	s.recordCurrent("add", "transaction", txn.ID,
		fmt.Sprintf("%s %s for %s", in.Tag, in.Amount.String(), in.InvestorID))
	return txn, nil
}

// DeleteTransaction removes a transaction.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("transaction id is required")
	}
	if err := s.client.Delete(ctx, pathTransaction+id, nil); err != nil {
		return err
	}
	s.recordCurrent("delete", "transaction", id, "")
	return nil
}

// PayoutInput is the run-payout payload.
type PayoutInput struct {
	PaymentSystemID string
	AsOn            model.Date
	Note            string
}

// PayoutFromValues converts validated payout values.
func PayoutFromValues(v validate.Values) (PayoutInput, error) {
	day, err := model.ParseDate(v.Get("asOnDate"))
	if err != nil {
		return PayoutInput{}, fmt.Errorf("parsing as-on date: %w", err)
	}
	return PayoutInput{PaymentSystemID: v.Get("paymentSystem"), AsOn: day, Note: v.Get("note")}, nil
}

// RunPayout starts a payout. Its status is computed by the server.
func (s *Service) RunPayout(ctx context.Context, in PayoutInput) (model.Payout, error) {
	var p model.Payout
	body := map[string]any{"paymentSystem": in.PaymentSystemID, "asOnDate": in.AsOn, "note": in.Note}
	if err := s.client.Post(ctx, pathPayoutRun, body, &p); err != nil {
		return p, err
	}
	s.recordCurrent("run", "payout", p.ID, in.PaymentSystemID+" as on "+in.AsOn.String())
	return p, nil
}

// ListPayouts fetches one page of payouts.
func (s *Service) ListPayouts(ctx context.Context, f listing.Filters) (model.Page[model.Payout], error) {
	return listPage[model.Payout](ctx, s, pathPayouts, "payouts", f)
}

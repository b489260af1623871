package admin

import (
	"context"

	"github.com/investdesk/desk/internal/lookup"
	"github.com/investdesk/desk/internal/model"
)

// PaymentSystems fetches the payout cadences.
func (s *Service) PaymentSystems(ctx context.Context) (*lookup.Table[model.PaymentSystem], error) {
	items, err := listAll[model.PaymentSystem](ctx, s, pathPaymentSystems, "paymentSystems")
	if err != nil {
		return nil, err
	}
	return lookup.PaymentSystems(items), nil
}

// References fetches the introducers.
func (s *Service) References(ctx context.Context) (*lookup.Table[model.Reference], error) {
	items, err := listAll[model.Reference](ctx, s, pathReferences, "references")
	if err != nil {
		return nil, err
	}
	return lookup.References(items), nil
}

// Accounts fetches the company bank accounts.
func (s *Service) Accounts(ctx context.Context) (*lookup.Table[model.Account], error) {
	items, err := listAll[model.Account](ctx, s, pathAccounts, "accounts")
	if err != nil {
		return nil, err
	}
	return lookup.Accounts(items), nil
}

// PanCardTypes fetches the PAN holder categories.
func (s *Service) PanCardTypes(ctx context.Context) (*lookup.Table[model.PanCardType], error) {
	items, err := listAll[model.PanCardType](ctx, s, pathPanCardTypes, "panCardTypes")
	if err != nil {
		return nil, err
	}
	return lookup.PanCardTypes(items), nil
}

// PanCheckResult says whether a PAN is already registered.
type PanCheckResult struct {
	Exists       bool   `json:"exists"`
	InvestorID   string `json:"investorId,omitempty"`
	InvestorName string `json:"name,omitempty"`
}

// CheckPanCard looks up a PAN number.
func (s *Service) CheckPanCard(ctx context.Context, pan string) (PanCheckResult, error) {
	var out PanCheckResult
	err := s.client.Post(ctx, pathPanCheck, map[string]string{"pan": pan}, &out)
	return out, err
}

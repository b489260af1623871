package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/investdesk/desk/internal/apiclient"
	"github.com/investdesk/desk/internal/listing"
	"github.com/investdesk/desk/internal/model"
	"github.com/investdesk/desk/internal/validate"
)

// investorFields maps form field names to the multipart field names the
// backend expects.
var investorFields = map[string]string{
	"name":             "name",
	"email":            "email",
	"mobile":           "mobile",
	"pan":              "panCardNumber",
	"aadhar":           "aadharCardNumber",
	"investmentAmount": "investmentAmount",
	"paymentSystem":    "paymentSystem",
	"reference":        "reference",
	"bankName":         "bankName",
	"accountNumber":    "accountNumber",
	"ifsc":             "ifscCode",
	"branchName":       "branchName",
	"nomineeName":      "nomineeName",
	"nomineeRelation":  "nomineeRelation",
	"nomineeMobile":    "nomineeMobile",
	"tag":              "tag",
}

// InvestorInput is the create/update payload: form values plus document
// uploads keyed by part name (see model.DocumentParts).
type InvestorInput struct {
	Values    validate.Values
	Documents map[string]string
}

func (in InvestorInput) multipart() (*apiclient.Multipart, error) {
	mp := &apiclient.Multipart{Fields: map[string]string{}, Files: map[string]string{}}
	for field, v := range in.Values {
		if v == "" {
			continue
		}
		name, ok := investorFields[field]
		if !ok {
			return nil, fmt.Errorf("unknown investor field %q", field)
		}
		mp.Fields[name] = v
	}
	known := make(map[string]bool, len(model.DocumentParts))
	for _, p := range model.DocumentParts {
		known[p] = true
	}
	for part, path := range in.Documents {
		if !known[part] {
			return nil, fmt.Errorf("unknown document part %q", part)
		}
		if path != "" {
			mp.Files[part] = path
		}
	}
	return mp, nil
}

// ListInvestors fetches one page of investors.
func (s *Service) ListInvestors(ctx context.Context, f listing.Filters) (model.Page[model.Investor], error) {
	return listPage[model.Investor](ctx, s, pathInvestors, "investors", f)
}

// GetInvestor fetches a single investor.
func (s *Service) GetInvestor(ctx context.Context, id string) (model.Investor, error) {
	var inv model.Investor
	if id == "" {
		return inv, errors.New("investor id is required")
	}
	err := s.client.Get(ctx, pathInvestor+id, nil, &inv)
	return inv, err
}

// CreateInvestor uploads a new investor with its documents.
func (s *Service) CreateInvestor(ctx context.Context, in InvestorInput) (model.Investor, error) {
	var inv model.Investor
	mp, err := in.multipart()
	if err != nil {
		return inv, err
	}
	if err := s.client.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: pathInvestorCreate, Form: mp}, &inv); err != nil {
		return inv, err
	}
	s.recordCurrent("create", "investor", inv.ID, in.Values.Get("name"))
	return inv, nil
}

// UpdateInvestor sends the changed fields and any replaced documents.
func (s *Service) UpdateInvestor(ctx context.Context, id string, in InvestorInput) (model.Investor, error) {
	var inv model.Investor
	if id == "" {
		return inv, errors.New("investor id is required")
	}
	mp, err := in.multipart()
	if err != nil {
		return inv, err
	}
	if err := s.client.Do(ctx, apiclient.Request{Method: http.MethodPut, Path: pathInvestorUpdate + id, Form: mp}, &inv); err != nil {
		return inv, err
	}
	s.recordCurrent("update", "investor", id, fmt.Sprintf("%d fields, %d documents", len(mp.Fields), len(mp.Files)))
	return inv, nil
}

// SetInvestorStatus activates or deactivates an investor. Investors are never deleted.
func (s *Service) SetInvestorStatus(ctx context.Context, id string, status model.InvestorStatus) (model.Investor, error) {
	var inv model.Investor
	if !status.Valid() {
		return inv, fmt.Errorf("invalid investor status %q", status)
	}
	if err := s.client.Put(ctx, pathInvestorStatus+id, map[string]string{"status": string(status)}, &inv); err != nil {
		return inv, err
	}
	s.recordCurrent("status", "investor", id, string(status))
	return inv, nil
}

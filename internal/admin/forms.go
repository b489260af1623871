package admin

import (
	"context"

	"github.com/investdesk/desk/internal/form"
	"github.com/investdesk/desk/internal/model"
	"github.com/investdesk/desk/internal/validate"
)

// NewAddTransactionForm posts to the add-transaction endpoint. The created
// transaction is passed to created, if set, before the form's success state.
func NewAddTransactionForm(s *Service, created func(model.Transaction), opts ...form.Option) *form.Form {
	return form.New(validate.AddTransaction, func(ctx context.Context, v validate.Values) error {
		in, err := TransactionFromValues(v)
		if err != nil {
			return err
		}
		txn, err := s.AddTransaction(ctx, in)
		if err == nil && created != nil {
			created(txn)
		}
		return err
	}, opts...)
}

// NewCreateInvestorForm uploads a new investor with the given documents.
func NewCreateInvestorForm(s *Service, docs map[string]string, created func(model.Investor), opts ...form.Option) *form.Form {
	return form.New(validate.Investor, func(ctx context.Context, v validate.Values) error {
		inv, err := s.CreateInvestor(ctx, InvestorInput{Values: v, Documents: docs})
		if err == nil && created != nil {
			created(inv)
		}
		return err
	}, opts...)
}

// NewUpdateInvestorForm sends only the values present on the form.
func NewUpdateInvestorForm(s *Service, id string, docs map[string]string, updated func(model.Investor), opts ...form.Option) *form.Form {
	return form.New(validate.InvestorUpdate, func(ctx context.Context, v validate.Values) error {
		inv, err := s.UpdateInvestor(ctx, id, InvestorInput{Values: v, Documents: docs})
		if err == nil && updated != nil {
			updated(inv)
		}
		return err
	}, opts...)
}

// NewPayoutForm runs a payout.
func NewPayoutForm(s *Service, ran func(model.Payout), opts ...form.Option) *form.Form {
	return form.New(validate.Payout, func(ctx context.Context, v validate.Values) error {
		in, err := PayoutFromValues(v)
		if err != nil {
			return err
		}
		p, err := s.RunPayout(ctx, in)
		if err == nil && ran != nil {
			ran(p)
		}
		return err
	}, opts...)
}

// NewProfitLossForm books a P&L entry.
func NewProfitLossForm(s *Service, created func(model.ProfitLoss), opts ...form.Option) *form.Form {
	return form.New(validate.ProfitLoss, func(ctx context.Context, v validate.Values) error {
		in, err := ProfitLossFromValues(v)
		if err != nil {
			return err
		}
		pl, err := s.CreateProfitLoss(ctx, in)
		if err == nil && created != nil {
			created(pl)
		}
		return err
	}, opts...)
}

// NewAppVersionForm creates an app version, or updates id when it is set.
func NewAppVersionForm(s *Service, id string, saved func(model.AppVersion), opts ...form.Option) *form.Form {
	opts = append([]form.Option{form.WithCheck(MinimumNotAboveLatest)}, opts...)
	return form.New(validate.AppVersion, func(ctx context.Context, v validate.Values) error {
		av := AppVersionFromValues(v)
		var (
			out model.AppVersion
			err error
		)
		if id == "" {
			out, err = s.CreateAppVersion(ctx, av)
		} else {
			out, err = s.UpdateAppVersion(ctx, id, av)
		}
		if err == nil && saved != nil {
			saved(out)
		}
		return err
	}, opts...)
}

// NewLoginForm signs in and stores the session.
func NewLoginForm(s *Service, opts ...form.Option) *form.Form {
	return form.New(validate.Login, func(ctx context.Context, v validate.Values) error {
		_, err := s.Login(ctx, v.Get("email"), v.Get("password"))
		return err
	}, opts...)
}

// NewPanCheckForm looks up a PAN; the result is passed to checked.
func NewPanCheckForm(s *Service, checked func(PanCheckResult), opts ...form.Option) *form.Form {
	return form.New(validate.PanCheck, func(ctx context.Context, v validate.Values) error {
		res, err := s.CheckPanCard(ctx, v.Get("pan"))
		if err == nil && checked != nil {
			checked(res)
		}
		return err
	}, opts...)
}

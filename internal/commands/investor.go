package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/investdesk/desk/internal/admin"
	"github.com/investdesk/desk/internal/form"
	"github.com/investdesk/desk/internal/listing"
	"github.com/investdesk/desk/internal/lookup"
	"github.com/investdesk/desk/internal/model"
	"github.com/investdesk/desk/internal/ui"
	"github.com/investdesk/desk/internal/validate"
)

func newInvestorCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "investor",
		Aliases: []string{"investors"},
		Short:   "Manage investors",
	}
	cmd.AddCommand(newInvestorListCommand(a))
	cmd.AddCommand(newInvestorShowCommand(a))
	cmd.AddCommand(newInvestorSaveCommand(a, false))
	cmd.AddCommand(newInvestorSaveCommand(a, true))
	cmd.AddCommand(newInvestorStatusCommand(a, model.InvestorActive))
	cmd.AddCommand(newInvestorStatusCommand(a, model.InvestorInactive))
	return cmd
}

func newInvestorListCommand(a *app) *cobra.Command {
	var lf listFlags
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List investors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvestorList(cmd, a, lf, status)
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&status, "status", "", "filter by status (active or inactive)")
	return cmd
}

func runInvestorList(cmd *cobra.Command, a *app, lf listFlags, status string) error {
	if status != "" && !model.InvestorStatus(status).Valid() {
		return fmt.Errorf("unknown status %q", status)
	}
	opts := append(lf.options(a), listing.WithField("status", status))
	snap, err := loadPage(cmd, a, a.svc.ListInvestors, opts...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	return a.render(out, snap.Items, func() error {
		printPage(out, "investors", snap,
			[]string{"ID", "Name", "PAN", "Mobile", "Invested", "Status"},
			func(inv model.Investor) []string {
				return []string{inv.ID, inv.Name, inv.PAN, inv.Mobile, money(inv.InvestmentAmount), string(inv.Status)}
			})
		return nil
	})
}

func newInvestorShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one investor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.svc.GetInvestor(cmd.Context(), args[0])
			if err != nil {
				return userError(err)
			}
			out := cmd.OutOrStdout()
			return a.render(out, inv, func() error {
				printInvestor(cmd, inv)
				return nil
			})
		},
	}
}

func printInvestor(cmd *cobra.Command, inv model.Investor) {
	out := cmd.OutOrStdout()
	rows := [][]string{
		{"ID", inv.ID},
		{"Name", inv.Name},
		{"Status", string(inv.Status)},
		{"Email", orDash(inv.Email)},
		{"Mobile", orDash(inv.Mobile)},
		{"PAN", orDash(inv.PAN)},
		{"Aadhar", orDash(inv.Aadhar)},
		{"Invested", money(inv.InvestmentAmount)},
		{"Payment system", orDash(inv.PaymentSystemID)},
		{"Reference", orDash(inv.ReferenceID)},
		{"Bank", orDash(inv.BankName)},
		{"Account", orDash(inv.AccountNumber)},
		{"IFSC", orDash(inv.IFSC)},
		{"Nominee", orDash(inv.Nominee.Name)},
		{"Created", stamp(inv.CreatedAt)},
	}
	parts := make([]string, 0, len(inv.Documents))
	for part := range inv.Documents {
		parts = append(parts, part)
	}
	sort.Strings(parts)
	for _, part := range parts {
		rows = append(rows, []string{"Document " + part, inv.Documents[part]})
	}
	fmt.Fprintln(out, ui.Table([]string{"Field", "Value"}, rows))
}

// investorFlags are the create/update flags and the form fields they fill.
var investorFlags = []struct{ flag, field, usage string }{
	{"name", "name", "full name"},
	{"email", "email", "email address"},
	{"mobile", "mobile", "10-digit mobile number"},
	{"pan", "pan", "PAN card number"},
	{"aadhar", "aadhar", "12-digit Aadhar number"},
	{"investment-amount", "investmentAmount", "amount invested"},
	{"payment-system", "paymentSystem", "payment system id or name"},
	{"reference", "reference", "reference id or name"},
	{"bank-name", "bankName", "bank name"},
	{"account-number", "accountNumber", "bank account number"},
	{"ifsc", "ifsc", "IFSC code"},
	{"branch", "branchName", "bank branch"},
	{"nominee-name", "nomineeName", "nominee name"},
	{"nominee-relation", "nomineeRelation", "nominee relation"},
	{"nominee-mobile", "nomineeMobile", "nominee mobile number"},
}

func newInvestorSaveCommand(a *app, update bool) *cobra.Command {
	ff := newFieldFlags()
	var docs map[string]string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an investor",
		Args:  cobra.NoArgs,
	}
	if update {
		cmd.Use = "update <id>"
		cmd.Short = "Update an investor's details or documents"
		cmd.Args = cobra.ExactArgs(1)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id := ""
		if update {
			id = args[0]
		}
		return runInvestorSave(cmd, a, id, ff.collect(cmd, update), docs)
	}

	for _, f := range investorFlags {
		ff.add(cmd, f.flag, f.field, f.usage)
	}
	cmd.Flags().StringToStringVar(&docs, "doc", nil, "document upload as part=path (repeatable)")
	return cmd
}

func runInvestorSave(cmd *cobra.Command, a *app, id string, values validate.Values, docs map[string]string) error {
	if err := a.resolveInvestorLookups(cmd, values); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var saved model.Investor
	done := func(inv model.Investor) { saved = inv }
	build := func(opts ...form.Option) *form.Form {
		if id == "" {
			return admin.NewCreateInvestorForm(a.svc, docs, done, opts...)
		}
		return admin.NewUpdateInvestorForm(a.svc, id, docs, done, opts...)
	}
	if err := a.submit(cmd, build, values); err != nil {
		return err
	}

	return a.render(out, saved, func() error {
		verb := "Created"
		if id != "" {
			verb = "Updated"
		}
		fmt.Fprintf(out, "%s investor %s (%s).\n", verb, saved.Name, saved.ID)
		printInvestor(cmd, saved)
		return nil
	})
}

// resolveInvestorLookups replaces payment system and reference names with ids.
func (a *app) resolveInvestorLookups(cmd *cobra.Command, values validate.Values) error {
	if v := values.Get("paymentSystem"); v != "" {
		systems, err := a.svc.PaymentSystems(cmd.Context())
		if err != nil {
			return userError(err)
		}
		id, ok := systems.Resolve(v, lookup.PaymentSystemKey)
		if !ok {
			return fmt.Errorf("unknown payment system %q (one of: %v)", v, systems.Names(lookup.PaymentSystemKey))
		}
		values["paymentSystem"] = id
	}
	if v := values.Get("reference"); v != "" {
		refs, err := a.svc.References(cmd.Context())
		if err != nil {
			return userError(err)
		}
		id, ok := refs.Resolve(v, lookup.ReferenceKey)
		if !ok {
			return fmt.Errorf("unknown reference %q", v)
		}
		values["reference"] = id
	}
	return nil
}

func newInvestorStatusCommand(a *app, status model.InvestorStatus) *cobra.Command {
	use, short := "activate", "Activate an investor"
	if status == model.InvestorInactive {
		use, short = "deactivate", "Deactivate an investor"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := validate.InvestorStatus.Validate(validate.Values{"status": string(status)}); !errs.Empty() {
				return errs
			}
			inv, err := a.svc.SetInvestorStatus(cmd.Context(), args[0], status)
			if err != nil {
				return userError(err)
			}
			out := cmd.OutOrStdout()
			return a.render(out, inv, func() error {
				fmt.Fprintf(out, "Investor %s is now %s.\n", args[0], status)
				return nil
			})
		},
	}
}

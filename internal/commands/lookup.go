package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/investdesk/desk/internal/admin"
	"github.com/investdesk/desk/internal/lookup"
	"github.com/investdesk/desk/internal/model"
	"github.com/investdesk/desk/internal/ui"
	"github.com/investdesk/desk/internal/validate"
)

func newPanCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pan",
		Short: "PAN card lookups",
	}
	cmd.AddCommand(newPanCheckCommand(a))
	cmd.AddCommand(newLookupListCommand(a, "types", "List PAN card types", "PAN card types",
		func(ctx context.Context) ([][]string, any, error) {
			t, err := a.svc.PanCardTypes(ctx)
			if err != nil {
				return nil, nil, err
			}
			return rowsOf(t, func(p model.PanCardType) []string { return []string{p.ID, p.Name, p.Code} }), t.All(), nil
		}, "ID", "Name", "Code"))
	return cmd
}

func newPanCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <pan>",
		Short: "Check whether a PAN is already registered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pan := strings.ToUpper(strings.TrimSpace(args[0]))
			var res admin.PanCheckResult
			f := admin.NewPanCheckForm(a.svc, func(r admin.PanCheckResult) { res = r })
			f.Update(validate.Values{"pan": pan})
			if err := submitOnce(cmd, f); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return a.render(out, res, func() error {
				if !res.Exists {
					fmt.Fprintf(out, "PAN %s is not registered.\n", pan)
					return nil
				}
				fmt.Fprintf(out, "PAN %s is registered to %s (%s).\n", pan, orDash(res.InvestorName), res.InvestorID)
				return nil
			})
		},
	}
}

// newLookupCommands returns the read-only reference data commands.
func newLookupCommands(a *app) []*cobra.Command {
	refs := &cobra.Command{Use: "reference", Aliases: []string{"references"}, Short: "Investor references"}
	refs.AddCommand(newLookupListCommand(a, "list", "List references", "references",
		func(ctx context.Context) ([][]string, any, error) {
			t, err := a.svc.References(ctx)
			if err != nil {
				return nil, nil, err
			}
			return rowsOf(t, func(r model.Reference) []string { return []string{r.ID, r.Name, r.Mobile} }), t.All(), nil
		}, "ID", "Name", "Mobile"))

	systems := &cobra.Command{Use: "payment-system", Aliases: []string{"payment-systems"}, Short: "Payout payment systems"}
	systems.AddCommand(newLookupListCommand(a, "list", "List payment systems", "payment systems",
		func(ctx context.Context) ([][]string, any, error) {
			t, err := a.svc.PaymentSystems(ctx)
			if err != nil {
				return nil, nil, err
			}
			return rowsOf(t, func(p model.PaymentSystem) []string { return []string{p.ID, p.Name} }), t.All(), nil
		}, "ID", "Name"))

	accounts := &cobra.Command{Use: "account", Aliases: []string{"accounts"}, Short: "Company bank accounts"}
	accounts.AddCommand(newLookupListCommand(a, "list", "List transaction accounts", "accounts",
		func(ctx context.Context) ([][]string, any, error) {
			t, err := a.svc.Accounts(ctx)
			if err != nil {
				return nil, nil, err
			}
			return rowsOf(t, func(ac model.Account) []string { return []string{ac.ID, ac.Name, ac.BankName, ac.AccountNumber} }), t.All(), nil
		}, "ID", "Name", "Bank", "Account"))

	return []*cobra.Command{refs, systems, accounts}
}

func newLookupListCommand(a *app, use, short, what string, load func(ctx context.Context) ([][]string, any, error), headers ...string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, items, err := load(cmd.Context())
			if err != nil {
				return userError(err)
			}
			out := cmd.OutOrStdout()
			return a.render(out, items, func() error {
				if len(rows) == 0 {
					fmt.Fprintln(out, ui.Empty(what))
					return nil
				}
				fmt.Fprintln(out, ui.Table(headers, rows))
				return nil
			})
		},
	}
}

func rowsOf[T any](t *lookup.Table[T], row func(T) []string) [][]string {
	items := t.All()
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = row(item)
	}
	return rows
}

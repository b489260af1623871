package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/investdesk/desk/internal/admin"
	"github.com/investdesk/desk/internal/form"
	"github.com/investdesk/desk/internal/listing"
	"github.com/investdesk/desk/internal/model"
	"github.com/investdesk/desk/internal/ui"
	"github.com/investdesk/desk/internal/validate"
)

func newTransactionCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"transactions", "txn"},
		Short:   "Manage transactions",
	}
	cmd.AddCommand(newTransactionListCommand(a))
	cmd.AddCommand(newTransactionAddCommand(a))
	cmd.AddCommand(newTransactionDeleteCommand(a))
	cmd.AddCommand(newTransactionImportCommand(a))
	return cmd
}

func newTransactionListCommand(a *app) *cobra.Command {
	var lf listFlags
	var tag, investor string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := append(lf.options(a),
				listing.WithField("tag", tag),
				listing.WithField("investorId", investor),
			)
			return runTransactionList(cmd, a, opts...)
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&tag, "tag", "", "filter by tag (Old or New)")
	cmd.Flags().StringVar(&investor, "investor", "", "filter by investor id")
	return cmd
}

func runTransactionList(cmd *cobra.Command, a *app, opts ...listing.FilterOption) error {
	snap, err := loadPage(cmd, a, a.svc.ListTransactions, opts...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	return a.render(out, snap.Items, func() error {
		printPage(out, "transactions", snap,
			[]string{"ID", "Date", "Investor", "Tag", "Amount", "Status", "Note"},
			func(t model.Transaction) []string {
				return []string{t.ID, t.Date.String(), orDash(t.InvestorName), string(t.Tag), money(t.Amount), orDash(t.Status), t.Note}
			})
		return nil
	})
}

func newTransactionAddCommand(a *app) *cobra.Command {
	ff := newFieldFlags()
	var pick bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction for an investor",
		Long: "Add a transaction for an investor. The values are validated before anything\n" +
			"is sent; after the transaction is created the investor's transactions are listed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := ff.collect(cmd, false)
			if values.Get("date") == "" {
				values["date"] = model.NewDate(time.Now()).String()
			}
			if pick {
				check := admin.NewAddTransactionForm(a.svc, nil, form.WithValues(values))
				if err := precheck(cmd, check, ff.changed(cmd)); err != nil {
					return err
				}
				inv, err := a.pickInvestor(cmd)
				if err != nil {
					return err
				}
				values["investorId"] = inv.ID
			}
			return runTransactionAdd(cmd, a, values)
		},
	}
	ff.add(cmd, "investor", "investorId", "investor id")
	ff.add(cmd, "tag", "tag", "tag (Old or New)")
	ff.add(cmd, "amount", "amount", "amount, greater than zero")
	ff.add(cmd, "date", "date", "transaction date, YYYY-MM-DD (default today)")
	ff.add(cmd, "note", "note", "free-text note")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the investor interactively")
	cmd.MarkFlagsMutuallyExclusive("investor", "pick")
	return cmd
}

func runTransactionAdd(cmd *cobra.Command, a *app, values validate.Values) error {
	out := cmd.OutOrStdout()
	build := func(opts ...form.Option) *form.Form {
		return admin.NewAddTransactionForm(a.svc, func(t model.Transaction) {
			fmt.Fprintf(out, "Transaction %s added: %s for %s on %s.\n", t.ID, money(t.Amount), orDash(t.InvestorName), t.Date)
		}, opts...)
	}
	if err := a.submit(cmd, build, values); err != nil {
		return err
	}
	return runTransactionList(cmd, a,
		listing.WithLimit(a.cfg.UI.PageSize),
		listing.WithField("investorId", values["investorId"]),
	)
}

// investorSearcher backs the investor picker with a list controller so a
// newer search cancels the one still in flight.
func (a *app) investorSearcher(ctx context.Context) (ui.Searcher, func()) {
	l := listing.New(ctx, a.svc.ListInvestors,
		listing.WithLogger[model.Investor](a.logger),
		listing.WithFilters[model.Investor](listing.WithLimit(a.cfg.UI.PageSize), listing.WithField("status", string(model.InvestorActive))),
	)
	search := func(ctx context.Context, term string) ([]ui.Option, error) {
		err := l.SetFilters(ctx, listing.WithSearch(term))
		if errors.Is(err, listing.ErrStale) {
			return nil, nil
		}
		if err != nil {
			return nil, userError(err)
		}
		items := l.Snapshot().Items
		opts := make([]ui.Option, len(items))
		for i, inv := range items {
			opts[i] = ui.Option{ID: inv.ID, Label: inv.Name, Detail: strings.TrimSpace(inv.PAN + "  " + inv.Mobile)}
		}
		return opts, nil
	}
	return search, l.Close
}

func (a *app) pickInvestor(cmd *cobra.Command) (ui.Option, error) {
	search, done := a.investorSearcher(cmd.Context())
	defer done()

	p := ui.NewPicker(cmd.Context(), a.title("Investor"), "Search by name, PAN or mobile", search,
		ui.WithDebouncer(listing.NewDebouncer(a.cfg.UI.Debounce)))
	o, ok, err := a.pick(cmd, p)
	if err != nil {
		return ui.Option{}, err
	}
	if !ok {
		return ui.Option{}, errors.New("no investor selected")
	}
	return o, nil
}

func newTransactionDeleteCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := a.ask(cmd, "Delete transaction", "Delete transaction "+args[0]+"? This cannot be undone.")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := a.svc.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transaction %s deleted.\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

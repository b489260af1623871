package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/investdesk/desk/internal/admin"
	"github.com/investdesk/desk/internal/form"
	"github.com/investdesk/desk/internal/listing"
	"github.com/investdesk/desk/internal/model"
)

func newPnLCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pnl",
		Aliases: []string{"profit-loss"},
		Short:   "Book and list profit and loss entries",
	}
	cmd.AddCommand(newPnLListCommand(a))
	cmd.AddCommand(newPnLAddCommand(a))
	return cmd
}

func newPnLListCommand(a *app) *cobra.Command {
	var lf listFlags
	var investor string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profit and loss entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := append(lf.options(a), listing.WithField("investorId", investor))
			return runPnLList(cmd, a, opts...)
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&investor, "investor", "", "filter by investor id")
	return cmd
}

func runPnLList(cmd *cobra.Command, a *app, opts ...listing.FilterOption) error {
	snap, err := loadPage(cmd, a, a.svc.ListProfitLoss, opts...)
	if err != nil {
		return err
	}
	net := model.NetProfitLoss(snap.Items)
	out := cmd.OutOrStdout()
	return a.render(out, struct {
		Entries []model.ProfitLoss `json:"entries"`
		Net     string             `json:"net"`
	}{snap.Items, net.String()}, func() error {
		printPage(out, "entries", snap,
			[]string{"ID", "Date", "Investor", "Type", "Amount", "Note"},
			func(p model.ProfitLoss) []string {
				return []string{p.ID, p.Date.String(), p.InvestorID, string(p.Kind), money(p.Signed()), p.Note}
			})
		if len(snap.Items) > 0 {
			fmt.Fprintf(out, "Net on this page: %s\n", money(net))
		}
		return nil
	})
}

func newPnLAddCommand(a *app) *cobra.Command {
	ff := newFieldFlags()

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Book a profit or loss against an investor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := ff.collect(cmd, false)
			if values.Get("date") == "" {
				values["date"] = model.NewDate(time.Now()).String()
			}
			out := cmd.OutOrStdout()
			build := func(opts ...form.Option) *form.Form {
				return admin.NewProfitLossForm(a.svc, func(p model.ProfitLoss) {
					fmt.Fprintf(out, "%s of %s booked for %s on %s.\n", p.Kind, money(p.Amount), p.InvestorID, p.Date)
				}, opts...)
			}
			if err := a.submit(cmd, build, values); err != nil {
				return err
			}
			return runPnLList(cmd, a,
				listing.WithLimit(a.cfg.UI.PageSize),
				listing.WithField("investorId", values.Get("investorId")),
			)
		},
	}
	ff.add(cmd, "investor", "investorId", "investor id")
	ff.add(cmd, "type", "type", "Profit or Loss")
	ff.add(cmd, "amount", "amount", "amount, greater than zero")
	ff.add(cmd, "date", "date", "entry date, YYYY-MM-DD (default today)")
	ff.add(cmd, "note", "note", "free-text note")
	return cmd
}

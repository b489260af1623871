package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/investdesk/desk/internal/admin"
	"github.com/investdesk/desk/internal/form"
	"github.com/investdesk/desk/internal/listing"
	"github.com/investdesk/desk/internal/lookup"
	"github.com/investdesk/desk/internal/model"
)

func newPayoutCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payout",
		Aliases: []string{"payouts"},
		Short:   "Run and list payouts",
	}
	cmd.AddCommand(newPayoutListCommand(a))
	cmd.AddCommand(newPayoutRunCommand(a))
	return cmd
}

func newPayoutListCommand(a *app) *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPayoutList(cmd, a, lf.options(a)...)
		},
	}
	lf.register(cmd)
	return cmd
}

func runPayoutList(cmd *cobra.Command, a *app, opts ...listing.FilterOption) error {
	snap, err := loadPage(cmd, a, a.svc.ListPayouts, opts...)
	if err != nil {
		return err
	}
	systems, err := a.svc.PaymentSystems(cmd.Context())
	if err != nil {
		return userError(err)
	}
	out := cmd.OutOrStdout()
	return a.render(out, snap.Items, func() error {
		printPage(out, "payouts", snap,
			[]string{"ID", "As on", "Payment system", "Status", "Note"},
			func(p model.Payout) []string {
				name := p.PaymentSystemID
				if ps, ok := systems.Get(p.PaymentSystemID); ok {
					name = ps.Name
				}
				return []string{p.ID, p.AsOn.String(), name, string(p.Status), p.Note}
			})
		return nil
	})
}

func newPayoutRunCommand(a *app) *cobra.Command {
	ff := newFieldFlags()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a payout for a payment system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := ff.collect(cmd, false)
			if values.Get("asOnDate") == "" {
				values["asOnDate"] = model.NewDate(time.Now()).String()
			}
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

			out := cmd.OutOrStdout()
			build := func(opts ...form.Option) *form.Form {
				return admin.NewPayoutForm(a.svc, func(p model.Payout) {
					fmt.Fprintf(out, "Payout %s started as on %s (%s).\n", p.ID, p.AsOn, p.Status)
				}, opts...)
			}
			if err := a.submit(cmd, build, values); err != nil {
				return err
			}
			return runPayoutList(cmd, a, listing.WithLimit(a.cfg.UI.PageSize))
		},
	}
	ff.add(cmd, "payment-system", "paymentSystem", "payment system id or name")
	ff.add(cmd, "as-on", "asOnDate", "as-on date, YYYY-MM-DD (default today)")
	ff.add(cmd, "note", "note", "free-text note")
	return cmd
}

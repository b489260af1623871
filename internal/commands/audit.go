package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/investdesk/desk/internal/ui"
)

func newAuditCommand(a *app) *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the local log of changes made from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.audit.Tail(tail)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return a.render(out, entries, func() error {
				if len(entries) == 0 {
					fmt.Fprintln(out, ui.Empty("audit entries"))
					return nil
				}
				rows := make([][]string, len(entries))
				for i, e := range entries {
					rows[i] = []string{stamp(e.Timestamp), orDash(e.Actor), e.Action, e.Resource, orDash(e.ResourceID), e.Details}
				}
				fmt.Fprintln(out, ui.Table([]string{"When", "Who", "Action", "Resource", "ID", "Details"}, rows))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&tail, "tail", "n", 20, "number of most recent entries")
	return noAuth(cmd)
}

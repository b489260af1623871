package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/investdesk/desk/internal/listing"
	"github.com/investdesk/desk/internal/ui"
)

// listFlags are the paging and search flags every list command takes.
type listFlags struct {
	page   int
	limit  int
	search string
}

func (lf *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&lf.page, "page", 1, "page number")
	cmd.Flags().IntVar(&lf.limit, "limit", 0, "items per page (default ui.page_size)")
	cmd.Flags().StringVar(&lf.search, "search", "", "search term")
}

func (lf *listFlags) options(a *app) []listing.FilterOption {
	limit := lf.limit
	if limit <= 0 {
		limit = a.cfg.UI.PageSize
	}
	return []listing.FilterOption{
		listing.WithPage(lf.page),
		listing.WithLimit(limit),
		listing.WithSearch(lf.search),
	}
}

// loadPage drives a list controller through one fetch and returns what it
// settled on.
func loadPage[T any](cmd *cobra.Command, a *app, fetch listing.Fetcher[T], opts ...listing.FilterOption) (listing.Snapshot[T], error) {
	l := listing.New(cmd.Context(), fetch,
		listing.WithLogger[T](a.logger),
		listing.WithDebouncer[T](listing.NewDebouncer(a.cfg.UI.Debounce)),
	)
	defer l.Close()
	if err := l.SetFilters(cmd.Context(), opts...); err != nil {
		return listing.Snapshot[T]{}, userError(err)
	}
	return l.Snapshot(), nil
}

// printPage renders a snapshot as a table followed by a page footer.
func printPage[T any](w io.Writer, what string, snap listing.Snapshot[T], headers []string, row func(T) []string) {
	if len(snap.Items) == 0 {
		fmt.Fprintln(w, ui.Empty(what))
		return
	}
	rows := make([][]string, len(snap.Items))
	for i, item := range snap.Items {
		rows[i] = row(item)
	}
	fmt.Fprintln(w, ui.Table(headers, rows))
	p := snap.Pagination
	fmt.Fprintf(w, "Page %d of %d (%d %s)\n", p.CurrentPage, max(p.TotalPages, 1), p.TotalItems, what)
}

func money(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

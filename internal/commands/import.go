package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/investdesk/desk/internal/admin"
	"github.com/investdesk/desk/internal/apiclient"
	"github.com/investdesk/desk/internal/form"
	"github.com/investdesk/desk/internal/importer"
	"github.com/investdesk/desk/internal/listing"
	"github.com/investdesk/desk/internal/validate"
)

func newTransactionImportCommand(a *app) *cobra.Command {
	var format string
	var dryRun bool

	reg := importer.DefaultRegistry()
	cmd := &cobra.Command{
		Use:   "import <file-or-dir>",
		Short: "Import transactions from CSV",
		Long: "Import transactions from a CSV file, or from every CSV file in a directory.\n" +
			"Each row goes through the add-transaction form rules; invalid rows are\n" +
			"reported and never sent. After a run each file moves to a processed/\n" +
			"directory beside it, and any rows that were not imported are written to\n" +
			"<name>.rejected.csv in its place. Import that file to retry them.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := reg.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (one of: %s)", format, strings.Join(reg.Formats(), ", "))
			}
			return runTransactionImport(cmd, a, parser, args[0], dryRun)
		},
	}
	cmd.Flags().StringVar(&format, "format", "desk", "file layout: "+strings.Join(reg.Formats(), ", "))
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate rows without sending them or moving files")
	return cmd
}

type importSummary struct {
	rows    int
	added   int
	invalid int
	failed  int
	// sent is how many rows reached the API, successfully or not.
	sent int
	// rejected holds the lines of rows that were not imported.
	rejected []int
}

func (s importSummary) clean() bool {
	return s.invalid == 0 && s.failed == 0
}

func runTransactionImport(cmd *cobra.Command, a *app, parser importer.Parser, path string, dryRun bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var files []importer.FileInfo
	if info.IsDir() {
		if files, err = importer.Scan(path); err != nil {
			return err
		}
	} else {
		files = []importer.FileInfo{{Name: filepath.Base(path), Path: path, Size: info.Size()}}
	}

	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "No CSV files to import.")
		return nil
	}

	pans := map[string]string{}
	incomplete := 0
	for _, f := range files {
		sum, importErr := a.importFile(cmd, parser, f, dryRun, pans)
		if importErr != nil && sum.sent == 0 {
			return importErr
		}
		verb := "added"
		if dryRun {
			verb = "valid"
		}
		fmt.Fprintf(out, "%s: %d rows, %d %s, %d invalid, %d failed\n", f.Name, sum.rows, sum.added, verb, sum.invalid, sum.failed)
		if !sum.clean() {
			incomplete++
		}
		if !dryRun {
			side, err := importer.Archive(f, sum.rejected)
			if err != nil {
				return err
			}
			if side != "" {
				fmt.Fprintf(out, "  %d rows to retry written to %s\n", len(sum.rejected), side)
			}
		}
		if importErr != nil {
			return importErr
		}
	}
	if incomplete > 0 {
		return fmt.Errorf("%d of %d files had rows that were not imported", incomplete, len(files))
	}
	return nil
}

// importFile validates and sends the rows of one file. It stops at the first
// unauthorized response: the session is gone and every later row would fail
// the same way. Rows not attempted are counted as failed.
func (a *app) importFile(cmd *cobra.Command, parser importer.Parser, f importer.FileInfo, dryRun bool, pans map[string]string) (importSummary, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return importSummary{}, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer fh.Close()

	rows, err := parser.Parse(fh)
	if err != nil {
		return importSummary{}, fmt.Errorf("parsing %s: %w", f.Name, err)
	}

	sum := importSummary{rows: len(rows)}
	unresolved := map[int]string{}
	for i, row := range rows {
		pan := row.Values.Get("pan")
		if pan == "" || row.Values.Get("investorId") != "" {
			continue
		}
		id, err := a.investorByPAN(cmd, pan, pans)
		if err != nil {
			return sum, err
		}
		if id == "" {
			unresolved[i] = "no investor with PAN " + pan
			continue
		}
		rows[i].Values["investorId"] = id
	}

	errOut := cmd.ErrOrStderr()
	var stopErr error
	for i, res := range importer.Check(rows, validate.AddTransaction) {
		if msg, ok := unresolved[i]; ok {
			res.Errors = validate.Errors{"investorId": msg}
		}
		if !res.Valid() {
			sum.invalid++
			sum.rejected = append(sum.rejected, res.Line)
			for _, field := range res.Errors.Fields() {
				fmt.Fprintf(errOut, "  %s line %d: %s: %s\n", f.Name, res.Line, field, res.Errors[field])
			}
			continue
		}
		if dryRun {
			sum.added++
			continue
		}
		if stopErr != nil {
			sum.failed++
			sum.rejected = append(sum.rejected, res.Line)
			continue
		}
		fm := admin.NewAddTransactionForm(a.svc, nil, form.WithValues(res.Values))
		sum.sent++
		if err := fm.Submit(cmd.Context()); err != nil {
			sum.failed++
			sum.rejected = append(sum.rejected, res.Line)
			if apiclient.IsKind(err, apiclient.KindUnauthorized) {
				stopErr = userError(err)
				continue
			}
			fmt.Fprintf(errOut, "  %s line %d: %s\n", f.Name, res.Line, fm.State().SubmitError)
			continue
		}
		sum.added++
	}
	return sum, stopErr
}

// investorByPAN finds the investor registered under pan, caching lookups
// across files. It returns "" when there is none.
func (a *app) investorByPAN(cmd *cobra.Command, pan string, cache map[string]string) (string, error) {
	if id, ok := cache[pan]; ok {
		return id, nil
	}
	page, err := a.svc.ListInvestors(cmd.Context(), listing.Filters{Page: 1, Limit: a.cfg.UI.PageSize, Search: pan})
	if err != nil {
		return "", userError(err)
	}
	id := ""
	for _, inv := range page.Items {
		if strings.EqualFold(inv.PAN, pan) {
			id = inv.ID
			break
		}
	}
	cache[pan] = id
	return id, nil
}

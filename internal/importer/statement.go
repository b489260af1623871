package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/investdesk/desk/internal/model"
	"github.com/investdesk/desk/internal/validate"
)

// StatementParser reads the bank credit statement export used by finance:
//
//	Txn Date,PAN,Credit,Cohort,Narration
//	01/05/2024,ABCDE1234F,"1,000.00",New,May deposit
//
// Investors are identified by PAN, so rows carry a "pan" value that must be
// resolved to an investor id before the add-transaction form is submitted.
type StatementParser struct{}

const (
	statementDateFormat = "02/01/2006"
	statementNumFields  = 5
	statementColDate    = 0
	statementColPAN     = 1
	statementColAmount  = 2
	statementColCohort  = 3
	statementColNote    = 4
)

// Format returns the parser name.
func (p *StatementParser) Format() string { return "statement" }

// Parse reads a statement CSV.
func (p *StatementParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = statementNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var rows []Row
	for i, rec := range records[1:] {
		vals, err := parseStatementRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, Row{Line: i + 2, Values: vals})
	}
	return rows, nil
}

func parseStatementRow(rec []string) (validate.Values, error) {
	day, err := time.Parse(statementDateFormat, strings.TrimSpace(rec[statementColDate]))
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", rec[statementColDate], err)
	}
	raw := strings.ReplaceAll(strings.TrimSpace(rec[statementColAmount]), ",", "")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing amount %q: %w", rec[statementColAmount], err)
	}
	return validate.Values{
		"pan":    strings.ToUpper(strings.TrimSpace(rec[statementColPAN])),
		"amount": amount.String(),
		"date":   model.NewDate(day).String(),
		"tag":    strings.TrimSpace(rec[statementColCohort]),
		"note":   strings.TrimSpace(rec[statementColNote]),
	}, nil
}

package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/investdesk/desk/internal/validate"
)

// DeskParser reads the console's own layout: a header row naming the form
// fields (investorId, tag, amount, date, note) in any order.
type DeskParser struct{}

// Format returns the parser name.
func (p *DeskParser) Format() string { return "desk" }

var deskColumns = []string{"investorId", "tag", "amount", "date", "note"}

// Parse reads rows keyed by the header.
func (p *DeskParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading desk CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	index := map[string]int{}
	for i, h := range records[0] {
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range deskColumns[:4] {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var rows []Row
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		vals := validate.Values{}
		for _, col := range deskColumns {
			if j, ok := index[col]; ok && j < len(rec) {
				vals[col] = strings.TrimSpace(rec[j])
			}
		}
		rows = append(rows, Row{Line: i + 2, Values: vals})
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Package importer reads bulk transaction files into add-transaction form
// values. Each row is validated with the same rules as the interactive form,
// so an invalid row is reported and never sent.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/investdesk/desk/internal/validate"
)

// Row is one parsed line. Line is the 1-based line number in the file.
type Row struct {
	Line   int
	Values validate.Values
}

// Parser converts a transactions CSV into rows of form values.
type Parser interface {
	Parse(r io.Reader) ([]Row, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&DeskParser{})
	r.Register(&StatementParser{})
	return r
}

// Result is a row checked against a form schema.
type Result struct {
	Row
	Errors validate.Errors
}

// Valid reports whether the row passed validation.
func (r Result) Valid() bool {
	return r.Errors.Empty()
}

// Check validates every row against schema.
func Check(rows []Row, schema validate.Schema) []Result {
	out := make([]Result, len(rows))
	for i, row := range rows {
		out[i] = Result{Row: row, Errors: schema.Validate(row.Values)}
	}
	return out
}

// FileInfo describes a CSV file waiting in an import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// processedDir is where imported files are moved.
const processedDir = "processed"

// Scan returns the CSV files directly inside dir.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// rejectedSuffix marks the side file holding rows that were not imported.
const rejectedSuffix = ".rejected"

// RejectedName is the side file for the rows of fileName that were not
// imported. A side file keeps its own name when it is retried.
func RejectedName(fileName string) string {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	stem = strings.TrimSuffix(stem, rejectedSuffix)
	return stem + rejectedSuffix + ".csv"
}

// Archive settles a file after an import run: the file moves into
// processed/ beside it, and the header plus the records at the given lines
// are written to RejectedName in the file's directory so only those rows are
// retried. It returns the side file path, or "" when every row went through.
func Archive(f FileInfo, lines []int) (string, error) {
	var records [][]string
	if len(lines) > 0 {
		var err error
		if records, err = readRecords(f.Path); err != nil {
			return "", err
		}
	}

	dir := filepath.Dir(f.Path)
	if err := MarkProcessed(dir, f.Name); err != nil {
		return "", err
	}
	if len(lines) == 0 || len(records) == 0 {
		return "", nil
	}

	keep := [][]string{records[0]}
	for _, line := range lines {
		// Row lines count the header as line 1.
		if i := line - 1; i > 0 && i < len(records) {
			keep = append(keep, records[i])
		}
	}
	path := filepath.Join(dir, RejectedName(f.Name))
	if err := writeRecords(path, keep); err != nil {
		return "", err
	}
	return path, nil
}

func readRecords(path string) ([][]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer fh.Close()

	cr := csv.NewReader(fh)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

func writeRecords(path string, records [][]string) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	w := csv.NewWriter(fh)
	if err := w.WriteAll(records); err != nil {
		fh.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return fh.Close()
}

// MarkProcessed moves dir/fileName into dir/processed/.
func MarkProcessed(dir, fileName string) error {
	dstDir := filepath.Join(dir, processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}
	if err := os.Rename(filepath.Join(dir, fileName), filepath.Join(dstDir, fileName)); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

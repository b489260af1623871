package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
)

// Multipart is a multipart/form-data body: plain fields plus named file parts.
type Multipart struct {
	Fields map[string]string
	Files  map[string]string // part name -> local file path
}

// encode writes the body and returns its content type. Fields are written in
// sorted order so requests are reproducible.
func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, k := range sortedKeys(m.Fields) {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", k, err)
		}
	}
	for _, part := range sortedKeys(m.Files) {
		if err := writeFile(w, part, m.Files[part]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, part, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s for part %s: %w", path, part, err)
	}
	defer f.Close()

	fw, err := w.CreateFormFile(part, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("creating part %s: %w", part, err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return fmt.Errorf("copying %s: %w", path, err)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package signavio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	json "github.com/json-iterator/go"
)

// Column names of the workbook export this system receives.
const (
	workbookJSONColumn = "Model JSON"
	workbookIDColumn   = "Model ID"
	workbookNameColumn = "Name"
)

// WorkbookResult summarizes one extraction run.
type WorkbookResult struct {
	Written int
	Skipped int
	Invalid int
	Files   []string
}

// ExtractWorkbook reads a CSV workbook carrying one model JSON document
// per row and writes each document to dir. Rows with an empty JSON cell
// are skipped, rows whose cell does not decode are counted invalid.
func ExtractWorkbook(r io.Reader, dir string, delimiter rune) (*WorkbookResult, error) {
	cr := csv.NewReader(r)
	if delimiter != 0 {
		cr.Comma = delimiter
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read workbook header: %w", err)
	}

	jsonIdx, idIdx, nameIdx := -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case workbookJSONColumn:
			jsonIdx = i
		case workbookIDColumn:
			idIdx = i
		case workbookNameColumn:
			nameIdx = i
		}
	}
	if jsonIdx < 0 {
		return nil, fmt.Errorf("workbook has no %q column", workbookJSONColumn)
	}

	if err = os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	res := &WorkbookResult{}
	seen := map[string]int{}
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("workbook row %d: %w", row, err)
		}

		raw := strings.TrimSpace(field(rec, jsonIdx))
		if raw == "" {
			res.Skipped++
			continue
		}
		if !json.Valid([]byte(raw)) {
			res.Invalid++
			continue
		}

		name := strings.TrimSpace(field(rec, nameIdx))
		if name == "" {
			name = strings.TrimSpace(field(rec, idIdx))
		}
		if name == "" {
			name = fmt.Sprintf("model_%d", row)
		}

		fname := uniqueName(seen, SanitizeName(name)) + ".json"
		if err = os.WriteFile(filepath.Join(dir, fname), []byte(raw), 0o644); err != nil {
			return res, fmt.Errorf("write %s: %w", fname, err)
		}
		res.Files = append(res.Files, fname)
		res.Written++
	}
	return res, nil
}

// ExtractWorkbookFile is ExtractWorkbook over a file path.
func ExtractWorkbookFile(path, dir string, delimiter rune) (*WorkbookResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ExtractWorkbook(f, dir, delimiter)
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeName turns a model display name into a usable file stem.
func SanitizeName(name string) string {
	s := unsafeNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	s = strings.Trim(s, "._")
	if s == "" {
		s = "model"
	}
	return s
}

// uniqueName suffixes repeated stems with _1, _2, ... in first-come
// order.
func uniqueName(seen map[string]int, base string) string {
	n := seen[base]
	seen[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, n)
}

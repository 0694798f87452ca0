// Package brands holds the known-brand vocabulary used for brand-token
// extraction. The vocabulary is configuration: operators supply it as a
// plain-text list, a CSV, or an .xlsx sheet.
package brands

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Vocabulary is an immutable set of normalized brand terms. Lookup is
// case-insensitive; terms are matched per token of the canonical query.
type Vocabulary struct {
	terms map[string]struct{}
}

// NewVocabulary builds a vocabulary from raw terms. Terms are
// lowercased and trimmed; empties are dropped.
func NewVocabulary(terms []string) *Vocabulary {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return &Vocabulary{terms: set}
}

// Empty returns a vocabulary with no terms. Brand-token extraction then
// always yields the empty set, which is a valid outcome.
func Empty() *Vocabulary {
	return &Vocabulary{terms: map[string]struct{}{}}
}

// Contains reports whether token is a known brand term.
func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.terms[strings.ToLower(token)]
	return ok
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// LoadFile reads a vocabulary from path, dispatching on extension:
// .xlsx via excelize (first column of the first sheet), .csv (first
// column), anything else as one term per line.
func LoadFile(path string) (*Vocabulary, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path)
	case ".csv":
		return loadCSV(path)
	default:
		return loadLines(path)
	}
}

func loadLines(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening vocabulary file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var terms []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading vocabulary file: %w", err)
	}
	return NewVocabulary(terms), nil
}

func loadCSV(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening vocabulary file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var terms []string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading vocabulary csv: %w", err)
		}
		if len(row) > 0 {
			terms = append(terms, row[0])
		}
	}
	return NewVocabulary(terms), nil
}

func loadXLSX(path string) (*Vocabulary, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening vocabulary workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Empty(), nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary sheet: %w", err)
	}
	var terms []string
	for _, row := range rows {
		if len(row) > 0 {
			terms = append(terms, row[0])
		}
	}
	return NewVocabulary(terms), nil
}

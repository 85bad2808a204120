// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package dataset holds the tabular movie records that flow between pipeline
// stages and into the serving store. Tables are read from and written to CSV
// files with a header row.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SchemaError reports columns a transformation required but the table lacks.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing columns: %s", strings.Join(e.Missing, ", "))
}

// Table is an in-memory CSV table. Rows always have len(Header) cells.
type Table struct {
	header []string
	rows   [][]string
	index  map[string]int
}

// NewTable builds a table. Short rows are padded with empty cells and long
// rows are rejected.
func NewTable(header []string, rows [][]string) (*Table, error) {
	t := &Table{header: append([]string(nil), header...)}
	t.reindex()
	if len(t.index) != len(t.header) {
		return nil, fmt.Errorf("duplicate column names in header %v", header)
	}
	t.rows = make([][]string, len(rows))
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i, len(row), len(header))
		}
		r := make([]string, len(header))
		copy(r, row)
		t.rows[i] = r
	}
	return t, nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.header))
	for i, name := range t.header {
		t.index[name] = i
	}
}

// Header returns a copy of the column names.
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []string {
	return append([]string(nil), t.rows[i]...)
}

// HasColumn reports whether the column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Require returns a *SchemaError listing every name not in the header.
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Value returns the cell at row i, column name, or "" if the column is absent.
func (t *Table) Value(i int, name string) string {
	col, ok := t.index[name]
	if !ok {
		return ""
	}
	return t.rows[i][col]
}

// Column returns a copy of every value in the named column.
func (t *Table) Column(name string) ([]string, error) {
	col, ok := t.index[name]
	if !ok {
		return nil, &SchemaError{Missing: []string{name}}
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[col]
	}
	return out, nil
}

// SetColumn replaces the named column, appending it when absent.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.rows) {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.rows))
	}
	col, ok := t.index[name]
	if !ok {
		t.header = append(t.header, name)
		col = len(t.header) - 1
		t.index[name] = col
		for i := range t.rows {
			t.rows[i] = append(t.rows[i], "")
		}
	}
	for i, v := range values {
		t.rows[i][col] = v
	}
	return nil
}

// DropColumns removes the named columns. If any is absent nothing is removed
// and a *SchemaError lists all absent names.
func (t *Table) DropColumns(names ...string) error {
	if err := t.Require(names...); err != nil {
		return err
	}
	drop := make(map[int]bool, len(names))
	for _, name := range names {
		drop[t.index[name]] = true
	}

	keep := make([]int, 0, len(t.header)-len(drop))
	for i := range t.header {
		if !drop[i] {
			keep = append(keep, i)
		}
	}
	t.header = pick(t.header, keep)
	for i, row := range t.rows {
		t.rows[i] = pick(row, keep)
	}
	t.reindex()
	return nil
}

func pick(src []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = src[j]
	}
	return out
}

// LeftJoin copies column from right into t, matching t.key to right.key
// exactly. The first right row for a key wins. Unmatched rows get "".
// An existing column of the same name in t is replaced.
func (t *Table) LeftJoin(right *Table, key, column string) error {
	if err := t.Require(key); err != nil {
		return err
	}
	if err := right.Require(key, column); err != nil {
		return err
	}

	lookup := make(map[string]string, right.Len())
	for i := 0; i < right.Len(); i++ {
		k := right.Value(i, key)
		if _, seen := lookup[k]; !seen {
			lookup[k] = right.Value(i, column)
		}
	}

	values := make([]string, t.Len())
	for i := range values {
		values[i] = lookup[t.Value(i, key)]
	}
	return t.SetColumn(column, values)
}

// SortedUnique returns the distinct non-empty values of a column in
// ascending order.
func (t *Table) SortedUnique(name string) ([]string, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ReadCSV parses a CSV stream whose first record is the header.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("parse csv: empty file, header row required")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return NewTable(header, records[1:])
}

// ReadFile reads a CSV file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteCSV writes the header and all rows.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteFile replaces path atomically with a temporary file and a rename.
func (t *Table) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := t.WriteCSV(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

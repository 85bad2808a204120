// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func mustTable(t *testing.T, header []string, rows [][]string) *Table {
	t.Helper()
	tbl, err := NewTable(header, rows)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	input := "\ufefftitle,overview\n\"Heat\",\"A thief, a cop\"\nAlien,\"In space,\nno one hears\"\n"
	tbl, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if got := tbl.Header(); !reflect.DeepEqual(got, []string{"title", "overview"}) {
		t.Errorf("header = %v", got)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tbl.Len())
	}
	if got := tbl.Value(0, "overview"); got != "A thief, a cop" {
		t.Errorf("quoted comma lost: %q", got)
	}
	if got := tbl.Value(1, "overview"); got != "In space,\nno one hears" {
		t.Errorf("multiline cell lost: %q", got)
	}
}

func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"duplicate header", "title,title\na,b\n"},
		{"long row", "title\na,b\n"},
		{"bad quote", "title\n\"unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestShortRowsArePadded(t *testing.T) {
	t.Parallel()

	tbl, err := ReadCSV(strings.NewReader("title,poster_path\nHeat\n"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := tbl.Value(0, "poster_path"); got != "" {
		t.Errorf("padded cell = %q, want empty", got)
	}
}

func TestDropColumns(t *testing.T) {
	t.Parallel()

	tbl := mustTable(t, []string{"title", "budget", "overview", "revenue"}, [][]string{
		{"Heat", "60", "heist", "187"},
	})

	if err := tbl.DropColumns("budget", "revenue"); err != nil {
		t.Fatalf("DropColumns: %v", err)
	}
	if got := tbl.Header(); !reflect.DeepEqual(got, []string{"title", "overview"}) {
		t.Errorf("header = %v", got)
	}
	if got := tbl.Row(0); !reflect.DeepEqual(got, []string{"Heat", "heist"}) {
		t.Errorf("row = %v", got)
	}
}

func TestDropColumnsMissingReportsAll(t *testing.T) {
	t.Parallel()

	tbl := mustTable(t, []string{"title", "budget"}, nil)

	err := tbl.DropColumns("budget", "adult", "tmdbId")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if !reflect.DeepEqual(schemaErr.Missing, []string{"adult", "tmdbId"}) {
		t.Errorf("Missing = %v", schemaErr.Missing)
	}
	if !tbl.HasColumn("budget") {
		t.Error("failed drop must not remove present columns")
	}
	if !strings.Contains(err.Error(), "adult, tmdbId") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestSetColumn(t *testing.T) {
	t.Parallel()

	tbl := mustTable(t, []string{"title"}, [][]string{{"Heat"}, {"Alien"}})

	if err := tbl.SetColumn("score", []string{"1", "2"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := tbl.SetColumn("score", []string{"3", "4"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got, _ := tbl.Column("score"); !reflect.DeepEqual(got, []string{"3", "4"}) {
		t.Errorf("score = %v", got)
	}
	if err := tbl.SetColumn("bad", []string{"1"}); err == nil {
		t.Error("expected length mismatch error")
	}
}

func TestLeftJoin(t *testing.T) {
	t.Parallel()

	records := mustTable(t, []string{"title", "poster_path"}, [][]string{
		{"Heat", "/stale.jpg"},
		{"Alien", ""},
		{"Unknown", "/old.jpg"},
	})
	posters := mustTable(t, []string{"title", "poster_path", "budget"}, [][]string{
		{"Heat", "/heat.jpg", "1"},
		{"Heat", "/heat-dup.jpg", "2"},
		{"Alien", "/alien.jpg", "3"},
	})

	if err := records.LeftJoin(posters, "title", "poster_path"); err != nil {
		t.Fatalf("LeftJoin: %v", err)
	}

	want := []string{"/heat.jpg", "/alien.jpg", ""}
	if got, _ := records.Column("poster_path"); !reflect.DeepEqual(got, want) {
		t.Errorf("poster_path = %v, want %v", got, want)
	}
	if records.Len() != 3 {
		t.Errorf("left join changed row count to %d", records.Len())
	}
}

func TestLeftJoinMissingColumn(t *testing.T) {
	t.Parallel()

	records := mustTable(t, []string{"title"}, nil)
	posters := mustTable(t, []string{"title"}, nil)

	var schemaErr *SchemaError
	if err := records.LeftJoin(posters, "title", "poster_path"); !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
}

func TestSortedUnique(t *testing.T) {
	t.Parallel()

	tbl := mustTable(t, []string{"title"}, [][]string{{"b"}, {"a"}, {"b"}, {""}})
	got, err := tbl.SortedUnique("title")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("SortedUnique = %v", got)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "prepared.csv")
	tbl := mustTable(t, []string{"title", "cleaned_description"}, [][]string{
		{"Heat", "thief cop, heist"},
		{"Alien", "space \"horror\""},
	})

	if err := tbl.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(back.Header(), tbl.Header()) || back.Len() != tbl.Len() {
		t.Fatalf("round trip mismatch: %v", back.Header())
	}
	if got := back.Value(1, "cleaned_description"); got != "space \"horror\"" {
		t.Errorf("quoted value = %q", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

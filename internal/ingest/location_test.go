package ingest

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const locationHeader = `"Time (s)","Latitude (°)","Longitude (°)","Height (m)","Velocity (m/s)","Direction (°)","Horizontal Accuracy (m)","Vertical Accuracy (m)"` + "\n"

func TestLoadLocation(t *testing.T) {
	input := "\ufeff" + locationHeader +
		"0.0,60.1699,24.9384,15.2,1.4,90,4.0,2.0\n" +
		"1.0,60.1700,24.9385,15.4,1.5,91,4.0,2.0\n"

	table, err := LoadLocation(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	if table.Header[0] != ColTime || table.Header[1] != ColLatitude {
		t.Fatalf("expected quotes stripped from header: %q", table.Header)
	}
	if !table.HasCoordinates() {
		t.Fatalf("expected coordinates")
	}

	fixes := table.Fixes()
	if fixes[1].Latitude != 60.17 || fixes[1].Longitude != 24.9385 {
		t.Fatalf("unexpected fix: %+v", fixes[1])
	}
	if fixes[1].Time != 1.0 || fixes[1].Velocity != 1.5 || fixes[1].Height != 15.4 {
		t.Fatalf("unexpected fix fields: %+v", fixes[1])
	}
	if fixes[0].ID != "0.0" {
		t.Fatalf("expected first column kept as text, got %q", fixes[0].ID)
	}
	if fixes[0].Extra[0] != 90 {
		t.Fatalf("expected bearing carried in extra, got %v", fixes[0].Extra)
	}
}

func TestLoadLocationCRLF(t *testing.T) {
	input := strings.ReplaceAll(locationHeader+
		"0.0,60.1699,24.9384,15.2,1.4,90,4.0,2.0\n"+
		"1.0,60.1700,24.9385,15.4,1.5,91,4.0,2.0\n", "\n", "\r\n")

	table, err := LoadLocation(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	lastCol := table.Header[len(table.Header)-1]
	col, ok := table.Column(lastCol)
	if !ok || col[0] != 2.0 {
		t.Fatalf("expected trailing column parsed, got %v", col)
	}
}

func TestLoadLocationTooFewLines(t *testing.T) {
	_, err := LoadLocation(strings.NewReader(locationHeader))
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestLoadLocationRejectsSevenColumns(t *testing.T) {
	input := "Time (s),Latitude (°),Longitude (°),Height (m),Velocity (m/s),Direction (°),Horizontal Accuracy (m)\n" +
		"0.0,60.1699,24.9384,15.2,1.4,90,4.0\n"

	_, err := LoadLocation(strings.NewReader(input))
	var cerr *ColumnCountError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected column count error, got %v", err)
	}
	if cerr.Expected != 8 || cerr.Got != 7 {
		t.Fatalf("unexpected counts: %+v", cerr)
	}
}

func TestLoadLocationAcceptsEightColumns(t *testing.T) {
	input := "id,Time (s),Latitude (°),Longitude (°),Height (m),Velocity (m/s),Direction (°),Horizontal Accuracy (m)\n" +
		"a,0.0,60.1699,24.9384,15.2,1.4,90,4.0\n"

	table, err := LoadLocation(strings.NewReader(input))
	if err != nil {
		t.Fatalf("expected 8 columns accepted: %v", err)
	}
	fixes := table.Fixes()
	if fixes[0].ID != "a" || fixes[0].Time != 0 || fixes[0].Latitude != 60.1699 {
		t.Fatalf("unexpected fix: %+v", fixes[0])
	}
}

func TestLoadLocationRowTooWide(t *testing.T) {
	input := locationHeader +
		"0.0,60.1699,24.9384,15.2,1.4,90,4.0,2.0\n" +
		"1.0,60.1700,24.9385,15.2,1.4,90,4.0,2.0,9.9\n"

	_, err := LoadLocation(strings.NewReader(input))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if perr.Line != 3 {
		t.Fatalf("expected line 3, got %d", perr.Line)
	}
}

func TestLoadLocationPadsShortRows(t *testing.T) {
	input := locationHeader +
		"0.0,60.1699,24.9384,15.2,1.4,90,4.0,2.0\n" +
		"1.0,60.1700,24.9385,15.3,1.5,90,4.0\n" +
		"2.0,60.1701\n"

	table, err := LoadLocation(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.Len())
	}
	fixes := table.Fixes()
	if fixes[1].Longitude != 24.9385 || fixes[1].Velocity != 1.5 {
		t.Fatalf("unexpected second fix %+v", fixes[1])
	}
	if fixes[2].Latitude != 60.1701 || !math.IsNaN(fixes[2].Longitude) || !math.IsNaN(fixes[2].Velocity) {
		t.Fatalf("expected padded cells to be missing, got %+v", fixes[2])
	}
}

func TestLoadLocationAllRowsShort(t *testing.T) {
	input := locationHeader +
		"0.0,60.1699,24.9384,15.2,1.4,90,4.0\n" +
		"1.0,60.1700,24.9385,15.3,1.5,90,4.0\n"

	_, err := LoadLocation(strings.NewReader(input))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if !strings.Contains(err.Error(), "8 columns passed, passed data had 7 columns") {
		t.Fatalf("unexpected message %v", err)
	}
}

func TestLoadLocationQuotedCellsBecomeMissing(t *testing.T) {
	input := locationHeader +
		`0.0,"60.1699",24.9384,15.2,1.4,90,4.0,2.0` + "\n"

	table, err := LoadLocation(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	if !math.IsNaN(table.Fixes()[0].Latitude) {
		t.Fatalf("expected quoted data cell to be missing")
	}
}

func TestClassify(t *testing.T) {
	if Classify(nil) != nil {
		t.Fatalf("expected nil")
	}
	err := Classify(errors.New("boom"))
	if KindOf(err) != KindUnexpected {
		t.Fatalf("expected unexpected kind")
	}
	cerr := &ColumnCountError{Expected: 8, Got: 3}
	if Classify(cerr) != error(cerr) {
		t.Fatalf("expected typed error passed through")
	}
}

package ingest

import (
	"fmt"
	"io"
	"strings"
)

// LoadLocation parses a GPS location export. The header has its quote
// characters stripped; data rows are split on commas as-is and short rows
// are padded with missing cells. The first column
// is kept as text and every other column is coerced to float.
func LoadLocation(r io.Reader) (LocationTable, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return LocationTable{}, &UnexpectedError{Err: err}
	}

	text := strings.TrimSpace(strings.TrimPrefix(string(raw), utf8BOM))
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return LocationTable{}, &FormatError{Msg: "the location data is not in the expected format"}
	}

	header := strings.Split(strings.ReplaceAll(lines[0], `"`, ""), ",")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([][]string, 0, len(lines)-1)
	widest := 0
	for i, line := range lines[1:] {
		cells := strings.Split(strings.TrimRight(line, "\r"), ",")
		if len(cells) > len(header) {
			return LocationTable{}, &ParseError{
				Line: i + 2,
				Err:  fmt.Errorf("%d columns passed, passed data had %d columns", len(header), len(cells)),
			}
		}
		widest = max(widest, len(cells))
		rows = append(rows, cells)
	}
	// Short rows are padded with missing cells, unless no row is as wide
	// as the header.
	if widest < len(header) {
		return LocationTable{}, &ParseError{
			Line: 2,
			Err:  fmt.Errorf("%d columns passed, passed data had %d columns", len(header), widest),
		}
	}
	for i, cells := range rows {
		for len(cells) < len(header) {
			cells = append(cells, "")
		}
		rows[i] = cells
	}

	if len(header) != LocationColumns {
		return LocationTable{}, &ColumnCountError{Expected: LocationColumns, Got: len(header)}
	}

	table := LocationTable{
		Header:  header,
		IDs:     make([]string, len(rows)),
		Columns: make(map[string][]float64, len(header)-1),
	}
	for i, cells := range rows {
		table.IDs[i] = cells[0]
	}
	for c, name := range header[1:] {
		col := make([]float64, len(rows))
		for i, cells := range rows {
			col[i] = coerce(cells[c+1])
		}
		table.Columns[name] = col
	}
	return table, nil
}

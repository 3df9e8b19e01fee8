package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var nan = math.NaN()

const utf8BOM = "\ufeff"

// LoadAcceleration parses an acceleration export with a header row and the
// three linear acceleration columns. Non-numeric cells become NaN.
func LoadAcceleration(r io.Reader) (AccelerationTable, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return AccelerationTable{}, &ParseError{Line: perr.Line, Err: perr.Err}
		}
		return AccelerationTable{}, &UnexpectedError{Err: err}
	}
	if len(records) == 0 {
		return AccelerationTable{}, &ParseError{Err: errors.New("no columns to parse from file")}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
	}

	index := func(name string) (int, error) {
		for i, h := range header {
			if h == name {
				return i, nil
			}
		}
		return 0, &ProcessingError{Msg: fmt.Sprintf("missing column %q", name)}
	}

	table := AccelerationTable{Header: header}
	for _, col := range []struct {
		name string
		dst  *[]float64
	}{
		{ColAccelX, &table.X},
		{ColAccelY, &table.Y},
		{ColAccelZ, &table.Z},
	} {
		idx, err := index(col.name)
		if err != nil {
			return AccelerationTable{}, err
		}
		values := make([]float64, 0, len(records)-1)
		present := 0
		for _, rec := range records[1:] {
			v := coerce(rec[idx])
			if !math.IsNaN(v) {
				present++
			}
			values = append(values, v)
		}
		if len(values) > 0 && present == 0 {
			return AccelerationTable{}, &ProcessingError{Msg: fmt.Sprintf("column %q has no numeric values", col.name)}
		}
		*col.dst = values
	}
	return table, nil
}

// coerce converts a cell to float, returning NaN for anything non-numeric.
func coerce(cell string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return nan
	}
	return v
}

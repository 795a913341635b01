package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// DefaultPrecision is the number of decimals written per cell.
const DefaultPrecision = 6

// WriteCSV writes a series as a comma-separated table: one row per step,
// one column per state component, fixed decimal notation, no header.
func WriteCSV(w io.Writer, series dynamo.Series, precision int) error {
	if precision < 0 {
		precision = DefaultPrecision
	}
	cw := csv.NewWriter(w)
	row := make([]string, 0, series.Dim())
	for _, x := range series {
		row = row[:0]
		for _, v := range x {
			row = append(row, strconv.FormatFloat(v, 'f', precision, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV. Blank lines are skipped;
// rows of differing width or cells that are not numbers are errors.
func ReadCSV(r io.Reader) (dynamo.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	series := make(dynamo.Series, 0, len(records))
	for i, record := range records {
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(series) > 0 && len(record) != series.Dim() {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i+1, len(record), series.Dim(), dynamo.ErrRaggedSeries)
		}
		x := make(dynamo.State, len(record))
		for j, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, j+1, err)
			}
			x[j] = v
		}
		series = append(series, x)
	}
	return series, nil
}

// Package importcsv loads a delimited text file into a dataset.Table:
// the first row supplies variable names, every subsequent row supplies
// one observation, and a field that cannot be parsed as a float64
// becomes dataset.Sysmis rather than failing the import.
package importcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/czepiel/mlelr/dataset"
	"github.com/czepiel/mlelr/mlog"
)

// Import reads a delimited file from r using the given field delimiter
// and builds a dataset.Table from it. Every row after the header must
// have the same field count as the header; a mismatch is an error,
// matching the original's strict field-count check. An unparseable
// numeric field becomes dataset.Sysmis rather than aborting the import
// (original_source/src/dataset.c's import_dataset).
func Import(r io.Reader, delim rune, weightCol int, log *mlog.Logger) (*dataset.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("importcsv: could not read header: %w", err)
	}
	if len(header) < 1 {
		return nil, fmt.Errorf("importcsv: no variable names found")
	}
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}
	log.Info("Number of variables found: %d", len(names))

	var rows [][]float64
	lineNo := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("importcsv: error at row %d: %w", lineNo+1, err)
		}
		lineNo++

		if len(fields) != len(names) {
			return nil, fmt.Errorf("importcsv: invalid field count at row %d: expected %d, found %d",
				lineNo, len(names), len(fields))
		}

		obs := make([]float64, len(fields))
		for j, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				obs[j] = dataset.Sysmis
				continue
			}
			obs[j] = v
		}
		rows = append(rows, obs)
	}

	log.Info("Number of observations read: %d", len(rows))

	return dataset.NewTable(names, rows, weightCol)
}

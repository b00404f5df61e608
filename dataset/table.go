// Package dataset provides the numeric table that backs a model fit: a
// dense matrix of observations with named columns and an optional
// per-row weight column.
package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sysmis is the sentinel for a logically missing value: the most negative
// finite float64. It is an ordinary, distinct value as far as frequency
// tabulation and design-matrix construction are concerned.
const Sysmis = -math.MaxFloat64

// Table is an ordered sequence of observations, each a fixed-length vector
// of float64 values indexed by variable position. At most one column is
// the weight column; if NoWeight, every observation has weight 1.
type Table struct {
	data      *mat.Dense
	names     []string
	weightCol int
}

// NoWeight indicates that a Table has no designated weight column.
const NoWeight = -1

// NewTable builds a Table from row-major data (rows[i] is observation i)
// and a parallel slice of column names. weightCol is the column index of
// the weight variable, or NoWeight.
func NewTable(names []string, rows [][]float64, weightCol int) (*Table, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("dataset: table must have at least one variable")
	}

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return nil, fmt.Errorf("dataset: duplicate variable name %q", n)
		}
		seen[n] = true
	}

	nvar := len(names)
	for i, row := range rows {
		if len(row) != nvar {
			return nil, fmt.Errorf("dataset: observation %d has %d values, want %d", i, len(row), nvar)
		}
	}

	if weightCol != NoWeight && (weightCol < 0 || weightCol >= nvar) {
		return nil, fmt.Errorf("dataset: weight column %d out of range", weightCol)
	}

	flat := make([]float64, len(rows)*nvar)
	for i, row := range rows {
		copy(flat[i*nvar:(i+1)*nvar], row)
	}

	return &Table{
		data:      mat.NewDense(len(rows), nvar, flat),
		names:     append([]string(nil), names...),
		weightCol: weightCol,
	}, nil
}

// NumRows returns the number of observations.
func (t *Table) NumRows() int { return t.data.RawMatrix().Rows }

// NumCols returns the number of variables (columns).
func (t *Table) NumCols() int { return t.data.RawMatrix().Cols }

// Names returns the variable names, in column order.
func (t *Table) Names() []string { return t.names }

// NameAt returns the variable name at the given column index.
func (t *Table) NameAt(col int) string { return t.names[col] }

// IndexOf returns the column index of the named variable, or -1.
func (t *Table) IndexOf(name string) int {
	for i, n := range t.names {
		if n == name {
			return i
		}
	}
	return -1
}

// At returns the value of variable col in observation row.
func (t *Table) At(row, col int) float64 { return t.data.At(row, col) }

// HasWeight reports whether a weight column is designated.
func (t *Table) HasWeight() bool { return t.weightCol != NoWeight }

// WeightCol returns the designated weight column index, or NoWeight.
func (t *Table) WeightCol() int { return t.weightCol }

// Weight returns the weight of observation row: the value of the weight
// column if one is designated, otherwise 1.
func (t *Table) Weight(row int) float64 {
	if t.weightCol == NoWeight {
		return 1
	}
	return t.data.At(row, t.weightCol)
}

// SetWeightColumn designates the named variable as the weight column.
func (t *Table) SetWeightColumn(name string) error {
	idx := t.IndexOf(name)
	if idx == -1 {
		return fmt.Errorf("dataset: variable not found: %s", name)
	}
	t.weightCol = idx
	return nil
}

// Dense exposes the backing matrix for packages that need direct gonum
// access (e.g. printing). Callers must not mutate it.
func (t *Table) Dense() *mat.Dense { return t.data }

// Package tabulate implements the frequency tabulator (C3): per-variable
// weighted frequency tables and a joint crosstab over a model's main
// effects and dependent variable, both sorted into the total order
// population segmentation depends on.
package tabulate

import (
	"math"
	"sort"

	"github.com/czepiel/mlelr/dataset"
	"github.com/czepiel/mlelr/model"
)

// orderedKey maps a float64 to a uint64 whose unsigned order matches the
// real-number order of the original value (spec.md §9's total ordering on
// IEEE-754 bit patterns). Two floats are the same tabulation "value" iff
// their raw bits are identical; this gives bit-exact equality rather than
// a tolerance-based comparison, and treats SYSMIS and every NaN bit
// pattern as an ordinary distinct value.
func orderedKey(v float64) uint64 {
	bits := math.Float64bits(v)
	if bits&(1<<63) != 0 {
		return ^bits
	}
	return bits | (1 << 63)
}

// FreqRow is one row of a per-variable frequency table: a distinct value
// and its accumulated weight.
type FreqRow struct {
	Value  float64
	Weight float64
}

// FreqTable is the weighted frequency table for one model variable,
// sorted ascending by Value.
type FreqTable struct {
	VarIndex int
	Name     string
	Rows     []FreqRow
}

// Lookup returns the weight accumulated for value, or 0 if value never
// occurred. Equality is bit-exact.
func (f *FreqTable) Lookup(value float64) float64 {
	key := orderedKey(value)
	lo, hi := 0, len(f.Rows)
	for lo < hi {
		mid := (lo + hi) / 2
		if orderedKey(f.Rows[mid].Value) < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(f.Rows) && math.Float64bits(f.Rows[lo].Value) == math.Float64bits(value) {
		return f.Rows[lo].Weight
	}
	return 0
}

// CrossRow is one row of the joint crosstab: the covariate values (in
// main-effect declaration order), the response value, and the
// accumulated weight.
type CrossRow struct {
	Covariates []float64
	Response   float64
	Weight     float64
}

// CrossTab is the joint crosstab over a model's main effects and
// dependent variable, sorted ascending by (covariates..., response).
type CrossTab struct {
	Rows []CrossRow
}

// freqAccumulator accumulates weight by bit-exact value for a single
// variable.
type freqAccumulator struct {
	index map[uint64]int
	rows  []FreqRow
}

func newFreqAccumulator() *freqAccumulator {
	return &freqAccumulator{index: make(map[uint64]int)}
}

func (a *freqAccumulator) add(value, weight float64) {
	key := orderedKey(value)
	if idx, ok := a.index[key]; ok {
		a.rows[idx].Weight += weight
		return
	}
	a.index[key] = len(a.rows)
	a.rows = append(a.rows, FreqRow{Value: value, Weight: weight})
}

func (a *freqAccumulator) sorted(varIndex int, name string) *FreqTable {
	rows := append([]FreqRow(nil), a.rows...)
	sort.Slice(rows, func(i, j int) bool {
		return orderedKey(rows[i].Value) < orderedKey(rows[j].Value)
	})
	return &FreqTable{VarIndex: varIndex, Name: name, Rows: rows}
}

// crossAccumulator accumulates weight by bit-exact tuple equality over
// the covariates plus response.
type crossAccumulator struct {
	index map[string]int
	rows  []CrossRow
}

func newCrossAccumulator() *crossAccumulator {
	return &crossAccumulator{index: make(map[string]int)}
}

func tupleKey(covariates []float64, response float64) string {
	b := make([]byte, (len(covariates)+1)*8)
	put := func(off int, v float64) {
		k := orderedKey(v)
		for j := 0; j < 8; j++ {
			b[off+j] = byte(k >> (56 - 8*j))
		}
	}
	for i, v := range covariates {
		put(i*8, v)
	}
	put(len(covariates)*8, response)
	return string(b)
}

func (a *crossAccumulator) add(covariates []float64, response, weight float64) {
	key := tupleKey(covariates, response)
	if idx, ok := a.index[key]; ok {
		a.rows[idx].Weight += weight
		return
	}
	a.index[key] = len(a.rows)
	a.rows = append(a.rows, CrossRow{
		Covariates: append([]float64(nil), covariates...),
		Response:   response,
		Weight:     weight,
	})
}

func (a *crossAccumulator) sorted() *CrossTab {
	rows := append([]CrossRow(nil), a.rows...)
	sort.Slice(rows, func(i, j int) bool {
		return lessTuple(rows[i], rows[j])
	})
	return &CrossTab{Rows: rows}
}

func lessTuple(a, b CrossRow) bool {
	for i := range a.Covariates {
		ka, kb := orderedKey(a.Covariates[i]), orderedKey(b.Covariates[i])
		if ka != kb {
			return ka < kb
		}
	}
	return orderedKey(a.Response) < orderedKey(b.Response)
}

// Tabulate performs the linear scan described in spec.md §4.1: for each
// observation with weight > 0, accumulate per-variable frequencies for
// every main effect and the dependent variable, and accumulate the joint
// crosstab row (covariates..., response). Observations with weight <= 0
// are skipped silently; SYSMIS and any other value are ordinary distinct
// values, never filtered. The returned tables are sorted ascending by
// their full key.
func Tabulate(table *dataset.Table, desc *model.Descriptor) ([]*FreqTable, *CrossTab) {
	freqAccs := make([]*freqAccumulator, len(desc.MainEffects)+1)
	for i := range freqAccs {
		freqAccs[i] = newFreqAccumulator()
	}
	xtab := newCrossAccumulator()

	covariates := make([]float64, len(desc.MainEffects))
	for row := 0; row < table.NumRows(); row++ {
		w := table.Weight(row)
		if w <= 0 {
			continue
		}

		for i, me := range desc.MainEffects {
			v := table.At(row, me.VarIndex)
			covariates[i] = v
			freqAccs[i].add(v, w)
		}
		response := table.At(row, desc.DVIndex)
		freqAccs[len(desc.MainEffects)].add(response, w)

		xtab.add(covariates, response, w)
	}

	freqTables := make([]*FreqTable, len(desc.MainEffects)+1)
	for i, me := range desc.MainEffects {
		freqTables[i] = freqAccs[i].sorted(me.VarIndex, me.Name)
	}
	freqTables[len(desc.MainEffects)] = freqAccs[len(desc.MainEffects)].sorted(desc.DVIndex, desc.DVName)

	return freqTables, xtab.sorted()
}

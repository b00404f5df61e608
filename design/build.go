// Package design implements the design builder (C4): it turns a sorted
// crosstab and its per-variable frequency tables into the design matrix X,
// response matrix Y, population totals n, and parameter labels consumed
// by the Newton-Raphson estimator.
package design

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/czepiel/mlelr/model"
	"github.com/czepiel/mlelr/options"
	"github.com/czepiel/mlelr/tabulate"
)

// Artifacts bundles the outputs of Build: the design matrix X (N×K), the
// response matrix Y (N×J), the population totals n, and the column
// labels for X.
type Artifacts struct {
	X      *mat.Dense
	Y      *mat.Dense
	N      []float64 // population totals, length NPop
	NPop   int
	J      int
	K      int
	Labels []string
	M      float64 // total weight across every crosstab row
}

func bitsEqual(a, b float64) bool { return math.Float64bits(a) == math.Float64bits(b) }

func covariatesEqual(a, b []float64) bool {
	for i := range a {
		if !bitsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Build assembles the design artifacts from the crosstab, the per-main-
// effect frequency tables (in model.Descriptor.MainEffects order), the
// dependent-variable frequency table, and the model descriptor. The
// "params" entry of opts selects center-point vs. dummy categorical
// encoding.
func Build(xtab *tabulate.CrossTab, freqs []*tabulate.FreqTable, desc *model.Descriptor, opts *options.Options) (*Artifacts, error) {
	mainFreqs := freqs[:len(desc.MainEffects)]
	dvFreq := freqs[len(desc.MainEffects)]
	dummy := opts.GetDefault("params", options.ParamsCenterpoint) == options.ParamsDummy

	popIndex, nPop, M := segmentPopulations(xtab)

	J := len(dvFreq.Rows)
	colspan := make([]int, len(desc.MainEffects))
	startcol := make([]int, len(desc.MainEffects))
	K := 1
	for i, me := range desc.MainEffects {
		startcol[i] = K
		if me.Direct {
			colspan[i] = 1
		} else {
			colspan[i] = len(mainFreqs[i].Rows) - 1
		}
		K += colspan[i]
	}
	for _, in := range desc.Interactions {
		K += interactionColumns(in, desc, colspan)
	}

	X := mat.NewDense(nPop, K, nil)
	Y := mat.NewDense(nPop, J, nil)
	n := make([]float64, nPop)

	lastPop := -1
	for i, row := range xtab.Rows {
		pop := popIndex[i]
		if pop != lastPop {
			X.Set(pop, 0, 1)
			for vi, me := range desc.MainEffects {
				v := row.Covariates[vi]
				if me.Direct {
					X.Set(pop, startcol[vi], v)
					continue
				}
				levels := mainFreqs[vi].Rows
				last := len(levels) - 1
				for k := 0; k < last; k++ {
					col := startcol[vi] + k
					switch {
					case bitsEqual(v, levels[k].Value):
						X.Set(pop, col, 1)
					case !dummy && bitsEqual(v, levels[last].Value):
						X.Set(pop, col, -1)
					default:
						X.Set(pop, col, 0)
					}
				}
			}
			lastPop = pop
		}

		j := responseColumn(dvFreq, row.Response)
		Y.Set(pop, j, Y.At(pop, j)+row.Weight)
		n[pop] += row.Weight
	}

	buildInteractionColumns(X, desc, startcol, colspan, nPop)

	labels := buildLabels(desc, mainFreqs, colspan, K)

	return &Artifacts{X: X, Y: Y, N: n, NPop: nPop, J: J, K: K, Labels: labels, M: M}, nil
}

// segmentPopulations walks the sorted crosstab, assigning each row a
// population index: a new population starts whenever the covariate
// prefix differs from the previous row's (spec.md §4.2.1).
func segmentPopulations(xtab *tabulate.CrossTab) (popIndex []int, nPop int, total float64) {
	popIndex = make([]int, len(xtab.Rows))
	if len(xtab.Rows) == 0 {
		return popIndex, 0, 0
	}

	nPop = 1
	popIndex[0] = 0
	total = xtab.Rows[0].Weight

	for i := 1; i < len(xtab.Rows); i++ {
		if !covariatesEqual(xtab.Rows[i].Covariates, xtab.Rows[i-1].Covariates) {
			nPop++
		}
		popIndex[i] = nPop - 1
		total += xtab.Rows[i].Weight
	}
	return popIndex, nPop, total
}

func responseColumn(dvFreq *tabulate.FreqTable, response float64) int {
	for j, row := range dvFreq.Rows {
		if bitsEqual(row.Value, response) {
			return j
		}
	}
	// Every response value was observed while scanning the table that
	// produced dvFreq, so this is unreachable for a consistent crosstab.
	return len(dvFreq.Rows) - 1
}

// interactionColumns returns the number of design columns an interaction
// contributes: the product, across its terms, of each term's column
// count (direct contributes 1, categorical contributes L-1).
func interactionColumns(in model.Interaction, desc *model.Descriptor, colspan []int) int {
	k := 1
	for _, t := range in.Terms {
		if !desc.MainEffects[t].Direct {
			k *= colspan[t]
		}
	}
	return k
}

// buildInteractionColumns fills the interaction block of X by taking, for
// each population, the product of one column from each term's encoding
// block. The mixed-radix counter cycles the last term fastest (spec.md
// §4.2.4): incrementing starts from the rightmost term and carries left.
func buildInteractionColumns(X *mat.Dense, desc *model.Descriptor, startcol, colspan []int, nPop int) {
	xc := 1
	for _, cs := range colspan {
		xc += cs
	}

	for _, in := range desc.Interactions {
		idx := make([]int, len(in.Terms))

		for {
			for p := 0; p < nPop; p++ {
				v := 1.0
				for r, t := range in.Terms {
					v *= X.At(p, startcol[t]+idx[r])
				}
				X.Set(p, xc, v)
			}
			xc++

			advanced := false
			for r := len(in.Terms) - 1; r >= 0; r-- {
				t := in.Terms[r]
				span := colspan[t]
				if desc.MainEffects[t].Direct {
					span = 1
				}
				idx[r]++
				if idx[r] >= span {
					idx[r] = 0
					continue
				}
				advanced = true
				break
			}
			if !advanced {
				break
			}
		}
	}
}

func buildLabels(desc *model.Descriptor, mainFreqs []*tabulate.FreqTable, colspan []int, K int) []string {
	labels := make([]string, K)
	labels[0] = "Intercept"
	col := 1
	for i, me := range desc.MainEffects {
		for c := 0; c < colspan[i]; c++ {
			labels[col] = me.Name
			col++
		}
	}
	for _, in := range desc.Interactions {
		k := interactionColumns(in, desc, colspan)
		for c := 0; c < k; c++ {
			labels[col] = in.Name
			col++
		}
	}
	return labels
}

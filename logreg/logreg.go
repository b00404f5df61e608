// Package logreg ties the frequency tabulator, design builder, and
// Newton-Raphson convergence driver together into a single model-fitting
// entry point, mirroring the original mlelr() function's role as the
// orchestrator of the whole pipeline.
package logreg

import (
	"github.com/czepiel/mlelr/design"
	"github.com/czepiel/mlelr/estimator"
	"github.com/czepiel/mlelr/model"
	"github.com/czepiel/mlelr/session"
	"github.com/czepiel/mlelr/tabulate"
)

// Result bundles everything needed to render a fit report: the
// descriptor, the design artifacts, the frequency tables, the crosstab,
// and the convergence driver's output.
type Result struct {
	Descriptor *model.Descriptor
	Artifacts  *design.Artifacts
	DVFreq     *tabulate.FreqTable
	Xtab       *tabulate.CrossTab
	Fit        *estimator.FitResult
}

// Fit runs the full pipeline (C3 tabulation, C4 design, C5/C6/C7
// estimation) for the dataset registered under handle against the given
// dependent variable and effect tokens.
func Fit(sess *session.Session, handle, dvName string, effects []string) (*Result, error) {
	table, err := sess.Lookup(handle)
	if err != nil {
		return nil, err
	}

	desc, err := model.ParseFormula(table, dvName, effects, sess.Log)
	if err != nil {
		return nil, err
	}

	sess.Log.Verbose("Entering logreg fit.")

	freqs, xtab := tabulate.Tabulate(table, desc)
	dvFreq := freqs[len(desc.MainEffects)]

	art, err := design.Build(xtab, freqs, desc, sess.Options)
	if err != nil {
		return nil, err
	}

	fit := estimator.Fit(art, sess.Log)

	return &Result{
		Descriptor: desc,
		Artifacts:  art,
		DVFreq:     dvFreq,
		Xtab:       xtab,
		Fit:        fit,
	}, nil
}

package estimator

import (
	"io"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/czepiel/mlelr/dataset"
	"github.com/czepiel/mlelr/design"
	"github.com/czepiel/mlelr/mlog"
	"github.com/czepiel/mlelr/model"
	"github.com/czepiel/mlelr/options"
	"github.com/czepiel/mlelr/tabulate"
)

func fitFromRows(t *testing.T, names []string, rows [][]float64, dv string, mainNames []string, weightCol int) (*design.Artifacts, *FitResult) {
	t.Helper()
	tbl, err := dataset.NewTable(names, rows, weightCol)
	if err != nil {
		t.Fatal(err)
	}
	log := mlog.New(io.Discard, mlog.Verbose)
	desc, err := model.NewDescriptor(tbl, dv, log)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range mainNames {
		if err := desc.AddMain(name, false); err != nil {
			t.Fatal(err)
		}
	}
	freqs, xtab := tabulate.Tabulate(tbl, desc)
	art, err := design.Build(xtab, freqs, desc, options.New())
	if err != nil {
		t.Fatal(err)
	}
	return art, Fit(art, log)
}

func TestFitInterceptOnlyBinaryConvergesToLogOdds(t *testing.T) {
	// 7 successes (y=0) and 3 failures (y=1): intercept-only MLE is the
	// log-odds of the observed split, log(7/3).
	var rows [][]float64
	for i := 0; i < 7; i++ {
		rows = append(rows, []float64{0})
	}
	for i := 0; i < 3; i++ {
		rows = append(rows, []float64{1})
	}

	_, fit := fitFromRows(t, []string{"y"}, rows, "y", nil, dataset.NoWeight)

	if !fit.Converged {
		t.Fatalf("expected convergence")
	}
	want := math.Log(7.0 / 3.0)
	if !floats.EqualApprox([]float64{fit.Beta[0]}, []float64{want}, 1e-6) {
		t.Fatalf("beta[0] = %v, want %v", fit.Beta[0], want)
	}
}

func TestFitInterceptOnlyThreeCategoryBaseline(t *testing.T) {
	// y in {0,1,2} with counts 5,3,2. Reference category is the last
	// (largest) response level; beta[j] = log(count_j / count_ref).
	var rows [][]float64
	for i := 0; i < 5; i++ {
		rows = append(rows, []float64{0})
	}
	for i := 0; i < 3; i++ {
		rows = append(rows, []float64{1})
	}
	for i := 0; i < 2; i++ {
		rows = append(rows, []float64{2})
	}

	_, fit := fitFromRows(t, []string{"y"}, rows, "y", nil, dataset.NoWeight)

	if !fit.Converged {
		t.Fatalf("expected convergence")
	}
	if len(fit.Beta) != 2 {
		t.Fatalf("expected K*(J-1) = 2 parameters, got %d", len(fit.Beta))
	}
	want0 := math.Log(5.0 / 2.0)
	want1 := math.Log(3.0 / 2.0)
	if !floats.EqualApprox(fit.Beta, []float64{want0, want1}, 1e-6) {
		t.Fatalf("beta = %v, want [%v %v]", fit.Beta, want0, want1)
	}
}

func TestFitPerfectSeparationDoesNotConverge(t *testing.T) {
	// a perfectly predicts y: every a=1 row has y=0, every a=2 row has y=1.
	// The MLE diverges to infinity, so the loop should either exhaust
	// MAX_ITER without satisfying the convergence test or stop on an NR
	// failure.
	rows := [][]float64{
		{0, 1}, {0, 1}, {0, 1}, {0, 1}, {0, 1},
		{1, 2}, {1, 2}, {1, 2}, {1, 2}, {1, 2},
	}
	_, fit := fitFromRows(t, []string{"y", "a"}, rows, "y", []string{"a"}, dataset.NoWeight)

	if fit.Converged {
		t.Fatalf("expected non-convergence under perfect separation")
	}
	if fit.Iterations != MaxIter && fit.FailureCode == 0 {
		t.Fatalf("expected either MaxIter exhaustion or an NR failure, got iterations=%d code=%d",
			fit.Iterations, fit.FailureCode)
	}
}

func TestFitCenterPointAndDummyYieldSameLogLikelihood(t *testing.T) {
	rows := [][]float64{
		{0, 1}, {1, 1}, {0, 2}, {1, 2}, {1, 2},
	}

	tbl1, _ := dataset.NewTable([]string{"y", "a"}, rows, dataset.NoWeight)
	log := mlog.New(io.Discard, mlog.Verbose)
	desc1, _ := model.ParseFormula(tbl1, "y", []string{"a"}, log)
	freqs1, xtab1 := tabulate.Tabulate(tbl1, desc1)
	centerOpts := options.New()
	art1, _ := design.Build(xtab1, freqs1, desc1, centerOpts)
	fit1 := Fit(art1, log)

	tbl2, _ := dataset.NewTable([]string{"y", "a"}, rows, dataset.NoWeight)
	desc2, _ := model.ParseFormula(tbl2, "y", []string{"a"}, log)
	freqs2, xtab2 := tabulate.Tabulate(tbl2, desc2)
	dummyOpts := options.New()
	dummyOpts.Set("params", options.ParamsDummy)
	art2, _ := design.Build(xtab2, freqs2, desc2, dummyOpts)
	fit2 := Fit(art2, log)

	if !fit1.Converged || !fit2.Converged {
		t.Fatalf("expected both parameterizations to converge")
	}
	if !floats.EqualApprox([]float64{fit1.LogLike}, []float64{fit2.LogLike}, 1e-6) {
		t.Fatalf("log-likelihoods differ: center-point=%v dummy=%v", fit1.LogLike, fit2.LogLike)
	}
}

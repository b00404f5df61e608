package estimator

import (
	"fmt"
	"strings"

	"github.com/czepiel/mlelr/design"
	"github.com/czepiel/mlelr/statmodel"
	"github.com/czepiel/mlelr/tabulate"
)

// Report renders a fit in the order spec.md §4.5 requires: model summary,
// dependent-variable frequencies, crosstab, rounded design matrix,
// iteration count and convergence flag, the two fit tests, and a
// parameter table. The parameter table reuses statmodel.SummaryTable,
// the same column-formatter-driven table the teacher's GLM and duration
// packages use for their own summaries.
func Report(modelName string, art *design.Artifacts, dvFreq *tabulate.FreqTable, xtab *tabulate.CrossTab, fit *FitResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=============================================================\n")
	fmt.Fprintf(&b, "  Maximum Likelihood Estimation of Logistic Regression Model\n")
	fmt.Fprintf(&b, "=============================================================\n\n")

	fmt.Fprintf(&b, "Model Summary\n==============\n%s\n", modelName)
	fmt.Fprintf(&b, "Number of populations: %d\n", art.NPop)
	fmt.Fprintf(&b, "Total frequency: %f\n", art.M)
	fmt.Fprintf(&b, "Response Levels: %d\n", art.J)
	fmt.Fprintf(&b, "Number of columns in X: %d\n", art.K)

	fmt.Fprintf(&b, "\nFrequency Table for Dependent Variable\n=======================================\n")
	for _, row := range dvFreq.Rows {
		fmt.Fprintf(&b, "%12g  %12g\n", row.Value, row.Weight)
	}

	fmt.Fprintf(&b, "\nCrosstabulation of all Model Variables\n=======================================\n")
	for _, row := range xtab.Rows {
		for _, v := range row.Covariates {
			fmt.Fprintf(&b, "%12g", v)
		}
		fmt.Fprintf(&b, "%12g%12g\n", row.Response, row.Weight)
	}

	fmt.Fprintf(&b, "\nDesign Matrix (all values rounded)\n===================================\n")
	for i := 0; i < art.NPop; i++ {
		for j := 0; j < art.K; j++ {
			fmt.Fprintf(&b, "%4.0f  ", art.X.At(i, j))
		}
		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "\nModel Results\n==============\n")
	fmt.Fprintf(&b, "Number of Newton-Raphson iterations: %d\n", fit.Iterations)
	fmt.Fprintf(&b, "Convergence: %s\n", yesNo(fit.Converged))

	if fit.Converged {
		fmt.Fprintf(&b, "\nModel Fit Results\n==================\n")
		fmt.Fprintf(&b, "Test 1:  Fitted model vs. intercept-only model\n")
		fmt.Fprintf(&b, "Initial log likelihood: %f\n", fit.LogLike0)
		fmt.Fprintf(&b, "Final log likelihood:   %f\n", fit.LogLike)
		fmt.Fprintf(&b, "Chisq value: %10.4f, df: %5.0f, Pr(ChiSq): %8.4f\n\n", fit.Chi1, fit.DF1, fit.PChi1)
		fmt.Fprintf(&b, "Test 2:  Fitted model vs. saturated model\n")
		fmt.Fprintf(&b, "Deviance: %f\n", fit.Deviance)
		fmt.Fprintf(&b, "Chisq value: %10.4f, df: %5.0f, Pr(ChiSq): %8.4f\n\n", fit.Chi2, fit.DF2, fit.PChi2)

		b.WriteString(paramTable(fit.Params).String())
	}

	return b.String()
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// paramTable adapts the per-parameter Wald tests into a
// statmodel.SummaryTable, the teacher's generic column-formatted table.
func paramTable(params []ParamStat) *statmodel.SummaryTable {
	var labels []string
	var responses []float64
	var estimates, stderrs, walds, pvalues []float64
	for _, p := range params {
		labels = append(labels, p.Label)
		responses = append(responses, float64(p.Response))
		estimates = append(estimates, p.Estimate)
		stderrs = append(stderrs, p.StdErr)
		walds = append(walds, p.Wald)
		pvalues = append(pvalues, p.PValue)
	}

	fs := func(x interface{}, h string) []string {
		y := x.([]string)
		m := len(h)
		for _, s := range y {
			if len(s) > m {
				m = len(s)
			}
		}
		var out []string
		for _, s := range y {
			out = append(out, fmt.Sprintf(fmt.Sprintf("%%-%ds", m), s))
		}
		return out
	}
	fn := func(x interface{}, h string) []string {
		y := x.([]float64)
		var out []string
		for _, v := range y {
			out = append(out, fmt.Sprintf("%12.4f", v))
		}
		return out
	}

	return &statmodel.SummaryTable{
		Title:    "Maximum Likelihood Parameter Estimates",
		ColNames: []string{"Parameter", "DV", "Estimate", "Std Err", "Wald Chisq", "Pr > Chisq"},
		Cols:     []interface{}{labels, responses, estimates, stderrs, walds, pvalues},
		ColFmt:   []statmodel.Fmter{fs, fn, fn, fn, fn, fn},
		Top:      []string{"", ""},
	}
}

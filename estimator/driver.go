package estimator

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/czepiel/mlelr/design"
	"github.com/czepiel/mlelr/mlog"
)

// MaxIter and Epsilon are the Newton-Raphson loop's iteration cap and
// relative-convergence tolerance (spec.md §4.5).
const (
	MaxIter = 30
	Epsilon = 1e-8
)

// ParamStat is the per-parameter Wald significance test for one design
// column / response-category coefficient.
type ParamStat struct {
	Label    string
	Response int
	Estimate float64
	StdErr   float64
	Wald     float64
	PValue   float64 // -1 when undefined (xtwx diagonal not positive)
}

// FitResult is the outcome of the convergence driver: the final
// parameter estimates, whether the loop converged, the iteration count,
// and (when converged) the goodness-of-fit tests and per-parameter Wald
// tests.
type FitResult struct {
	Beta        []float64
	Xtwx        *mat.Dense
	Iterations  int
	Converged   bool
	LogLike0    float64
	LogLike     float64
	Deviance    float64
	Chi1        float64
	DF1         float64
	PChi1       float64
	Chi2        float64
	DF2         float64
	PChi2       float64
	Params      []ParamStat
	FailureCode int // 0 if no NR failure occurred
}

// Fit runs the Newton-Raphson loop to convergence (or exhaustion of
// MaxIter) on the given design artifacts, then computes the
// goodness-of-fit and per-parameter significance tests if convergence
// was reached (spec.md §4.5). An NR failure (non-positive-definite
// Hessian) stops the loop early with Converged = false and FailureCode
// set to the failing stage (11, 12, or 13).
func Fit(art *design.Artifacts, log *mlog.Logger) *FitResult {
	dim := art.K * (art.J - 1)
	beta := make([]float64, dim)

	var (
		iter       int
		converged  bool
		logLike0   float64
		last       *StepResult
		failureCode int
	)

	for iter = 0; iter < MaxIter && !converged; iter++ {
		beta0 := append([]float64(nil), beta...)

		step, err := Step(art.X, art.Y, art.N, art.J, art.NPop, art.K, beta0)
		if err != nil {
			if nrErr, ok := err.(*NRError); ok {
				failureCode = nrErr.Stage
			}
			log.Warn("newton-raphson step failed at iteration %d: %v", iter, err)
			converged = false
			break
		}
		last = step
		beta = step.Beta

		converged = true
		for i := range beta {
			if math.Abs(beta[i]-beta0[i]) > Epsilon*math.Abs(beta0[i]) {
				converged = false
				break
			}
		}

		if iter == 0 {
			logLike0 = step.LogLike
		}

		log.Verbose("Iter: %d, LL: %f, Deviance: %f, Convergence: %v", iter, step.LogLike, step.Deviance, converged)
	}

	result := &FitResult{
		Beta:        beta,
		Iterations:  iter,
		Converged:   converged,
		LogLike0:    logLike0,
		FailureCode: failureCode,
	}
	if last != nil {
		result.Xtwx = last.Xtwx
		result.LogLike = last.LogLike
		result.Deviance = last.Deviance
	}

	if !converged {
		return result
	}

	result.DF1 = float64(dim - art.J - 1)
	result.Chi1 = 2 * (result.LogLike - result.LogLike0)
	result.PChi1 = chiSquarePValue(result.Chi1, result.DF1)

	result.DF2 = float64(art.NPop*(art.J-1) - dim)
	result.Chi2 = result.Deviance
	result.PChi2 = chiSquarePValue(result.Chi2, result.DF2)

	result.Params = make([]ParamStat, dim)
	for i := 0; i < dim; i++ {
		j := i / art.K
		k := i % art.K
		ps := ParamStat{Label: art.Labels[k], Response: j, Estimate: beta[i]}
		if diag := result.Xtwx.At(i, i); diag > 0 {
			ps.StdErr = math.Sqrt(diag)
			ps.Wald = math.Pow(beta[i]/ps.StdErr, 2)
			ps.PValue = chiSquarePValue(ps.Wald, 1)
		} else {
			ps.PValue = -1
		}
		result.Params[i] = ps
	}

	return result
}

// chiSquarePValue returns 1 - F(x; df), the upper-tail probability of a
// chi-square distribution with df degrees of freedom.
func chiSquarePValue(x, df float64) float64 {
	if df <= 0 {
		return math.NaN()
	}
	return 1.0 - distuv.ChiSquared{K: df}.CDF(x)
}

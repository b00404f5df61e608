// Package estimator implements the Newton-Raphson estimator (C5), its
// linear-algebra primitives (C6), and the convergence driver with its
// goodness-of-fit and Wald tests (C7).
package estimator

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// StepResult is the output of one Newton-Raphson iteration: the updated
// parameter vector, the inverted information matrix, and the
// log-likelihood and deviance evaluated at the starting parameters.
type StepResult struct {
	Beta     []float64
	Xtwx     *mat.Dense
	LogLike  float64
	Deviance float64
}

// Step runs a single Newton-Raphson iteration (spec.md §4.3): it builds
// the predicted-probability matrix, the log-likelihood, the deviance,
// and the gradient and Hessian at beta0, inverts the Hessian, and
// returns the updated parameter vector beta1 = xtwx * (H*beta0 + g).
//
// X is N×K, Y is N×J, n has length N, beta0 has length K*(J-1). The
// parameter layout is column-major by response category: index j*K+k
// holds the coefficient for design column k in response equation j.
func Step(X, Y *mat.Dense, n []float64, J, N, K int, beta0 []float64) (*StepResult, error) {
	dim := K * (J - 1)

	g := make([]float64, dim)
	H := mat.NewDense(dim, dim, nil)

	var logLike, deviance float64
	numer := make([]float64, J-1)
	pi := make([]float64, J)

	for i := 0; i < N; i++ {
		denom := 1.0
		jj := 0
		for j := 0; j < J-1; j++ {
			sum := 0.0
			for k := 0; k < K; k++ {
				sum += X.At(i, k) * beta0[jj]
				jj++
			}
			numer[j] = math.Exp(sum)
			denom += numer[j]
		}
		for j := 0; j < J-1; j++ {
			pi[j] = numer[j] / denom
		}
		pi[J-1] = 1.0 / denom

		lgN, _ := math.Lgamma(n[i] + 1)
		logLike += lgN
		for j := 0; j < J; j++ {
			lg, _ := math.Lgamma(Y.At(i, j) + 1)
			logLike = logLike - lg + Y.At(i, j)*math.Log(pi[j])
		}

		for j := 0; j < J; j++ {
			if Y.At(i, j) > 0 {
				deviance += 2 * Y.At(i, j) * math.Log(Y.At(i, j)/(n[i]*pi[j]))
			}
		}

		jj = 0
		for j := 0; j < J-1; j++ {
			q1 := Y.At(i, j) - n[i]*pi[j]
			w1 := n[i] * pi[j] * (1 - pi[j])

			for k := 0; k < K; k++ {
				g[jj] += q1 * X.At(i, k)

				kk := jj - 1
				for kprime := k; kprime < K; kprime++ {
					kk++
					v := H.At(jj, kk) + w1*X.At(i, k)*X.At(i, kprime)
					H.Set(jj, kk, v)
					H.Set(kk, jj, v)
				}

				for jprime := j + 1; jprime < J-1; jprime++ {
					w2 := -n[i] * pi[j] * pi[jprime]
					for kprime := 0; kprime < K; kprime++ {
						kk++
						v := H.At(jj, kk) + w2*X.At(i, k)*X.At(i, kprime)
						H.Set(jj, kk, v)
						H.Set(kk, jj, v)
					}
				}
				jj++
			}
		}
	}

	for i := 0; i < dim; i++ {
		sum := 0.0
		for j := 0; j < dim; j++ {
			sum += H.At(i, j) * beta0[j]
		}
		g[i] += sum
	}

	xtwx, err := invertSymmetric(H, dim)
	if err != nil {
		return nil, err
	}

	beta1 := make([]float64, dim)
	for i := 0; i < dim; i++ {
		sum := 0.0
		for j := 0; j < dim; j++ {
			sum += xtwx.At(i, j) * g[j]
		}
		beta1[i] = sum
	}

	return &StepResult{Beta: beta1, Xtwx: xtwx, LogLike: logLike, Deviance: deviance}, nil
}

package estimator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// NRError reports a failed linear-algebra stage within a Newton-Raphson
// step. Stage is 11 (Cholesky), 12 (back-substitution) or 13 (triangular
// self-product), matching the original staged failure codes.
type NRError struct {
	Stage int
	Err   error
}

func (e *NRError) Error() string {
	return fmt.Sprintf("newton-raphson stage %d failed: %v", e.Stage, e.Err)
}

func (e *NRError) Unwrap() error { return e.Err }

// cholesky factors the symmetric positive-definite matrix a (order x
// order) in place, overwriting its upper triangle with U where UᵀU = a.
// The failure test is the strict original one (sum >= a[i][i]), not a
// tolerance-based comparison: this is intentional, not an oversight.
func cholesky(a *mat.Dense, order int) error {
	for i := 0; i < order; i++ {
		sum := 0.0
		for j := 0; j < i; j++ {
			v := a.At(j, i)
			sum += v * v
		}
		aii := a.At(i, i)
		if sum >= aii {
			return fmt.Errorf("matrix is not positive definite at row %d", i)
		}
		uii := math.Sqrt(aii - sum)
		a.Set(i, i, uii)
		for j := i + 1; j < order; j++ {
			sum = 0.0
			for k := 0; k < i; k++ {
				sum += a.At(k, i) * a.At(k, j)
			}
			a.Set(i, j, (a.At(i, j)-sum)/uii)
		}
	}
	return nil
}

// backSubstitute replaces the upper-triangular U (order x order, stored
// in a's upper triangle) by U⁻¹, in place.
func backSubstitute(a *mat.Dense, order int) error {
	if a.At(0, 0) == 0 {
		return fmt.Errorf("zero diagonal at row 0")
	}
	a.Set(0, 0, 1/a.At(0, 0))

	for i := 1; i < order; i++ {
		if a.At(i, i) == 0 {
			return fmt.Errorf("zero diagonal at row %d", i)
		}
		uii := 1 / a.At(i, i)
		a.Set(i, i, uii)
		for j := 0; j < i; j++ {
			sum := 0.0
			for k := j; k < i; k++ {
				sum += a.At(j, k) * a.At(k, i)
			}
			a.Set(j, i, -sum*uii)
		}
	}
	return nil
}

// triangularSelfProduct computes out = in * inᵗ where in is the
// upper-triangular U⁻¹ produced by backSubstitute, reading only its
// upper triangle.
func triangularSelfProduct(in *mat.Dense, order int) *mat.Dense {
	out := mat.NewDense(order, order, nil)
	for i := 0; i < order; i++ {
		for j := 0; j < order; j++ {
			m := i
			if j > m {
				m = j
			}
			sum := 0.0
			for k := m; k < order; k++ {
				sum += in.At(i, k) * in.At(j, k)
			}
			out.Set(i, j, sum)
		}
	}
	return out
}

// invertSymmetric inverts the symmetric positive-definite matrix h
// (order x order) via Cholesky, back-substitution and triangular
// self-product, mutating h into its own Cholesky factor along the way
// and returning the inverse as a new matrix. It does not use gonum's
// mat.Cholesky because that type does not expose which of the three
// stages failed, and the staged failure codes (11/12/13) are load-bearing
// for callers.
func invertSymmetric(h *mat.Dense, order int) (*mat.Dense, error) {
	if err := cholesky(h, order); err != nil {
		return nil, &NRError{Stage: 11, Err: err}
	}
	if err := backSubstitute(h, order); err != nil {
		return nil, &NRError{Stage: 12, Err: err}
	}
	return triangularSelfProduct(h, order), nil
}

package material

import (
	"math"

	"github.com/aretw0/lama/pkg/domain"
	"gonum.org/v1/gonum/mat"
)

// symDense copies the upper triangle of m into a gonum symmetric matrix.
// Callers check symmetry first when m comes from user input.
func symDense(m domain.Matrix6) *mat.SymDense {
	data := make([]float64, 36)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			data[i*6+j] = m[i][j]
		}
	}
	return mat.NewSymDense(6, data)
}

func fromSym(s *mat.SymDense) domain.Matrix6 {
	var m domain.Matrix6
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			m[i][j] = s.At(i, j)
		}
	}
	return m
}

// factorize attempts a Cholesky decomposition of m.
// ok is false when m is not positive-definite.
func factorize(m domain.Matrix6) (chol *mat.Cholesky, ok bool) {
	chol = &mat.Cholesky{}
	ok = chol.Factorize(symDense(m))
	return chol, ok
}

// IsPositiveDefinite reports whether the symmetric matrix m has only
// strictly positive eigenvalues, i.e. whether Cholesky succeeds.
// Matrices with non-finite entries are never positive-definite.
func IsPositiveDefinite(m domain.Matrix6) bool {
	for i := range m {
		for _, x := range m[i] {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return false
			}
		}
	}
	_, ok := factorize(m)
	return ok
}

// invertSPD inverts a symmetric positive-definite matrix.
// It fails with ErrNonPhysical if m is not positive-definite and with
// ErrSingularMatrix if its condition number exceeds maxCond.
func invertSPD(m domain.Matrix6, maxCond float64) (domain.Matrix6, error) {
	chol, ok := factorize(m)
	if !ok {
		return domain.Matrix6{}, &domain.ValidationError{
			Code:   domain.ErrNonPhysical,
			Reason: "compliance matrix is not positive-definite",
		}
	}

	if cond := chol.Cond(); cond > maxCond {
		return domain.Matrix6{}, &domain.ValidationError{
			Code:   domain.ErrSingularMatrix,
			Reason: "compliance matrix is ill-conditioned",
			Value:  cond,
		}
	}

	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return domain.Matrix6{}, &domain.ValidationError{
			Code:   domain.ErrSingularMatrix,
			Reason: err.Error(),
		}
	}
	return fromSym(&inv), nil
}

package domain

import (
	"fmt"
	"math"
	"strings"
)

// Matrix6 is a 6x6 matrix in Voigt notation.
// Normal components come first (11, 22, 33) followed by shear (12, 13, 23).
// Being an array it copies by value, so a Matrix6 held by a material cannot
// be changed through another reference.
type Matrix6 [6][6]float64

// Transpose returns the transposed matrix.
func (m Matrix6) Transpose() Matrix6 {
	var t Matrix6
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			t[j][i] = m[i][j]
		}
	}
	return t
}

// MaxAbs returns the largest absolute entry.
func (m Matrix6) MaxAbs() float64 {
	var max float64
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			if a := math.Abs(m[i][j]); a > max {
				max = a
			}
		}
	}
	return max
}

// IsSymmetric reports whether m equals its transpose within a tolerance
// relative to the largest entry of m.
func (m Matrix6) IsSymmetric(relTol float64) bool {
	_, _, ok := m.FirstAsymmetry(relTol)
	return ok
}

// FirstAsymmetry returns the first (row, col) pair above the diagonal whose
// mirrored entries differ beyond relTol. ok is true when none does.
func (m Matrix6) FirstAsymmetry(relTol float64) (row, col int, ok bool) {
	tol := relTol * m.MaxAbs()
	for i := 0; i < 6; i++ {
		for j := i + 1; j < 6; j++ {
			if math.Abs(m[i][j]-m[j][i]) > tol {
				return i, j, false
			}
		}
	}
	return 0, 0, true
}

// Rows returns the matrix as nested slices (for encoders).
func (m Matrix6) Rows() [][]float64 {
	rows := make([][]float64, 6)
	for i := range rows {
		rows[i] = append([]float64(nil), m[i][:]...)
	}
	return rows
}

func (m Matrix6) String() string {
	var sb strings.Builder
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%13.6e", m[i][j])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// StiffnessTensor pairs a derived 6x6 constitutive tensor with the material
// it was built from.
type StiffnessTensor struct {
	Material Material
	C        Matrix6
}

// At returns C[i][j].
func (t StiffnessTensor) At(i, j int) float64 {
	return t.C[i][j]
}

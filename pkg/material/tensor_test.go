package material

import (
	"math"
	"testing"

	"github.com/aretw0/lama/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Isotropic(t *testing.T) {
	t.Run("Steel Normal Stiffness", func(t *testing.T) {
		m, err := Validate(domain.KindIsotropic, Fields{"name": "Steel", "density": 7850, "E": 210e9, "nu": 0.3})
		require.NoError(t, err)

		tensor, err := Build(m)
		require.NoError(t, err)

		e, nu := 210e9, 0.3
		want := e * (1 - nu) / ((1 + nu) * (1 - 2*nu))
		for i := 0; i < 3; i++ {
			assert.InEpsilon(t, want, tensor.At(i, i), 1e-6)
		}
		assert.InEpsilon(t, e/(2*(1+nu)), tensor.At(3, 3), 1e-6)
		assert.Equal(t, m, tensor.Material)
	})

	t.Run("Symmetric And Positive-Definite Over Admissible Range", func(t *testing.T) {
		for _, e := range []float64{1, 1e3, 70e9, 210e9} {
			for _, nu := range []float64{-0.99, -0.5, 0, 0.25, 0.3, 0.49, 0.499} {
				tensor, err := Build(domain.Isotropic{
					Base:         domain.Base{Name: "probe"},
					YoungModulus: e,
					PoissonRatio: nu,
				})
				require.NoError(t, err, "E=%g nu=%g", e, nu)
				assert.True(t, tensor.C.IsSymmetric(1e-12), "E=%g nu=%g", e, nu)
				assert.True(t, IsPositiveDefinite(tensor.C), "E=%g nu=%g", e, nu)
			}
		}
	})

	t.Run("Rejects Hand-Built Inadmissible Value", func(t *testing.T) {
		_, err := Build(domain.Isotropic{YoungModulus: 1e9, PoissonRatio: 0.6})
		assert.ErrorIs(t, err, domain.ErrNonPhysical)

		_, err = Build(domain.Isotropic{YoungModulus: math.NaN(), PoissonRatio: 0.3})
		assert.ErrorIs(t, err, domain.ErrNonPhysical)
	})

	t.Run("Overflowing Terms Fail", func(t *testing.T) {
		m, err := Validate(domain.KindIsotropic, Fields{"name": "Huge", "density": 1, "E": 1e308, "nu": 0.49999})
		require.NoError(t, err, "each scalar is admissible on its own")

		_, err = Build(m)
		assert.ErrorIs(t, err, domain.ErrOutOfRange)

		lambda, mu := Lame(1e308, 0.49999)
		var c domain.Matrix6
		c[0][0] = lambda + 2*mu
		assert.True(t, math.IsInf(c[0][0], 1))
		assert.False(t, IsPositiveDefinite(c))
	})
}

func TestBuild_Orthotropic(t *testing.T) {
	m, err := Validate(domain.KindOrthotropic, compositeFields())
	require.NoError(t, err)

	t.Run("Hand-Built Zero Modulus", func(t *testing.T) {
		_, err := Build(domain.Orthotropic{
			Base: domain.Base{Name: "Degenerate"},
			E1:   0, E2: 1, E3: 1,
			G12: 1, G13: 1, G23: 1,
		})
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
		assert.ErrorContains(t, err, "E1")
	})

	t.Run("Hand-Built Non-Finite Ratio", func(t *testing.T) {
		ortho := m.(domain.Orthotropic)
		ortho.Nu23 = math.Inf(1)
		_, err := Build(ortho)
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
	})

	t.Run("Inverts Compliance", func(t *testing.T) {
		tensor, err := Build(m)
		require.NoError(t, err)

		s := Compliance(m.(domain.Orthotropic))
		for i := 0; i < 6; i++ {
			for j := 0; j < 6; j++ {
				var sum float64
				for k := 0; k < 6; k++ {
					sum += tensor.C[i][k] * s[k][j]
				}
				want := 0.0
				if i == j {
					want = 1
				}
				assert.InDelta(t, want, sum, 1e-8, "C*S[%d][%d]", i, j)
			}
		}
		assert.True(t, tensor.C.IsSymmetric(1e-9))
		assert.InEpsilon(t, 5e9, tensor.At(3, 3), 1e-9)
		assert.InEpsilon(t, 3.5e9, tensor.At(5, 5), 1e-9)
	})

	t.Run("Ill-Conditioned Compliance", func(t *testing.T) {
		b := NewBuilder(WithMaxConditionNumber(1.5))
		_, err := b.Build(m)
		assert.ErrorIs(t, err, domain.ErrSingularMatrix)
	})

	t.Run("Compliance Layout", func(t *testing.T) {
		o := m.(domain.Orthotropic)
		s := Compliance(o)
		assert.Equal(t, 1/o.E1, s[0][0])
		assert.Equal(t, -o.Nu12/o.E1, s[0][1])
		assert.Equal(t, s[0][1], s[1][0])
		assert.Equal(t, -o.Nu23/o.E2, s[2][1])
		assert.Equal(t, 1/o.G12, s[3][3])
		assert.Equal(t, 1/o.G13, s[4][4])
		assert.Equal(t, 1/o.G23, s[5][5])
	})
}

func TestBuild_StiffnessMatrix(t *testing.T) {
	var c domain.Matrix6
	for i := 0; i < 6; i++ {
		c[i][i] = 10 + float64(i)
		if i > 0 {
			c[i][i-1], c[i-1][i] = 1, 1
		}
	}

	m, err := Validate(domain.KindStiffnessMatrix, Fields{"name": "Custom", "density": 1, "matrix": c.Rows()})
	require.NoError(t, err)

	tensor, err := Build(m)
	require.NoError(t, err)
	assert.Equal(t, c, tensor.C)

	t.Run("Hand-Built Asymmetric Value", func(t *testing.T) {
		bad := c
		bad[4][1] = 7
		_, err := Build(domain.StiffnessMatrix{Matrix: bad})
		assert.ErrorIs(t, err, domain.ErrAsymmetricMatrix)
	})
}

func TestBuild_Spring(t *testing.T) {
	_, err := Build(domain.Spring{Base: domain.Base{Name: "Mount"}, SpringConstant: 1})
	assert.ErrorIs(t, err, domain.ErrNoTensor)
}

func TestLame(t *testing.T) {
	lambda, mu := Lame(210e9, 0.3)
	assert.InEpsilon(t, 210e9*0.3/(1.3*0.4), lambda, 1e-12)
	assert.InEpsilon(t, 210e9/2.6, mu, 1e-12)
	assert.False(t, math.IsNaN(lambda))
}

package material

import (
	"fmt"
	"math"

	"github.com/aretw0/lama/pkg/domain"
)

// Builder derives 6x6 stiffness tensors (Voigt notation) from validated
// materials. It is stateless and safe for concurrent use.
type Builder struct {
	opts      Options
	validator *Validator
}

// NewBuilder creates a Builder with the given tolerances.
func NewBuilder(opts ...Option) *Builder {
	o := newOptions(opts)
	return &Builder{opts: o, validator: &Validator{opts: o}}
}

var defaultBuilder = NewBuilder()

// Build derives the stiffness tensor of m using default tolerances.
func Build(m domain.Material) (domain.StiffnessTensor, error) {
	return defaultBuilder.Build(m)
}

// Build derives the stiffness tensor of m.
func (b *Builder) Build(m domain.Material) (domain.StiffnessTensor, error) {
	var (
		c   domain.Matrix6
		err error
	)

	switch mm := m.(type) {
	case domain.Isotropic:
		c, err = b.isotropic(mm)
	case domain.Orthotropic:
		if err = orthotropicConstants(mm); err == nil {
			c, err = invertSPD(Compliance(mm), b.opts.MaxConditionNumber)
		}
	case domain.StiffnessMatrix:
		// Identity transform; re-checked so hand-built values get the same guarantees.
		c, err = mm.Matrix, b.validator.checkStiffness(mm.Matrix)
	case domain.Spring:
		err = fmt.Errorf("%w: %s", domain.ErrNoTensor, mm.Summary())
	default:
		err = fmt.Errorf("%w: %T", domain.ErrUnknownKind, m)
	}
	if err == nil {
		err = finiteTensor(c)
	}
	if err != nil {
		return domain.StiffnessTensor{}, err
	}

	return domain.StiffnessTensor{Material: m, C: c}, nil
}

// finiteTensor rejects tensors whose entries overflowed during derivation.
func finiteTensor(c domain.Matrix6) error {
	for i := range c {
		for j, x := range c[i] {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return &domain.ValidationError{
					Field:  fmt.Sprintf("C[%d][%d]", i, j),
					Code:   domain.ErrOutOfRange,
					Reason: "stiffness term is not finite",
					Value:  x,
				}
			}
		}
	}
	return nil
}

// orthotropicConstants repeats the scalar checks of the validator for
// values built without it.
func orthotropicConstants(m domain.Orthotropic) error {
	var c checks
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"E1", m.E1}, {"E2", m.E2}, {"E3", m.E3},
		{"G12", m.G12}, {"G13", m.G13}, {"G23", m.G23},
	} {
		c.positive(f.name, &f.v)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"nu12", m.Nu12}, {"nu13", m.Nu13}, {"nu23", m.Nu23},
	} {
		c.finite(f.name, &f.v)
	}
	return c.err()
}

// Lame returns the Lamé parameters λ and μ for the given E and ν.
func Lame(e, nu float64) (lambda, mu float64) {
	lambda = e * nu / ((1 + nu) * (1 - 2*nu))
	mu = e / (2 * (1 + nu))
	return lambda, mu
}

func (b *Builder) isotropic(m domain.Isotropic) (domain.Matrix6, error) {
	if !(m.YoungModulus > 0) || math.IsInf(m.YoungModulus, 0) || !(m.PoissonRatio > -1 && m.PoissonRatio < 0.5) {
		return domain.Matrix6{}, &domain.ValidationError{
			Code:   domain.ErrNonPhysical,
			Reason: "isotropic constants outside E > 0, -1 < nu < 0.5",
		}
	}

	lambda, mu := Lame(m.YoungModulus, m.PoissonRatio)

	var c domain.Matrix6
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c[i][j] = lambda
		}
		c[i][i] = lambda + 2*mu
		c[i+3][i+3] = mu
	}
	return c, nil
}

// Compliance assembles the symmetric compliance matrix of an orthotropic
// material in Voigt order (11, 22, 33, 12, 13, 23).
func Compliance(m domain.Orthotropic) domain.Matrix6 {
	var s domain.Matrix6

	s[0][0] = 1 / m.E1
	s[1][1] = 1 / m.E2
	s[2][2] = 1 / m.E3

	s[0][1] = -m.Nu12 / m.E1
	s[0][2] = -m.Nu13 / m.E1
	s[1][2] = -m.Nu23 / m.E2
	s[1][0] = s[0][1]
	s[2][0] = s[0][2]
	s[2][1] = s[1][2]

	s[3][3] = 1 / m.G12
	s[4][4] = 1 / m.G13
	s[5][5] = 1 / m.G23
	return s
}

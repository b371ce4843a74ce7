package material

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/lama/pkg/domain"
)

// Validator checks that user supplied engineering constants describe a
// physically admissible material. It is stateless and safe for concurrent use.
type Validator struct {
	opts Options
}

// NewValidator creates a Validator with the given tolerances.
func NewValidator(opts ...Option) *Validator {
	return &Validator{opts: newOptions(opts)}
}

var defaultValidator = NewValidator()

// Validate checks fields against the given kind using default tolerances.
func Validate(kind domain.Kind, fields Fields) (domain.Material, error) {
	return defaultValidator.Validate(kind, fields)
}

// Validate checks fields against kind and returns the validated material.
//
// Scalar failures (missing, malformed, out of range) are reported together
// in a *domain.AggregateError. Physical checks only run once every scalar
// passes and report a single *domain.ValidationError.
func (v *Validator) Validate(kind domain.Kind, fields Fields) (domain.Material, error) {
	switch kind {
	case domain.KindIsotropic:
		return v.isotropic(fields)
	case domain.KindOrthotropic:
		return v.orthotropic(fields)
	case domain.KindStiffnessMatrix:
		return v.stiffnessMatrix(fields)
	case domain.KindSpring:
		return v.spring(fields)
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, string(kind))
}

// checks accumulates scalar failures.
type checks struct {
	errs []error
}

func (c *checks) fail(field string, code error, reason string, value any) {
	c.errs = append(c.errs, &domain.ValidationError{
		Field:  field,
		Code:   code,
		Reason: reason,
		Value:  value,
	})
}

func (c *checks) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &domain.AggregateError{Errors: c.errs}
}

// finite requires p to be present and finite.
func (c *checks) finite(field string, p *float64) bool {
	if p == nil {
		c.fail(field, domain.ErrMissingField, "required", nil)
		return false
	}
	if math.IsNaN(*p) || math.IsInf(*p, 0) {
		c.fail(field, domain.ErrOutOfRange, "must be finite", *p)
		return false
	}
	return true
}

func (c *checks) positive(field string, p *float64) {
	if c.finite(field, p) && *p <= 0 {
		c.fail(field, domain.ErrOutOfRange, "must be > 0", *p)
	}
}

// optionalFinite accepts an absent value.
func (c *checks) optionalFinite(field string, p *float64) {
	if p != nil {
		c.finite(field, p)
	}
}

func (c *checks) common(in commonInput) domain.Base {
	var base domain.Base

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		c.fail(FieldName, domain.ErrMissingField, "required", nil)
	} else {
		base.Name = strings.TrimSpace(*in.Name)
	}

	if in.Color == nil {
		base.Color = domain.DefaultColor
		base.Flags |= domain.FlagDefaultColor
	} else {
		base.Color = *in.Color
	}

	if c.finite(FieldDensity, in.Density) {
		switch d := *in.Density; {
		case d < 0:
			c.fail(FieldDensity, domain.ErrOutOfRange, "must be >= 0", d)
		case d == 0:
			base.Flags |= domain.FlagZeroDensity
		default:
			base.Density = d
		}
	}
	return base
}

func (v *Validator) isotropic(fields Fields) (domain.Material, error) {
	var in isotropicInput
	if err := decode(fields, &in); err != nil {
		return nil, err
	}

	var c checks
	base := c.common(in.commonInput)
	c.positive("E", in.E)
	// Thermodynamic stability bound for isotropic elasticity.
	if c.finite("nu", in.Nu) && (*in.Nu <= -1 || *in.Nu >= 0.5) {
		c.fail("nu", domain.ErrOutOfRange, "must be in (-1, 0.5)", *in.Nu)
	}
	if err := c.err(); err != nil {
		return nil, err
	}

	return domain.Isotropic{
		Base:         base,
		YoungModulus: *in.E,
		PoissonRatio: *in.Nu,
	}, nil
}

func (v *Validator) orthotropic(fields Fields) (domain.Material, error) {
	var in orthotropicInput
	if err := decode(fields, &in); err != nil {
		return nil, err
	}

	var c checks
	base := c.common(in.commonInput)
	c.positive("E1", in.E1)
	c.positive("E2", in.E2)
	c.positive("E3", in.E3)
	c.finite("nu12", in.Nu12)
	c.finite("nu13", in.Nu13)
	c.finite("nu23", in.Nu23)
	c.optionalFinite("nu21", in.Nu21)
	c.optionalFinite("nu31", in.Nu31)
	c.optionalFinite("nu32", in.Nu32)
	c.positive("G12", in.G12)
	c.positive("G13", in.G13)
	c.positive("G23", in.G23)
	if err := c.err(); err != nil {
		return nil, err
	}

	m := domain.Orthotropic{
		Base: base,
		E1:   *in.E1, E2: *in.E2, E3: *in.E3,
		Nu12: *in.Nu12, Nu13: *in.Nu13, Nu23: *in.Nu23,
		G12: *in.G12, G13: *in.G13, G23: *in.G23,
	}

	pairs := []struct {
		major, minor string
		nuIJ, eI     float64
		nuJI         *float64
		eJ           float64
	}{
		{"nu12", "nu21", m.Nu12, m.E1, in.Nu21, m.E2},
		{"nu13", "nu31", m.Nu13, m.E1, in.Nu31, m.E3},
		{"nu23", "nu32", m.Nu23, m.E2, in.Nu32, m.E3},
	}
	for _, p := range pairs {
		if p.nuJI == nil {
			continue
		}
		if !reciprocal(p.nuIJ/p.eI, *p.nuJI/p.eJ, v.opts.ReciprocityTolerance) {
			return nil, &domain.ValidationError{
				Field:  p.minor,
				Code:   domain.ErrReciprocityViolation,
				Reason: fmt.Sprintf("%s/E_i must equal %s/E_j", p.major, p.minor),
				Value:  *p.nuJI,
			}
		}
	}

	if !IsPositiveDefinite(Compliance(m)) {
		return nil, &domain.ValidationError{
			Code:   domain.ErrNonPhysical,
			Reason: "compliance matrix is not positive-definite",
		}
	}
	return m, nil
}

func reciprocal(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}

func (v *Validator) stiffnessMatrix(fields Fields) (domain.Material, error) {
	var in matrixInput
	if err := decode(fields, &in); err != nil {
		return nil, err
	}

	var c checks
	base := c.common(in.commonInput)

	var m domain.Matrix6
	switch {
	case in.Matrix == nil:
		c.fail(FieldMatrix, domain.ErrMissingField, "required", nil)
	case !isSixBySix(*in.Matrix):
		c.fail(FieldMatrix, domain.ErrOutOfRange, "must be 6x6", shape(*in.Matrix))
	default:
		for i, row := range *in.Matrix {
			for j, x := range row {
				if math.IsNaN(x) || math.IsInf(x, 0) {
					c.fail(fmt.Sprintf("matrix[%d][%d]", i, j), domain.ErrOutOfRange, "must be finite", x)
				}
				m[i][j] = x
			}
		}
	}
	if err := c.err(); err != nil {
		return nil, err
	}

	if err := v.checkStiffness(m); err != nil {
		return nil, err
	}
	return domain.StiffnessMatrix{Base: base, Matrix: m}, nil
}

// checkStiffness verifies symmetry and positive-definiteness of a user tensor.
func (v *Validator) checkStiffness(m domain.Matrix6) error {
	if i, j, ok := m.FirstAsymmetry(v.opts.SymmetryTolerance); !ok {
		return &domain.ValidationError{
			Field:  fmt.Sprintf("matrix[%d][%d]", i, j),
			Code:   domain.ErrAsymmetricMatrix,
			Reason: fmt.Sprintf("differs from matrix[%d][%d]", j, i),
			Value:  m[i][j],
		}
	}
	if !IsPositiveDefinite(m) {
		return &domain.ValidationError{
			Field:  FieldMatrix,
			Code:   domain.ErrNonPhysical,
			Reason: "stiffness matrix is not positive-definite",
		}
	}
	return nil
}

func isSixBySix(rows [][]float64) bool {
	if len(rows) != 6 {
		return false
	}
	for _, r := range rows {
		if len(r) != 6 {
			return false
		}
	}
	return true
}

func shape(rows [][]float64) string {
	cols := make([]string, len(rows))
	for i, r := range rows {
		cols[i] = fmt.Sprint(len(r))
	}
	return fmt.Sprintf("%d rows [%s]", len(rows), strings.Join(cols, ","))
}

func (v *Validator) spring(fields Fields) (domain.Material, error) {
	var in springInput
	if err := decode(fields, &in); err != nil {
		return nil, err
	}

	var c checks
	base := c.common(in.commonInput)
	c.positive("k", in.K)
	if err := c.err(); err != nil {
		return nil, err
	}

	return domain.Spring{Base: base, SpringConstant: *in.K}, nil
}

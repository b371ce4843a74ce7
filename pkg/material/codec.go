package material

import (
	"fmt"

	"github.com/aretw0/lama/pkg/domain"
)

// Encode flattens a material into Fields (with a "kind" entry) suitable for
// YAML/JSON persistence. Decode(Encode(m)) yields an equal material.
func Encode(m domain.Material) Fields {
	base := m.Common()
	f := Fields{
		FieldKind:    m.Kind().String(),
		FieldName:    base.Name,
		FieldDensity: base.Density,
	}
	if !base.Flags.Has(domain.FlagDefaultColor) {
		f[FieldColor] = base.Color.Hex()
	}

	switch mm := m.(type) {
	case domain.Isotropic:
		f["E"] = mm.YoungModulus
		f["nu"] = mm.PoissonRatio
	case domain.Orthotropic:
		f["E1"], f["E2"], f["E3"] = mm.E1, mm.E2, mm.E3
		f["nu12"], f["nu13"], f["nu23"] = mm.Nu12, mm.Nu13, mm.Nu23
		f["G12"], f["G13"], f["G23"] = mm.G12, mm.G13, mm.G23
	case domain.StiffnessMatrix:
		f[FieldMatrix] = mm.Matrix.Rows()
	case domain.Spring:
		f["k"] = mm.SpringConstant
	}
	return f
}

// Decode reads the "kind" entry of f and validates the remaining fields.
func (v *Validator) Decode(f Fields) (domain.Material, error) {
	raw, ok := f[FieldKind]
	if !ok || raw == nil {
		return nil, &domain.ValidationError{Field: FieldKind, Code: domain.ErrMissingField, Reason: "required"}
	}
	kind, err := domain.ParseKind(fmt.Sprint(raw))
	if err != nil {
		return nil, err
	}
	return v.Validate(kind, f)
}

// Decode validates a record using default tolerances.
func Decode(f Fields) (domain.Material, error) {
	return defaultValidator.Decode(f)
}

package domain

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported material variants.
type Kind string

const (
	KindIsotropic       Kind = "Isotropic"
	KindOrthotropic     Kind = "Orthotropic"
	KindStiffnessMatrix Kind = "Stiffness Matrix"
	KindSpring          Kind = "Spring"
)

// Kinds lists every supported variant in menu order.
var Kinds = []Kind{KindIsotropic, KindOrthotropic, KindStiffnessMatrix, KindSpring}

func (k Kind) String() string {
	return string(k)
}

// ParseKind resolves a user supplied tag into a Kind.
// Matching is case-insensitive and tolerates the usual separators.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(norm)

	switch norm {
	case "isotropic":
		return KindIsotropic, nil
	case "orthotropic":
		return KindOrthotropic, nil
	case "stiffnessmatrix", "matrix":
		return KindStiffnessMatrix, nil
	case "spring":
		return KindSpring, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Flags marks materials that were accepted but carry a notable default.
type Flags uint8

const (
	// FlagZeroDensity is set when density was supplied as exactly zero.
	FlagZeroDensity Flags = 1 << iota
	// FlagDefaultColor is set when no color was supplied.
	FlagDefaultColor
)

// Has reports whether all bits in f are set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

// Strings returns the human-readable names of the set flags.
func (fl Flags) Strings() []string {
	var out []string
	if fl.Has(FlagZeroDensity) {
		out = append(out, "zero-density")
	}
	if fl.Has(FlagDefaultColor) {
		out = append(out, "default-color")
	}
	return out
}

// Color is a presentation-only RGB triple.
type Color struct {
	R, G, B uint8
}

// DefaultColor is assigned to materials defined without a color.
var DefaultColor = Color{R: 128, G: 128, B: 128}

// Hex returns the color as #RRGGBB.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Base holds the properties shared by every material variant.
type Base struct {
	Name    string
	Color   Color
	Density float64
	Flags   Flags
}

// Material is a validated material definition.
// Implementations are plain values: once returned by the validator they are
// never mutated, and copies are independent.
type Material interface {
	Kind() Kind
	Common() Base
	Summary() string
}

// Isotropic material with uniform properties in all directions.
type Isotropic struct {
	Base
	YoungModulus float64
	PoissonRatio float64
}

func (m Isotropic) Kind() Kind      { return KindIsotropic }
func (m Isotropic) Common() Base    { return m.Base }
func (m Isotropic) Summary() string { return summary(m) }

// Orthotropic material with different properties along three orthogonal axes.
type Orthotropic struct {
	Base
	E1, E2, E3       float64
	Nu12, Nu13, Nu23 float64
	G12, G13, G23    float64
}

func (m Orthotropic) Kind() Kind      { return KindOrthotropic }
func (m Orthotropic) Common() Base    { return m.Base }
func (m Orthotropic) Summary() string { return summary(m) }

// Nu21 returns the minor Poisson ratio implied by reciprocity.
func (m Orthotropic) Nu21() float64 { return m.Nu12 * m.E2 / m.E1 }

// Nu31 returns the minor Poisson ratio implied by reciprocity.
func (m Orthotropic) Nu31() float64 { return m.Nu13 * m.E3 / m.E1 }

// Nu32 returns the minor Poisson ratio implied by reciprocity.
func (m Orthotropic) Nu32() float64 { return m.Nu23 * m.E3 / m.E2 }

// StiffnessMatrix material defined directly by its 6x6 stiffness (Voigt order).
type StiffnessMatrix struct {
	Base
	Matrix Matrix6
}

func (m StiffnessMatrix) Kind() Kind      { return KindStiffnessMatrix }
func (m StiffnessMatrix) Common() Base    { return m.Base }
func (m StiffnessMatrix) Summary() string { return summary(m) }

// Spring material for connector elements.
type Spring struct {
	Base
	SpringConstant float64
}

func (m Spring) Kind() Kind      { return KindSpring }
func (m Spring) Common() Base    { return m.Base }
func (m Spring) Summary() string { return summary(m) }

func summary(m Material) string {
	return fmt.Sprintf("%s Material: %s", m.Kind(), m.Common().Name)
}

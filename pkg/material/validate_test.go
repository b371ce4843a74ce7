package material

import (
	"errors"
	"math"
	"testing"

	"github.com/aretw0/lama/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steelFields() Fields {
	return Fields{
		"name":    "Steel",
		"color":   "#B7410E",
		"density": 7850,
		"E":       210e9,
		"nu":      0.3,
	}
}

func compositeFields() Fields {
	return Fields{
		"name":    "CFRP",
		"density": 1600,
		"E1":      140e9, "E2": 10e9, "E3": 10e9,
		"nu12": 0.3, "nu13": 0.3, "nu23": 0.4,
		"G12": 5e9, "G13": 5e9, "G23": 3.5e9,
	}
}

func with(f Fields, key string, value any) Fields {
	out := Fields{}
	for k, v := range f {
		out[k] = v
	}
	if value == nil {
		delete(out, key)
	} else {
		out[key] = value
	}
	return out
}

func TestValidate_Isotropic(t *testing.T) {
	t.Run("Accepts Steel", func(t *testing.T) {
		m, err := Validate(domain.KindIsotropic, steelFields())
		require.NoError(t, err)

		iso, ok := m.(domain.Isotropic)
		require.True(t, ok)
		assert.Equal(t, "Steel", iso.Name)
		assert.Equal(t, 7850.0, iso.Density)
		assert.Equal(t, 210e9, iso.YoungModulus)
		assert.Equal(t, 0.3, iso.PoissonRatio)
		assert.Equal(t, domain.Color{R: 0xB7, G: 0x41, B: 0x0E}, iso.Color)
		assert.Zero(t, iso.Flags)
		assert.Equal(t, "Isotropic Material: Steel", iso.Summary())
	})

	t.Run("Accepts Numeric Strings", func(t *testing.T) {
		f := with(with(steelFields(), "E", "210e9"), "nu", "0.3")
		m, err := Validate(domain.KindIsotropic, f)
		require.NoError(t, err)
		assert.Equal(t, 210e9, m.(domain.Isotropic).YoungModulus)
	})

	cases := []struct {
		name  string
		key   string
		value any
	}{
		{"Zero Modulus", "E", 0.0},
		{"Negative Modulus", "E", -1.0},
		{"NaN Modulus", "E", math.NaN()},
		{"Poisson Upper Bound", "nu", 0.5},
		{"Poisson Lower Bound", "nu", -1.0},
		{"Poisson Above Bound", "nu", 0.7},
		{"Negative Density", "density", -1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(domain.KindIsotropic, with(steelFields(), tc.key, tc.value))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrOutOfRange)
		})
	}

	t.Run("Accepts Auxetic Poisson Ratio", func(t *testing.T) {
		_, err := Validate(domain.KindIsotropic, with(steelFields(), "nu", -0.5))
		assert.NoError(t, err)
	})

	t.Run("Reports Every Scalar Failure", func(t *testing.T) {
		f := Fields{"E": -1.0, "nu": 0.9}
		_, err := Validate(domain.KindIsotropic, f)
		require.Error(t, err)

		errs := domain.ValidationErrors(err)
		assert.Len(t, errs, 4) // name, density, E, nu
		assert.ErrorIs(t, err, domain.ErrMissingField)
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
	})

	t.Run("Malformed Number", func(t *testing.T) {
		_, err := Validate(domain.KindIsotropic, with(steelFields(), "E", "stiff"))
		assert.ErrorIs(t, err, domain.ErrMalformedField)
	})
}

func TestValidate_Common(t *testing.T) {
	t.Run("Missing Name", func(t *testing.T) {
		_, err := Validate(domain.KindIsotropic, with(steelFields(), "name", nil))
		assert.ErrorIs(t, err, domain.ErrMissingField)
	})

	t.Run("Blank Name", func(t *testing.T) {
		_, err := Validate(domain.KindIsotropic, with(steelFields(), "name", "   "))
		assert.ErrorIs(t, err, domain.ErrMissingField)
	})

	t.Run("Missing Density", func(t *testing.T) {
		_, err := Validate(domain.KindIsotropic, with(steelFields(), "density", nil))
		assert.ErrorIs(t, err, domain.ErrMissingField)
	})

	t.Run("Zero Density Is Flagged", func(t *testing.T) {
		m, err := Validate(domain.KindIsotropic, with(steelFields(), "density", 0))
		require.NoError(t, err)
		assert.True(t, m.Common().Flags.Has(domain.FlagZeroDensity))
		assert.Equal(t, []string{"zero-density"}, m.Common().Flags.Strings())
	})

	t.Run("Default Color Is Flagged", func(t *testing.T) {
		m, err := Validate(domain.KindIsotropic, with(steelFields(), "color", nil))
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultColor, m.Common().Color)
		assert.True(t, m.Common().Flags.Has(domain.FlagDefaultColor))
	})

	t.Run("Color Formats", func(t *testing.T) {
		want := domain.Color{R: 10, G: 20, B: 30}
		for _, c := range []any{"#0A141E", []any{10, 20, 30}, map[string]any{"r": 10, "g": 20, "b": 30}, map[string]any{"R": "10", "G": 20.0, "B": 30}} {
			m, err := Validate(domain.KindIsotropic, with(steelFields(), "color", c))
			require.NoError(t, err, "color %v", c)
			assert.Equal(t, want, m.Common().Color)
		}
	})

	t.Run("Bad Color", func(t *testing.T) {
		for _, c := range []any{
			"#XYZ",
			[]any{300, 0, 0},
			map[string]any{"r": 300, "g": 0, "b": 0},
			map[string]any{"r": 0, "g": -1, "b": 0},
			map[string]any{"r": 1, "g": 2},
			map[string]any{"r": 1, "g": 2, "b": 3, "a": 4},
		} {
			_, err := Validate(domain.KindIsotropic, with(steelFields(), "color", c))
			assert.ErrorIs(t, err, domain.ErrMalformedField, "color %v", c)
		}
	})

	t.Run("Unknown Kind", func(t *testing.T) {
		_, err := Validate(domain.Kind("Plastic"), steelFields())
		assert.ErrorIs(t, err, domain.ErrUnknownKind)
	})
}

func TestValidate_Orthotropic(t *testing.T) {
	t.Run("Accepts Composite", func(t *testing.T) {
		m, err := Validate(domain.KindOrthotropic, compositeFields())
		require.NoError(t, err)

		o := m.(domain.Orthotropic)
		assert.Equal(t, 140e9, o.E1)
		assert.Equal(t, 3.5e9, o.G23)
		assert.InDelta(t, 0.3*10.0/140.0, o.Nu21(), 1e-12)
	})

	t.Run("Non-Positive Moduli", func(t *testing.T) {
		for _, key := range []string{"E1", "E2", "E3", "G12", "G13", "G23"} {
			_, err := Validate(domain.KindOrthotropic, with(compositeFields(), key, 0.0))
			assert.ErrorIs(t, err, domain.ErrOutOfRange, key)
		}
	})

	t.Run("Missing Poisson Ratio", func(t *testing.T) {
		_, err := Validate(domain.KindOrthotropic, with(compositeFields(), "nu23", nil))
		assert.ErrorIs(t, err, domain.ErrMissingField)
	})

	t.Run("Consistent Minor Ratio", func(t *testing.T) {
		_, err := Validate(domain.KindOrthotropic, with(compositeFields(), "nu21", 0.3*10e9/140e9))
		assert.NoError(t, err)
	})

	t.Run("Reciprocity Violation", func(t *testing.T) {
		for _, key := range []string{"nu21", "nu31", "nu32"} {
			_, err := Validate(domain.KindOrthotropic, with(compositeFields(), key, 0.25))
			require.Error(t, err, key)
			assert.ErrorIs(t, err, domain.ErrReciprocityViolation, key)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, key, verr.Field)
		}
	})

	t.Run("Non-Physical Poisson Ratios", func(t *testing.T) {
		f := Fields{
			"name": "Bad", "density": 1000,
			"E1": 1e9, "E2": 1e9, "E3": 1e9,
			"nu12": 2.0, "nu13": 0.0, "nu23": 0.0,
			"G12": 1e9, "G13": 1e9, "G23": 1e9,
		}
		_, err := Validate(domain.KindOrthotropic, f)
		assert.ErrorIs(t, err, domain.ErrNonPhysical)
	})
}

func TestValidate_StiffnessMatrix(t *testing.T) {
	steel, err := Validate(domain.KindIsotropic, steelFields())
	require.NoError(t, err)
	tensor, err := Build(steel)
	require.NoError(t, err)

	fields := func(m domain.Matrix6) Fields {
		return Fields{"name": "Custom", "density": 7850, "matrix": m.Rows()}
	}

	t.Run("Accepts Positive-Definite Matrix", func(t *testing.T) {
		m, err := Validate(domain.KindStiffnessMatrix, fields(tensor.C))
		require.NoError(t, err)
		assert.Equal(t, tensor.C, m.(domain.StiffnessMatrix).Matrix)
	})

	t.Run("Accepts Tiny Round-Off", func(t *testing.T) {
		c := tensor.C
		c[0][1] *= 1 + 1e-12
		_, err := Validate(domain.KindStiffnessMatrix, fields(c))
		assert.NoError(t, err)
	})

	t.Run("Rejects Asymmetric Matrix", func(t *testing.T) {
		c := tensor.C
		c[0][1] += 1e3
		_, err := Validate(domain.KindStiffnessMatrix, fields(c))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAsymmetricMatrix)

		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "matrix[0][1]", verr.Field)
	})

	t.Run("Rejects Indefinite Matrix", func(t *testing.T) {
		var c domain.Matrix6
		for i := 0; i < 6; i++ {
			c[i][i] = 1
		}
		c[2][2] = -1
		_, err := Validate(domain.KindStiffnessMatrix, fields(c))
		assert.ErrorIs(t, err, domain.ErrNonPhysical)
	})

	t.Run("Rejects Wrong Shape", func(t *testing.T) {
		f := Fields{"name": "Custom", "density": 1, "matrix": [][]float64{{1, 0}, {0, 1}}}
		_, err := Validate(domain.KindStiffnessMatrix, f)
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
	})

	t.Run("Missing Matrix", func(t *testing.T) {
		_, err := Validate(domain.KindStiffnessMatrix, Fields{"name": "Custom", "density": 1})
		assert.ErrorIs(t, err, domain.ErrMissingField)
	})
}

func TestValidate_Spring(t *testing.T) {
	m, err := Validate(domain.KindSpring, Fields{"name": "Mount", "density": 0, "k": 2.5e5})
	require.NoError(t, err)
	assert.Equal(t, 2.5e5, m.(domain.Spring).SpringConstant)
	assert.True(t, m.Common().Flags.Has(domain.FlagZeroDensity))

	_, err = Validate(domain.KindSpring, Fields{"name": "Mount", "density": 0, "k": 0})
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
}

package material

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/aretw0/lama/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Fields carries the raw, user supplied inputs of a material definition,
// keyed by field name ("name", "density", "E", "nu12", "matrix", ...).
// Values may be numbers or numeric strings.
type Fields map[string]any

// Field keys.
const (
	FieldKind    = "kind"
	FieldName    = "name"
	FieldColor   = "color"
	FieldDensity = "density"
	FieldMatrix  = "matrix"
)

type commonInput struct {
	Name    *string       `mapstructure:"name"`
	Color   *domain.Color `mapstructure:"color"`
	Density *float64      `mapstructure:"density"`
}

type isotropicInput struct {
	commonInput `mapstructure:",squash"`
	E           *float64 `mapstructure:"E"`
	Nu          *float64 `mapstructure:"nu"`
}

type orthotropicInput struct {
	commonInput `mapstructure:",squash"`
	E1          *float64 `mapstructure:"E1"`
	E2          *float64 `mapstructure:"E2"`
	E3          *float64 `mapstructure:"E3"`
	Nu12        *float64 `mapstructure:"nu12"`
	Nu13        *float64 `mapstructure:"nu13"`
	Nu23        *float64 `mapstructure:"nu23"`
	Nu21        *float64 `mapstructure:"nu21"`
	Nu31        *float64 `mapstructure:"nu31"`
	Nu32        *float64 `mapstructure:"nu32"`
	G12         *float64 `mapstructure:"G12"`
	G13         *float64 `mapstructure:"G13"`
	G23         *float64 `mapstructure:"G23"`
}

type matrixInput struct {
	commonInput `mapstructure:",squash"`
	Matrix      *[][]float64 `mapstructure:"matrix"`
}

type springInput struct {
	commonInput `mapstructure:",squash"`
	K           *float64 `mapstructure:"k"`
}

// decode maps fields onto one of the *Input structs.
func decode(fields Fields, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       colorHook,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	if err := dec.Decode(map[string]any(fields)); err != nil {
		var errs []error
		if merr, ok := err.(*mapstructure.Error); ok {
			for _, msg := range merr.Errors {
				errs = append(errs, &domain.ValidationError{Code: domain.ErrMalformedField, Reason: msg})
			}
		} else {
			errs = append(errs, &domain.ValidationError{Code: domain.ErrMalformedField, Reason: err.Error()})
		}
		return &domain.AggregateError{Errors: errs}
	}
	return nil
}

var colorType = reflect.TypeOf(domain.Color{})

// colorHook accepts "#RRGGBB", [r, g, b] and {r, g, b} for Color fields.
func colorHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != colorType {
		return data, nil
	}

	switch v := data.(type) {
	case domain.Color:
		return v, nil
	case string:
		return ParseColor(v)
	case []any:
		if len(v) != 3 {
			return nil, fmt.Errorf("color needs 3 components, got %d", len(v))
		}
		var rgb [3]uint8
		for i, c := range v {
			n, err := channel(c)
			if err != nil {
				return nil, err
			}
			rgb[i] = n
		}
		return domain.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
	case []int:
		if len(v) != 3 {
			return nil, fmt.Errorf("color needs 3 components, got %d", len(v))
		}
		return colorHook(from, to, []any{v[0], v[1], v[2]})
	case map[string]any:
		return colorMap(v)
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, c := range v {
			m[fmt.Sprint(k)] = c
		}
		return colorMap(m)
	}
	return data, nil
}

// colorMap decodes {r, g, b} with the same range checks as the list form.
func colorMap(v map[string]any) (domain.Color, error) {
	var rgb [3]uint8
	seen := [3]bool{}
	for k, c := range v {
		i := strings.Index("rgb", strings.ToLower(k))
		if len(k) != 1 || i < 0 {
			return domain.Color{}, fmt.Errorf("unknown color component %q", k)
		}
		n, err := channel(c)
		if err != nil {
			return domain.Color{}, err
		}
		rgb[i], seen[i] = n, true
	}
	if seen != [3]bool{true, true, true} {
		return domain.Color{}, fmt.Errorf("color needs r, g and b components")
	}
	return domain.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

func channel(v any) (uint8, error) {
	var n int
	if err := mapstructure.WeakDecode(v, &n); err != nil {
		return 0, fmt.Errorf("invalid color component %v", v)
	}
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("color component %d outside 0..255", n)
	}
	return uint8(n), nil
}

// ParseColor parses a #RRGGBB (or RRGGBB) string.
func ParseColor(s string) (domain.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return domain.Color{}, fmt.Errorf("invalid color %q: want #RRGGBB", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return domain.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return domain.Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

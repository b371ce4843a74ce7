package material

// Options holds the numerical tolerances shared by the validator and the
// tensor builder.
type Options struct {
	// SymmetryTolerance bounds |C_ij - C_ji| relative to the largest entry.
	SymmetryTolerance float64 `yaml:"symmetry" json:"symmetry"`
	// ReciprocityTolerance bounds |nu_ij/Ei - nu_ji/Ej| relative to the larger term.
	ReciprocityTolerance float64 `yaml:"reciprocity" json:"reciprocity"`
	// MaxConditionNumber is the largest compliance condition number accepted for inversion.
	MaxConditionNumber float64 `yaml:"max_condition" json:"max_condition"`
}

// DefaultOptions returns the tolerances used when none are configured.
func DefaultOptions() Options {
	return Options{
		SymmetryTolerance:    1e-9,
		ReciprocityTolerance: 1e-6,
		MaxConditionNumber:   1e12,
	}
}

// Option configures a Validator or Builder.
type Option func(*Options)

// WithOptions replaces every tolerance at once. Zero fields keep their default.
func WithOptions(o Options) Option {
	return func(dst *Options) {
		if o.SymmetryTolerance > 0 {
			dst.SymmetryTolerance = o.SymmetryTolerance
		}
		if o.ReciprocityTolerance > 0 {
			dst.ReciprocityTolerance = o.ReciprocityTolerance
		}
		if o.MaxConditionNumber > 0 {
			dst.MaxConditionNumber = o.MaxConditionNumber
		}
	}
}

// WithSymmetryTolerance sets the relative tolerance for matrix symmetry.
func WithSymmetryTolerance(tol float64) Option {
	return func(o *Options) {
		o.SymmetryTolerance = tol
	}
}

// WithReciprocityTolerance sets the relative tolerance for the reciprocity relation.
func WithReciprocityTolerance(tol float64) Option {
	return func(o *Options) {
		o.ReciprocityTolerance = tol
	}
}

// WithMaxConditionNumber sets the inversion conditioning threshold.
func WithMaxConditionNumber(c float64) Option {
	return func(o *Options) {
		o.MaxConditionNumber = c
	}
}

func newOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

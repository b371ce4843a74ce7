package ports

import (
	"context"

	"github.com/aretw0/lama/pkg/domain"
)

// MaterialStore defines the interface for persisting validated materials by name.
type MaterialStore interface {
	// Save persists the material under its name, replacing any previous definition.
	Save(ctx context.Context, m domain.Material) error

	// Load retrieves a material by name.
	// Returns domain.ErrMaterialNotFound if it does not exist.
	Load(ctx context.Context, name string) (domain.Material, error)

	// Delete removes a material. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored names in ascending order.
	List(ctx context.Context) ([]string, error)
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/lama"
	"github.com/aretw0/lama/internal/presentation/tui"
	"github.com/aretw0/lama/pkg/domain"
)

// ErrInvalidLibrary is returned when at least one record fails validation.
var ErrInvalidLibrary = errors.New("library contains invalid materials")

// Validate checks every record of the library and prints a summary.
func Validate(ctx context.Context, app *App, path string) error {
	path, err := app.libraryPath(path)
	if err != nil {
		return err
	}
	report, err := app.Workbench().ReadLibrary(ctx, path)
	if err != nil {
		return err
	}

	rows := make([]tui.LibraryRow, 0, len(report.Entries))
	for _, e := range report.Entries {
		row := tui.LibraryRow{Index: e.Index, Name: e.Name, Err: e.Err}
		if e.Material != nil {
			row.Kind = e.Material.Kind().String()
		}
		rows = append(rows, row)
	}
	if err := app.Out.Markdown(tui.LibraryMarkdown(path, rows)); err != nil {
		return err
	}

	if err := report.Err(); err != nil {
		app.Logger.Debug("library rejected", "path", path, "err", err)
		return ErrInvalidLibrary
	}
	return nil
}

// TensorOptions selects materials and output format for Tensor.
type TensorOptions struct {
	Path  string
	Names []string
	JSON  bool
}

type tensorJSON struct {
	Name   string      `json:"name"`
	Kind   string      `json:"kind"`
	Matrix [][]float64 `json:"matrix"`
}

// Tensor prints the stiffness tensors of the selected library materials.
// Springs are skipped unless named explicitly, in which case they fail.
func Tensor(ctx context.Context, app *App, opts TensorOptions) error {
	wb := app.Workbench()
	materials, err := selectMaterials(ctx, app, opts.Path, opts.Names)
	if err != nil {
		return err
	}

	var out []tensorJSON
	for _, m := range materials {
		t, err := wb.Tensor(ctx, m)
		if errors.Is(err, domain.ErrNoTensor) && len(opts.Names) == 0 {
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", m.Common().Name, err)
		}
		if opts.JSON {
			out = append(out, tensorJSON{Name: m.Common().Name, Kind: m.Kind().String(), Matrix: t.C.Rows()})
			continue
		}
		md := fmt.Sprintf("## %s (GPa)\n\n%s\n", m.Common().Name, tui.TensorMarkdown(t.C, 1e9))
		if err := app.Out.Markdown(md); err != nil {
			return err
		}
	}

	if opts.JSON {
		enc := json.NewEncoder(app.Out.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return nil
}

// Describe prints a property report for the selected library materials.
func Describe(ctx context.Context, app *App, path string, names []string) error {
	wb := app.Workbench()
	materials, err := selectMaterials(ctx, app, path, names)
	if err != nil {
		return err
	}

	for _, m := range materials {
		var tensor *domain.StiffnessTensor
		if t, err := wb.Tensor(ctx, m); err == nil {
			tensor = &t
		} else if !errors.Is(err, domain.ErrNoTensor) {
			return fmt.Errorf("%s: %w", m.Common().Name, err)
		}
		app.Out.Status(true, "%s %s", app.Out.Swatch(m.Common().Color), m.Summary())
		if err := app.Out.Markdown(tui.MaterialMarkdown(m, tensor)); err != nil {
			return err
		}
	}
	return nil
}

// selectMaterials reads the library and returns the valid materials, or the
// named ones in the order given. Naming an invalid or absent material fails.
func selectMaterials(ctx context.Context, app *App, path string, names []string) ([]domain.Material, error) {
	path, err := app.libraryPath(path)
	if err != nil {
		return nil, err
	}
	report, err := app.Workbench().ReadLibrary(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		for _, e := range report.Entries {
			if e.Err != nil {
				app.Out.Status(false, "skipping materials[%d] %q: %v", e.Index, e.Name, e.Err)
			}
		}
		return report.Valid(), nil
	}

	out := make([]domain.Material, 0, len(names))
	for _, name := range names {
		e, ok := report.Find(name)
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, domain.ErrMaterialNotFound)
		}
		if e.Err != nil {
			return nil, fmt.Errorf("%q: %w", name, e.Err)
		}
		out = append(out, e.Material)
	}
	return out, nil
}

// Import loads the library into the configured store.
func Import(ctx context.Context, app *App, path string) error {
	path, err := app.libraryPath(path)
	if err != nil {
		return err
	}
	store, closeStore, err := newStore(ctx, app.Config)
	if err != nil {
		return err
	}
	defer closeStore()

	report, err := app.Workbench(lama.WithStore(store)).Import(ctx, path)
	if err != nil {
		return err
	}
	for _, e := range report.Entries {
		if e.Err != nil {
			app.Out.Status(false, "materials[%d] %q: %v", e.Index, e.Name, e.Err)
			continue
		}
		app.Out.Status(true, "%s stored", e.Name)
	}
	if report.Err() != nil {
		return ErrInvalidLibrary
	}
	return nil
}

// Export writes materials from the configured store to a library file.
func Export(ctx context.Context, app *App, path string, names []string) error {
	store, closeStore, err := newStore(ctx, app.Config)
	if err != nil {
		return err
	}
	defer closeStore()

	n, err := app.Workbench(lama.WithStore(store)).Export(ctx, path, names...)
	if err != nil {
		return err
	}
	app.Out.Status(true, "%d materials written to %s", n, path)
	return nil
}

package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/lama/pkg/domain"
)

// voigtLabels name the rows and columns of a 6x6 tensor.
var voigtLabels = [6]string{"11", "22", "33", "12", "13", "23"}

// LibraryRow is one line of a library summary.
type LibraryRow struct {
	Index int
	Name  string
	Kind  string
	Err   error
}

// LibraryMarkdown renders a validation summary table followed by the errors.
func LibraryMarkdown(path string, rows []LibraryRow) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Library `%s`\n\n", path)
	sb.WriteString("| # | Name | Kind | Status |\n|---|------|------|--------|\n")

	failed := 0
	for _, r := range rows {
		status := "valid"
		if r.Err != nil {
			status = "**invalid**"
			failed++
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", r.Index, cell(r.Name), cell(r.Kind), status)
	}
	fmt.Fprintf(&sb, "\n%d of %d materials valid.\n", len(rows)-failed, len(rows))

	if failed > 0 {
		sb.WriteString("\n## Errors\n")
		for _, r := range rows {
			if r.Err == nil {
				continue
			}
			fmt.Fprintf(&sb, "\n### %d. %s\n\n", r.Index, cell(r.Name))
			for _, e := range domain.ValidationErrors(r.Err) {
				fmt.Fprintf(&sb, "- %s\n", strings.TrimSpace(e.Error()))
			}
		}
	}
	return sb.String()
}

// MaterialMarkdown describes m and, when available, its stiffness tensor.
func MaterialMarkdown(m domain.Material, tensor *domain.StiffnessTensor) string {
	base := m.Common()
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", m.Summary())

	sb.WriteString("| Property | Value |\n|----------|-------|\n")
	row := func(k string, v any) { fmt.Fprintf(&sb, "| %s | %v |\n", k, v) }
	row("Color", base.Color.Hex())
	row("Density", base.Density)

	switch mm := m.(type) {
	case domain.Isotropic:
		row("E", mm.YoungModulus)
		row("ν", mm.PoissonRatio)
	case domain.Orthotropic:
		row("E1", mm.E1)
		row("E2", mm.E2)
		row("E3", mm.E3)
		row("ν12", mm.Nu12)
		row("ν13", mm.Nu13)
		row("ν23", mm.Nu23)
		row("G12", mm.G12)
		row("G13", mm.G13)
		row("G23", mm.G23)
	case domain.Spring:
		row("k", mm.SpringConstant)
	}

	if flags := base.Flags.Strings(); len(flags) > 0 {
		fmt.Fprintf(&sb, "\n> Flags: %s\n", strings.Join(flags, ", "))
	}

	if tensor != nil {
		sb.WriteString("\n## Stiffness tensor (GPa)\n\n")
		sb.WriteString(TensorMarkdown(tensor.C, 1e9))
	}
	return sb.String()
}

// TensorMarkdown renders c as a table with every entry divided by scale.
func TensorMarkdown(c domain.Matrix6, scale float64) string {
	var sb strings.Builder
	sb.WriteString("|    |")
	for _, l := range voigtLabels {
		fmt.Fprintf(&sb, " %s |", l)
	}
	sb.WriteString("\n|----|")
	sb.WriteString(strings.Repeat("---:|", 6))
	sb.WriteString("\n")
	for i, l := range voigtLabels {
		fmt.Fprintf(&sb, "| **%s** |", l)
		for j := range 6 {
			fmt.Fprintf(&sb, " %.4g |", c[i][j]/scale)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func cell(s string) string {
	if s == "" {
		return "—"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

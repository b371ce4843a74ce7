package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/lama/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Output writes CLI results, styled when attached to a terminal and plain
// otherwise (pipes, files, tests).
type Output struct {
	w       io.Writer
	profile termenv.Profile
	render  func(string) (string, error)
}

// NewOutput inspects w and enables styling only for terminals.
func NewOutput(w io.Writer) *Output {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &Output{w: w, profile: termenv.NewOutput(f).Profile, render: NewRenderer()}
	}
	return NewPlainOutput(w)
}

// NewPlainOutput never styles.
func NewPlainOutput(w io.Writer) *Output {
	return &Output{w: w, profile: termenv.Ascii}
}

// Writer returns the underlying writer.
func (o *Output) Writer() io.Writer {
	return o.w
}

// Styled reports whether escape sequences are emitted.
func (o *Output) Styled() bool {
	return o.profile != termenv.Ascii
}

// Markdown renders md through glamour when styled, raw otherwise.
func (o *Output) Markdown(md string) error {
	if o.render != nil {
		out, err := o.render(md)
		if err == nil {
			md = out
		}
	}
	_, err := io.WriteString(o.w, md)
	return err
}

// Swatch returns a two-cell block painted with c, or its hex code when plain.
func (o *Output) Swatch(c domain.Color) string {
	if !o.Styled() {
		return c.Hex()
	}
	return termenv.String("  ").Background(o.profile.Color(c.Hex())).String() + " " + c.Hex()
}

// Status prints a pass/fail line.
func (o *Output) Status(ok bool, format string, args ...any) {
	mark, color := "✔", "#4ade80"
	if !ok {
		mark, color = "✘", "#f87171"
	}
	msg := fmt.Sprintf(format, args...)
	if o.Styled() {
		mark = termenv.String(mark).Foreground(o.profile.Color(color)).Bold().String()
	}
	fmt.Fprintf(o.w, "%s %s\n", mark, msg)
}

// Printf writes unstyled text.
func (o *Output) Printf(format string, args ...any) {
	fmt.Fprintf(o.w, format, args...)
}

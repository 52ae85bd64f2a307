package driver

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"lox/interpreter-go/pkg/diagnostics"
)

// ColorMode selects whether diagnostics are colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether the mode is recognised.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// ParseColorMode accepts auto, always, or never. The empty string means auto.
func ParseColorMode(s string) (ColorMode, error) {
	if s == "" {
		return ColorAuto, nil
	}
	mode := ColorMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("unsupported color mode %q (want auto, always, or never)", s)
	}
	return mode, nil
}

// Renderer prints diagnostics as "[line N] Error<where>: <message>". With
// color enabled the Error tag is red and the location is yellow; the text is
// otherwise identical.
type Renderer struct {
	out      io.Writer
	errorTag *color.Color
	location *color.Color
}

// NewRenderer writes to out. ColorAuto colors only when out is a terminal
// and neither NO_COLOR nor TERM=dumb is set.
func NewRenderer(out io.Writer, mode ColorMode) *Renderer {
	r := &Renderer{
		out:      out,
		errorTag: color.New(color.FgRed, color.Bold),
		location: color.New(color.FgYellow),
	}
	if mode == ColorAlways || (mode != ColorNever && autoColor(out)) {
		r.errorTag.EnableColor()
		r.location.EnableColor()
	} else {
		r.errorTag.DisableColor()
		r.location.DisableColor()
	}
	return r
}

func autoColor(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render writes one diagnostic followed by a newline.
func (r *Renderer) Render(d diagnostics.Diagnostic) {
	where := d.Where
	if where != "" {
		where = r.location.Sprint(where)
	}
	fmt.Fprintf(r.out, "%s %s%s: %s\n",
		r.location.Sprintf("[line %d]", d.Line),
		r.errorTag.Sprint("Error"),
		where,
		d.Message,
	)
}

// RenderAll writes every diagnostic in order.
func (r *Renderer) RenderAll(diags []diagnostics.Diagnostic) {
	for _, d := range diags {
		r.Render(d)
	}
}

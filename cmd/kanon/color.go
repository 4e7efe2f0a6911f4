package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type palette struct {
	pass func(format string, a ...any) string
	fail func(format string, a ...any) string
	dim  func(format string, a ...any) string
}

// newPalette colors output for terminals. mode "auto" colors only when w is
// a terminal.
func newPalette(w io.Writer, mode string) (palette, error) {
	on := false
	switch mode {
	case "always":
		on = true
	case "never":
	case "auto", "":
		if f, ok := w.(*os.File); ok {
			on = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	default:
		return palette{}, fmt.Errorf("invalid --color %q (want auto, always or never)", mode)
	}
	if !on {
		return palette{pass: fmt.Sprintf, fail: fmt.Sprintf, dim: fmt.Sprintf}, nil
	}
	return palette{
		pass: colored(color.FgGreen),
		fail: colored(color.FgRed, color.Bold),
		dim:  colored(color.Faint),
	}, nil
}

func colored(attrs ...color.Attribute) func(string, ...any) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.SprintfFunc()
}

package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
)

var (
	headingStyle = color.Style{color.FgYellow, color.OpBold}
	labelStyle   = color.Style{color.FgCyan, color.OpBold}
)

// List prints every registered genome and batch.
func (a *App) List(w io.Writer) error {
	genomes, batches := a.registry.List()

	if _, err := fmt.Fprintln(w, headingStyle.Sprint("Genomes")); err != nil {
		return err
	}
	for _, g := range genomes {
		line := fmt.Sprintf("    %s: %s", labelStyle.Sprint(g.Label), g.Species)
		if g.Common != "" {
			line += fmt.Sprintf(" (%s)", g.Common)
		}
		if !a.registry.IsBuiltin(g.Label) {
			line += " " + color.Gray.Sprint("["+g.Origin+"]")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, headingStyle.Sprint("Batches")); err != nil {
		return err
	}
	for _, b := range batches {
		line := fmt.Sprintf("    %s: %s", labelStyle.Sprint(b.Label), strings.Join(b.Genomes, ","))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the storyviz name and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	name := out.String("storyviz").Foreground(out.Color("#818cf8")).Bold()
	ver := out.String(version).Foreground(out.Color("#c084fc"))
	fmt.Fprintf(w, "%s %s\n", name, ver)
}

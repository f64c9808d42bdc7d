package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the startup banner with the node role and version.
func PrintBanner(w io.Writer, role, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	title := out.String(" layerdisplay ").Foreground(p.Color("#818cf8")).Bold()
	detail := out.String(fmt.Sprintf("%s · v%s", role, version)).Foreground(p.Color("#c084fc"))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", title, detail)
	fmt.Fprintln(w)
}

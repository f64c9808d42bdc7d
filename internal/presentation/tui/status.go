package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/ports"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Label returns the text shown for a layer: its configured name, or
// "Layer <n>" when the layer has none.
func Label(namer ports.LayerNamer, l domain.Layer) string {
	if namer != nil {
		if name := namer.Name(l); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Layer %d", l)
}

// StatusLine paints the current layer on a single terminal line.
// On a non-terminal writer it prints one plain line per change instead.
type StatusLine struct {
	mu     sync.Mutex
	out    *termenv.Output
	namer  ports.LayerNamer
	tty    bool
	last   string
	drawn  bool
	accent termenv.Color
}

// NewStatusLine creates a status line writing to w.
func NewStatusLine(w io.Writer, namer ports.LayerNamer) *StatusLine {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}

	var out *termenv.Output
	if tty {
		out = termenv.NewOutput(w)
		out = termenv.NewOutput(w, termenv.WithProfile(out.EnvColorProfile()))
	} else {
		out = termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}

	return &StatusLine{
		out:    out,
		namer:  namer,
		tty:    tty,
		accent: out.Color("#a78bfa"),
	}
}

// Render draws the layer. Terminals are always repainted; plain writers
// only receive a line when the label changes.
func (s *StatusLine) Render(l domain.Layer) {
	label := Label(s.namer, l)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tty {
		if s.drawn && label == s.last {
			return
		}
		fmt.Fprintf(s.out, "layer: %s\n", label)
		s.last, s.drawn = label, true
		return
	}

	s.out.ClearLine()
	fmt.Fprintf(s.out, "\r%s %s",
		s.out.String("layer").Faint(),
		s.out.String(label).Foreground(s.accent).Bold(),
	)
	s.last, s.drawn = label, true
}

// Run repaints the layer returned by get every interval until ctx is done.
func (s *StatusLine) Run(ctx context.Context, interval time.Duration, get func() domain.Layer) {
	s.Render(get())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.finish()
			return
		case <-ticker.C:
			s.Render(get())
		}
	}
}

func (s *StatusLine) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tty && s.drawn {
		fmt.Fprintln(s.out)
	}
}

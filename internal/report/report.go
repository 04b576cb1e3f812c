// Package report prints styled render progress and file summaries.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/Danondso/furnace/internal/inspect"
)

// Printer writes one styled line per event to w.
type Printer struct {
	w  io.Writer
	st styles
}

// New creates a Printer using the given theme.
func New(w io.Writer, theme Theme) *Printer {
	return &Printer{w: w, st: newStyles(theme)}
}

// Generating announces a render before it starts.
func (p *Printer) Generating(name string, durationSec float64, path string) {
	fmt.Fprintf(p.w, "Generating %s %s to %s...\n",
		p.st.title.Render(name),
		p.st.dimmed.Render(fmt.Sprintf("(%gs)", durationSec)),
		p.st.value.Render(path))
}

// Done reports a completed render.
func (p *Printer) Done(name string, samples, sampleRate int, seed uint64, elapsed time.Duration) {
	fmt.Fprintf(p.w, "%s %s %s %s %s\n",
		p.st.title.Render("Done!"),
		p.field("pipeline", name),
		p.field("samples", fmt.Sprintf("%d @ %d Hz", samples, sampleRate)),
		p.field("seed", fmt.Sprintf("%d", seed)),
		p.st.dimmed.Render(elapsed.Round(time.Millisecond).String()))
}

// Failed reports an error for the named pipeline or file.
func (p *Printer) Failed(name string, err error) {
	fmt.Fprintf(p.w, "%s %s: %v\n", p.st.err.Render("Failed"), name, err)
}

// Stats prints an inspect summary for path.
func (p *Printer) Stats(path string, s inspect.Stats) {
	hot := fmt.Sprintf("%d", s.Hot)
	if s.Hot > 0 {
		hot = p.st.warning.Render(hot)
	} else {
		hot = p.st.value.Render(hot)
	}
	fmt.Fprintf(p.w, "%s\n  %s %s %s\n  %s %s %s %s: %s\n",
		p.st.title.Render(path),
		p.field("format", fmt.Sprintf("%d Hz, %d ch, %d-bit", s.SampleRate, s.Channels, s.Precision*8)),
		p.field("frames", fmt.Sprintf("%d", s.Frames)),
		p.field("duration", s.Duration.String()),
		p.field("peak", fmt.Sprintf("%.4f", s.Peak)),
		p.field("rms", fmt.Sprintf("%.4f", s.RMS)),
		p.field("dbfs", fmt.Sprintf("%.1f", dBFS(s.Peak))),
		p.st.label.Render("hot"),
		hot)
}

func (p *Printer) field(label, value string) string {
	return p.st.label.Render(label+":") + " " + p.st.value.Render(value)
}

func dBFS(peak float64) float64 {
	if peak <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(peak)
}

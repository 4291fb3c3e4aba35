package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"
)

const barWidth = 28

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

// Progress renders a single-line download progress bar. Updates are
// throttled so a chatty byte callback cannot flood the terminal; the
// final state is always drawn by Finish.
type Progress struct {
	out     io.Writer
	label   string
	limiter *rate.Limiter
	started bool
}

// NewProgress returns a bar labeled with the file being fetched.
func NewProgress(out io.Writer, label string) *Progress {
	return &Progress{
		out:     out,
		label:   label,
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1), // 10 redraws/s
	}
}

// Update redraws the bar. Safe to call on every chunk.
func (p *Progress) Update(done, total int64) {
	if !p.limiter.Allow() {
		return
	}
	p.draw(done, total)
}

// Finish draws the final state and terminates the line.
func (p *Progress) Finish(done, total int64) {
	p.draw(done, total)
	if p.started {
		fmt.Fprintln(p.out)
	}
}

func (p *Progress) draw(done, total int64) {
	p.started = true
	if total <= 0 {
		fmt.Fprintf(p.out, "\r%s  %s", p.label, formatBytes(done))
		return
	}
	frac := float64(done) / float64(total)
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * barWidth)
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)
	fmt.Fprintf(p.out, "\r%s  [%s] %3.0f%% %s/%s",
		p.label,
		barStyle.Render(bar),
		frac*100,
		formatBytes(done),
		formatBytes(total),
	)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const clearLine = "\r\x1b[2K"

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	groupStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle = lipgloss.NewStyle().Faint(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// consoleProgress draws a progress bar on one terminal line and prints tool
// output above it.
type consoleProgress struct {
	w     io.Writer
	label string
	bar   progress.Model
	pct   int
	drawn bool
	quiet bool
}

func newConsoleProgress(w io.Writer, label string, quiet bool) *consoleProgress {
	return &consoleProgress{
		w:     w,
		label: label,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		quiet: quiet,
	}
}

func (c *consoleProgress) SetPercentage(pct int) {
	c.pct = pct
	c.draw()
}

// Info prints a line of tool output. Quiet mode drops it.
func (c *consoleProgress) Info(line string) {
	if c.quiet {
		return
	}
	if c.drawn {
		fmt.Fprint(c.w, clearLine)
	}
	fmt.Fprintln(c.w, mutedStyle.Render(line))
	if c.drawn {
		c.draw()
	}
}

// Done ends the progress line.
func (c *consoleProgress) Done() {
	if c.drawn {
		fmt.Fprintln(c.w)
		c.drawn = false
	}
}

func (c *consoleProgress) draw() {
	fmt.Fprintf(c.w, "%s%s %s", clearLine, titleStyle.Render(c.label), c.bar.ViewAs(float64(c.pct)/100))
	c.drawn = true
}

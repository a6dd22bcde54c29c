package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/gogpu/portal"
)

var (
	styleLabel = color.Style{color.FgGray}
	styleValue = color.Style{color.FgCyan, color.OpBold}
	styleTree  = color.Style{color.FgMagenta}
	styleWarn  = color.Style{color.FgYellow}
)

// printStats writes a summary of the last frame. Colour is only used when
// stdout is a terminal.
func printStats(w io.Writer, stats portal.FrameStats, reg *portal.Registry, output string) {
	color.Enable = term.IsTerminal(int(os.Stdout.Fd()))

	width := 60
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
		width = min(tw, 100)
	}

	line := func(label string, value any) {
		fmt.Fprintf(w, "%s %s\n", styleLabel.Sprintf("%-10s", label), styleValue.Sprint(value))
	}
	fmt.Fprintln(w, styleLabel.Sprint(strings.Repeat("─", width)))
	line("output", output)
	line("portals", len(reg.Active()))
	line("steps", stats.Steps)
	line("deepest", stats.Deepest)
	if stats.Truncated > 0 {
		fmt.Fprintf(w, "%s %s\n", styleLabel.Sprintf("%-10s", "truncated"), styleWarn.Sprint(stats.Truncated))
	}
	if len(stats.TopLevel) > 0 {
		line("visible", strings.Join(stats.TopLevel, ", "))
	}
	for _, rec := range stats.Records {
		fmt.Fprintf(w, "  %s %s\n", styleLabel.Sprintf("#%-2d d%d", rec.Index, rec.Depth), styleTree.Sprint(rec.Tree))
	}
	fmt.Fprintln(w, styleLabel.Sprint(strings.Repeat("─", width)))
}

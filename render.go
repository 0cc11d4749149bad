package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// histogramBar renders count as a bar scaled so maxCount fills width cells.
// Any nonzero count gets at least one cell.
func histogramBar(count, maxCount, width int) string {
	if count <= 0 || maxCount <= 0 || width <= 0 {
		return ""
	}
	n := count * width / maxCount
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// renderEditorPanel renders the program editor.
func (m Model) renderEditorPanel(width, height int) string {
	var sb strings.Builder

	title := "Program"
	if m.path != "" {
		title += " · " + m.path
	}
	if m.focus == focusEditor {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.editor.View())

	return editorStyle.Width(width).Height(height).Render(sb.String())
}

// renderResultsPanel renders run settings and the histogram of the last run.
func (m Model) renderResultsPanel(width, height int) string {
	var sb strings.Builder

	title := "Results"
	if m.focus == focusResults {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")

	seed := "random"
	if m.seed != 0 {
		seed = fmt.Sprintf("%d", m.seed)
	}
	sb.WriteString(dimStyle.Render(printer.Sprintf("shots %d  seed %s", m.shots, seed)))
	sb.WriteString("\n\n")

	switch {
	case m.running:
		sb.WriteString(activeStyle.Render("running…"))
	case m.last == nil:
		sb.WriteString(dimStyle.Render("No run yet. ^R runs the program."))
	default:
		sb.WriteString(m.renderHistogram(width - 4))
	}

	return resultsStyle.Width(width).Height(height).Render(sb.String())
}

// renderHistogram lists every outcome of the last run with a count and a bar.
// Outcomes are always shown for registers small enough to fit; larger ones
// show only observed outcomes, up to maxBarRows.
func (m Model) renderHistogram(width int) string {
	res := m.last.Result
	var sb strings.Builder

	sb.WriteString(dimStyle.Render(fmt.Sprintf("%d qubits, seed %d", res.QubitCount, res.Seed)))
	sb.WriteString("\n")

	maxCount := 0
	for _, c := range res.Histogram {
		maxCount = max(maxCount, c)
	}
	lw := max(labelW, res.QubitCount)
	barW := max(width-lw-countW-4, 1)
	showAll := len(res.Histogram) <= maxBarRows

	rows := 0
	for _, o := range res.Outcomes() {
		if o.Count == 0 && !showAll {
			continue
		}
		if rows == maxBarRows {
			sb.WriteString(dimStyle.Render("…"))
			sb.WriteString("\n")
			break
		}
		sb.WriteString(outcomeLabelStyle.Render(fmt.Sprintf("%-*s", lw, o.Label)))
		fmt.Fprintf(&sb, " %*s ", countW, printer.Sprintf("%d", o.Count))
		sb.WriteString(barStyle.Render(histogramBar(o.Count, maxCount, barW)))
		sb.WriteString("\n")
		rows++
	}

	if len(res.Log) > 0 {
		sb.WriteString("\n")
		// Print output repeats once per shot; only the first shot's lines are shown.
		perShot := len(res.Log) / max(res.Shots, 1)
		for _, line := range res.Log[:perShot] {
			sb.WriteString(logStyle.Render("> " + line))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderControlsPanel renders the bottom help bar and the status line.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeStyle.Render("Editor:  "))
	sb.WriteString("^R Run  ^N Insert  ^S Save  ^E Export QASM  Tab Results")
	sb.WriteString("\n")
	sb.WriteString(activeStyle.Render("Results: "))
	sb.WriteString("r Run  +/- Shots  s Reseed  0 Random seed  a Insert  Tab Editor  q/^C Quit")
	sb.WriteString("\n")

	switch {
	case m.statusErr:
		sb.WriteString(errorStyle.Render(m.statusMsg))
	case m.statusMsg != "":
		sb.WriteString(dimStyle.Render(m.statusMsg))
	}

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	for i, ovLine := range strings.Split(overlay, "\n") {
		row := y + i
		if row < 0 || row >= len(bgLines) {
			continue
		}
		bgLines[row] = spliceLineAt(bgLines[row], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces the visible columns of bgLine starting at x with
// overlay. Background styling on either side of the overlay is kept.
func spliceLineAt(bgLine, overlay string, x int) string {
	left := ansi.Truncate(bgLine, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	right := ansi.TruncateLeft(bgLine, x+ansi.StringWidth(overlay), "")
	return left + overlay + right
}

// visibleLen returns the number of terminal cells s occupies.
func visibleLen(s string) int {
	return ansi.StringWidth(s)
}

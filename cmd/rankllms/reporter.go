package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rankllms/rankllms/internal/analyzer"
	"github.com/rankllms/rankllms/internal/elo"
	"github.com/rankllms/rankllms/internal/focus"
	"golang.org/x/term"
)

const fallbackTerminalWidth = 100

// terminalWidth returns the current terminal width, or a fallback when
// stdout is not a terminal.
func terminalWidth() int {
	f := os.Stdout
	if !term.IsTerminal(int(f.Fd())) {
		return fallbackTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallbackTerminalWidth
	}
	return width
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// modelColumnWidth sizes the model column: wide enough for the longest name,
// capped so the table stays inside the terminal.
func modelColumnWidth(names []string, reserved int) int {
	width := len("Model")
	for _, name := range names {
		if w := runewidth.StringWidth(name); w > width {
			width = w
		}
	}
	if max := terminalWidth() - reserved; width > max && max > len("Model") {
		width = max
	}
	return width
}

func printRatingTable(w io.Writer, title string, rankings []elo.ModelRating) {
	names := make([]string, len(rankings))
	for i, r := range rankings {
		names[i] = r.Model
	}
	nameWidth := modelColumnWidth(names, 20)

	fmt.Fprintf(w, "%s\n\n", title)
	fmt.Fprintf(w, "%s  %s  %s\n", padRight("Rank", 4), padRight("Model", nameWidth), "ELO Rating")
	for i, r := range rankings {
		fmt.Fprintf(w, "%s  %s  %.0f\n",
			padRight(fmt.Sprintf("%d", i+1), 4),
			padRight(truncateName(r.Model, nameWidth), nameWidth),
			r.Rating)
	}
	fmt.Fprintln(w)
}

// scoreRow is one line of a generic model/score table.
type scoreRow struct {
	Model string
	Score float64
}

func printScoreTable(w io.Writer, title, scoreHeader, scoreFormat string, rows []scoreRow) {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Model
	}
	nameWidth := modelColumnWidth(names, 20)

	fmt.Fprintf(w, "%s\n\n", title)
	fmt.Fprintf(w, "%s  %s  %s\n", padRight("Rank", 4), padRight("Model", nameWidth), scoreHeader)
	for i, r := range rows {
		fmt.Fprintf(w, "%s  %s  %s\n",
			padRight(fmt.Sprintf("%d", i+1), 4),
			padRight(truncateName(r.Model, nameWidth), nameWidth),
			fmt.Sprintf(scoreFormat, r.Score))
	}
	fmt.Fprintln(w)
}

func printFocusTable(w io.Writer, focusModel string, entries []focus.Entry) {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Model
	}
	nameWidth := modelColumnWidth(names, 32)

	fmt.Fprintf(w, "Win ratios relative to %s\n\n", focusModel)
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		padRight("Rank", 4), padRight("Model", nameWidth), padRight("Win Ratio", 10), "Type")
	for i, e := range entries {
		ratio := "∞"
		if !math.IsInf(e.Ratio, 1) {
			ratio = fmt.Sprintf("%.2f", e.Ratio)
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			padRight(fmt.Sprintf("%d", i+1), 4),
			padRight(truncateName(e.Model, nameWidth), nameWidth),
			padRight(ratio, 10),
			e.Kind)
	}
	fmt.Fprintln(w)
}

func printSuggestions(w io.Writer, suggestions []analyzer.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No additional comparisons needed. Coverage looks good.")
		return
	}

	fmt.Fprintf(w, "Suggested comparisons (highest priority first)\n\n")
	for i, s := range suggestions {
		fmt.Fprintf(w, "%d. [P%d] %s vs %s: %s\n", i+1, s.Priority, s.ModelA, s.ModelB, s.Reason)
		detail := fmt.Sprintf("   promptset %s", s.Promptset)
		if s.Category != "" {
			detail += fmt.Sprintf(", category %q", s.Category)
		}
		fmt.Fprintln(w, detail)
	}
	fmt.Fprintln(w)
}

func printModelSummary(w io.Writer, summary analyzer.Summary) {
	fmt.Fprintf(w, "Models: %d, total comparisons: %d\n\n", summary.TotalModels, summary.TotalComparisons)

	names := make([]string, len(summary.ModelCounts))
	for i, mc := range summary.ModelCounts {
		names[i] = mc.Model
	}
	nameWidth := modelColumnWidth(names, 32)

	fmt.Fprintf(w, "%s  %s  %s\n", padRight("Model", nameWidth), padRight("Comparisons", 11), "ELO")
	for _, mc := range summary.ModelCounts {
		rating := "-"
		if summary.Ratings != nil {
			if r, ok := summary.Ratings[mc.Model]; ok {
				rating = fmt.Sprintf("%.0f", r)
			}
		}
		fmt.Fprintf(w, "%s  %s  %s\n",
			padRight(truncateName(mc.Model, nameWidth), nameWidth),
			padRight(fmt.Sprintf("%d", mc.Count), 11),
			rating)
	}
	fmt.Fprintln(w)
}

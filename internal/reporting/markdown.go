// Package reporting renders estimator output as markdown: the ELO
// leaderboard, Bradley-Terry probability matrix, direct comparison report,
// focus ranking report, and the analyzer's suggestion list.
package reporting

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rankllms/rankllms/internal/analyzer"
	"github.com/rankllms/rankllms/internal/bradleyterry"
	"github.com/rankllms/rankllms/internal/direct"
	"github.com/rankllms/rankllms/internal/elo"
	"github.com/rankllms/rankllms/internal/focus"
)

// Leaderboard renders the overall and per-category ELO rankings.
func Leaderboard(store *elo.RatingStore) string {
	return leaderboardAt(store, time.Now())
}

func leaderboardAt(store *elo.RatingStore, now time.Time) string {
	var b strings.Builder
	b.WriteString("# LLM Model Leaderboard\n\n")
	fmt.Fprintf(&b, "Generated on: %s\n\n", now.Format(time.DateTime))

	b.WriteString("## Overall Rankings\n\n")
	writeRatingTable(&b, store.Rankings())

	for _, category := range store.Categories() {
		fmt.Fprintf(&b, "\n## %s Rankings\n\n", category)
		writeRatingTable(&b, store.CategoryRankings(category))
	}
	return b.String()
}

func writeRatingTable(b *strings.Builder, rankings []elo.ModelRating) {
	b.WriteString("| Rank | Model | ELO Rating |\n")
	b.WriteString("|------|-------|------------|\n")
	for i, r := range rankings {
		fmt.Fprintf(b, "| %d | %s | %.0f |\n", i+1, r.Model, r.Rating)
	}
}

// BradleyTerryReport renders the fitted win-probability matrix and the
// strength parameters, both in ranking order.
func BradleyTerryReport(m *bradleyterry.Model) (string, error) {
	matrix, err := m.ProbabilityMatrix()
	if err != nil {
		return "", err
	}
	rankings, err := m.Rankings()
	if err != nil {
		return "", err
	}

	ranked := make([]string, len(rankings))
	for i, s := range rankings {
		ranked[i] = s.Model
	}
	index := map[string]int{}
	for i, model := range matrix.Models {
		index[model] = i
	}

	var b strings.Builder
	b.WriteString("# Bradley-Terry Model Win Probability Matrix\n\n")
	b.WriteString("Estimated probability of row model beating column model:\n\n")
	writeMatrixHeader(&b, ranked)
	for _, row := range ranked {
		fmt.Fprintf(&b, "| **%s** |", row)
		for _, col := range ranked {
			if row == col {
				b.WriteString(" - |")
				continue
			}
			fmt.Fprintf(&b, " %.3f |", matrix.P[index[row]][index[col]])
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Model Strength Parameters\n\n")
	b.WriteString("| Rank | Model | Strength |\n")
	b.WriteString("|------|-------|----------|\n")
	for i, s := range rankings {
		fmt.Fprintf(&b, "| %d | %s | %.2f |\n", i+1, s.Model, s.Strength*100)
	}
	return b.String(), nil
}

// DirectReport renders the empirical rankings, the head-to-head win
// probability matrix (N/A where no data exists), and per-pair detail lines.
func DirectReport(r *direct.Ranking) (string, error) {
	rankings, err := r.Rankings()
	if err != nil {
		return "", err
	}

	ranked := make([]string, len(rankings))
	for i, s := range rankings {
		ranked[i] = s.Model
	}

	var b strings.Builder
	b.WriteString("# Direct Comparison Results\n\n")
	b.WriteString("## Overall Rankings\n\n")
	b.WriteString("| Rank | Model | Average Win Rate |\n")
	b.WriteString("|------|-------|----------------|\n")
	for i, s := range rankings {
		fmt.Fprintf(&b, "| %d | %s | %.3f |\n", i+1, s.Model, s.Score)
	}

	b.WriteString("\n## Win Probability Matrix\n\n")
	b.WriteString("Probability of row model beating column model (based on head-to-head results):\n\n")
	writeMatrixHeader(&b, ranked)
	for _, row := range ranked {
		fmt.Fprintf(&b, "| **%s** |", row)
		for _, col := range ranked {
			if row == col {
				b.WriteString(" - |")
				continue
			}
			if p, ok := r.WinProbability(row, col); ok && !math.IsNaN(p) {
				fmt.Fprintf(&b, " %.3f |", p)
			} else {
				b.WriteString(" N/A |")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Detailed Head-to-Head Results\n\n")
	matrix := r.Matrix()
	for i, modelA := range ranked {
		for _, modelB := range ranked[i+1:] {
			ia, _ := matrix.Index(modelA)
			ib, _ := matrix.Index(modelB)
			total := matrix.Matches[ia][ib]
			if total == 0 {
				continue
			}
			winsA := matrix.Wins[ia][ib]
			winsB := matrix.Wins[ib][ia]
			ties := total - winsA - winsB

			rateA := (float64(winsA) + 0.5*float64(ties)) / float64(total)
			rateB := (float64(winsB) + 0.5*float64(ties)) / float64(total)

			fmt.Fprintf(&b, "### %s vs %s\n\n", modelA, modelB)
			fmt.Fprintf(&b, "- **Overall**: %s wins %d/%d (%.1f%%), %s wins %d/%d (%.1f%%), Ties %d/%d (%.1f%%)\n\n",
				modelA, winsA, total, rateA*100,
				modelB, winsB, total, rateB*100,
				ties, total, float64(ties)/float64(total)*100)
		}
	}
	return b.String(), nil
}

// MissingComparisons renders the comparisons still needed for a complete
// direct ranking.
func MissingComparisons(r *direct.Ranking, promptset string) string {
	var b strings.Builder
	b.WriteString("# Missing Comparisons\n\n")
	b.WriteString("The following comparisons are needed for a complete analysis:\n\n")
	for i, req := range r.MissingComparisonRequests(promptset) {
		fmt.Fprintf(&b, "%d. Compare **%s** with **%s** on the `%s` promptset\n",
			i+1, req.ModelA, req.ModelB, req.Promptset)
	}
	return b.String()
}

// FocusReport renders the win-ratio ranking around the focus model along
// with the direct comparison evidence behind it.
func FocusReport(r *focus.Ranking, ratios map[string]float64, promptset string, maxDepth int) string {
	focusModel := r.FocusModel()

	var b strings.Builder
	fmt.Fprintf(&b, "# Focus-Based Model Rankings: %s\n\n", focusModel)
	fmt.Fprintf(&b, "This ranking is based on win ratios against the focus model '%s' using the '%s' promptset.\n",
		focusModel, promptset)
	if maxDepth > 1 {
		fmt.Fprintf(&b, "Transitive relationships up to depth %d are included.\n\n", maxDepth)
	} else {
		b.WriteString("Only direct comparisons are included.\n\n")
	}

	b.WriteString("## Model Rankings\n\n")
	b.WriteString("| Rank | Model | Win Ratio | Comparison Type |\n")
	b.WriteString("|------|-------|-----------|----------------|\n")
	for i, entry := range r.RankingTable(ratios) {
		indicator := "▼"
		switch {
		case entry.Model == focusModel:
			indicator = "="
		case entry.Ratio > 1:
			indicator = "▲"
		}
		fmt.Fprintf(&b, "| %d | %s | %s %s | %s |\n",
			i+1, entry.Model, formatRatio(entry.Ratio), indicator, entry.Kind)
	}

	b.WriteString("\n**Win Ratio Explanation:**\n")
	b.WriteString("- **> 1.0**: Model outperforms the focus model\n")
	b.WriteString("- **= 1.0**: Equal performance with focus model\n")
	b.WriteString("- **< 1.0**: Model underperforms the focus model\n")
	b.WriteString("- **∞**: Focus model has not won any comparisons against this model\n\n")

	data := r.RawComparisonData()
	if len(data) == 0 {
		return b.String()
	}

	b.WriteString("## Direct Comparison Details\n\n")
	others := make([]string, 0, len(data))
	for model := range data {
		others = append(others, model)
	}
	sort.Strings(others)

	for _, model := range others {
		d := data[model]
		total := float64(d.Total)
		focusRate := (float64(d.FocusWins) + 0.5*float64(d.Ties)) / total
		otherRate := (float64(d.OtherWins) + 0.5*float64(d.Ties)) / total

		ratio := math.Inf(1)
		if focusRate > 0 {
			ratio = otherRate / focusRate
		}

		fmt.Fprintf(&b, "### %s vs %s (Win Ratio: %s)\n\n", focusModel, model, formatRatio(ratio))
		fmt.Fprintf(&b, "- **Overall**: %s wins %d/%d (%.1f%%), %s wins %d/%d (%.1f%%), Ties %d/%d (%.1f%%)\n\n",
			focusModel, d.FocusWins, d.Total, focusRate*100,
			model, d.OtherWins, d.Total, otherRate*100,
			d.Ties, d.Total, float64(d.Ties)/total*100)

		if len(d.Categories) == 0 {
			continue
		}
		b.WriteString("**Category Breakdown:**\n\n")
		categories := make([]string, 0, len(d.Categories))
		for name := range d.Categories {
			categories = append(categories, name)
		}
		sort.Strings(categories)
		for _, name := range categories {
			c := d.Categories[name]
			fmt.Fprintf(&b, "- **%s**: %s %d - %d %s (ties: %d)\n",
				name, focusModel, c.FocusWins, c.OtherWins, model, c.Ties)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Suggestions renders the analyzer's prioritized suggestion list along with
// the comparisons to run.
func Suggestions(suggestions []analyzer.Suggestion) string {
	var b strings.Builder
	b.WriteString("# Suggested Additional Comparisons\n\n")
	if len(suggestions) == 0 {
		b.WriteString("No additional comparisons needed. Coverage looks good.\n")
		return b.String()
	}

	b.WriteString("| # | Model A | Model B | Priority | Reason |\n")
	b.WriteString("|---|---------|---------|----------|--------|\n")
	for i, s := range suggestions {
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %s |\n", i+1, s.ModelA, s.ModelB, s.Priority, s.Reason)
	}

	b.WriteString("\n## Comparisons to Run\n\n")
	for i, s := range suggestions {
		line := fmt.Sprintf("%s vs %s (promptset `%s`", s.ModelA, s.ModelB, s.Promptset)
		if s.Category != "" {
			line += fmt.Sprintf(", category %q", s.Category)
		}
		fmt.Fprintf(&b, "%d. %s)\n", i+1, line)
	}
	return b.String()
}

func writeMatrixHeader(b *strings.Builder, ranked []string) {
	b.WriteString("| Model |")
	for _, model := range ranked {
		fmt.Fprintf(b, " %s |", model)
	}
	b.WriteString("\n|-------|")
	for range ranked {
		b.WriteString("-------|")
	}
	b.WriteString("\n")
}

func formatRatio(ratio float64) string {
	if math.IsInf(ratio, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", ratio)
}

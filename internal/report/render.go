package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"github.com/mwiater/spaneval/internal/evaluation"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	accent = color.New(color.FgCyan, color.Bold).SprintFunc()
	muted  = color.New(color.FgHiBlack).SprintFunc()
)

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// RenderTable writes a run header, one score row per step and, for
// multi-step runs, the mean and standard deviation of F1 and accuracy.
func RenderTable(w io.Writer, s Summary) error {
	fmt.Fprintf(w, "%s %s\n", accent("Run"), s.RunID)
	fmt.Fprintf(w, "%s strategy=%s averaging=%s unit=%s\n", muted("  "), s.Strategy, s.Averaging, s.Unit)
	if s.Corpus != "" {
		fmt.Fprintf(w, "%s corpus=%s\n", muted("  "), s.Corpus)
	}

	t := newTable("Step", "Train", "Test", "Accuracy", "Precision", "Recall", "F1")
	for _, st := range s.Steps {
		t.Row(
			strconv.Itoa(st.Step),
			strconv.Itoa(st.TrainingSize),
			strconv.Itoa(st.TestSize),
			score(st.Scores.Accuracy),
			score(st.Scores.Precision),
			score(st.Scores.Recall),
			score(st.Scores.F1),
		)
	}
	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}

	if len(s.Steps) > 1 {
		fmt.Fprintf(w, "%s mean=%s stddev=%s\n", accent("F1      "), score(s.F1.Mean), score(s.F1.StdDev))
		fmt.Fprintf(w, "%s mean=%s stddev=%s\n", accent("Accuracy"), score(s.Accuracy.Mean), score(s.Accuracy.StdDev))
	}
	return nil
}

// RenderPerLabel writes the per-label breakdown.
func RenderPerLabel(w io.Writer, labels []evaluation.LabelScore) error {
	if len(labels) == 0 {
		_, err := fmt.Fprintln(w, muted("no labels scored"))
		return err
	}
	t := newTable("Label", "TP", "FP", "FN", "Support", "Precision", "Recall", "F1")
	for _, l := range labels {
		t.Row(
			l.Label,
			strconv.Itoa(l.TP),
			strconv.Itoa(l.FP),
			strconv.Itoa(l.FN),
			strconv.Itoa(l.Support),
			score(l.Precision),
			score(l.Recall),
			score(l.F1),
		)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
)

//nolint:gochecknoglobals // Display casing is locale-stable for the CLI
var titleCaser = cases.Title(language.English)

// KindLabel returns the display form of a work unit kind, e.g. "Practice".
func KindLabel(k fmt.Stringer) string {
	return titleCaser.String(k.String())
}

// RenderPlan writes the daily plan: headline, then one row per slice with
// its size label, minutes, goal, and action.
func RenderPlan(w io.Writer, p *domain.Plan) {
	styles := NewOutputStyles()
	_, _ = fmt.Fprintln(w, styles.Header.Render(p.Message))

	if p.IsEmpty() {
		return
	}
	_, _ = fmt.Fprintln(w)

	table := NewTable(w, []TableColumn{
		{Name: "#", Width: 2, Align: AlignRight},
		{Name: "SIZE", Width: 7},
		{Name: "MIN", Width: 4, Align: AlignRight},
		{Name: "KIND", Width: 8},
		{Name: "GOAL", Width: 24},
		{Name: "ACTION", Width: 44},
	})
	table.WriteHeader()

	sizeColors := SliceSizeColors()
	for i, sl := range p.Slices {
		sizeStyle := lipgloss.NewStyle().Foreground(sizeColors[sl.Size])
		table.WriteRow(
			fmt.Sprintf("%d", i+1),
			sizeStyle.Render(sl.Size.String()),
			fmt.Sprintf("%d", sl.Minutes),
			KindLabel(sl.Unit.Kind),
			sl.Goal.Title,
			sl.Unit.Title,
		)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.Muted.Render(
		fmt.Sprintf("%d minutes total · strategy: %s", p.TotalMinutes(), p.Metadata.Strategy)))
}

// RenderSlice writes a single slice in detail, for the "what's next" view.
func RenderSlice(w io.Writer, sl *domain.Slice) {
	styles := NewOutputStyles()
	_, _ = fmt.Fprintln(w, styles.Header.Render(sl.Unit.Title))
	_, _ = fmt.Fprintf(w, "  %s · %s · %d min · %s\n",
		sl.Goal.Title, KindLabel(sl.Unit.Kind), sl.Minutes, sl.Size.String())
	if sl.Unit.FirstAction != "" {
		_, _ = fmt.Fprintf(w, "  Start with: %s\n", sl.Unit.FirstAction)
	}
	if sl.Unit.SuccessSignal != "" {
		_, _ = fmt.Fprintf(w, "  Done when: %s\n", sl.Unit.SuccessSignal)
	}
}

// RenderMomentum writes one line per goal with its engagement snapshot,
// highest momentum first.
func RenderMomentum(w io.Writer, goals []*domain.Goal, snapshots []domain.GoalMomentum) {
	styles := NewOutputStyles()
	byID := make(map[string]*domain.Goal, len(goals))
	for _, g := range goals {
		byID[g.ID] = g
	}

	table := NewTable(w, []TableColumn{
		{Name: "SCORE", Width: 5, Align: AlignRight},
		{Name: "GOAL", Width: 28},
		{Name: "DONE", Width: 6, Align: AlignRight},
		{Name: "LAST WORKED", Width: 16},
	})
	table.WriteHeader()
	for _, snap := range snapshots {
		g, ok := byID[snap.GoalID]
		if !ok {
			continue
		}
		title := g.Title
		if snap.DaysSinceLastWork >= constants.NeglectDays && snap.CompletionPercentage < constants.NearDoneFraction {
			title = styles.Warning.Render(title + " !")
		}
		table.WriteRow(
			fmt.Sprintf("%d", snap.Score),
			title,
			fmt.Sprintf("%d/%d", snap.TotalCompleted, snap.TotalWorkUnits),
			RelativeTime(snap.LastWorkedAt),
		)
	}
}

package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

// TopicList renders topics grouped under grade headings, one progress bar
// per topic.
func TopicList(list []progress.TopicProgress, width int) string {
	labelWidth := 0
	for _, tp := range list {
		labelWidth = max(labelWidth, lipgloss.Width(topicLabel(tp)))
	}

	var b strings.Builder
	grade := 0
	for _, tp := range list {
		if tp.Grade != grade {
			if grade != 0 {
				b.WriteString("\n")
			}
			grade = tp.Grade
			b.WriteString(theme.Title.Render(fmt.Sprintf("Grade %d", grade)))
			b.WriteString("\n")
		}
		bar := ProgressBar{
			Label:       topicLabel(tp),
			LabelWidth:  labelWidth,
			Percent:     tp.Percent,
			ShowPercent: true,
			Width:       width,
		}
		b.WriteString(bar.View())
		b.WriteString("  ")
		b.WriteString(StateLabel(tp.State()))
		b.WriteString("\n")
	}
	return b.String()
}

func topicLabel(tp progress.TopicProgress) string {
	return fmt.Sprintf("%-12s %s", tp.TopicID, tp.Name)
}

// StateLabel renders a topic state word in its color.
func StateLabel(s progress.State) string {
	switch s {
	case progress.Complete:
		return theme.Complete.Render("complete")
	case progress.InProgress:
		return theme.InProgress.Render("in progress")
	default:
		return theme.NotStarted.Render("not started")
	}
}

// LevelList renders the levels of one topic with their status.
func LevelList(levels []progress.LevelStatus) string {
	var b strings.Builder
	for _, l := range levels {
		mark, style := "○", theme.NotStarted
		if l.Completed {
			mark, style = "●", theme.Complete
		}
		fmt.Fprintf(&b, "%s %s  %s\n", style.Render(mark), theme.Body.Render(l.Title), style.Render(l.Label()))
	}
	return b.String()
}

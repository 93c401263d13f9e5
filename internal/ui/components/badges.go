package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathquest/internal/badges"
	"github.com/abhisek/mathquest/internal/recommend"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

// BadgeList renders every badge, earned ones first in catalog order.
func BadgeList(statuses []badges.Status) string {
	var earned, locked []badges.Status
	for _, s := range statuses {
		if s.Earned {
			earned = append(earned, s)
		} else {
			locked = append(locked, s)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", theme.Title.Render(fmt.Sprintf("Badges %d/%d", len(earned), len(statuses))))
	for _, s := range earned {
		fmt.Fprintf(&b, "%s %s  %s\n", theme.Complete.Render("★"), theme.Complete.Render(s.Name), theme.Subtitle.Render(s.Description))
	}
	for _, s := range locked {
		fmt.Fprintf(&b, "%s %s  %s\n", theme.NotStarted.Render("☆"), theme.NotStarted.Render(s.Name), theme.Hint.Render(s.Description))
	}
	return b.String()
}

// NoSuggestions is shown when there is nothing to recommend.
const NoSuggestions = "Start a quiz to get recommendations!"

// SuggestionList renders study suggestions with their reason messages.
func SuggestionList(list []recommend.Suggestion) string {
	if len(list) == 0 {
		return theme.Hint.Render(NoSuggestions) + "\n"
	}
	var b strings.Builder
	for i, s := range list {
		fmt.Fprintf(&b, "%d. %s %s\n   %s\n",
			i+1,
			theme.Body.Bold(true).Render(s.Topic.Name),
			theme.InProgress.Render(fmt.Sprintf("(%s, %d%%)", s.Reason, s.Topic.Percent)),
			theme.Hint.Render(s.Reason.Message()))
	}
	return b.String()
}

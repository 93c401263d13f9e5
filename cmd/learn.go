package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/app"
	"github.com/abhisek/mathquest/internal/catalog"
	"github.com/abhisek/mathquest/internal/recommend"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

const listWidth = 72

// gradeFlag reads --grade. Zero means every grade.
func gradeFlag(cmd *cobra.Command) (int, error) {
	g, _ := cmd.Flags().GetInt("grade")
	if g != 0 && !catalog.ValidGrade(g) {
		return 0, fmt.Errorf("grade must be between %d and %d", catalog.MinGrade, catalog.MaxGrade)
	}
	return g, nil
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List topics with completion progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		grade, err := gradeFlag(cmd)
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		list := e.svc.Topics(cmd.Context(), e.user, grade)
		lipgloss.Fprint(cmd.OutOrStdout(), components.TopicList(list, listWidth))
		return nil
	},
}

var topicCmd = &cobra.Command{
	Use:   "topic <id>",
	Short: "Show one topic and its levels",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		d, err := e.svc.Topic(cmd.Context(), e.user, args[0])
		if errors.Is(err, app.ErrUnknownTopic) {
			return fmt.Errorf("topic %q not found", args[0])
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, theme.Title.Render(fmt.Sprintf("%s (Grade %d)", d.Progress.Name, d.Progress.Grade)))
		lipgloss.Fprintln(out, theme.Subtitle.Render(d.Description))
		lipgloss.Fprintln(out, components.NewProgressBar("Progress", d.Progress.Percent, true, 30).View())
		lipgloss.Fprintln(out)
		lipgloss.Fprint(out, components.LevelList(d.Levels))
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <topic-id> <level>",
	Short: "Mark a level as completed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.svc.CompleteLevel(cmd.Context(), e.user, args[0], args[1])
		switch {
		case errors.Is(err, app.ErrUnknownTopic):
			return fmt.Errorf("topic %q not found", args[0])
		case errors.Is(err, app.ErrUnknownLevel):
			return fmt.Errorf("topic %q has no level %q", args[0], args[1])
		case err != nil:
			return err
		}

		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, theme.Complete.Render(fmt.Sprintf("Level %s of %s completed!", args[1], res.Topic.Name)))
		lipgloss.Fprintln(out, components.NewProgressBar(res.Topic.Name, res.Topic.Percent, true, 30).View())
		for _, b := range res.NewBadges {
			lipgloss.Fprintln(out, theme.InProgress.Render("★ New badge: "+b.Name)+"  "+theme.Hint.Render(b.Description))
		}
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show overall progress and suggestions",
	RunE: func(cmd *cobra.Command, args []string) error {
		grade, err := gradeFlag(cmd)
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		sum := e.svc.Summary(cmd.Context(), e.user, grade)
		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, components.NewProgressBar("Overall", sum.Overall, true, 40).View())
		lipgloss.Fprintln(out, theme.Subtitle.Render(fmt.Sprintf("Badges earned: %d", sum.Earned)))
		lipgloss.Fprintln(out)
		lipgloss.Fprint(out, components.TopicList(sum.Topics, listWidth))
		lipgloss.Fprintln(out)
		lipgloss.Fprintln(out, theme.Title.Render("Suggested next"))
		lipgloss.Fprint(out, components.SuggestionList(sum.Suggestions))
		return nil
	},
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List badges and which are earned",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		lipgloss.Fprint(cmd.OutOrStdout(), components.BadgeList(e.svc.Badges(cmd.Context(), e.user)))
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest topics to study next",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit < 1 {
			return fmt.Errorf("limit must be at least 1")
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		lipgloss.Fprint(cmd.OutOrStdout(), components.SuggestionList(e.svc.Suggestions(cmd.Context(), e.user, limit)))
		return nil
	},
}

var gradeCmd = &cobra.Command{
	Use:   "grade [n]",
	Short: "Show or set the selected grade",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			lipgloss.Fprintln(out, fmt.Sprintf("Grade %d", e.svc.Grade(cmd.Context(), e.user)))
			return nil
		}

		g, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid grade %q", args[0])
		}
		if err := e.svc.SetGrade(cmd.Context(), e.user, g); err != nil {
			return err
		}
		lipgloss.Fprintln(out, theme.Complete.Render(fmt.Sprintf("Grade set to %d", g)))
		return nil
	},
}

func init() {
	topicsCmd.Flags().IntP("grade", "g", 0, "Only show topics of this grade")
	progressCmd.Flags().IntP("grade", "g", 0, "Only list topics of this grade")
	suggestCmd.Flags().IntP("limit", "n", recommend.DefaultMax, "Maximum number of suggestions")
}

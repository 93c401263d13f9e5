package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/tutor"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

var tutorCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Ask the AI tutor",
}

var tutorExplainCmd = &cobra.Command{
	Use:   "explain <problem>",
	Short: "Explain how to solve a problem step by step",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gradeLevel, _ := cmd.Flags().GetString("grade-level")
		topic, _ := cmd.Flags().GetString("topic")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		tu := e.newTutor(cmd.Context(), cmd.ErrOrStderr())
		res := tu.Explain(cmd.Context(), tutor.ExplainRequest{
			Problem:    strings.Join(args, " "),
			GradeLevel: gradeLevel,
			Topic:      topic,
		})

		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, theme.Card.Render(res.DetailedExplanation))
		if res.VideoExplanationURL != "" {
			lipgloss.Fprintln(out, theme.Hint.Render("Video: "+res.VideoExplanationURL))
		}
		return nil
	},
}

var tutorAskCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a short math question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		tu := e.newTutor(cmd.Context(), cmd.ErrOrStderr())
		res := tu.Ask(cmd.Context(), tutor.ChatRequest{
			Question:     strings.Join(args, " "),
			StudentGrade: e.svc.Grade(cmd.Context(), e.user),
			Topic:        topic,
		})
		lipgloss.Fprintln(cmd.OutOrStdout(), theme.Body.Render(res.Answer))
		if res.Failure != nil {
			e.logger.Debug("chat fallback", "kind", string(res.Failure.Kind))
		}
		return nil
	},
}

func init() {
	tutorExplainCmd.Flags().String("grade-level", "", "Grade level of the student, e.g. \"Grade 6\"")
	tutorExplainCmd.Flags().String("topic", "", "Topic the problem belongs to")
	tutorAskCmd.Flags().String("topic", "", fmt.Sprintf("Topic of the question (default %q)", tutor.DefaultChatTopic))

	tutorCmd.AddCommand(tutorExplainCmd)
	tutorCmd.AddCommand(tutorAskCmd)
}

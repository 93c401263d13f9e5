package cmd

import (
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/report"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

var reportCmd = &cobra.Command{
	Use:   "report <file.xlsx>",
	Short: "Export a progress report workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		if err := report.WriteXLSX(f, e.svc.Snapshot(cmd.Context(), e.user)); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close report: %w", err)
		}

		lipgloss.Fprintln(cmd.OutOrStdout(), theme.Complete.Render("Report written to "+args[0]))
		return nil
	},
}

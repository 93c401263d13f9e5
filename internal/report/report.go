// Package report exports a learner's progress as an xlsx workbook.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/mathquest/internal/badges"
	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/recommend"
)

// Sheet names.
const (
	SheetTopics  = "Topics"
	SheetBadges  = "Badges"
	SheetSummary = "Summary"
)

// Snapshot is everything a report shows.
type Snapshot struct {
	User        string
	GeneratedAt time.Time
	Grade       int
	Overall     int
	Topics      []progress.TopicProgress
	Badges      []badges.Status
	Suggestions []recommend.Suggestion
}

// WriteXLSX writes the snapshot as a workbook with Summary, Topics and
// Badges sheets.
func WriteXLSX(w io.Writer, snap Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; rename it instead of leaving it empty.
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetTopics, SheetBadges} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := writeSummary(f, snap); err != nil {
		return err
	}

	topicRows := [][]any{{"Topic ID", "Name", "Grade", "Completed", "Total", "Percent"}}
	for _, tp := range snap.Topics {
		topicRows = append(topicRows, []any{tp.TopicID, tp.Name, tp.Grade, tp.Completed, tp.Total, tp.Percent})
	}
	if err := writeRows(f, SheetTopics, topicRows); err != nil {
		return err
	}

	badgeRows := [][]any{{"Badge ID", "Name", "Description", "Earned"}}
	for _, b := range snap.Badges {
		earned := "no"
		if b.Earned {
			earned = "yes"
		}
		badgeRows = append(badgeRows, []any{b.ID, b.Name, b.Description, earned})
	}
	if err := writeRows(f, SheetBadges, badgeRows); err != nil {
		return err
	}

	for _, sheet := range []string{SheetTopics, SheetBadges} {
		if err := f.SetRowStyle(sheet, 1, 1, header); err != nil {
			return fmt.Errorf("style %s header: %w", sheet, err)
		}
	}
	if err := f.SetColWidth(SheetTopics, "B", "B", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, snap Snapshot) error {
	user := snap.User
	if user == "" {
		user = "local"
	}
	rows := [][]any{
		{"Learner", user},
		{"Generated", snap.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Grade", snap.Grade},
		{"Overall progress (%)", snap.Overall},
		{},
		{"Suggestions"},
	}
	if len(snap.Suggestions) == 0 {
		rows = append(rows, []any{"Start a quiz to get recommendations!"})
	}
	for _, s := range snap.Suggestions {
		rows = append(rows, []any{s.Topic.Name, string(s.Reason), s.Topic.Percent})
	}
	return writeRows(f, SheetSummary, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

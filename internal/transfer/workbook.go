package transfer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/courtside/scorekeeper/internal/history"
	"github.com/courtside/scorekeeper/internal/stats"
)

const (
	GamesSheet  = "Games"
	SeasonSheet = "Season"
)

var gamesHeader = []interface{}{
	"Game ID", "Start", "End", "Team Score", "Player", "Number", "Substitute", "Points",
	"2PT Made", "2PT Att", "3PT Made", "3PT Att", "FT Made", "FT Att",
	"Def Reb", "Off Reb", "Assists", "Steals", "Blocks", "Turnovers",
}

var seasonHeader = []interface{}{
	"Player", "Games", "Points", "Avg Points", "Assists", "Rebounds", "Steals", "Blocks", "Turnovers",
	"2PT", "2PT %", "3PT", "3PT %", "FT", "FT %",
}

// WriteWorkbook writes h as an .xlsx file with one row per player per game,
// plus a season sheet built from totals.
func WriteWorkbook(w io.Writer, h []history.Entry, totals []history.Totals) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), GamesSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(SeasonSheet); err != nil {
		return fmt.Errorf("creating season sheet: %w", err)
	}

	rows := [][]interface{}{gamesHeader}
	for _, e := range h {
		for _, p := range e.Players {
			s := p.Stats
			rows = append(rows, []interface{}{
				e.ID, e.Date.Format("2006-01-02 15:04"), e.EndDate.Format("2006-01-02 15:04"), e.TeamScore,
				p.Name, numberCell(p.Number), p.IsSubstitute, p.ScoredPoints(),
				s.TwoPointMade, s.TwoPointAttempted, s.ThreePointMade, s.ThreePointAttempted,
				s.FreeThrowMade, s.FreeThrowAttempted,
				s.DefensiveRebounds, s.OffensiveRebounds, s.Assists, s.Steals, s.Blocks, s.Turnovers,
			})
		}
	}
	if err := writeRows(f, GamesSheet, rows); err != nil {
		return err
	}

	rows = [][]interface{}{seasonHeader}
	for _, t := range totals {
		rows = append(rows, []interface{}{
			t.Name, t.GamesPlayed, t.TotalPoints, fmt.Sprintf("%.1f", t.AvgPoints()),
			t.TotalAssists, t.TotalRebounds, t.TotalSteals, t.TotalBlocks, t.TotalTurnovers,
			fmt.Sprintf("%d/%d", t.TwoPointMade, t.TwoPointAttempted), pctCell(t, stats.TwoPoint),
			fmt.Sprintf("%d/%d", t.ThreePointMade, t.ThreePointAttempted), pctCell(t, stats.ThreePoint),
			fmt.Sprintf("%d/%d", t.FreeThrowMade, t.FreeThrowAttempted), pctCell(t, stats.FreeThrow),
		})
	}
	if err := writeRows(f, SeasonSheet, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func numberCell(n *int) interface{} {
	if n == nil {
		return ""
	}
	return *n
}

func pctCell(t history.Totals, cat stats.ShotCategory) string {
	pct, ok := t.Pct(cat)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", pct*100)
}

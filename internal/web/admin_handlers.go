package web

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/courtside/scorekeeper/internal/apperr"
	"github.com/courtside/scorekeeper/internal/cloudsync"
	"github.com/courtside/scorekeeper/internal/coordinator"
	"github.com/courtside/scorekeeper/internal/history"
	"github.com/courtside/scorekeeper/internal/stats"
	"github.com/courtside/scorekeeper/internal/transfer"
)

// maxImportSize caps uploaded export documents.
const maxImportSize = 16 << 20

var errGameNotFound = apperr.New(apperr.ErrNotFound, "game not found")

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	h := s.coordinator.GetHistory()
	summaries := make([]history.Summary, 0, len(h))
	for _, e := range h {
		summaries = append(summaries, history.GameSummary(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"games":     h,
		"summaries": summaries,
	})
}

// handleGameSummary returns one saved game with its team totals.
func (s *Server) handleGameSummary(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "gameID"), 10, 64)
	if err != nil {
		s.writeAppError(w, r, apperr.New(apperr.ErrValidation, "game id must be a number"))
		return
	}
	for _, e := range s.coordinator.GetHistory() {
		if e.ID == id {
			writeJSON(w, http.StatusOK, map[string]any{
				"game":    e,
				"summary": history.GameSummary(e),
			})
			return
		}
	}
	s.writeAppError(w, r, errGameNotFound)
}

// seasonRow is a season total with its derived columns.
type seasonRow struct {
	history.Totals
	AvgPoints     float64  `json:"avgPoints"`
	TwoPointPct   *float64 `json:"twoPointPct"`
	ThreePointPct *float64 `json:"threePointPct"`
	FreeThrowPct  *float64 `json:"freeThrowPct"`
}

func pct(t history.Totals, cat stats.ShotCategory) *float64 {
	v, ok := t.Pct(cat)
	if !ok {
		return nil
	}
	return &v
}

// parseSort reads ?sort= and ?order=. A missing order means descending.
func parseSort(r *http.Request) (history.Sort, error) {
	q := r.URL.Query()
	if q.Get("sort") == "" && q.Get("order") == "" {
		return history.DefaultSort, nil
	}

	sort := history.DefaultSort
	if k := q.Get("sort"); k != "" {
		key, err := history.ParseSortKey(k)
		if err != nil {
			return sort, err
		}
		sort.Key = key
	}
	if o := q.Get("order"); o != "" {
		order, err := history.ParseSortOrder(o)
		if err != nil {
			return sort, err
		}
		sort.Order = order
	}
	return sort, nil
}

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	sort, err := parseSort(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	totals := s.coordinator.GetSeasonTotals(sort)
	rows := make([]seasonRow, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, seasonRow{
			Totals:        t,
			AvgPoints:     t.AvgPoints(),
			TwoPointPct:   pct(t, stats.TwoPoint),
			ThreePointPct: pct(t, stats.ThreePoint),
			FreeThrowPct:  pct(t, stats.FreeThrow),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sort":    sort,
		"players": rows,
	})
}

// handleExport downloads the history as an export document.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	data, err := transfer.Encode(s.coordinator.GetHistory(), now)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="basketball-stats-%s.json"`, now.Format("2006-01-02")))
	w.Write(data)
}

// handleExportWorkbook downloads the history and season totals as .xlsx.
func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	h := s.coordinator.GetHistory()
	totals := s.coordinator.GetSeasonTotals(history.DefaultSort)
	if err := transfer.WriteWorkbook(&buf, h, totals); err != nil {
		s.writeAppError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="basketball-stats-%s.xlsx"`, s.now().Format("2006-01-02")))
	w.Write(buf.Bytes())
}

// importDocument hands decoded games to the coordinator and reports the
// result.
func (s *Server) importDocument(w http.ResponseWriter, r *http.Request, doc *transfer.Document, mode transfer.Mode) {
	resp := make(chan coordinator.Reply[int], 1)
	s.coordinator.Send(coordinator.ImportHistory{Games: doc.Games, Mode: mode, Response: resp})

	total, err := waitForReply(resp)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"imported":   len(doc.Games),
		"totalGames": total,
		"mode":       mode,
		"exportDate": doc.ExportDate,
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	mode, err := transfer.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		s.writeAppError(w, r, fmt.Errorf("failed to read import: %w", err))
		return
	}
	doc, err := transfer.Decode(data)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	s.log.WithField("mode", mode).Infof("Importing %d games", len(doc.Games))
	s.importDocument(w, r, doc, mode)
}

// handleSyncPull replaces the history with the remote export unless
// ?mode=append is given.
func (s *Server) handleSyncPull(w http.ResponseWriter, r *http.Request) {
	if s.sync == nil {
		s.writeAppError(w, r, cloudsync.ErrNotConfigured)
		return
	}

	mode := transfer.ModeReplace
	if m := r.URL.Query().Get("mode"); m != "" {
		parsed, err := transfer.ParseMode(m)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		mode = parsed
	}

	doc, err := s.sync.Fetch(r.Context())
	if err != nil {
		s.log.WithError(err).WithField("url", s.sync.URL()).Warn("Sync pull failed")
		if statusFor(err) == http.StatusInternalServerError {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		s.writeAppError(w, r, err)
		return
	}

	s.log.WithField("mode", mode).Infof("Pulled %d games from %s", len(doc.Games), s.sync.URL())
	s.importDocument(w, r, doc, mode)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.ClearHistory{Response: resp}
	})
}

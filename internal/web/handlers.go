package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/courtside/scorekeeper/internal/apperr"
	"github.com/courtside/scorekeeper/internal/coordinator"
	"github.com/courtside/scorekeeper/internal/history"
	"github.com/courtside/scorekeeper/internal/lineup"
	"github.com/courtside/scorekeeper/internal/roster"
	"github.com/courtside/scorekeeper/internal/stats"
	"github.com/courtside/scorekeeper/internal/tracker"
)

// urlInt parses a numeric path parameter.
func urlInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, apperr.New(apperr.ErrValidation, fmt.Sprintf("%s must be a number", name))
	}
	return v, nil
}

// sendCommand sends a command built around a fresh response channel and
// writes 204 or the mapped error.
func (s *Server) sendCommand(w http.ResponseWriter, r *http.Request, build func(chan error) coordinator.Command) {
	resp := make(chan error, 1)
	s.coordinator.Send(build(resp))
	if err := waitForResponse(resp); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.coordinator.GetSnapshot())
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	s.sse.HandleConnection(w, r)
}

type substituteRequest struct {
	Name   string `json:"name"`
	Number *int   `json:"number"`
}

func (s *Server) handleAddSubstitute(w http.ResponseWriter, r *http.Request) {
	var req substituteRequest
	if err := readJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}

	resp := make(chan coordinator.Reply[roster.Participant], 1)
	s.coordinator.Send(coordinator.AddSubstitute{Name: req.Name, Number: req.Number, Response: resp})

	p, err := waitForReply(resp)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleRemoveSubstitute(w http.ResponseWriter, r *http.Request) {
	id, err := urlInt(r, "id")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.RemoveSubstitute{ID: id, Response: resp}
	})
}

type numberRequest struct {
	Number *int `json:"number"`
}

func (s *Server) handleSetNumber(w http.ResponseWriter, r *http.Request) {
	id, err := urlInt(r, "id")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var req numberRequest
	if err := readJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.SetNumber{ID: id, Number: req.Number, Response: resp}
	})
}

func (s *Server) handleRequestMove(w http.ResponseWriter, r *http.Request) {
	id, err := urlInt(r, "id")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	resp := make(chan coordinator.Reply[*lineup.PendingSwap], 1)
	s.coordinator.Send(coordinator.RequestMove{ID: id, Response: resp})

	swap, err := waitForReply(resp)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if swap == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusAccepted, swap)
}

func (s *Server) handleConfirmSwap(w http.ResponseWriter, r *http.Request) {
	id, err := urlInt(r, "candidateID")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.ConfirmSwap{CandidateID: id, Response: resp}
	})
}

func (s *Server) handleCancelSwap(w http.ResponseWriter, r *http.Request) {
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.CancelSwap{Response: resp}
	})
}

type deltaRequest struct {
	Delta int `json:"delta"`
}

func (s *Server) handleStatDelta(w http.ResponseWriter, r *http.Request) {
	id, err := urlInt(r, "id")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	counter, err := stats.ParseCounter(chi.URLParam(r, "counter"))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var req deltaRequest
	if err := readJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.ApplyStatDelta{ID: id, Counter: counter, Delta: req.Delta, Response: resp}
	})
}

func (s *Server) handleEditStats(w http.ResponseWriter, r *http.Request) {
	id, err := urlInt(r, "id")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var rec stats.Record
	if err := readJSON(r, &rec); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.EditStats{ID: id, Stats: rec, Response: resp}
	})
}

// shotParams reads the participant id and shot category from the path.
func shotParams(r *http.Request) (int, stats.ShotCategory, error) {
	id, err := urlInt(r, "id")
	if err != nil {
		return 0, "", err
	}
	cat, err := stats.ParseShotCategory(chi.URLParam(r, "category"))
	if err != nil {
		return 0, "", err
	}
	return id, cat, nil
}

type shotRequest struct {
	Made     bool `json:"made"`
	AssistID *int `json:"assistId"`
}

func (s *Server) handleRecordShot(w http.ResponseWriter, r *http.Request) {
	id, cat, err := shotParams(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var req shotRequest
	if err := readJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.RecordShot{ID: id, Category: cat, Made: req.Made, AssistID: req.AssistID, Response: resp}
	})
}

func (s *Server) handleBeginAssist(w http.ResponseWriter, r *http.Request) {
	id, cat, err := shotParams(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	resp := make(chan coordinator.Reply[*tracker.PendingAssist], 1)
	s.coordinator.Send(coordinator.BeginAssistedShot{ID: id, Category: cat, Response: resp})

	pending, err := waitForReply(resp)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, pending)
}

type assistRequest struct {
	AssistID *int `json:"assistId"`
}

func (s *Server) handleConfirmAssist(w http.ResponseWriter, r *http.Request) {
	var req assistRequest
	if err := readJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.ConfirmAssist{AssistID: req.AssistID, Response: resp}
	})
}

func (s *Server) handleCancelAssist(w http.ResponseWriter, r *http.Request) {
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.CancelAssist{Response: resp}
	})
}

func (s *Server) handleUndoShot(w http.ResponseWriter, r *http.Request) {
	id, cat, err := shotParams(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.UndoLastShot{ID: id, Category: cat, Response: resp}
	})
}

type reboundRequest struct {
	Kind string `json:"kind"`
}

func (s *Server) handleRecordRebound(w http.ResponseWriter, r *http.Request) {
	id, err := urlInt(r, "id")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var req reboundRequest
	if err := readJSON(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	kind, err := stats.ParseReboundKind(req.Kind)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.RecordRebound{ID: id, Kind: kind, Response: resp}
	})
}

func (s *Server) handleDecrementRebound(w http.ResponseWriter, r *http.Request) {
	id, err := urlInt(r, "id")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.DecrementRebound{ID: id, Response: resp}
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	resp := make(chan coordinator.Reply[string], 1)
	s.coordinator.Send(coordinator.UndoLastAction{Response: resp})

	name, err := waitForReply(resp)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.ResetStats{Response: resp}
	})
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.StartGame{Response: resp}
	})
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	s.sendCommand(w, r, func(resp chan error) coordinator.Command {
		return coordinator.EndGame{Response: resp}
	})
}

func (s *Server) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	resp := make(chan coordinator.Reply[history.Entry], 1)
	s.coordinator.Send(coordinator.SaveGame{Response: resp})

	entry, err := waitForReply(resp)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// Package transfer converts game history to and from the portable export
// document and spreadsheet formats.
package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/courtside/scorekeeper/internal/apperr"
	"github.com/courtside/scorekeeper/internal/history"
)

var ErrDataFormat = apperr.New(apperr.ErrDataFormat, "invalid file: no game data found")

// Document is the export envelope around a history.
type Document struct {
	ExportDate time.Time       `json:"exportDate"`
	TotalGames int             `json:"totalGames"`
	Games      []history.Entry `json:"games"`
}

// NewDocument wraps h for export at now.
func NewDocument(h []history.Entry, now time.Time) *Document {
	games := h
	if games == nil {
		games = []history.Entry{}
	}
	return &Document{ExportDate: now.UTC(), TotalGames: len(games), Games: games}
}

// Encode renders h as an indented export document.
func Encode(h []history.Entry, now time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(h, now), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export document: %w", err)
	}
	return data, nil
}

// Decode parses an export document. A payload that is not JSON, lacks a
// games field, or whose games field is not a list of games fails with a
// data format error.
func Decode(data []byte) (*Document, error) {
	var raw struct {
		ExportDate *time.Time      `json:"exportDate"`
		TotalGames int             `json:"totalGames"`
		Games      json.RawMessage `json:"games"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataFormat, err)
	}
	games := bytes.TrimSpace(raw.Games)
	if len(games) == 0 || games[0] != '[' {
		return nil, ErrDataFormat
	}

	doc := &Document{TotalGames: raw.TotalGames}
	if raw.ExportDate != nil {
		doc.ExportDate = *raw.ExportDate
	}
	if err := json.Unmarshal(games, &doc.Games); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataFormat, err)
	}
	if doc.TotalGames == 0 {
		doc.TotalGames = len(doc.Games)
	}
	return doc, nil
}

// Mode picks how imported games combine with the existing history.
type Mode string

const (
	ModeAppend  Mode = "append"
	ModeReplace Mode = "replace"
)

var ErrUnknownMode = apperr.New(apperr.ErrValidation, "import mode must be append or replace")

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAppend, ModeReplace:
		return m, nil
	case "":
		return ModeAppend, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownMode)
}

// Merge combines existing and imported history. Append keeps existing games
// first and adds the imported ones after them; duplicate ids are kept.
func Merge(existing, imported []history.Entry, mode Mode) []history.Entry {
	if mode == ModeReplace {
		return append([]history.Entry{}, imported...)
	}
	out := make([]history.Entry, 0, len(existing)+len(imported))
	out = append(out, existing...)
	return append(out, imported...)
}

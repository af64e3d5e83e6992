package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/courtside/scorekeeper/internal/history"
	"github.com/courtside/scorekeeper/internal/stats"
	"github.com/courtside/scorekeeper/internal/store"
	"github.com/courtside/scorekeeper/internal/transfer"
)

// timestamped is implemented by stores that track their last write.
type timestamped interface {
	UpdatedAt(ctx context.Context) (time.Time, bool, error)
}

func runStatus(ctx context.Context, db store.Backend, w io.Writer) error {
	if err := db.Check(ctx); err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}
	h, err := db.LoadHistory(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "saved games: %d\n", len(h))
	if len(h) > 0 {
		fmt.Fprintf(w, "latest game: %s (%d points)\n", h[0].Date.Format("2006-01-02 15:04"), history.GameSummary(h[0]).TeamScore)
	}

	if ts, ok := db.(timestamped); ok {
		at, saved, err := ts.UpdatedAt(ctx)
		if err != nil {
			return err
		}
		if saved {
			fmt.Fprintf(w, "last saved: %s\n", at.Format(time.RFC3339))
		}
	}
	return nil
}

func runExport(ctx context.Context, db store.Backend, season []string, out string, w io.Writer) error {
	h, err := db.LoadHistory(ctx)
	if err != nil {
		return err
	}

	var data []byte
	if strings.EqualFold(filepath.Ext(out), ".xlsx") {
		totals := history.Aggregate(h, season)
		history.SortTotals(totals, history.DefaultSort)
		var buf bytes.Buffer
		if err := transfer.WriteWorkbook(&buf, h, totals); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		data, err = transfer.Encode(h, time.Now())
		if err != nil {
			return err
		}
	}

	if out == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(w, "exported %d games to %s\n", len(h), out)
	return nil
}

func runImport(ctx context.Context, db store.Backend, in, mode string, w io.Writer) error {
	m, err := transfer.ParseMode(mode)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", in, err)
	}
	doc, err := transfer.Decode(data)
	if err != nil {
		return err
	}

	existing, err := db.LoadHistory(ctx)
	if err != nil {
		return err
	}
	merged := transfer.Merge(existing, doc.Games, m)
	if err := db.SaveHistory(ctx, merged); err != nil {
		return err
	}
	fmt.Fprintf(w, "imported %d games (%s), %d total\n", len(doc.Games), m, len(merged))
	return nil
}

func runSeason(ctx context.Context, db store.Backend, season []string, key, order string, w io.Writer) error {
	sortKey, err := history.ParseSortKey(key)
	if err != nil {
		return err
	}
	sortOrder, err := history.ParseSortOrder(order)
	if err != nil {
		return err
	}
	h, err := db.LoadHistory(ctx)
	if err != nil {
		return err
	}

	totals := history.Aggregate(h, season)
	history.SortTotals(totals, history.Sort{Key: sortKey, Order: sortOrder})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tGP\tPTS\tAVG\tAST\tREB\tSTL\tBLK\tTO\t2P%\t3P%\tFT%")
	for _, t := range totals {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%d\t%d\t%d\t%d\t%d\t%s\t%s\t%s\n",
			t.Name, t.GamesPlayed, t.TotalPoints, t.AvgPoints(),
			t.TotalAssists, t.TotalRebounds, t.TotalSteals, t.TotalBlocks, t.TotalTurnovers,
			pctText(t, stats.TwoPoint), pctText(t, stats.ThreePoint), pctText(t, stats.FreeThrow))
	}
	return tw.Flush()
}

func pctText(t history.Totals, cat stats.ShotCategory) string {
	v, ok := t.Pct(cat)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f", v*100)
}

func runClear(ctx context.Context, db store.Backend, w io.Writer) error {
	if err := store.ClearHistory(ctx, db); err != nil {
		return err
	}
	fmt.Fprintln(w, "history cleared")
	return nil
}

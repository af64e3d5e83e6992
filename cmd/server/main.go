package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/courtside/scorekeeper/internal/cloudsync"
	"github.com/courtside/scorekeeper/internal/config"
	"github.com/courtside/scorekeeper/internal/coordinator"
	"github.com/courtside/scorekeeper/internal/metrics"
	"github.com/courtside/scorekeeper/internal/recorder"
	"github.com/courtside/scorekeeper/internal/store"
	"github.com/courtside/scorekeeper/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := cfg.NewLogger()

	team, err := config.LoadTeam(cfg.TeamFile)
	if err != nil {
		log.Fatalf("Failed to load team: %v", err)
	}

	// Initialize store
	db, err := store.Open(store.Options{
		Backend:      string(cfg.StoreBackend),
		DatabasePath: cfg.DatabasePath,
		RedisURL:     cfg.RedisURL,
		RedisKey:     cfg.RedisKey,
	}, log)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	saved, err := db.LoadHistory(loadCtx)
	loadCancel()
	if err != nil {
		log.Fatalf("Failed to load history: %v", err)
	}
	log.WithField("backend", cfg.StoreBackend).Infof("Loaded %d saved games", len(saved))

	state, err := coordinator.NewState(team.Members(), team.Season, saved)
	if err != nil {
		log.Fatalf("Invalid team: %v", err)
	}

	// Initialize coordinator
	m := metrics.NewRecorder()
	coord := coordinator.New(state, coordinator.WithLogger(log), coordinator.WithMetrics(m))
	historyEvents := coord.SubscribeTo(recorder.Wants)
	rec := recorder.New(db, log)

	var sync *cloudsync.Client
	if cfg.SyncURL != "" {
		sync = cloudsync.NewClient(cfg.SyncURL, cfg.SyncToken)
	} else {
		log.Info("No SYNC_URL configured. Sync pull is disabled.")
	}
	if cfg.OperatorToken == "" {
		log.Warn("OPERATOR_TOKEN not set. The operator API is open to anyone on the network.")
	}

	server := web.NewServer(coord, log, web.Config{
		OperatorToken: cfg.OperatorToken,
		DevMode:       cfg.DevMode,
		Sync:          sync,
		Checks:        map[string]web.Checker{string(cfg.StoreBackend): db},
		Metrics:       m.Handler(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		coord.Run(gctx)
		return nil
	})
	g.Go(func() error {
		rec.Run(gctx, historyEvents)
		return nil
	})
	server.StartSSE(coord.Events())

	g.Go(func() error {
		log.Infof("Server running on %s", cfg.BaseURL)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Errorf("Server error: %v", err)
		os.Exit(1)
	}

	log.Info("Server stopped")
}

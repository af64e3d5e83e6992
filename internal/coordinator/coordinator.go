package coordinator

import (
	"context"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtside/scorekeeper/internal/history"
	"github.com/courtside/scorekeeper/internal/lineup"
	"github.com/courtside/scorekeeper/internal/metrics"
	"github.com/courtside/scorekeeper/internal/roster"
	"github.com/courtside/scorekeeper/internal/tracker"
	"github.com/courtside/scorekeeper/internal/transfer"
)

// Coordinator owns all mutable state and processes commands sequentially.
type Coordinator struct {
	commands    chan Command
	events      chan Event
	subscribers []subscriber
	state       *State
	log         logrus.FieldLogger
	metrics     metrics.Sink
	now         func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Coordinator) { c.log = log }
}

func WithMetrics(m metrics.Sink) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithClock replaces time.Now for session and history timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// New creates a new Coordinator around state.
func New(state *State, opts ...Option) *Coordinator {
	c := &Coordinator{
		commands:    make(chan Command, 100),
		events:      make(chan Event, 100),
		subscribers: make([]subscriber, 0),
		state:       state,
		log:         logrus.StandardLogger(),
		metrics:     metrics.NewNoop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("component", "coordinator")
	return c
}

// Send submits a command to the coordinator.
func (c *Coordinator) Send(cmd Command) {
	c.commands <- cmd
}

// Events returns the main event channel for consumers.
func (c *Coordinator) Events() <-chan Event {
	return c.events
}

type subscriber struct {
	ch    chan Event
	match func(Event) bool
}

// Subscribe creates a new event channel for a consumer.
// Must be called before Run.
func (c *Coordinator) Subscribe() <-chan Event {
	return c.SubscribeTo(nil)
}

// SubscribeTo creates an event channel that only receives events for which
// match returns true. A nil match receives everything. Must be called before
// Run.
func (c *Coordinator) SubscribeTo(match func(Event) bool) <-chan Event {
	ch := make(chan Event, 100)
	c.subscribers = append(c.subscribers, subscriber{ch: ch, match: match})
	return ch
}

// Run starts the coordinator loop. It blocks until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	c.log.Info("Coordinator started")
	for {
		select {
		case <-ctx.Done():
			c.log.Info("Coordinator shutting down")
			return
		case cmd := <-c.commands:
			c.handleCommand(cmd)
		}
	}
}

func (c *Coordinator) emit(e Event) {
	select {
	case c.events <- e:
	default:
		c.log.Warn("Main event channel full, dropping event")
	}

	for _, sub := range c.subscribers {
		if sub.match != nil && !sub.match(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			c.log.Warn("Subscriber event channel full, dropping event")
		}
	}
}

// changed publishes the new state after a mutating command.
func (c *Coordinator) changed() {
	c.metrics.ActionLogSize(c.state.Engine.LogSize())
	c.emit(StateChanged{Snapshot: c.state.Snapshot()})
}

func reply[T any](ch chan Reply[T], v T, err error) {
	if ch != nil {
		ch <- Reply[T]{Value: v, Err: err}
	}
}

func respond(ch chan error, err error) {
	if ch != nil {
		ch <- err
	}
}

func (c *Coordinator) handleCommand(cmd Command) {
	switch cmd := cmd.(type) {
	case AddSubstitute:
		p, err := c.handleAddSubstitute(cmd)
		reply(cmd.Response, p, err)
	case RemoveSubstitute:
		respond(cmd.Response, c.handleRemoveSubstitute(cmd))
	case SetNumber:
		respond(cmd.Response, c.handleSetNumber(cmd))
	case RequestMove:
		swap, err := c.handleRequestMove(cmd)
		reply(cmd.Response, swap, err)
	case ConfirmSwap:
		respond(cmd.Response, c.handleConfirmSwap(cmd))
	case CancelSwap:
		respond(cmd.Response, c.handleCancelSwap())
	case ApplyStatDelta:
		respond(cmd.Response, c.tracked(func() error {
			return c.state.Engine.ApplyStatDelta(cmd.ID, cmd.Counter, cmd.Delta)
		}))
	case RecordShot:
		respond(cmd.Response, c.tracked(func() error {
			return c.state.Engine.RecordShotOutcome(cmd.ID, cmd.Category, cmd.Made, cmd.AssistID)
		}))
	case BeginAssistedShot:
		pending, err := c.handleBeginAssistedShot(cmd)
		reply(cmd.Response, pending, err)
	case ConfirmAssist:
		respond(cmd.Response, c.tracked(func() error {
			return c.state.Engine.ConfirmAssist(cmd.AssistID)
		}))
	case CancelAssist:
		respond(cmd.Response, c.handleCancelAssist())
	case UndoLastShot:
		respond(cmd.Response, c.handleUndoLastShot(cmd))
	case RecordRebound:
		respond(cmd.Response, c.tracked(func() error {
			return c.state.Engine.RecordRebound(cmd.ID, cmd.Kind)
		}))
	case DecrementRebound:
		respond(cmd.Response, c.tracked(func() error {
			return c.state.Engine.DecrementRebound(cmd.ID)
		}))
	case EditStats:
		respond(cmd.Response, c.tracked(func() error {
			return c.state.Engine.ApplyBulkEdit(cmd.ID, cmd.Stats)
		}))
	case UndoLastAction:
		name, err := c.handleUndoLastAction()
		reply(cmd.Response, name, err)
	case ResetStats:
		respond(cmd.Response, c.handleResetStats())
	case StartGame:
		respond(cmd.Response, c.handleStartGame())
	case EndGame:
		respond(cmd.Response, c.handleEndGame())
	case SaveGame:
		entry, err := c.handleSaveGame()
		reply(cmd.Response, entry, err)
	case ImportHistory:
		n, err := c.handleImportHistory(cmd)
		reply(cmd.Response, n, err)
	case ClearHistory:
		respond(cmd.Response, c.handleClearHistory())
	case getSnapshotCmd:
		cmd.Response <- c.state.Snapshot()
	case getHistoryCmd:
		cmd.Response <- c.state.historyCopy()
	case getSeasonCmd:
		totals := history.Aggregate(c.state.History, c.state.Season)
		history.SortTotals(totals, cmd.Sort)
		cmd.Response <- totals
	}
}

// tracked runs a stat operation, counting whatever it added to the action
// log, and publishes the new state when it changed anything. A decrement of
// a counter already at zero succeeds without an event.
func (c *Coordinator) tracked(op func() error) error {
	before := c.state.Engine.Logged()
	records := c.state.records()
	if err := op(); err != nil {
		return err
	}
	logged := c.state.Engine.Logged() > before
	if logged {
		c.metrics.ActionRecorded(c.state.Engine.Peek().Kind())
	}
	if !logged && slices.Equal(records, c.state.records()) {
		return nil
	}
	c.changed()
	return nil
}

func (c *Coordinator) handleAddSubstitute(cmd AddSubstitute) (roster.Participant, error) {
	p, err := c.state.Roster.AddSubstitute(cmd.Name, cmd.Number)
	if err != nil {
		return roster.Participant{}, err
	}
	c.log.WithField("participant", p.ID).Infof("Substitute %s added (%d players)", p.Name, c.state.Roster.Len())
	c.changed()
	return *p, nil
}

func (c *Coordinator) handleRemoveSubstitute(cmd RemoveSubstitute) error {
	p := c.state.Roster.Get(cmd.ID)
	if err := c.state.Roster.RemoveSubstitute(cmd.ID); err != nil {
		return err
	}
	c.state.Lineup.Remove(cmd.ID)
	c.state.Engine.Forget(cmd.ID)
	c.log.WithField("participant", cmd.ID).Infof("Substitute %s removed (%d players)", p.Name, c.state.Roster.Len())
	c.changed()
	return nil
}

func (c *Coordinator) handleSetNumber(cmd SetNumber) error {
	if err := c.state.Roster.SetNumber(cmd.ID, cmd.Number); err != nil {
		return err
	}
	c.changed()
	return nil
}

func (c *Coordinator) handleRequestMove(cmd RequestMove) (*lineup.PendingSwap, error) {
	swap, err := c.state.Lineup.RequestMove(cmd.ID)
	if err != nil {
		return nil, err
	}
	if swap == nil {
		c.log.WithField("participant", cmd.ID).Debugf("Moved to court (%d/%d)", len(c.state.Lineup.OnCourt()), lineup.MaxOnCourt)
	} else {
		c.log.WithField("participant", cmd.ID).Debugf("Swap opened with %d candidates", len(swap.Candidates))
	}
	c.changed()
	return swap, nil
}

func (c *Coordinator) handleConfirmSwap(cmd ConfirmSwap) error {
	if err := c.state.Lineup.ConfirmSwap(cmd.CandidateID); err != nil {
		return err
	}
	c.changed()
	return nil
}

func (c *Coordinator) handleCancelSwap() error {
	if err := c.state.Lineup.CancelSwap(); err != nil {
		return err
	}
	c.changed()
	return nil
}

func (c *Coordinator) handleBeginAssistedShot(cmd BeginAssistedShot) (*tracker.PendingAssist, error) {
	pending, err := c.state.Engine.BeginAssistedShot(cmd.ID, cmd.Category, c.state.assistCandidates(cmd.ID))
	if err != nil {
		return nil, err
	}
	c.changed()
	return pending, nil
}

func (c *Coordinator) handleCancelAssist() error {
	if err := c.state.Engine.CancelAssist(); err != nil {
		return err
	}
	c.changed()
	return nil
}

func (c *Coordinator) handleUndoLastShot(cmd UndoLastShot) error {
	if err := c.state.Engine.UndoLastShot(cmd.ID, cmd.Category); err != nil {
		return err
	}
	c.metrics.ActionUndone("shot")
	c.changed()
	return nil
}

func (c *Coordinator) handleUndoLastAction() (string, error) {
	a := c.state.Engine.Peek()
	if a == nil {
		return "", tracker.ErrEmptyLog
	}

	// The entry is consumed even when its participant has been removed.
	name, err := c.state.Engine.UndoLastGlobalAction()
	c.metrics.ActionUndone("global")
	c.changed()
	if err != nil {
		c.log.WithError(err).Warn("Dropped undo entry for a removed participant")
		return "", err
	}

	c.log.WithField("kind", a.Kind()).Infof("Undid last action for %s (%d left)", name, c.state.Engine.LogSize())
	c.emit(ActionUndone{Name: name, Kind: a.Kind()})
	return name, nil
}

func (c *Coordinator) handleResetStats() error {
	c.state.Engine.ResetAllStats()
	c.log.Info("All stats reset")
	c.changed()
	return nil
}

func (c *Coordinator) handleStartGame() error {
	c.state.Session.Start(c.now())
	c.state.Engine.ClearShotMemory()
	started, _ := c.state.Session.StartedAt()

	c.log.WithField("game", c.state.Session.ID()).Infof("Game started with %d players", c.state.Roster.Len())
	c.emit(GameStarted{GameID: c.state.Session.ID(), StartedAt: started})
	c.changed()
	return nil
}

func (c *Coordinator) handleEndGame() error {
	if !c.state.Session.Active() {
		return history.ErrNoActiveSession
	}
	c.state.Session.End()
	c.log.WithField("game", c.state.Session.ID()).Info("Game ended, back to setup")
	c.emit(GameEnded{GameID: c.state.Session.ID()})
	c.changed()
	return nil
}

func (c *Coordinator) handleSaveGame() (history.Entry, error) {
	entry, err := c.state.Session.Save(c.state.Roster.All(), c.now())
	if err != nil {
		return history.Entry{}, err
	}
	c.state.History = history.Prepend(c.state.History, entry)
	c.metrics.GameSaved()

	c.log.WithField("game", c.state.Session.ID()).Infof("Game saved: %d points (%d games in history)", entry.TeamScore, len(c.state.History))
	c.emit(GameSaved{Entry: entry})
	c.emit(HistoryChanged{History: c.state.historyCopy()})
	c.changed()
	return entry, nil
}

func (c *Coordinator) handleImportHistory(cmd ImportHistory) (int, error) {
	mode := cmd.Mode
	if mode == "" {
		mode = transfer.ModeAppend
	}
	if _, err := transfer.ParseMode(string(mode)); err != nil {
		return 0, err
	}
	c.state.History = transfer.Merge(c.state.History, cmd.Games, mode)

	c.log.WithField("mode", mode).Infof("Imported %d games (%d games in history)", len(cmd.Games), len(c.state.History))
	c.emit(HistoryChanged{History: c.state.historyCopy()})
	c.changed()
	return len(c.state.History), nil
}

func (c *Coordinator) handleClearHistory() error {
	c.state.History = []history.Entry{}
	c.log.Info("History cleared")
	c.emit(HistoryChanged{History: c.state.historyCopy()})
	c.changed()
	return nil
}

// GetSnapshot returns a copy of the current state.
func (c *Coordinator) GetSnapshot() Snapshot {
	respCh := make(chan Snapshot, 1)
	c.commands <- getSnapshotCmd{Response: respCh}
	return <-respCh
}

// GetHistory returns a copy of the saved games, newest first.
func (c *Coordinator) GetHistory() []history.Entry {
	respCh := make(chan []history.Entry, 1)
	c.commands <- getHistoryCmd{Response: respCh}
	return <-respCh
}

// GetSeasonTotals aggregates the history for the season players, sorted.
func (c *Coordinator) GetSeasonTotals(s history.Sort) []history.Totals {
	respCh := make(chan []history.Totals, 1)
	c.commands <- getSeasonCmd{Sort: s, Response: respCh}
	return <-respCh
}

type getSnapshotCmd struct {
	Response chan Snapshot
}

func (getSnapshotCmd) command() {}

type getHistoryCmd struct {
	Response chan []history.Entry
}

func (getHistoryCmd) command() {}

type getSeasonCmd struct {
	Sort     history.Sort
	Response chan []history.Totals
}

func (getSeasonCmd) command() {}

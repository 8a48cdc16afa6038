// Package session runs simulation worlds on their own tick loops and fans
// their state out to websocket observers.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ugaemi/wantedsim-server/internal/config"
	"github.com/ugaemi/wantedsim-server/internal/game"
	"github.com/ugaemi/wantedsim-server/internal/journal"
	"github.com/ugaemi/wantedsim-server/internal/sim"
	"github.com/ugaemi/wantedsim-server/internal/store"
	"github.com/ugaemi/wantedsim-server/internal/wanted"
	"github.com/ugaemi/wantedsim-server/internal/ws"
)

const persistTimeout = 5 * time.Second

var (
	ErrStopped = errors.New("session stopped")
	ErrFull    = errors.New("session is full")
)

// Journal receives the events of every tick that produced any.
type Journal interface {
	Write(e journal.Entry) error
}

// EpisodeRecorder persists finished wanted episodes.
type EpisodeRecorder interface {
	RecordEpisode(ctx context.Context, ep *store.Episode) error
}

// Deps are the optional sinks shared by every session. Nil fields are skipped.
type Deps struct {
	Journal  Journal
	Episodes EpisodeRecorder
}

// Session is one running world and the observers watching it.
type Session struct {
	Code string

	state     game.SessionState
	world     *sim.World
	observers map[string]*ws.Client
	deps      Deps
	now       func() time.Time

	started  bool
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	persist  sync.WaitGroup

	mu sync.Mutex
}

// NewSession builds a world from the scenario. The tick loop starts with Start.
func NewSession(code string, sc *config.Scenario, deps Deps) *Session {
	return &Session{
		Code:      code,
		state:     game.SessionRunning,
		world:     sim.NewWorld(sc),
		observers: make(map[string]*ws.Client),
		deps:      deps,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the tick loop. Calling it again is a no-op.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.state == game.SessionStopped {
		return
	}
	s.started = true
	go s.gameLoop()
}

// Stop ends the tick loop and waits for it and any pending episode writes.
func (s *Session) Stop() {
	var started bool
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.state = game.SessionStopped
		started = s.started
		s.mu.Unlock()
		close(s.stopCh)
		slog.Info("session stopped", "session", s.Code)
	})
	if started {
		<-s.done
	}
	s.persist.Wait()
}

// Pause freezes the world; snapshots stop until Resume.
func (s *Session) Pause() error {
	return s.setState(game.SessionPaused)
}

func (s *Session) Resume() error {
	return s.setState(game.SessionRunning)
}

func (s *Session) setState(st game.SessionState) error {
	s.mu.Lock()
	if s.state == game.SessionStopped {
		s.mu.Unlock()
		return ErrStopped
	}
	changed := s.state != st
	s.state = st
	s.mu.Unlock()

	if changed {
		slog.Info("session state changed", "session", s.Code, "state", st.String())
		s.broadcastInfo()
	}
	return nil
}

func (s *Session) State() game.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AddObserver attaches a client. It fails once MaxObservers are attached.
func (s *Session) AddObserver(c *ws.Client) error {
	s.mu.Lock()
	if s.state == game.SessionStopped {
		s.mu.Unlock()
		return ErrStopped
	}
	if len(s.observers) >= game.MaxObservers {
		s.mu.Unlock()
		return ErrFull
	}
	s.observers[c.ID] = c
	s.mu.Unlock()

	s.broadcastInfo()
	return nil
}

// RemoveObserver detaches a client and returns how many remain.
func (s *Session) RemoveObserver(clientID string) int {
	s.mu.Lock()
	delete(s.observers, clientID)
	n := len(s.observers)
	s.mu.Unlock()

	s.broadcastInfo()
	return n
}

func (s *Session) HasObserver(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.observers[clientID]
	return ok
}

func (s *Session) ObserverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

// Snapshot returns the current world state.
func (s *Session) Snapshot() sim.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Snapshot()
}

// SetWanted toggles the wanted state. Ending an active period persists the
// episode and notifies observers.
func (s *Session) SetWanted(active bool) error {
	s.mu.Lock()
	if s.state == game.SessionStopped {
		s.mu.Unlock()
		return ErrStopped
	}
	ep := s.world.SetWanted(active)
	s.mu.Unlock()

	if ep != nil {
		s.endEpisode(ep)
	}
	return nil
}

func (s *Session) MoveSubject(pos game.Vec) error {
	return s.withWorld(func(w *sim.World) error {
		w.MoveSubject(pos)
		return nil
	})
}

func (s *Session) Damage(actorID string) error {
	return s.withWorld(func(w *sim.World) error { return w.Damage(actorID) })
}

func (s *Session) Kill(actorID string) error {
	return s.withWorld(func(w *sim.World) error { return w.Kill(actorID) })
}

func (s *Session) withWorld(fn func(w *sim.World) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == game.SessionStopped {
		return ErrStopped
	}
	return fn(s.world)
}

type simStateMessage struct {
	Code string `json:"code"`
	sim.Snapshot
	Events []sim.Event `json:"events,omitempty"`
}

// Step advances the world by dt seconds if running, then journals and
// broadcasts the result. It reports whether a tick happened.
func (s *Session) Step(dt float64) bool {
	s.mu.Lock()
	if s.state != game.SessionRunning {
		s.mu.Unlock()
		return false
	}
	events := s.world.Tick(dt)
	snap := s.world.Snapshot()
	s.mu.Unlock()

	if len(events) > 0 && s.deps.Journal != nil {
		err := s.deps.Journal.Write(journal.Entry{
			Session: s.Code,
			Tick:    snap.Tick,
			Hour:    snap.Hour,
			Time:    s.now(),
			Events:  events,
		})
		if err != nil {
			slog.Error("journal write failed", "session", s.Code, "tick", snap.Tick, "error", err)
		}
	}

	msg, err := ws.NewMessage(ws.TypeSimState, simStateMessage{Code: s.Code, Snapshot: snap, Events: events})
	if err != nil {
		slog.Error("failed to encode sim state", "session", s.Code, "error", err)
		return true
	}
	s.Broadcast(msg)
	return true
}

// gameLoop ticks at TickRate until Stop.
func (s *Session) gameLoop() {
	defer close(s.done)
	ticker := time.NewTicker(game.TickInterval)
	defer ticker.Stop()
	dt := game.TickInterval.Seconds()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.Step(dt)
		}
	}
}

func (s *Session) endEpisode(ep *wanted.Episode) {
	rec := store.NewEpisode(s.Code, s.now(), ep.Duration, ep.MaxLevel, ep.Spawned)

	msg, _ := ws.NewMessage(ws.TypeEpisodeEnd, rec)
	s.Broadcast(msg)

	if s.deps.Episodes == nil {
		return
	}
	s.persist.Add(1)
	go func() {
		defer s.persist.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.deps.Episodes.RecordEpisode(ctx, rec); err != nil {
			slog.Error("failed to record episode", "session", s.Code, "episode", rec.ID, "error", err)
			return
		}
		slog.Info("episode recorded", "session", s.Code, "episode", rec.ID,
			"duration", rec.Duration, "max_level", rec.MaxLevel)
	}()
}

// Info is the session summary sent on join and on state changes.
type Info struct {
	Code      string `json:"code"`
	State     string `json:"state"`
	Observers int    `json:"observers"`
}

func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{Code: s.Code, State: s.state.String(), Observers: len(s.observers)}
}

func (s *Session) broadcastInfo() {
	msg, _ := ws.NewMessage(ws.TypeSessionInfo, s.Info())
	s.Broadcast(msg)
}

// Broadcast sends msg to every observer, encoding it once.
func (s *Session) Broadcast(msg ws.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal broadcast", "type", msg.Type, "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.observers {
		c.SendRaw(data)
	}
}

// Package npc implements schedule-driven actors with a combat side channel.
package npc

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/ugaemi/wantedsim-server/internal/game"
)

// Combat holds detection ranges. A zero SightRange disables detection.
type Combat struct {
	SightRange  float64 `json:"sight_range" yaml:"sight_range"`
	AttackRange float64 `json:"attack_range" yaml:"attack_range"`
	LoseRange   float64 `json:"lose_range" yaml:"lose_range"`
}

// LineOfSight answers whether two points can see each other.
type LineOfSight interface {
	Visible(from, to game.Vec) bool
}

// Config describes an actor at creation time.
type Config struct {
	Name         string
	Archetype    Archetype
	Schedule     Schedule
	Destinations map[string]game.Vec
	Patrol       []game.Vec
	Combat       Combat
	Position     game.Vec
	Speed        float64
	// Mover overrides the default straight-line Walker.
	Mover Mover
}

type override struct {
	dest      game.Vec
	remaining float64
}

// Actor is a single NPC, guard or police unit.
type Actor struct {
	ID           string
	Name         string
	Archetype    Archetype
	State        State
	Schedule     Schedule
	Destinations map[string]game.Vec
	Patrol       []game.Vec
	Combat       Combat

	mover     Mover
	patrolIdx int
	aggro     bool
	override  *override
	alive     bool
}

// New creates a live actor in StateNone; the first schedule update assigns its state.
func New(cfg Config) *Actor {
	m := cfg.Mover
	if m == nil {
		m = NewWalker(cfg.Position, cfg.Speed)
	}
	dests := cfg.Destinations
	if dests == nil {
		dests = make(map[string]game.Vec)
	}
	combat := cfg.Combat
	if combat.LoseRange < combat.SightRange {
		combat.LoseRange = combat.SightRange
	}
	return &Actor{
		ID:           uuid.New().String(),
		Name:         cfg.Name,
		Archetype:    cfg.Archetype,
		State:        StateNone,
		Schedule:     cfg.Schedule,
		Destinations: dests,
		Patrol:       cfg.Patrol,
		Combat:       combat,
		mover:        m,
		alive:        true,
	}
}

// Position returns the actor's current position.
func (a *Actor) Position() game.Vec { return a.mover.Position() }

// Mover returns the actor's movement delegate.
func (a *Actor) Mover() Mover { return a.mover }

// Alive reports whether the actor has not been killed or despawned.
func (a *Actor) Alive() bool { return a.alive }

// Kill marks the actor dead and stops it.
func (a *Actor) Kill() {
	a.alive = false
	a.aggro = false
	a.override = nil
	a.mover.Stop()
}

// InAggro reports whether combat has latched.
func (a *Actor) InAggro() bool { return a.aggro }

// Overridden reports whether a timed override is in flight.
func (a *Actor) Overridden() bool { return a.override != nil }

// CanFight reports whether the actor takes part in detection.
func (a *Actor) CanFight() bool {
	return a.Archetype != ArchetypeCivilian && a.Combat.SightRange > 0
}

// UpdateSchedule applies the schedule for hour. It is a no-op when the computed
// state equals the current one, while aggro is latched, or while an override
// is active. Returns whether the state changed.
func (a *Actor) UpdateSchedule(hour float64) bool {
	if !a.alive || a.aggro || a.override != nil {
		return false
	}

	state, key := a.Schedule.DetermineState(hour)
	if state == a.State {
		return false
	}

	if key == "" {
		a.State = state
		return true
	}

	dest, ok := a.resolve(key)
	if !ok {
		slog.Warn("schedule destination missing, transition skipped",
			"actor", a.Name, "state", state.String(), "destination", key)
		return false
	}

	a.State = state
	a.mover.MoveTo(dest, false)
	return true
}

// Reissue recomputes the schedule state for hour and forces the movement
// request even if the destination is unchanged.
func (a *Actor) Reissue(hour float64) {
	state, key := a.Schedule.DetermineState(hour)
	a.State = state
	if key == "" {
		return
	}
	dest, ok := a.resolve(key)
	if !ok {
		slog.Warn("schedule destination missing, movement skipped",
			"actor", a.Name, "state", state.String(), "destination", key)
		return
	}
	a.mover.MoveTo(dest, true)
}

// Pursue keeps a searching actor heading for target.
func (a *Actor) Pursue(target game.Vec) {
	if !a.alive || a.aggro || a.State != StateSearch {
		return
	}
	a.mover.MoveTo(target, false)
}

// Override sends the actor to dest for duration seconds, replacing any override
// already in flight. Ignored while aggro is latched.
func (a *Actor) Override(dest game.Vec, duration float64) {
	if !a.alive || duration <= 0 {
		return
	}
	if a.aggro {
		slog.Debug("override ignored during aggro", "actor", a.Name)
		return
	}
	a.override = &override{dest: dest, remaining: duration}
	a.mover.MoveTo(dest, true)
}

// Flee overrides the actor's movement with a point distance units away from threat.
func (a *Actor) Flee(threat game.Vec, distance, duration float64) {
	a.Override(game.FleePoint(a.Position(), threat, distance), duration)
}

// Step advances timers and movement by dt seconds.
func (a *Actor) Step(dt, hour float64) {
	if !a.alive {
		return
	}

	if a.override != nil {
		a.override.remaining -= dt
		if a.override.remaining <= 0 {
			a.override = nil
			a.Reissue(hour)
		}
	}

	a.mover.Step(dt)

	if a.State == StatePatrol && !a.aggro && a.override == nil && len(a.Patrol) > 1 && a.mover.Arrived() {
		a.patrolIdx = (a.patrolIdx + 1) % len(a.Patrol)
		a.mover.MoveTo(a.Patrol[a.patrolIdx], false)
	}
}

// resolve maps a destination key to a position. Patrol resolves to the current
// patrol point when patrol points are configured.
func (a *Actor) resolve(key string) (game.Vec, bool) {
	if key == DestPatrol && len(a.Patrol) > 0 {
		return a.Patrol[a.patrolIdx%len(a.Patrol)], true
	}
	dest, ok := a.Destinations[key]
	return dest, ok
}

// View is a read-only snapshot of an actor.
type View struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Archetype Archetype `json:"archetype"`
	State     State     `json:"state"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Aggro     bool      `json:"aggro"`
}

// View returns a snapshot of the actor.
func (a *Actor) View() View {
	pos := a.Position()
	return View{
		ID:        a.ID,
		Name:      a.Name,
		Archetype: a.Archetype,
		State:     a.State,
		X:         pos.X,
		Y:         pos.Y,
		Aggro:     a.aggro,
	}
}

// Package sim owns one simulation: the clock, the actors, the tracked subject
// and the wanted controller, advanced together in a fixed per-tick order.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/ugaemi/wantedsim-server/internal/clock"
	"github.com/ugaemi/wantedsim-server/internal/config"
	"github.com/ugaemi/wantedsim-server/internal/game"
	"github.com/ugaemi/wantedsim-server/internal/npc"
	"github.com/ugaemi/wantedsim-server/internal/wanted"
)

// ErrActorNotFound is returned by hooks addressing an unknown actor.
var ErrActorNotFound = errors.New("actor not found")

// Subject is the player-controlled target police are spawned around.
type Subject struct {
	pos game.Vec
}

func (s *Subject) Position() game.Vec { return s.pos }

// World is the simulation context. It is not safe for concurrent use; callers
// serialise access (see session.Session).
type World struct {
	Clock  *clock.Clock
	Wanted *wanted.Controller

	subject *Subject
	sight   game.Occluders
	police  config.PoliceTemplate

	actors  []*npc.Actor
	byID    map[string]*npc.Actor
	hour    float64
	tick    uint64
	pending []Event
	officer int
}

// NewWorld builds a world from a scenario. Actors with an unknown archetype are
// logged and skipped.
func NewWorld(sc *config.Scenario) *World {
	w := &World{
		Clock:   clock.New(sc.DayLengthMinutes, sc.StartHour),
		subject: &Subject{pos: sc.Subject},
		sight:   game.Occluders{Walls: sc.Walls},
		police:  sc.Police,
		byID:    make(map[string]*npc.Actor),
	}
	w.hour = w.Clock.Hour()
	w.Clock.Subscribe(func(h float64) { w.hour = h })

	rng := rand.New(rand.NewSource(sc.Seed))
	w.Wanted = wanted.NewController(sc.Wanted, policeSpawner{w: w}, rng)
	w.Wanted.SetSubject(w.subject)

	for _, t := range sc.Actors {
		a, err := actorFromTemplate(t)
		if err != nil {
			slog.Warn("scenario actor skipped", "actor", t.Name, "error", err)
			continue
		}
		w.AddActor(a)
	}
	return w
}

func actorFromTemplate(t config.ActorTemplate) (*npc.Actor, error) {
	arch, ok := npc.ParseArchetype(t.Archetype)
	if !ok {
		return nil, fmt.Errorf("unknown archetype %q", t.Archetype)
	}

	var sched npc.Schedule
	switch arch {
	case npc.ArchetypeCivilian:
		sched = npc.CivilianSchedule(t.Windows["sleep"], t.Windows["break"], t.Windows["work"])
	case npc.ArchetypeGuard:
		sched = npc.GuardSchedule(t.Windows["station"], t.Windows["patrol"])
	case npc.ArchetypePolice:
		sched = npc.PoliceSchedule()
	}

	return npc.New(npc.Config{
		Name:         t.Name,
		Archetype:    arch,
		Schedule:     sched,
		Destinations: t.Destinations,
		Patrol:       t.Patrol,
		Combat:       t.Combat,
		Position:     t.Position,
		Speed:        t.Speed,
	}), nil
}

// AddActor registers an actor; it is updated after every actor added before it.
func (w *World) AddActor(a *npc.Actor) {
	w.actors = append(w.actors, a)
	w.byID[a.ID] = a
}

// Actor looks up an actor by ID.
func (w *World) Actor(id string) (*npc.Actor, bool) {
	a, ok := w.byID[id]
	return a, ok
}

// Actors returns the live actors in update order.
func (w *World) Actors() []*npc.Actor {
	out := make([]*npc.Actor, len(w.actors))
	copy(out, w.actors)
	return out
}

// Hour returns the hour most recently published by the clock.
func (w *World) Hour() float64 { return w.hour }

// TickCount returns the number of completed ticks.
func (w *World) TickCount() uint64 { return w.tick }

// SubjectPosition returns the tracked subject's position.
func (w *World) SubjectPosition() game.Vec { return w.subject.pos }

// Tick advances the world by dt seconds and returns every event raised since
// the previous tick, including those from hooks called in between.
//
// Order: clock advance and publish, schedules, detection, movement, wanted
// controller, removal of dead actors.
func (w *World) Tick(dt float64) []Event {
	w.tick++
	w.Clock.Advance(dt)
	h := w.hour

	for _, a := range w.actors {
		prev := a.State
		if a.UpdateSchedule(h) {
			w.emitState(a, prev)
		}
	}

	target := w.subject.pos
	for _, a := range w.actors {
		if !a.CanFight() {
			continue
		}
		// Police only react to the subject while wanted.
		if a.Archetype == npc.ArchetypePolice && !w.Wanted.Active() {
			continue
		}
		prev := a.State
		if a.Detect(target, w.sight, h) {
			w.emitState(a, prev)
		}
		a.Pursue(target)
	}

	for _, a := range w.actors {
		prev := a.State
		a.Step(dt, h)
		if a.State != prev {
			w.emitState(a, prev)
		}
	}

	w.applyWanted(w.Wanted.Tick(dt))
	w.removeDead()

	events := w.pending
	w.pending = nil
	return events
}

// SetWanted toggles the wanted state. It returns the finished episode when an
// active period ends.
func (w *World) SetWanted(active bool) *wanted.Episode {
	wasActive := w.Wanted.Active()
	res := w.Wanted.SetActive(active)
	if active && !wasActive {
		w.emit(Event{Kind: EventWantedActivated})
	}
	w.applyWanted(res)
	w.removeDead()
	return res.Ended
}

// MoveSubject teleports the tracked subject.
func (w *World) MoveSubject(pos game.Vec) {
	w.subject.pos = pos
}

// Damage applies the damage callback to an actor. Guards and police latch aggro
// on the subject, civilians flee from it. Harming a non-police actor raises the
// wanted state if it is not already active.
func (w *World) Damage(actorID string) error {
	a, ok := w.byID[actorID]
	if !ok || !a.Alive() {
		return ErrActorNotFound
	}

	w.emit(Event{Kind: EventActorDamaged, ActorID: a.ID})
	prev := a.State
	if a.CanFight() {
		a.ForceAggro(w.subject.pos)
	} else {
		a.Flee(w.subject.pos, game.FleeDistance, game.FleeDuration)
	}
	if a.State != prev {
		w.emitState(a, prev)
	}

	if a.Archetype != npc.ArchetypePolice && !w.Wanted.Active() {
		w.SetWanted(true)
	}
	return nil
}

// Kill removes an actor from the world. Killing a non-police actor raises the
// wanted state if it is not already active.
func (w *World) Kill(actorID string) error {
	a, ok := w.byID[actorID]
	if !ok || !a.Alive() {
		return ErrActorNotFound
	}
	a.Kill()
	if a.Archetype != npc.ArchetypePolice && !w.Wanted.Active() {
		w.SetWanted(true)
	}
	w.removeDead()
	return nil
}

func (w *World) applyWanted(res wanted.Result) {
	switch {
	case res.Ended != nil:
		w.emit(Event{Kind: EventWantedCleared, Level: res.LevelFrom})
	case res.LevelChanged():
		w.emit(Event{Kind: EventWantedLevel, Level: res.LevelTo})
	}
	for _, u := range res.Spawned {
		if a, ok := u.(*npc.Actor); ok {
			pos := a.Position()
			w.emit(Event{Kind: EventUnitSpawned, ActorID: a.ID, X: pos.X, Y: pos.Y, Level: w.Wanted.Level()})
		}
	}
}

// removeDead drops dead actors while keeping update order.
func (w *World) removeDead() {
	kept := w.actors[:0]
	for _, a := range w.actors {
		if a.Alive() {
			kept = append(kept, a)
			continue
		}
		delete(w.byID, a.ID)
		w.emit(Event{Kind: EventActorRemoved, ActorID: a.ID})
	}
	for i := len(kept); i < len(w.actors); i++ {
		w.actors[i] = nil
	}
	w.actors = kept
}

func (w *World) emitState(a *npc.Actor, prev npc.State) {
	w.emit(Event{Kind: EventStateChanged, ActorID: a.ID, From: prev.String(), To: a.State.String()})
}

func (w *World) emit(e Event) {
	e.Tick = w.tick
	w.pending = append(w.pending, e)
}

// policeSpawner adapts the world to the wanted controller's Spawner.
type policeSpawner struct {
	w *World
}

func (p policeSpawner) SpawnUnit(at game.Vec) (wanted.Unit, error) {
	w := p.w
	w.officer++
	a := npc.New(npc.Config{
		Name:      fmt.Sprintf("Officer %d", w.officer),
		Archetype: npc.ArchetypePolice,
		Schedule:  npc.PoliceSchedule(),
		Combat:    w.police.Combat,
		Position:  at,
		Speed:     w.police.Speed,
	})
	a.UpdateSchedule(w.hour)
	a.Pursue(w.subject.pos)
	w.AddActor(a)
	return a, nil
}

func (p policeSpawner) DespawnUnit(u wanted.Unit) {
	a, ok := u.(*npc.Actor)
	if !ok {
		return
	}
	if a.Alive() {
		a.Kill()
	}
	p.w.emit(Event{Kind: EventUnitDespawned, ActorID: a.ID})
}

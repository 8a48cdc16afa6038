package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/wantedsim-server/internal/config"
	"github.com/ugaemi/wantedsim-server/internal/game"
	"github.com/ugaemi/wantedsim-server/internal/npc"
	"github.com/ugaemi/wantedsim-server/internal/wanted"
)

func testScenario() *config.Scenario {
	return &config.Scenario{
		DayLengthMinutes: 24, // one simulated hour per real minute
		StartHour:        11,
		Seed:             1,
		Wanted: wanted.Config{
			Thresholds:       []float64{0, 30, 60, 120, 180},
			Caps:             []int{2, 4, 6, 8, 12},
			SpawnIntervals:   []float64{1000},
			MinSpawnDistance: 40,
			BurstSize:        2,
			SpawnPoints:      []game.Vec{{X: 60}, {X: -60}},
		},
		Police: config.PoliceTemplate{
			Speed:  5,
			Combat: npc.Combat{SightRange: 25, AttackRange: 2, LoseRange: 45},
		},
		Actors: []config.ActorTemplate{
			{
				Name:      "Mara",
				Archetype: "civilian",
				Position:  game.Vec{X: 100, Y: 100},
				Windows: map[string]npc.Window{
					"sleep": {Start: 22, End: 6},
					"break": {Start: 12, End: 13},
					"work":  {Start: 9, End: 17},
				},
				Destinations: map[string]game.Vec{
					"bed":  {X: 100, Y: 100},
					"food": {X: 110, Y: 100},
					"work": {X: 120, Y: 100},
					"home": {X: 100, Y: 105},
				},
			},
			{
				Name:      "Holt",
				Archetype: "guard",
				Position:  game.Vec{X: 200, Y: 200},
				Windows: map[string]npc.Window{
					"station": {Start: 20, End: 4},
					"patrol":  {Start: 8, End: 20},
				},
				Destinations: map[string]game.Vec{"station": {X: 200, Y: 200}, "zone": {X: 205, Y: 200}},
				Patrol:       []game.Vec{{X: 200, Y: 200}, {X: 210, Y: 200}},
				Combat:       npc.Combat{SightRange: 15, AttackRange: 2, LoseRange: 30},
			},
		},
	}
}

func actorByName(t *testing.T, w *World, name string) *npc.Actor {
	t.Helper()
	for _, a := range w.Actors() {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("actor %s not found", name)
	return nil
}

func police(w *World) []*npc.Actor {
	var out []*npc.Actor
	for _, a := range w.Actors() {
		if a.Archetype == npc.ArchetypePolice {
			out = append(out, a)
		}
	}
	return out
}

func countKind(events []Event, kind string) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewWorld_SkipsUnknownArchetype(t *testing.T) {
	sc := testScenario()
	sc.Actors = append(sc.Actors, config.ActorTemplate{Name: "Ghost", Archetype: "wizard"})
	w := NewWorld(sc)
	assert.Len(t, w.Actors(), 2)
}

func TestTick_CivilianWorkBreakWork(t *testing.T) {
	w := NewWorld(testScenario())
	mara := actorByName(t, w, "Mara")

	w.Tick(30)
	assert.Equal(t, npc.StateWorking, mara.State)

	w.Tick(30)
	assert.InDelta(t, 12.0, w.Hour(), 1e-9)
	assert.Equal(t, npc.StateEating, mara.State)

	w.Tick(60)
	assert.InDelta(t, 13.0, w.Hour(), 1e-9)
	assert.Equal(t, npc.StateWorking, mara.State)
}

func TestTick_EmitsStateChangesOnce(t *testing.T) {
	w := NewWorld(testScenario())

	events := w.Tick(1)
	assert.Equal(t, 2, countKind(events, EventStateChanged), "both actors get their first state")

	events = w.Tick(1)
	assert.Equal(t, 0, countKind(events, EventStateChanged))
}

func TestTick_AllActorsSeePublishedHour(t *testing.T) {
	w := NewWorld(testScenario())
	var published []float64
	w.Clock.Subscribe(func(h float64) { published = append(published, h) })

	w.Tick(30)
	require.Len(t, published, 1)
	assert.Equal(t, published[0], w.Hour())
}

func TestSetWanted_SpawnsPoliceIntoWorld(t *testing.T) {
	w := NewWorld(testScenario())
	w.SetWanted(true)

	cops := police(w)
	require.Len(t, cops, 2)
	for _, c := range cops {
		assert.Equal(t, npc.StateSearch, c.State)
		assert.GreaterOrEqual(t, game.Distance(c.Position(), w.SubjectPosition()), 40.0)
	}

	events := w.Tick(1)
	assert.Equal(t, 1, countKind(events, EventWantedActivated))
	assert.Equal(t, 2, countKind(events, EventUnitSpawned))
}

func TestSetWanted_OnThenOffLeavesNoPolice(t *testing.T) {
	w := NewWorld(testScenario())
	w.SetWanted(true)
	ep := w.SetWanted(false)

	assert.Empty(t, police(w))
	assert.Equal(t, 0, w.Wanted.Count())
	assert.Equal(t, 0.0, w.Wanted.TimeActive())
	require.NotNil(t, ep)
	assert.Equal(t, 2, ep.Spawned)

	events := w.Tick(1)
	assert.Equal(t, 2, countKind(events, EventUnitDespawned))
	assert.Equal(t, 1, countKind(events, EventWantedCleared))
}

func TestTick_PoliceCloseInAndAggro(t *testing.T) {
	w := NewWorld(testScenario())
	w.SetWanted(true)

	for i := 0; i < 13; i++ {
		w.Tick(1)
	}

	for _, c := range police(w) {
		assert.True(t, c.InAggro(), "%s should have latched aggro", c.Name)
		assert.Equal(t, npc.StateAttack, c.State)
	}
}

func TestTick_LevelUpBurstAddsPolice(t *testing.T) {
	w := NewWorld(testScenario())
	w.MoveSubject(game.Vec{X: 1000, Y: 1000})
	w.SetWanted(true)

	var levelEvents int
	for i := 0; i < 31; i++ {
		levelEvents += countKind(w.Tick(1), EventWantedLevel)
	}
	assert.Equal(t, 1, levelEvents)
	assert.Equal(t, 1, w.Wanted.Level())
	assert.Len(t, police(w), 4)
}

func TestDamage_CivilianFleesAndRaisesWanted(t *testing.T) {
	w := NewWorld(testScenario())
	w.Tick(1)
	mara := actorByName(t, w, "Mara")

	require.NoError(t, w.Damage(mara.ID))
	assert.True(t, mara.Overridden())
	assert.True(t, w.Wanted.Active())
	assert.Len(t, police(w), 2)

	events := w.Tick(1)
	assert.Equal(t, 1, countKind(events, EventActorDamaged))
}

func TestDamage_GuardLatchesAggro(t *testing.T) {
	w := NewWorld(testScenario())
	w.Tick(1)
	holt := actorByName(t, w, "Holt")

	require.NoError(t, w.Damage(holt.ID))
	assert.True(t, holt.InAggro())
	assert.Equal(t, npc.StateAggro, holt.State)
}

func TestDamage_UnknownActor(t *testing.T) {
	w := NewWorld(testScenario())
	assert.ErrorIs(t, w.Damage("missing"), ErrActorNotFound)
	assert.ErrorIs(t, w.Kill("missing"), ErrActorNotFound)
}

func TestKill_PoliceFreesCapacity(t *testing.T) {
	w := NewWorld(testScenario())
	w.SetWanted(true)
	cops := police(w)
	require.Len(t, cops, 2)

	require.NoError(t, w.Kill(cops[0].ID))
	assert.Len(t, police(w), 1)
	assert.Equal(t, 1, w.Wanted.Count())

	_, ok := w.Actor(cops[0].ID)
	assert.False(t, ok)

	// A dead unit can't be killed twice
	assert.ErrorIs(t, w.Kill(cops[0].ID), ErrActorNotFound)
}

func TestSnapshot(t *testing.T) {
	w := NewWorld(testScenario())
	w.SetWanted(true)
	w.Tick(1)

	snap := w.Snapshot()
	assert.Equal(t, uint64(1), snap.Tick)
	assert.True(t, snap.Wanted.Active)
	assert.Equal(t, 2, snap.Wanted.Cap)
	assert.Equal(t, 2, snap.Wanted.Units)
	assert.Len(t, snap.Actors, 4)
}

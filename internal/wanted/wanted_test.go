package wanted

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/wantedsim-server/internal/game"
)

type fakeUnit struct {
	at    game.Vec
	alive bool
}

func (u *fakeUnit) Alive() bool { return u.alive }

type fakeSpawner struct {
	spawned   []*fakeUnit
	despawned int
	fail      bool
}

func (s *fakeSpawner) SpawnUnit(at game.Vec) (Unit, error) {
	if s.fail {
		return nil, errors.New("no prefab")
	}
	u := &fakeUnit{at: at, alive: true}
	s.spawned = append(s.spawned, u)
	return u, nil
}

func (s *fakeSpawner) DespawnUnit(u Unit) {
	u.(*fakeUnit).alive = false
	s.despawned++
}

type fixedSubject game.Vec

func (f fixedSubject) Position() game.Vec { return game.Vec(f) }

func scenarioConfig() Config {
	return Config{
		Thresholds:       []float64{0, 30, 60, 120, 180},
		Caps:             []int{2, 4, 6, 8, 12},
		SpawnIntervals:   []float64{1000},
		MinSpawnDistance: 50,
		BurstSize:        2,
		SpawnPoints:      []game.Vec{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}},
	}
}

func newController(cfg Config) (*Controller, *fakeSpawner) {
	sp := &fakeSpawner{}
	c := NewController(cfg, sp, rand.New(rand.NewSource(42)))
	c.SetSubject(fixedSubject{})
	return c, sp
}

func tickTo(c *Controller, seconds float64) []Result {
	var out []Result
	for c.TimeActive() < seconds {
		out = append(out, c.Tick(1))
	}
	return out
}

func TestLevelFor(t *testing.T) {
	c, _ := newController(scenarioConfig())

	tests := []struct {
		timer    float64
		expected int
	}{
		{0, 0},
		{29.9, 0},
		{30, 1},
		{45, 1},
		{65, 2},
		{120, 3},
		{179, 3},
		{180, 4},
		{10_000, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, c.LevelFor(tt.timer), "timer %.1f", tt.timer)
	}
}

func TestLevelFor_MonotonicInTimer(t *testing.T) {
	c, _ := newController(scenarioConfig())
	prev := 0
	for timer := 0.0; timer < 300; timer += 0.5 {
		lvl := c.LevelFor(timer)
		require.GreaterOrEqual(t, lvl, prev)
		prev = lvl
	}
}

func TestLevelFor_ClampedToShorterTable(t *testing.T) {
	cfg := scenarioConfig()
	cfg.Caps = []int{2, 4}
	c, _ := newController(cfg)
	assert.Equal(t, 1, c.LevelFor(500))
}

func TestSetActive_SpawnsInitialBurst(t *testing.T) {
	c, sp := newController(scenarioConfig())
	res := c.SetActive(true)

	assert.True(t, c.Active())
	assert.Len(t, res.Spawned, 2)
	assert.Equal(t, 2, c.Count())
	for _, u := range sp.spawned {
		assert.GreaterOrEqual(t, game.Distance(u.at, game.Vec{}), 50.0)
	}
}

func TestScenario_LevelsAndCaps(t *testing.T) {
	c, _ := newController(scenarioConfig())
	c.SetActive(true)

	tickTo(c, 45)
	assert.Equal(t, 1, c.Level())
	assert.Equal(t, 4, c.Cap())
	assert.LessOrEqual(t, c.Count(), 4)

	results := tickTo(c, 65)
	assert.Equal(t, 2, c.Level())
	assert.Equal(t, 6, c.Cap())

	levelUps := 0
	for _, r := range results {
		if r.LevelChanged() {
			levelUps++
			assert.Equal(t, 1, r.LevelFrom)
			assert.Equal(t, 2, r.LevelTo)
			assert.LessOrEqual(t, len(r.Spawned), 2)
			assert.Len(t, r.Spawned, 2)
		}
	}
	assert.Equal(t, 1, levelUps, "burst fires once per level-up")
	assert.Equal(t, 6, c.Count())

	// No further spawns until the next threshold with a long interval
	results = tickTo(c, 110)
	for _, r := range results {
		assert.Empty(t, r.Spawned)
	}
}

func TestSetActive_OnThenOffLeavesNothing(t *testing.T) {
	c, sp := newController(scenarioConfig())
	c.SetActive(true)
	res := c.SetActive(false)

	assert.False(t, c.Active())
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, 0.0, c.TimeActive())
	assert.Equal(t, 0, c.Level())
	assert.Equal(t, 2, sp.despawned)
	require.NotNil(t, res.Ended)
	assert.Equal(t, 2, res.Ended.Spawned)
}

func TestSetActive_DeactivateResetsLevel(t *testing.T) {
	c, _ := newController(scenarioConfig())
	c.SetActive(true)
	tickTo(c, 130)
	require.Equal(t, 3, c.Level())

	res := c.SetActive(false)
	assert.Equal(t, 0, c.Level())
	assert.True(t, res.LevelChanged())
	require.NotNil(t, res.Ended)
	assert.Equal(t, 3, res.Ended.MaxLevel)
	assert.InDelta(t, 130, res.Ended.Duration, 1e-9)
}

func TestSetActive_RepeatIsNoop(t *testing.T) {
	c, sp := newController(scenarioConfig())
	c.SetActive(true)
	res := c.SetActive(true)
	assert.Empty(t, res.Spawned)
	assert.Len(t, sp.spawned, 2)

	c.SetActive(false)
	res = c.SetActive(false)
	assert.Nil(t, res.Ended)
}

func TestTick_InactiveIsNoop(t *testing.T) {
	c, sp := newController(scenarioConfig())
	c.Tick(100)
	assert.Equal(t, 0.0, c.TimeActive())
	assert.Empty(t, sp.spawned)
}

func TestTick_IntervalGatesSpawns(t *testing.T) {
	cfg := scenarioConfig()
	cfg.Thresholds = []float64{0}
	cfg.Caps = []int{10}
	cfg.SpawnIntervals = []float64{5}
	c, _ := newController(cfg)
	c.SetActive(true)
	require.Equal(t, 2, c.Count())

	for i := 0; i < 4; i++ {
		assert.Empty(t, c.Tick(1).Spawned)
	}
	assert.Len(t, c.Tick(1).Spawned, 1)
	assert.Equal(t, 3, c.Count())

	tickTo(c, 20)
	assert.Equal(t, 6, c.Count())
}

func TestPopulation_NeverExceedsCapAfterPrune(t *testing.T) {
	cfg := scenarioConfig()
	cfg.SpawnIntervals = []float64{1}
	c, sp := newController(cfg)
	c.SetActive(true)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 400; i++ {
		c.Tick(1)
		// Random deaths
		for _, u := range sp.spawned {
			if u.alive && rng.Intn(10) == 0 {
				u.alive = false
			}
		}
		require.LessOrEqual(t, c.Count(), c.Cap(), "tick %d", i)
	}
}

func TestPopulation_DeathsFreeCapacity(t *testing.T) {
	cfg := scenarioConfig()
	cfg.SpawnIntervals = []float64{1}
	c, sp := newController(cfg)
	c.SetActive(true)
	require.Equal(t, 2, c.Count())

	// At cap: interval spawn is blocked
	assert.Empty(t, c.Tick(1).Spawned)

	sp.spawned[0].alive = false
	assert.Len(t, c.Tick(1).Spawned, 1)
	assert.Equal(t, 2, c.Count())
}

func TestSpawn_MissingConfigurationSkips(t *testing.T) {
	t.Run("no subject", func(t *testing.T) {
		c, sp := newController(scenarioConfig())
		c.SetSubject(nil)
		c.SetActive(true)
		assert.Empty(t, sp.spawned)
	})

	t.Run("no spawn points", func(t *testing.T) {
		cfg := scenarioConfig()
		cfg.SpawnPoints = nil
		c, sp := newController(cfg)
		c.SetActive(true)
		assert.Empty(t, sp.spawned)
	})

	t.Run("empty tables", func(t *testing.T) {
		c, sp := newController(Config{SpawnPoints: []game.Vec{{X: 100}}})
		c.SetActive(true)
		tickTo(c, 100)
		assert.Equal(t, 0, c.Level())
		assert.Equal(t, 0, c.Cap())
		assert.Empty(t, sp.spawned)
	})

	t.Run("spawner error", func(t *testing.T) {
		c, sp := newController(scenarioConfig())
		sp.fail = true
		res := c.SetActive(true)
		assert.Empty(t, res.Spawned)
		assert.Equal(t, 0, c.Count())
	})
}

func TestSpawn_FallsBackWhenAllPointsTooClose(t *testing.T) {
	cfg := scenarioConfig()
	cfg.SpawnPoints = []game.Vec{{X: 1}}
	c, sp := newController(cfg)
	c.SetActive(true)

	require.Len(t, sp.spawned, 2)
	assert.Equal(t, game.Vec{X: 1}, sp.spawned[0].at)
}

func TestDespawn(t *testing.T) {
	c, sp := newController(scenarioConfig())
	c.SetActive(true)
	units := c.Units()
	require.Len(t, units, 2)

	c.Despawn(units[0])
	assert.Equal(t, 1, c.Count())
	assert.Equal(t, 1, sp.despawned)
}

func TestSpawnNow(t *testing.T) {
	cfg := scenarioConfig()
	c, _ := newController(cfg)

	_, ok := c.SpawnNow()
	assert.False(t, ok, "inactive controller does not spawn")

	c.SetActive(true)
	_, ok = c.SpawnNow()
	assert.False(t, ok, "cap reached")
}

func TestStats(t *testing.T) {
	c, sp := newController(scenarioConfig())
	c.SetActive(true)
	c.Tick(5)

	sp.spawned[0].alive = false
	st := c.Stats()
	assert.True(t, st.Active)
	assert.Equal(t, 0, st.Level)
	assert.Equal(t, 5.0, st.TimeActive)
	assert.Equal(t, 2, st.Cap)
	assert.Equal(t, 1, st.Units)
	assert.Equal(t, 2, st.Spawned)
}

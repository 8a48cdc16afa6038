// Package wanted implements the police escalation controller: a heat timer
// while active, a level derived from a threshold table, and a population of
// spawned units bounded by a per-level cap.
package wanted

import (
	"log/slog"
	"math/rand"

	"github.com/ugaemi/wantedsim-server/internal/game"
)

// Unit is a spawned antagonist tracked by the controller.
type Unit interface {
	Alive() bool
}

// Spawner creates and removes units on behalf of the controller.
type Spawner interface {
	SpawnUnit(at game.Vec) (Unit, error)
	DespawnUnit(u Unit)
}

// Subject is the tracked target units are spawned around.
type Subject interface {
	Position() game.Vec
}

// Config holds the escalation tables. Thresholds are ascending seconds of
// activity; Caps[i] bounds the population at level i.
type Config struct {
	Thresholds       []float64  `json:"thresholds" yaml:"thresholds"`
	Caps             []int      `json:"caps" yaml:"caps"`
	SpawnIntervals   []float64  `json:"spawn_intervals" yaml:"spawn_intervals"`
	MinSpawnDistance float64    `json:"min_spawn_distance" yaml:"min_spawn_distance"`
	BurstSize        int        `json:"burst_size" yaml:"burst_size"`
	SpawnPoints      []game.Vec `json:"spawn_points" yaml:"spawn_points"`
}

// Episode summarises one active period.
type Episode struct {
	Duration float64
	MaxLevel int
	Spawned  int
}

// Result reports what a SetActive or Tick call changed.
type Result struct {
	LevelFrom int
	LevelTo   int
	Spawned   []Unit
	Ended     *Episode
}

// LevelChanged reports whether the level moved during the call.
func (r Result) LevelChanged() bool { return r.LevelFrom != r.LevelTo }

// Controller is the escalation state for one simulation. Not safe for concurrent use.
type Controller struct {
	cfg     Config
	spawner Spawner
	subject Subject
	rng     *rand.Rand

	active     bool
	timeActive float64
	level      int
	cooldown   float64
	units      []Unit

	maxLevel     int
	spawned      int
	tablesWarned bool
}

// NewController creates an inactive controller.
func NewController(cfg Config, spawner Spawner, rng *rand.Rand) *Controller {
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = game.DefaultBurstSize
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Controller{cfg: cfg, spawner: spawner, rng: rng}
}

// SetSubject sets the tracked subject. nil clears it.
func (c *Controller) SetSubject(s Subject) { c.subject = s }

func (c *Controller) Active() bool        { return c.active }
func (c *Controller) Level() int          { return c.level }
func (c *Controller) TimeActive() float64 { return c.timeActive }

// Count returns the number of tracked units after pruning dead ones.
func (c *Controller) Count() int {
	c.prune()
	return len(c.units)
}

// Units returns a copy of the tracked units.
func (c *Controller) Units() []Unit {
	out := make([]Unit, len(c.units))
	copy(out, c.units)
	return out
}

// Cap returns the population cap for the current level.
func (c *Controller) Cap() int { return c.capFor(c.level) }

// Stats is a point-in-time summary of the controller.
type Stats struct {
	Active     bool    `json:"active"`
	Level      int     `json:"level"`
	TimeActive float64 `json:"time_active"`
	Cap        int     `json:"cap"`
	Units      int     `json:"units"`
	Spawned    int     `json:"spawned"`
}

// Stats prunes dead units and reports the current escalation state.
func (c *Controller) Stats() Stats {
	return Stats{
		Active:     c.active,
		Level:      c.level,
		TimeActive: c.timeActive,
		Cap:        c.Cap(),
		Units:      c.Count(),
		Spawned:    c.spawned,
	}
}

// SetActive toggles the wanted state. Activation resets the timer, level and
// cooldown and spawns one burst; deactivation despawns every tracked unit.
func (c *Controller) SetActive(active bool) Result {
	res := Result{LevelFrom: c.level, LevelTo: c.level}
	if active == c.active {
		return res
	}

	if active {
		c.active = true
		c.timeActive = 0
		c.level = 0
		c.cooldown = 0
		c.maxLevel = 0
		c.spawned = 0
		res.LevelTo = 0
		res.Spawned = c.burst()
		slog.Info("wanted activated", "spawned", len(res.Spawned))
		return res
	}

	ep := &Episode{Duration: c.timeActive, MaxLevel: c.maxLevel, Spawned: c.spawned}
	c.DespawnAll()
	c.active = false
	c.timeActive = 0
	c.level = 0
	c.cooldown = 0
	res.LevelTo = 0
	res.Ended = ep
	slog.Info("wanted cleared", "duration", ep.Duration, "max_level", ep.MaxLevel, "spawned", ep.Spawned)
	return res
}

// Tick advances the heat timer by dt seconds. A level increase spawns a burst
// bounded by the new cap; otherwise at most one unit spawns per level interval.
func (c *Controller) Tick(dt float64) Result {
	res := Result{LevelFrom: c.level, LevelTo: c.level}
	if !c.active || dt <= 0 {
		return res
	}

	c.timeActive += dt
	if lvl := c.levelFor(c.timeActive); lvl > c.level {
		c.level = lvl
		if lvl > c.maxLevel {
			c.maxLevel = lvl
		}
		res.LevelTo = lvl
		res.Spawned = append(res.Spawned, c.burst()...)
		slog.Info("wanted level increased", "level", lvl, "cap", c.Cap(), "units", len(c.units))
	}

	c.cooldown += dt
	if c.cooldown >= c.interval() {
		c.cooldown = 0
		if u := c.spawn(); u != nil {
			res.Spawned = append(res.Spawned, u)
		}
	}
	return res
}

// SpawnNow attempts one spawn outside the interval gate, honouring the cap.
func (c *Controller) SpawnNow() (Unit, bool) {
	if !c.active {
		return nil, false
	}
	u := c.spawn()
	return u, u != nil
}

// Despawn removes a single unit from tracking and from the world.
func (c *Controller) Despawn(u Unit) {
	for i, tracked := range c.units {
		if tracked == u {
			c.units = append(c.units[:i], c.units[i+1:]...)
			if c.spawner != nil {
				c.spawner.DespawnUnit(u)
			}
			return
		}
	}
}

// DespawnAll removes every tracked unit.
func (c *Controller) DespawnAll() {
	for _, u := range c.units {
		if c.spawner != nil {
			c.spawner.DespawnUnit(u)
		}
	}
	c.units = nil
}

// LevelFor returns the level for a timer value: the highest index whose
// threshold is at or below t, clamped to the configured tables.
func (c *Controller) LevelFor(t float64) int { return c.levelFor(t) }

func (c *Controller) levelFor(t float64) int {
	n := min(len(c.cfg.Thresholds), len(c.cfg.Caps))
	if n == 0 {
		if !c.tablesWarned {
			slog.Warn("wanted threshold or cap table empty, level fixed at 0",
				"thresholds", len(c.cfg.Thresholds), "caps", len(c.cfg.Caps))
			c.tablesWarned = true
		}
		return 0
	}
	level := 0
	for i := 0; i < n; i++ {
		if c.cfg.Thresholds[i] <= t {
			level = i
		}
	}
	return level
}

func (c *Controller) capFor(level int) int {
	if len(c.cfg.Caps) == 0 {
		return 0
	}
	if level >= len(c.cfg.Caps) {
		level = len(c.cfg.Caps) - 1
	}
	if level < 0 {
		level = 0
	}
	return c.cfg.Caps[level]
}

func (c *Controller) interval() float64 {
	iv := c.cfg.SpawnIntervals
	if len(iv) == 0 {
		return game.DefaultSpawnInterval
	}
	level := c.level
	if level >= len(iv) {
		level = len(iv) - 1
	}
	return iv[level]
}

func (c *Controller) burst() []Unit {
	var out []Unit
	for i := 0; i < c.cfg.BurstSize; i++ {
		u := c.spawn()
		if u == nil {
			break
		}
		out = append(out, u)
	}
	return out
}

// spawn places one unit if the pruned population is below the cap.
func (c *Controller) spawn() Unit {
	c.prune()
	if len(c.units) >= c.Cap() {
		return nil
	}
	if c.spawner == nil {
		slog.Warn("wanted spawn skipped, no spawner")
		return nil
	}
	if c.subject == nil {
		slog.Warn("wanted spawn skipped, no tracked subject")
		return nil
	}

	at, ok := game.SelectSpawnPoint(c.cfg.SpawnPoints, c.subject.Position(), c.cfg.MinSpawnDistance, c.rng)
	if !ok {
		slog.Warn("wanted spawn skipped, no spawn points configured")
		return nil
	}

	u, err := c.spawner.SpawnUnit(at)
	if err != nil {
		slog.Error("wanted spawn failed", "error", err)
		return nil
	}
	c.units = append(c.units, u)
	c.spawned++
	slog.Debug("wanted unit spawned", "x", at.X, "y", at.Y, "units", len(c.units), "cap", c.Cap())
	return u
}

// prune drops dead units from tracking.
func (c *Controller) prune() {
	kept := c.units[:0]
	for _, u := range c.units {
		if u.Alive() {
			kept = append(kept, u)
		}
	}
	for i := len(kept); i < len(c.units); i++ {
		c.units[i] = nil
	}
	c.units = kept
}

package npc

import (
	"log/slog"

	"github.com/ugaemi/wantedsim-server/internal/game"
)

// Detect runs the line-of-sight and range checks against target.
// Aggro latches when target is within sight range and visible, and is released
// only once target is farther than the lose range. While latched the actor
// attacks inside attack range and chases otherwise. Returns whether the state changed.
func (a *Actor) Detect(target game.Vec, los LineOfSight, hour float64) bool {
	if !a.alive || !a.CanFight() {
		return false
	}

	prev := a.State
	pos := a.Position()
	d := game.Distance(pos, target)

	if !a.aggro {
		if d > a.Combat.SightRange {
			return false
		}
		if los != nil && !los.Visible(pos, target) {
			return false
		}
		a.aggro = true
		a.override = nil
		slog.Debug("aggro latched", "actor", a.Name, "distance", d)
	}

	if d > a.Combat.LoseRange {
		a.releaseAggro(hour)
		return a.State != prev
	}

	a.engage(target, d)
	return a.State != prev
}

// ForceAggro latches aggro regardless of sight, as when the actor takes damage.
// Returns false for actors that cannot fight.
func (a *Actor) ForceAggro(target game.Vec) bool {
	if !a.alive || !a.CanFight() {
		return false
	}
	a.aggro = true
	a.override = nil
	a.engage(target, game.Distance(a.Position(), target))
	return true
}

func (a *Actor) engage(target game.Vec, d float64) {
	if d <= a.Combat.AttackRange {
		a.State = StateAttack
		a.mover.Stop()
		return
	}
	a.State = StateAggro
	a.mover.MoveTo(target, true)
}

func (a *Actor) releaseAggro(hour float64) {
	a.aggro = false
	slog.Debug("aggro released", "actor", a.Name)
	a.Reissue(hour)
}

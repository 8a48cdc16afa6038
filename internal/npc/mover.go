package npc

import "github.com/ugaemi/wantedsim-server/internal/game"

// Mover is the movement delegate an actor issues destination requests through.
type Mover interface {
	// MoveTo requests travel to dest. Without force, a request for the
	// destination already being travelled to is dropped. Returns whether the
	// request was issued.
	MoveTo(dest game.Vec, force bool) bool
	Stop()
	Step(dt float64)
	Position() game.Vec
	Arrived() bool
}

// Walker moves in a straight line toward its destination at a fixed speed.
type Walker struct {
	pos      game.Vec
	dest     game.Vec
	moving   bool
	speed    float64
	requests int
}

// NewWalker creates a walker standing at pos.
func NewWalker(pos game.Vec, speed float64) *Walker {
	if speed <= 0 {
		speed = game.DefaultWalkSpeed
	}
	return &Walker{pos: pos, speed: speed}
}

func (w *Walker) MoveTo(dest game.Vec, force bool) bool {
	if !force && w.moving && w.dest == dest {
		return false
	}
	w.dest = dest
	w.moving = true
	w.requests++
	return true
}

func (w *Walker) Stop() { w.moving = false }

func (w *Walker) Step(dt float64) {
	if !w.moving || dt <= 0 {
		return
	}
	delta := w.dest.Sub(w.pos)
	dist := delta.Len()
	travel := w.speed * dt
	if dist <= game.ArriveRadius || travel >= dist {
		w.pos = w.dest
		w.moving = false
		return
	}
	w.pos = w.pos.Add(delta.Scale(travel / dist))
}

func (w *Walker) Position() game.Vec { return w.pos }

// Arrived reports whether the walker has no outstanding destination.
func (w *Walker) Arrived() bool { return !w.moving }

// Destination returns the last requested destination.
func (w *Walker) Destination() game.Vec { return w.dest }

// Requests returns how many movement requests were issued.
func (w *Walker) Requests() int { return w.requests }

// Teleport places the walker at pos and cancels any travel.
func (w *Walker) Teleport(pos game.Vec) {
	w.pos = pos
	w.moving = false
}

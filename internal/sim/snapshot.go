package sim

import (
	"github.com/ugaemi/wantedsim-server/internal/game"
	"github.com/ugaemi/wantedsim-server/internal/npc"
	"github.com/ugaemi/wantedsim-server/internal/wanted"
)

// Snapshot is a read-only copy of the world state.
type Snapshot struct {
	Tick    uint64       `json:"tick"`
	Hour    float64      `json:"hour"`
	Day     int          `json:"day"`
	Subject game.Vec     `json:"subject"`
	Wanted  wanted.Stats `json:"wanted"`
	Actors  []npc.View   `json:"actors"`
}

// Snapshot captures the current world state.
func (w *World) Snapshot() Snapshot {
	actors := make([]npc.View, 0, len(w.actors))
	for _, a := range w.actors {
		actors = append(actors, a.View())
	}
	return Snapshot{
		Tick:    w.tick,
		Hour:    w.hour,
		Day:     w.Clock.Day(),
		Subject: w.subject.pos,
		Wanted:  w.Wanted.Stats(),
		Actors:  actors,
	}
}

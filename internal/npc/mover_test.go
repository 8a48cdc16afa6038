package npc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ugaemi/wantedsim-server/internal/game"
)

func TestWalker_MoveToDropsDuplicateUnlessForced(t *testing.T) {
	w := NewWalker(game.Vec{}, 1)

	assert.True(t, w.MoveTo(game.Vec{X: 10}, false))
	assert.False(t, w.MoveTo(game.Vec{X: 10}, false))
	assert.True(t, w.MoveTo(game.Vec{X: 10}, true))
	assert.True(t, w.MoveTo(game.Vec{X: 20}, false))
	assert.Equal(t, 3, w.Requests())
}

func TestWalker_StepMovesAndArrives(t *testing.T) {
	w := NewWalker(game.Vec{}, 2)
	w.MoveTo(game.Vec{X: 5}, false)

	w.Step(1)
	assert.InDelta(t, 2, w.Position().X, 1e-9)
	assert.False(t, w.Arrived())

	w.Step(2)
	assert.Equal(t, game.Vec{X: 5}, w.Position())
	assert.True(t, w.Arrived())

	// Once arrived the same destination may be requested again
	assert.True(t, w.MoveTo(game.Vec{X: 5}, false))
}

func TestWalker_Stop(t *testing.T) {
	w := NewWalker(game.Vec{}, 1)
	w.MoveTo(game.Vec{X: 5}, false)
	w.Stop()
	w.Step(1)
	assert.Equal(t, game.Vec{}, w.Position())
}

func TestWalker_DefaultSpeed(t *testing.T) {
	w := NewWalker(game.Vec{}, 0)
	w.MoveTo(game.Vec{X: 100}, false)
	w.Step(1)
	assert.InDelta(t, game.DefaultWalkSpeed, w.Position().X, 1e-9)
}

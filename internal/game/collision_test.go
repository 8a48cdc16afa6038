package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec
		expected float64
	}{
		{"same point", Vec{0, 0}, Vec{0, 0}, 0},
		{"horizontal", Vec{0, 0}, Vec{3, 0}, 3},
		{"vertical", Vec{0, 0}, Vec{0, 4}, 4},
		{"diagonal 3-4-5", Vec{0, 0}, Vec{3, 4}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(tt.a, tt.b), 0.001)
		})
	}
}

func TestOccluders_Visible(t *testing.T) {
	occ := Occluders{Walls: []Wall{
		{A: Vec{5, -5}, B: Vec{5, 5}},
	}}

	tests := []struct {
		name     string
		from, to Vec
		expected bool
	}{
		{"blocked by wall", Vec{0, 0}, Vec{10, 0}, false},
		{"clear above wall", Vec{0, 10}, Vec{10, 10}, true},
		{"same side", Vec{0, 0}, Vec{4, 3}, true},
		{"touching wall end", Vec{0, 5}, Vec{10, 5}, false},
		{"parallel to wall", Vec{6, -5}, Vec{6, 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, occ.Visible(tt.from, tt.to))
		})
	}
}

func TestOccluders_NoWalls(t *testing.T) {
	assert.True(t, Occluders{}.Visible(Vec{0, 0}, Vec{100, 100}))
}

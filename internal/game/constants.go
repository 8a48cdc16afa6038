package game

import "time"

// Simulation timing
const (
	TickRate     = 20 // ticks per second
	TickInterval = time.Second / TickRate
)

// DefaultDayLengthMinutes is the real minutes one simulated day lasts.
const DefaultDayLengthMinutes = 24.0

// Movement
const (
	DefaultWalkSpeed = 3.5  // units per second
	ArriveRadius     = 0.25 // units, destination reached within this distance
)

// Combat defaults for guards and police
const (
	DefaultSightRange  = 20.0
	DefaultAttackRange = 2.0
	DefaultLoseRange   = 35.0
)

// Flee behaviour for civilians
const (
	FleeDistance = 15.0
	FleeDuration = 4.0 // seconds
)

// Wanted escalation
const (
	DefaultBurstSize     = 2
	DefaultSpawnInterval = 10.0 // seconds between interval spawns
)

// MaxObservers bounds the clients attached to one session.
const MaxObservers = 8

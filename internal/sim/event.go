package sim

// Event kinds emitted by the world.
const (
	EventStateChanged    = "state_changed"
	EventUnitSpawned     = "unit_spawned"
	EventUnitDespawned   = "unit_despawned"
	EventActorRemoved    = "actor_removed"
	EventWantedActivated = "wanted_activated"
	EventWantedCleared   = "wanted_cleared"
	EventWantedLevel     = "wanted_level"
	EventActorDamaged    = "actor_damaged"
)

// Event is a single observable change in the world.
type Event struct {
	Tick    uint64  `json:"tick"`
	Kind    string  `json:"kind"`
	ActorID string  `json:"actor_id,omitempty"`
	From    string  `json:"from,omitempty"`
	To      string  `json:"to,omitempty"`
	Level   int     `json:"level,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
}

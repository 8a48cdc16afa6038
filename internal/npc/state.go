package npc

import (
	"encoding/json"
	"fmt"
)

// State is the discrete behaviour an actor is currently in.
type State int

const (
	StateNone State = iota
	StateSleeping
	StateEating
	StateWorking
	StateIdle
	StateZone
	StatePatrol
	StateStation
	StateSearch
	StateAggro
	StateAttack
)

var stateNames = map[State]string{
	StateNone:     "none",
	StateSleeping: "sleeping",
	StateEating:   "eating",
	StateWorking:  "working",
	StateIdle:     "idle",
	StateZone:     "zone",
	StatePatrol:   "patrol",
	StateStation:  "station",
	StateSearch:   "search",
	StateAggro:    "aggro",
	StateAttack:   "attack",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsCombat reports whether s is only reachable through detection.
func (s State) IsCombat() bool {
	return s == StateAggro || s == StateAttack
}

// MarshalJSON serializes State as a string.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the names produced by MarshalJSON.
func (s *State) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	*s = ParseState(name)
	return nil
}

// ParseState resolves a state name, returning StateNone for unknown names.
func ParseState(name string) State {
	for s, n := range stateNames {
		if n == name {
			return s
		}
	}
	return StateNone
}

// Archetype selects an actor's schedule precedence and combat capability.
type Archetype int

const (
	ArchetypeCivilian Archetype = iota
	ArchetypeGuard
	ArchetypePolice
)

func (a Archetype) String() string {
	switch a {
	case ArchetypeCivilian:
		return "civilian"
	case ArchetypeGuard:
		return "guard"
	case ArchetypePolice:
		return "police"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Archetype as a string.
func (a Archetype) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Archetype) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	v, ok := ParseArchetype(name)
	if !ok {
		return fmt.Errorf("unknown archetype %q", name)
	}
	*a = v
	return nil
}

// ParseArchetype resolves an archetype name.
func ParseArchetype(name string) (Archetype, bool) {
	switch name {
	case "civilian":
		return ArchetypeCivilian, true
	case "guard":
		return ArchetypeGuard, true
	case "police":
		return ArchetypePolice, true
	default:
		return ArchetypeCivilian, false
	}
}

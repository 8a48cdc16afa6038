package npc

// Destination keys used by the archetype schedules.
const (
	DestBed     = "bed"
	DestFood    = "food"
	DestWork    = "work"
	DestHome    = "home"
	DestZone    = "zone"
	DestPatrol  = "patrol"
	DestStation = "station"
)

// Window is the half-open hour range [Start, End). A window with Start > End
// wraps past midnight; Start == End is empty.
type Window struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Contains reports whether hour h falls inside the window.
func (w Window) Contains(h float64) bool {
	switch {
	case w.Start == w.End:
		return false
	case w.Start < w.End:
		return h >= w.Start && h < w.End
	default:
		return h >= w.Start || h < w.End
	}
}

// Rule maps a window to a state and the destination key the actor walks to.
type Rule struct {
	State       State
	Window      Window
	Destination string
}

// Schedule resolves an hour of day to a state. Rules are evaluated in order,
// so earlier rules take precedence over overlapping later ones.
type Schedule struct {
	Rules              []Rule
	Default            State
	DefaultDestination string
}

// DetermineState returns the state and destination key for hour h.
func (s Schedule) DetermineState(h float64) (State, string) {
	for _, r := range s.Rules {
		if r.Window.Contains(h) {
			return r.State, r.Destination
		}
	}
	return s.Default, s.DefaultDestination
}

// CivilianSchedule builds the fixed sleep > break > work > idle precedence.
func CivilianSchedule(sleep, breakWindow, work Window) Schedule {
	return Schedule{
		Rules: []Rule{
			{State: StateSleeping, Window: sleep, Destination: DestBed},
			{State: StateEating, Window: breakWindow, Destination: DestFood},
			{State: StateWorking, Window: work, Destination: DestWork},
		},
		Default:            StateIdle,
		DefaultDestination: DestHome,
	}
}

// GuardSchedule builds the fixed station > patrol > zone precedence.
func GuardSchedule(station, patrol Window) Schedule {
	return Schedule{
		Rules: []Rule{
			{State: StateStation, Window: station, Destination: DestStation},
			{State: StatePatrol, Window: patrol, Destination: DestPatrol},
		},
		Default:            StateZone,
		DefaultDestination: DestZone,
	}
}

// PoliceSchedule keeps police searching at every hour. The search target is the
// tracked subject, not a named destination.
func PoliceSchedule() Schedule {
	return Schedule{Default: StateSearch}
}

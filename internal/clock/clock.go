// Package clock advances the simulated time of day.
package clock

import "log/slog"

// HoursPerDay is the length of a simulated day in hours.
const HoursPerDay = 24.0

// Listener receives the hour of day after each advance.
type Listener func(hour float64)

// Clock tracks the hour of day in [0, 24) and the number of completed days.
// It is owned by a single simulation and is not safe for concurrent use.
type Clock struct {
	hour             float64
	day              int
	dayLengthMinutes float64
	listeners        []Listener
	warned           bool
}

// New creates a clock starting at startHour. dayLengthMinutes is the number of
// real minutes one simulated day takes.
func New(dayLengthMinutes, startHour float64) *Clock {
	c := &Clock{dayLengthMinutes: dayLengthMinutes}
	c.hour = wrap(startHour)
	return c
}

// Hour returns the current hour of day.
func (c *Clock) Hour() float64 { return c.hour }

// Day returns the number of midnights crossed since creation.
func (c *Clock) Day() int { return c.day }

// Rate returns simulated hours per real second.
func (c *Clock) Rate() float64 {
	if c.dayLengthMinutes <= 0 {
		return 0
	}
	return HoursPerDay / (c.dayLengthMinutes * 60)
}

// Subscribe registers fn to be called after every advance, in registration order.
func (c *Clock) Subscribe(fn Listener) {
	c.listeners = append(c.listeners, fn)
}

// Advance moves the clock forward by elapsed real seconds and publishes the new
// hour to every listener before returning.
func (c *Clock) Advance(elapsedSeconds float64) float64 {
	if c.dayLengthMinutes <= 0 {
		if !c.warned {
			slog.Warn("clock day length not configured, time is frozen", "day_length_minutes", c.dayLengthMinutes)
			c.warned = true
		}
		return c.hour
	}
	if elapsedSeconds <= 0 {
		return c.hour
	}

	c.hour += c.Rate() * elapsedSeconds
	for c.hour >= HoursPerDay {
		c.hour -= HoursPerDay
		c.day++
	}

	for _, fn := range c.listeners {
		fn(c.hour)
	}
	return c.hour
}

// wrap folds any hour value into [0, 24).
func wrap(h float64) float64 {
	for h >= HoursPerDay {
		h -= HoursPerDay
	}
	for h < 0 {
		h += HoursPerDay
	}
	return h
}

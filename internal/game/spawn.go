package game

import "math/rand"

// SelectSpawnPoint picks a candidate at least minDistance away from the subject.
// When no candidate qualifies it falls back to the full candidate set.
// Returns false only when there are no candidates at all.
func SelectSpawnPoint(candidates []Vec, subject Vec, minDistance float64, rng *rand.Rand) (Vec, bool) {
	if len(candidates) == 0 {
		return Vec{}, false
	}

	eligible := make([]Vec, 0, len(candidates))
	for _, c := range candidates {
		if isFarEnough(c, subject, minDistance) {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		eligible = candidates
	}

	return eligible[rng.Intn(len(eligible))], true
}

// FleePoint returns the position distance units away from threat, continuing
// the line threat -> from. A coincident threat flees along +X.
func FleePoint(from, threat Vec, distance float64) Vec {
	dir := from.Sub(threat)
	l := dir.Len()
	if l < 1e-9 {
		return Vec{X: from.X + distance, Y: from.Y}
	}
	return from.Add(dir.Scale(distance / l))
}

// isFarEnough checks if p is at least minDistance from the subject.
func isFarEnough(p, subject Vec, minDistance float64) bool {
	return Distance(p, subject) >= minDistance
}

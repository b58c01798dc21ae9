package steps

import "math"

// Progress maps the current step's position within the effective sequence
// to a 0..100 percentage: round(100 * position / length), where position
// is 1-based. It must be recomputed whenever the sequence changes shape;
// a step that is no longer effective counts as the slot it used to occupy.
func Progress(current ID, seq []ID) int {
	if len(seq) == 0 {
		return 0
	}

	pos := 0
	cur := position(current)
	for i, id := range seq {
		if id == current {
			pos = i + 1
			break
		}
		// Current step fell out of the sequence: count the effective
		// steps that still precede its old slot.
		if position(id) < cur {
			pos = i + 1
		}
	}
	if pos == 0 {
		pos = 1
	}

	return int(math.Round(100 * float64(pos) / float64(len(seq))))
}

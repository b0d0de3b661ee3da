package model

// AnswerSet maps a question number to a chosen option (1-4). It is used for
// both answer keys and submitted answers; JSON encodes the keys as strings.
type AnswerSet map[int]int

// NormalizeAnswerSet drops entries with a non-positive question number or an
// option outside 1-4. Unparsable entries never reach the engine.
func NormalizeAnswerSet(raw map[int]int) AnswerSet {
	out := make(AnswerSet, len(raw))
	for q, o := range raw {
		if q > 0 && o >= 1 && o <= 4 {
			out[q] = o
		}
	}
	return out
}

// MaxQuestion returns the highest question number present, or 0 when empty.
func (a AnswerSet) MaxQuestion() int {
	max := 0
	for q := range a {
		if q > max {
			max = q
		}
	}
	return max
}

// Truncated returns a copy without entries above the given question number.
// Submissions are clipped to the graded question range before evaluation.
func (a AnswerSet) Truncated(maxQuestion int) AnswerSet {
	out := make(AnswerSet, len(a))
	for q, o := range a {
		if q >= 1 && q <= maxQuestion {
			out[q] = o
		}
	}
	return out
}

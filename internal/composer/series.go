package composer

// SeriesDuration is the length of scenes played back to back with each
// pair joined by a cross-fade of transition frames:
// sum(d) - (n-1)*transition.
func SeriesDuration(durations []int, transition int) int {
	total := 0
	for _, d := range durations {
		total += d
	}
	if len(durations) > 1 {
		total -= (len(durations) - 1) * transition
	}
	return total
}

// SeriesOffsets returns the frame at which each scene starts in the joined
// cut. Scene i starts transition frames before scene i-1 ends.
func SeriesOffsets(durations []int, transition int) []int {
	offsets := make([]int, len(durations))
	at := 0
	for i, d := range durations {
		offsets[i] = at
		at += d - transition
	}
	return offsets
}

// ValidateSeries checks that every scene outlasts the transition into and
// out of it.
func ValidateSeries(durations []int, transition int) error {
	if transition < 0 {
		return errorf(ErrInvalidComposition, "negative transition %d", transition)
	}
	if len(durations) < 2 {
		return nil
	}
	for i, d := range durations {
		need := transition
		if i > 0 && i < len(durations)-1 {
			need = 2 * transition
		}
		if d <= need {
			return errorf(ErrInvalidComposition, "scene %d lasts %d frames, transition needs more than %d", i, d, need)
		}
	}
	return nil
}

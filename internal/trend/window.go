package trend

// WindowSize is the number of weeks a report looks at.
const WindowSize = 4

// ActiveWindow takes up to size consecutive entries of weeks (oldest first)
// ending at activeIdx, and returns them most recent first. Index 0 of the
// result is the current week and index 1 the previous one.
func ActiveWindow[T any](weeks []T, activeIdx, size int) []T {
	if len(weeks) == 0 || size <= 0 {
		return nil
	}
	if activeIdx >= len(weeks) {
		activeIdx = len(weeks) - 1
	}
	if activeIdx < 0 {
		return nil
	}
	from := max(0, activeIdx-size+1)

	out := make([]T, 0, activeIdx-from+1)
	for i := activeIdx; i >= from; i-- {
		out = append(out, weeks[i])
	}
	return out
}

// currentAndPrevious splits a window into its first two entries. ok reports
// whether a previous entry exists.
func currentAndPrevious[T any](window []T) (current, previous T, ok bool) {
	if len(window) > 0 {
		current = window[0]
	}
	if len(window) > 1 {
		return current, window[1], true
	}
	return current, previous, false
}

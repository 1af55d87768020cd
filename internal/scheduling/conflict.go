package scheduling

// Gap returns the idle minutes between two windows on the same day. A
// negative result means the windows overlap.
func Gap(a, b Window) int {
	forward := b.Start - a.End
	backward := a.Start - b.End
	if forward > backward {
		return forward
	}
	return backward
}

// SatisfiesBuffer reports whether the candidate window keeps at least
// bufferMinutes of travel time from the existing window. Overlapping
// windows never satisfy the buffer. A gap exactly equal to the buffer
// counts as satisfied.
func SatisfiesBuffer(candidate, existing Window, bufferMinutes int) bool {
	gap := Gap(candidate, existing)
	if gap < 0 {
		return false
	}
	return gap >= bufferMinutes
}

// FirstConflict returns the first existing window that violates the buffer
// against the candidate, or nil when every window keeps its distance.
func FirstConflict(candidate Window, existing []Window, bufferMinutes int) *Window {
	for i := range existing {
		if !SatisfiesBuffer(candidate, existing[i], bufferMinutes) {
			w := existing[i]
			return &w
		}
	}
	return nil
}

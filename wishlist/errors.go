package wishlist

// ValidationError reports malformed input. Reason carries the user-facing
// message; the boundary layer surfaces it verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "marquee: invalid input: " + e.Reason
}

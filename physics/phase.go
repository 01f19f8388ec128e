package physics

// Phase is the kinematic regime of the cart.
type Phase int8

// Phases of a ride.
const (
	Lift         Phase = iota // pulled up at constant speed
	Fall                      // free fall, energy conserving
	Decelerating              // linear braking
)

func (p Phase) String() string {
	switch p {
	case Lift:
		return "lift"
	case Fall:
		return "fall"
	case Decelerating:
		return "decelerating"
	}
	return "<unknown phase>"
}

// classify determines the phase at index i, given the index of the peak.
// Precedence is significant: the lift predicate wraps around the end of the
// point array and wins over the deceleration section.
func classify(p Params, maxIndex, i int) Phase {
	if i >= p.LiftStart || i <= maxIndex+p.LiftCrossover {
		return Lift
	}
	if i >= p.DecelStart && i <= p.LiftStart {
		return Decelerating
	}
	return Fall
}

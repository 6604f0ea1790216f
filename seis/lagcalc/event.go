package lagcalc

import (
	"time"
)

// Phase classifies a pick by seismic phase.
type Phase int

const (
	// PhaseNone marks a pick on a channel with no recognized orientation code.
	PhaseNone Phase = iota

	// PhaseP marks a compressional-wave pick (vertical channel).
	PhaseP

	// PhaseS marks a shear-wave pick (horizontal channel).
	PhaseS
)

// String returns the phase hint as written into seismic catalogs.
func (p Phase) String() string {
	switch p {
	case PhaseP:
		return "P"
	case PhaseS:
		return "S"
	default:
		return "none"
	}
}

// Pick is a refined arrival-time estimate for one channel of one detection.
type Pick struct {
	Network string
	Station string
	Channel string
	Time    time.Time
	Phase   Phase
}

// Event holds the picks produced for one detection. An event with no picks
// is still a valid result: it means no channel correlated above threshold.
//
// Err is only ever set when failure isolation is enabled (see
// WithFailureIsolation); it marks a detection whose correlation failed,
// holding the event's position in the result sequence without any picks.
type Event struct {
	TemplateName string
	Picks        []Pick
	Err          error
}

// Package lagcalc refines approximate arrival-time picks for seismic events
// previously found by waveform template matching.
//
// A template-matching detector reports, per template, the times at which the
// template matched continuous data. Those detection times inherit whatever
// timing slack the detector allowed. This package re-estimates the arrival
// per channel: it cuts a short window of continuous data around each
// detection, cross-correlates the template channel against it, and takes the
// time of best alignment as the corrected pick, provided the correlation
// exceeds a threshold.
//
// Vertical channels (code suffix Z) yield P picks; horizontal channels (E or
// N) yield S picks, with at most one S pick kept per station per event.
// Channels with other orientation codes yield unclassified picks.
//
// Detections of one template are processed concurrently across a bounded
// worker pool; results are re-ordered to match the input detection order, so
// output never depends on scheduling.
//
// # Usage
//
//	events, err := lagcalc.Calculate(detections, continuous, templates,
//	    lagcalc.WithShiftLen(0.3),
//	    lagcalc.WithMinCC(0.5),
//	)
//
// Pick times are relative to the template start times: a template built with
// a pre-pick margin produces picks early by that same margin.
package lagcalc

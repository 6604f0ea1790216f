package lagcalc

import (
	"errors"
	"time"

	"github.com/cwbudde/algo-seis/seis/trace"
)

// Errors returned by lag calculation.
var (
	ErrNoChannels      = errors.New("lagcalc: template has no channels")
	ErrInvalidShiftLen = errors.New("lagcalc: shift length must be >= 0")
	ErrInvalidMinCC    = errors.New("lagcalc: correlation threshold must be in (0, 1)")
	ErrUnknownTemplate = errors.New("lagcalc: detection references unknown template")
	ErrMissingDelay    = errors.New("lagcalc: delay table has no entry for channel")
)

// Template is the reference waveform set for one seismic source, one trace
// per recording channel. Channel identity within a template is
// (station, channel); if a template carries duplicates, the first one wins.
type Template struct {
	Name   string
	Traces trace.Stream
}

// Detection is a time at which a template matched continuous data, as
// reported by an upstream matched-filter detector.
type Detection struct {
	TemplateName string
	DetectTime   time.Time
}

// Calculate refines pick times for the given detections.
//
// For every detection it cuts the continuous data to a window of the
// template length plus the configured shift margin on either side, and
// correlates each matching template channel against it; the best alignment
// above the correlation threshold becomes the channel's pick.
//
// Detections of one template run concurrently; the returned events preserve
// the input detection order per template, with templates concatenated in the
// order supplied by the caller. Every detection yields exactly one event,
// possibly without picks. Templates with no detections contribute nothing.
func Calculate(detections []Detection, detectData trace.Stream, templates []Template, opts ...Option) ([]Event, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	delays, err := BuildDelayTable(templates)
	if err != nil {
		return nil, err
	}

	// Immutable name index, built once instead of re-scanned per detection.
	byName := make(map[string]*Template, len(templates))
	for i := range templates {
		if _, ok := byName[templates[i].Name]; !ok {
			byName[templates[i].Name] = &templates[i]
		}
	}

	windows, err := buildWindows(detections, detectData, byName, delays, cfg.ShiftLen)
	if err != nil {
		return nil, err
	}

	// Segregate windows by template, preserving detection order within each
	// group.
	groups := make(map[string][]detectionWindow, len(templates))
	for _, win := range windows {
		groups[win.templateName] = append(groups[win.templateName], win)
	}

	var events []Event

	for i := range templates {
		tpl := &templates[i]

		group := groups[tpl.Name]
		if len(group) == 0 {
			continue
		}
		// Guard against a repeated template name dispatching its group twice.
		delete(groups, tpl.Name)

		groupEvents, err := groupLoop(group, tpl, cfg)
		if err != nil {
			return nil, err
		}

		events = append(events, groupEvents...)
	}

	return events, nil
}

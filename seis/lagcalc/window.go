package lagcalc

import (
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-seis/seis/trace"
)

// detectionWindow holds the trimmed per-channel data cut for one detection.
// Its traces are independent copies; windows of overlapping detections never
// share sample storage.
type detectionWindow struct {
	templateName string
	traces       trace.Stream
}

// buildWindows cuts the analysis window for every detection, in input order.
//
// For each continuous channel matched by the detection's template, the window
// spans [t - shift + delay, t + delay + shift + templateDuration], where t is
// the detection time and delay is the channel's offset within the template.
// Continuous channels absent from the template are dropped. A detection whose
// template matches no continuous channel still yields a (trace-less) window,
// so it flows downstream and produces an empty event.
func buildWindows(detections []Detection, detectData trace.Stream, byName map[string]*Template, delays DelayTable, shiftLen float64) ([]detectionWindow, error) {
	windows := make([]detectionWindow, 0, len(detections))

	for _, det := range detections {
		tpl, ok := byName[det.TemplateName]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, det.TemplateName)
		}

		win := detectionWindow{templateName: det.TemplateName}

		for _, tr := range detectData {
			tplTrace := tpl.Traces.Select(tr.Station, tr.Channel)
			if tplTrace == nil {
				continue
			}

			delay, ok := delays.lookup(det.TemplateName, tr.Station, tr.Channel)
			if !ok {
				return nil, fmt.Errorf("%w: %s %s.%s", ErrMissingDelay, det.TemplateName, tr.Station, tr.Channel)
			}

			start := det.DetectTime.Add(secondsToDuration(delay - shiftLen))
			end := det.DetectTime.Add(secondsToDuration(delay + shiftLen + tplTrace.Duration()))

			cut := tr.Slice(start, end)
			if len(cut.Data) == 0 {
				continue
			}

			win.traces = append(win.traces, cut)
		}

		windows = append(windows, win)
	}

	return windows, nil
}

// secondsToDuration converts fractional seconds to a time.Duration.
func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

package lagcalc

import (
	"fmt"

	"github.com/cwbudde/algo-seis/seis/xcorr"
)

// sBest tracks the strongest horizontal pick seen so far for one station.
// pickIdx locates the emitted pick within the event, so a later, stronger
// channel can replace it in place.
type sBest struct {
	pick    Pick
	peak    float64
	emitted bool
	pickIdx int
}

// channelLoop correlates every template channel against the detection's
// windowed data and accumulates picks into one event.
//
// Template channels are visited in template order. A channel missing from the
// window, clipped below the template length, or flat is skipped; a peak at or
// below the threshold yields no pick. Vertical (Z) channels produce P picks
// unconditionally when above threshold. Horizontal (E/N) channels are
// arbitrated per station so that only the best-correlated one is kept as the
// station's S pick; a first horizontal stays tentative until a sibling
// channel is seen or the loop ends. Other orientation codes produce
// unclassified picks with no arbitration.
func channelLoop(win detectionWindow, tpl *Template, cfg Config) (Event, error) {
	event := Event{TemplateName: win.templateName}

	best := make(map[string]*sBest)
	var stations []string // insertion order of best, for the final flush
	rejected := make(map[string]bool)

	for _, tplTrace := range tpl.Traces {
		image := win.traces.Select(tplTrace.Station, tplTrace.Channel)
		if image == nil || len(tplTrace.Data) == 0 || len(image.Data) < len(tplTrace.Data) {
			// Missing match or a window clipped by a data gap: fewer picks,
			// not an error.
			continue
		}

		cc, err := cfg.XCorr(tplTrace.Data, image.Data)
		if err != nil {
			return Event{}, fmt.Errorf("correlate %s: %w", tplTrace.ID(), err)
		}

		peakIndex, peak := xcorr.FindPeak(cc)
		if peakIndex < 0 {
			continue
		}

		pick := Pick{
			Network: tplTrace.Network,
			Station: tplTrace.Station,
			Channel: tplTrace.Channel,
			Time:    image.TimeAt(peakIndex),
		}

		var suffix byte
		if len(tplTrace.Channel) > 0 {
			suffix = tplTrace.Channel[len(tplTrace.Channel)-1]
		}

		switch suffix {
		case 'Z':
			if peak > cfg.MinCC {
				pick.Phase = PhaseP
				event.Picks = append(event.Picks, pick)
			}

		case 'E', 'N':
			pick.Phase = PhaseS
			sta := tplTrace.Station

			switch {
			case peak > cfg.MinCC:
				b := best[sta]
				switch {
				case b == nil:
					// Tentative until another horizontal of this station
					// shows up, or the loop ends.
					best[sta] = &sBest{pick: pick, peak: peak}
					stations = append(stations, sta)
				case peak > b.peak && !b.emitted:
					b.pick, b.peak = pick, peak
					b.emitted = true
					b.pickIdx = len(event.Picks)
					event.Picks = append(event.Picks, pick)
				case peak > b.peak && cfg.DuplicateSPicks:
					// Historical behavior emits anew instead of replacing.
					b.pick, b.peak = pick, peak
					event.Picks = append(event.Picks, pick)
				case peak > b.peak:
					b.pick, b.peak = pick, peak
					event.Picks[b.pickIdx] = pick
				case !b.emitted:
					// A weaker sibling concludes arbitration: emit the
					// recorded best.
					b.emitted = true
					b.pickIdx = len(event.Picks)
					event.Picks = append(event.Picks, b.pick)
				case cfg.DuplicateSPicks:
					event.Picks = append(event.Picks, b.pick)
				}
			case !rejected[sta]:
				rejected[sta] = true
			default:
				// Station already rejected for S; nothing to do.
			}

		default:
			if peak > cfg.MinCC {
				pick.Phase = PhaseNone
				event.Picks = append(event.Picks, pick)
			}
		}
	}

	// Flush stations whose only horizontal never met a sibling.
	for _, sta := range stations {
		if b := best[sta]; !b.emitted {
			b.emitted = true
			event.Picks = append(event.Picks, b.pick)
		}
	}

	return event, nil
}

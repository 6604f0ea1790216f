package lagcalc

import (
	"fmt"
)

// ChannelDelay records one channel's start-time offset within its template.
type ChannelDelay struct {
	Station string
	Channel string

	// Delay is the channel's start time minus the earliest start time among
	// all channels of the same template, in seconds. The earliest channel has
	// delay exactly 0; no delay is negative.
	Delay float64
}

// DelayTable maps template names to their per-channel delays.
type DelayTable map[string][]ChannelDelay

// lookup returns the delay for (station, channel) within the named template.
func (dt DelayTable) lookup(name, station, channel string) (float64, bool) {
	for _, d := range dt[name] {
		if d.Station == station && d.Channel == channel {
			return d.Delay, true
		}
	}
	return 0, false
}

// BuildDelayTable computes per-channel delays for every template, relative to
// each template's earliest-starting channel. A template without channels is a
// configuration error.
func BuildDelayTable(templates []Template) (DelayTable, error) {
	table := make(DelayTable, len(templates))

	for _, tpl := range templates {
		if len(tpl.Traces) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoChannels, tpl.Name)
		}

		ref := tpl.Traces[0].StartTime
		for _, tr := range tpl.Traces[1:] {
			if tr.StartTime.Before(ref) {
				ref = tr.StartTime
			}
		}

		delays := make([]ChannelDelay, 0, len(tpl.Traces))
		for _, tr := range tpl.Traces {
			delays = append(delays, ChannelDelay{
				Station: tr.Station,
				Channel: tr.Channel,
				Delay:   tr.StartTime.Sub(ref).Seconds(),
			})
		}

		table[tpl.Name] = delays
	}

	return table, nil
}

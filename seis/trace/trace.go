package trace

import (
	"fmt"
	"math"
	"time"
)

// Trace is one continuous, evenly sampled recording from a single channel.
type Trace struct {
	Network    string
	Station    string
	Channel    string
	SampleRate float64   // samples per second
	StartTime  time.Time // time of the first sample
	Data       []float64
}

// ID returns the NET.STA.CHAN identifier of the trace.
func (t *Trace) ID() string {
	return fmt.Sprintf("%s.%s.%s", t.Network, t.Station, t.Channel)
}

// Delta returns the sampling interval in seconds.
func (t *Trace) Delta() float64 {
	if t.SampleRate <= 0 {
		return 0
	}
	return 1 / t.SampleRate
}

// Duration returns the trace length in seconds, counted as samples over rate.
func (t *Trace) Duration() float64 {
	if t.SampleRate <= 0 {
		return 0
	}
	return float64(len(t.Data)) / t.SampleRate
}

// TimeAt returns the absolute time of sample i.
func (t *Trace) TimeAt(i int) time.Time {
	return t.StartTime.Add(secondsToDuration(float64(i) * t.Delta()))
}

// EndTime returns the time of the last sample.
// For an empty trace it returns StartTime.
func (t *Trace) EndTime() time.Time {
	if len(t.Data) == 0 {
		return t.StartTime
	}
	return t.TimeAt(len(t.Data) - 1)
}

// Copy returns a deep copy of the trace.
func (t *Trace) Copy() *Trace {
	out := *t
	out.Data = append([]float64(nil), t.Data...)
	return &out
}

// Slice returns an independent copy of the trace restricted to [start, end].
// Bounds are resolved to the nearest sample and clipped to the available
// data, so a window reaching past either edge of the trace is shortened
// rather than padded. The result never aliases the receiver's samples.
func (t *Trace) Slice(start, end time.Time) *Trace {
	out := *t
	out.Data = nil

	if t.SampleRate <= 0 || len(t.Data) == 0 || end.Before(start) {
		out.StartTime = start
		return &out
	}

	i0 := int(math.Round(start.Sub(t.StartTime).Seconds() * t.SampleRate))
	i1 := int(math.Round(end.Sub(t.StartTime).Seconds()*t.SampleRate)) + 1

	if i0 < 0 {
		i0 = 0
	}
	if i1 > len(t.Data) {
		i1 = len(t.Data)
	}
	if i0 >= i1 {
		out.StartTime = start
		return &out
	}

	out.StartTime = t.TimeAt(i0)
	out.Data = append([]float64(nil), t.Data[i0:i1]...)
	return &out
}

// Stream is an ordered collection of traces.
type Stream []*Trace

// Select returns the first trace matching station and channel, or nil if no
// trace matches. If a stream carries duplicate (station, channel) entries the
// first one wins.
func (s Stream) Select(station, channel string) *Trace {
	for _, tr := range s {
		if tr.Station == station && tr.Channel == channel {
			return tr
		}
	}
	return nil
}

// secondsToDuration converts fractional seconds to a time.Duration.
func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

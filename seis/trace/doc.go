// Package trace provides the structured waveform data model shared by the
// seismic processing packages.
//
// A Trace is one continuous, evenly sampled recording from a single channel,
// carrying its SEED-style identity (network, station, channel) alongside the
// sample data. A Stream is an ordered collection of traces, with selection
// and time-slicing helpers.
//
// # Usage
//
// Select a channel and cut a window around an arrival:
//
//	tr := stream.Select("STA1", "EHZ")
//	win := tr.Slice(arrival.Add(-margin), arrival.Add(margin))
//
// Slice always returns an independent copy, so windows cut from the same
// continuous trace never share sample storage.
package trace

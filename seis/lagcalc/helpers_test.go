package lagcalc

import (
	"math"
	"time"

	"github.com/cwbudde/algo-seis/seis/trace"
)

var testBase = time.Date(2021, time.June, 1, 12, 0, 0, 0, time.UTC)

// makeTrace builds a trace on the NZ network.
func makeTrace(station, channel string, sampleRate float64, start time.Time, data []float64) *trace.Trace {
	return &trace.Trace{
		Network:    "NZ",
		Station:    station,
		Channel:    channel,
		SampleRate: sampleRate,
		StartTime:  start,
		Data:       data,
	}
}

// makeChirp returns a linear frequency sweep; chirps self-correlate sharply.
func makeChirp(n int, f0, f1, sampleRate float64) []float64 {
	out := make([]float64, n)
	phase := 0.0

	for i := range out {
		f := f0 + (f1-f0)*float64(i)/float64(n)
		phase += 2 * math.Pi * f / sampleRate
		out[i] = math.Sin(phase)
	}

	return out
}

// makeNoise returns deterministic pseudo-random samples in [-amp, amp].
func makeNoise(n int, amp float64, seed uint64) []float64 {
	out := make([]float64, n)
	state := seed

	for i := range out {
		state = state*6364136223846793005 + 1442695040888963407
		out[i] = amp * (float64(state>>11)/float64(1<<53)*2 - 1)
	}

	return out
}

// passthrough treats the window samples as the finished coefficient
// sequence, which lets tests dictate peaks exactly. Template channels used
// with it must be one sample long.
func passthrough(template, image []float64) ([]float64, error) {
	return image, nil
}

// passthroughConfig returns a config whose correlator is passthrough.
func passthroughConfig(opts ...Option) Config {
	cfg := ApplyOptions(opts...)
	cfg.XCorr = passthrough
	return cfg
}

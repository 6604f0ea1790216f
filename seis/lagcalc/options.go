package lagcalc

import (
	"github.com/cwbudde/algo-seis/seis/xcorr"
)

// CorrelateFunc is the normalized cross-correlation primitive used to align
// a template channel (length m) against a detection window (length n >= m).
// It must return n-m+1 coefficients in [-1, 1], where index k corresponds to
// alignment at offset k samples into the window.
type CorrelateFunc func(template, image []float64) ([]float64, error)

// Config defines lag-calculation settings.
//
// Values are validated by Calculate rather than by the option setters, so an
// out-of-range setting surfaces as an error instead of being silently
// replaced.
type Config struct {
	// ShiftLen is the symmetric margin in seconds allowed around the
	// expected arrival when windowing detection data. Must be >= 0.
	ShiftLen float64

	// MinCC is the correlation a channel must strictly exceed for a pick.
	// Must lie in (0, 1).
	MinCC float64

	// Workers caps the number of concurrent correlation tasks per template
	// group. Zero or negative selects the CPU count. The effective degree is
	// never larger than the group size.
	Workers int

	// XCorr is the correlation primitive. Defaults to xcorr.NormXCorr.
	XCorr CorrelateFunc

	// IsolateFailures records a per-detection failure marker event in place
	// of the failed detection instead of failing the whole template group.
	IsolateFailures bool

	// DuplicateSPicks preserves the historical behavior of re-emitting the
	// best S pick of a station each time a further horizontal channel of
	// that station correlates above threshold but below the recorded best.
	// Off by default: each station's best S pick is emitted exactly once.
	DuplicateSPicks bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns sensible defaults for pick refinement.
func DefaultConfig() Config {
	return Config{
		ShiftLen: 0.2,
		MinCC:    0.4,
		XCorr:    xcorr.NormXCorr,
	}
}

// WithShiftLen sets the windowing margin in seconds.
func WithShiftLen(shiftLen float64) Option {
	return func(cfg *Config) {
		cfg.ShiftLen = shiftLen
	}
}

// WithMinCC sets the correlation threshold for accepting picks.
func WithMinCC(minCC float64) Option {
	return func(cfg *Config) {
		cfg.MinCC = minCC
	}
}

// WithWorkers caps the per-group correlation concurrency.
func WithWorkers(workers int) Option {
	return func(cfg *Config) {
		cfg.Workers = workers
	}
}

// WithCorrelator replaces the correlation primitive.
func WithCorrelator(fn CorrelateFunc) Option {
	return func(cfg *Config) {
		if fn != nil {
			cfg.XCorr = fn
		}
	}
}

// WithFailureIsolation toggles per-detection failure isolation.
func WithFailureIsolation(isolate bool) Option {
	return func(cfg *Config) {
		cfg.IsolateFailures = isolate
	}
}

// WithDuplicateSPicks toggles re-emission of an already-emitted best S pick.
func WithDuplicateSPicks(duplicate bool) Option {
	return func(cfg *Config) {
		cfg.DuplicateSPicks = duplicate
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// validate checks the configured domains.
func (cfg *Config) validate() error {
	if cfg.ShiftLen < 0 {
		return ErrInvalidShiftLen
	}

	if cfg.MinCC <= 0 || cfg.MinCC >= 1 {
		return ErrInvalidMinCC
	}

	return nil
}

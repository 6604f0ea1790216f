package lagcalc

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
)

// indexedEvent tags a finished correlation result with its detection's
// position within the template group, so order can be restored after the
// concurrent fan-out.
type indexedEvent struct {
	index int
	event Event
	err   error
}

// groupLoop runs the channel correlator over all detections of one template
// across a bounded worker pool and returns the events in input order.
//
// Each task is independent and purely functional over its own window copy;
// the only synchronization is the join before results are sorted back into
// detection order. By default the first task failure fails the group; with
// failure isolation enabled, a failed detection instead yields a marker
// event carrying the failure, preserving its position.
func groupLoop(windows []detectionWindow, tpl *Template, cfg Config) ([]Event, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(windows) {
		workers = len(windows)
	}

	jobs := make(chan int)
	results := make(chan indexedEvent, len(windows))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				event, err := channelLoop(windows[i], tpl, cfg)
				results <- indexedEvent{index: i, event: event, err: err}
			}
		}()
	}

	for i := range windows {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(results)

	tagged := make([]indexedEvent, 0, len(windows))
	for r := range results {
		tagged = append(tagged, r)
	}
	sort.Slice(tagged, func(a, b int) bool { return tagged[a].index < tagged[b].index })

	events := make([]Event, len(tagged))
	for i, r := range tagged {
		if r.err != nil {
			if !cfg.IsolateFailures {
				return nil, fmt.Errorf("lagcalc: template %q detection %d: %w", tpl.Name, r.index, r.err)
			}

			events[i] = Event{TemplateName: tpl.Name, Err: r.err}
			continue
		}

		events[i] = r.event
	}

	return events, nil
}

package lagcalc

import (
	"errors"
	"testing"
	"time"

	"github.com/cwbudde/algo-seis/seis/trace"
)

// windowFixture builds a one-template scenario: STA1 has a vertical and a
// horizontal channel 10 ms apart, STA2 exists only in the continuous data.
func windowFixture() (templates []Template, continuous trace.Stream) {
	templates = []Template{
		{
			Name: "t1",
			Traces: trace.Stream{
				makeTrace("STA1", "EHZ", 100, testBase, makeChirp(100, 2, 10, 100)),
				makeTrace("STA1", "EHN", 100, testBase.Add(10*time.Millisecond), makeChirp(100, 3, 12, 100)),
			},
		},
	}

	continuous = trace.Stream{
		makeTrace("STA1", "EHZ", 100, testBase, makeNoise(2000, 1, 1)),
		makeTrace("STA1", "EHN", 100, testBase, makeNoise(2000, 1, 2)),
		makeTrace("STA2", "EHZ", 100, testBase, makeNoise(2000, 1, 3)),
	}

	return templates, continuous
}

func TestBuildWindows(t *testing.T) {
	templates, continuous := windowFixture()

	table, err := BuildDelayTable(templates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byName := map[string]*Template{"t1": &templates[0]}
	det := Detection{TemplateName: "t1", DetectTime: testBase.Add(10 * time.Second)}

	windows, err := buildWindows([]Detection{det}, continuous, byName, table, 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(windows) != 1 {
		t.Fatalf("got %d windows, expected 1", len(windows))
	}

	win := windows[0]
	if win.templateName != "t1" {
		t.Errorf("templateName = %q, expected %q", win.templateName, "t1")
	}

	// STA2.EHZ has no template counterpart and must be dropped.
	if len(win.traces) != 2 {
		t.Fatalf("got %d window traces, expected 2", len(win.traces))
	}

	// [t - shift, t + shift + 1s] at 100 Hz.
	ehz := win.traces.Select("STA1", "EHZ")
	if ehz == nil {
		t.Fatal("no EHZ window trace")
	}
	if want := det.DetectTime.Add(-200 * time.Millisecond); !ehz.StartTime.Equal(want) {
		t.Errorf("EHZ window start = %v, expected %v", ehz.StartTime, want)
	}
	if len(ehz.Data) != 141 {
		t.Errorf("EHZ window has %d samples, expected 141", len(ehz.Data))
	}

	// The horizontal window is shifted by the channel delay.
	ehn := win.traces.Select("STA1", "EHN")
	if ehn == nil {
		t.Fatal("no EHN window trace")
	}
	if want := det.DetectTime.Add(-190 * time.Millisecond); !ehn.StartTime.Equal(want) {
		t.Errorf("EHN window start = %v, expected %v", ehn.StartTime, want)
	}
}

func TestBuildWindowsIndependentCopies(t *testing.T) {
	templates, continuous := windowFixture()

	table, _ := BuildDelayTable(templates)
	byName := map[string]*Template{"t1": &templates[0]}

	// Two detections 0.1 s apart share underlying continuous samples.
	dets := []Detection{
		{TemplateName: "t1", DetectTime: testBase.Add(10 * time.Second)},
		{TemplateName: "t1", DetectTime: testBase.Add(10*time.Second + 100*time.Millisecond)},
	}

	windows, err := buildWindows(dets, continuous, byName, table, 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := windows[0].traces.Select("STA1", "EHZ")
	second := windows[1].traces.Select("STA1", "EHZ")
	firstBefore, secondBefore := first.Data[0], second.Data[0]

	for i := range continuous[0].Data {
		continuous[0].Data[i] = -99
	}

	if first.Data[0] != firstBefore || second.Data[0] != secondBefore {
		t.Error("window aliases the continuous data")
	}
}

func TestBuildWindowsNoMatchStillFlows(t *testing.T) {
	templates, _ := windowFixture()

	table, _ := BuildDelayTable(templates)
	byName := map[string]*Template{"t1": &templates[0]}

	// Continuous data from an unrelated station only.
	continuous := trace.Stream{
		makeTrace("FAR1", "EHZ", 100, testBase, makeNoise(2000, 1, 4)),
	}

	det := Detection{TemplateName: "t1", DetectTime: testBase.Add(10 * time.Second)}

	windows, err := buildWindows([]Detection{det}, continuous, byName, table, 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(windows) != 1 {
		t.Fatalf("got %d windows, expected 1", len(windows))
	}
	if len(windows[0].traces) != 0 {
		t.Errorf("got %d window traces, expected 0", len(windows[0].traces))
	}
}

func TestBuildWindowsUnknownTemplate(t *testing.T) {
	templates, continuous := windowFixture()

	table, _ := BuildDelayTable(templates)
	byName := map[string]*Template{"t1": &templates[0]}

	det := Detection{TemplateName: "nope", DetectTime: testBase.Add(10 * time.Second)}

	_, err := buildWindows([]Detection{det}, continuous, byName, table, 0.2)
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestBuildWindowsMissingDelay(t *testing.T) {
	templates, continuous := windowFixture()

	byName := map[string]*Template{"t1": &templates[0]}

	// Delay table inconsistent with the template: EHN entry removed.
	table := DelayTable{
		"t1": {{Station: "STA1", Channel: "EHZ", Delay: 0}},
	}

	det := Detection{TemplateName: "t1", DetectTime: testBase.Add(10 * time.Second)}

	_, err := buildWindows([]Detection{det}, continuous, byName, table, 0.2)
	if !errors.Is(err, ErrMissingDelay) {
		t.Errorf("expected ErrMissingDelay, got %v", err)
	}
}

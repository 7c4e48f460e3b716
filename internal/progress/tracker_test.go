package progress_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/drunkleen/cli-video-enhancer/internal/progress"
)

func TestApplyLineOutTime(t *testing.T) {
	tracker := progress.NewTracker(10_000)

	snapshot, changed := tracker.ApplyLine("out_time_ms=5000000")
	if !changed {
		t.Fatal("expected out_time_ms line to update state")
	}
	if snapshot.PositionMS != 5_000 {
		t.Fatalf("expected position 5000ms, got %d", snapshot.PositionMS)
	}
	if snapshot.Stage != progress.StageVideo {
		t.Fatalf("expected video stage at 50%%, got %v", snapshot.Stage)
	}
	if snapshot.Done {
		t.Fatal("stream should not be marked done")
	}
}

func TestApplyLineClampsToTotal(t *testing.T) {
	tracker := progress.NewTracker(10_000)
	snapshot, _ := tracker.ApplyLine("out_time_ms=99000000")
	if snapshot.PositionMS != 10_000 {
		t.Fatalf("expected clamp to total, got %d", snapshot.PositionMS)
	}
	if snapshot.Stage != progress.StageFinalizing {
		t.Fatalf("expected finalizing stage at 100%%, got %v", snapshot.Stage)
	}
}

func TestApplyLineStageBrackets(t *testing.T) {
	cases := []struct {
		line string
		want progress.Stage
	}{
		{"out_time_ms=0", progress.StagePreparing},
		{"out_time_ms=999000", progress.StagePreparing},
		{"out_time_ms=1000000", progress.StageVideo},
		{"out_time_ms=6400000", progress.StageVideo},
		{"out_time_ms=6500000", progress.StageAudio},
		{"out_time_ms=9400000", progress.StageAudio},
		{"out_time_ms=9500000", progress.StageFinalizing},
	}
	tracker := progress.NewTracker(10_000)
	for _, tc := range cases {
		snapshot, _ := tracker.ApplyLine(tc.line)
		if snapshot.Stage != tc.want {
			t.Fatalf("line %q: expected stage %v, got %v", tc.line, tc.want, snapshot.Stage)
		}
	}
}

func TestApplyLineMalformedValueDefaultsToZero(t *testing.T) {
	tracker := progress.NewTracker(10_000)
	tracker.ApplyLine("out_time_ms=5000000")
	snapshot, changed := tracker.ApplyLine("out_time_ms=N.A")
	if !changed {
		t.Fatal("expected matched line to count as an update")
	}
	if snapshot.PositionMS != 0 {
		t.Fatalf("malformed value should reset to zero, got %d", snapshot.PositionMS)
	}
}

func TestApplyLineIgnoresNoise(t *testing.T) {
	tracker := progress.NewTracker(10_000)
	for _, line := range []string{"", "not a progress line", "frame=42 fps=30", "=bare"} {
		if _, changed := tracker.ApplyLine(line); changed {
			t.Fatalf("line %q should be ignored", line)
		}
	}
	if _, changed := tracker.ApplyLine("speed=1.02x"); changed {
		t.Fatal("irrelevant keys should not update state")
	}
}

func TestApplyLineEndMarksDone(t *testing.T) {
	tracker := progress.NewTracker(10_000)
	tracker.ApplyLine("out_time_ms=2000000")
	snapshot, changed := tracker.ApplyLine("progress=end")
	if !changed || !snapshot.Done {
		t.Fatalf("expected end marker to complete the stream, got %+v", snapshot)
	}
	if snapshot.Stage != progress.StageDone {
		t.Fatalf("stage inference should stop after end, got %v", snapshot.Stage)
	}
	// Position no longer drives the stage once the stream has ended.
	snapshot, _ = tracker.ApplyLine("out_time_ms=1000000")
	if snapshot.Stage != progress.StageDone {
		t.Fatalf("expected stage to remain done, got %v", snapshot.Stage)
	}
}

func TestPumpAppliesWholeFeed(t *testing.T) {
	feed := strings.Join([]string{
		"frame=100",
		"out_time_ms=2500000",
		"garbage line",
		"out_time_ms=7500000",
		"progress=end",
	}, "\n")

	tracker := progress.NewTracker(10_000)
	var updates []progress.Snapshot
	err := progress.Pump(strings.NewReader(feed), tracker, func(s progress.Snapshot) {
		updates = append(updates, s)
	})
	if err != nil {
		t.Fatalf("pump: %v", err)
	}
	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(updates))
	}
	if updates[0].PositionMS != 2_500 || updates[0].Stage != progress.StageVideo {
		t.Fatalf("unexpected first update: %+v", updates[0])
	}
	if updates[1].PositionMS != 7_500 || updates[1].Stage != progress.StageAudio {
		t.Fatalf("unexpected second update: %+v", updates[1])
	}
	if !updates[2].Done {
		t.Fatalf("expected final update to be done: %+v", updates[2])
	}
}

func TestPumpSurfacesReadError(t *testing.T) {
	readErr := errors.New("feed torn down")
	feed := io.MultiReader(
		strings.NewReader("out_time_ms=2500000\n"),
		iotest.ErrReader(readErr),
	)

	tracker := progress.NewTracker(10_000)
	var updates []progress.Snapshot
	err := progress.Pump(feed, tracker, func(s progress.Snapshot) {
		updates = append(updates, s)
	})
	if !errors.Is(err, readErr) {
		t.Fatalf("expected the read error back, got %v", err)
	}
	// Lines read before the failure still count.
	if len(updates) != 1 || updates[0].PositionMS != 2_500 {
		t.Fatalf("expected one update at 2500ms before the error, got %+v", updates)
	}
}

func TestTargetDurationMS(t *testing.T) {
	if got := progress.TargetDurationMS(10.0, 1.0); got != 10_000 {
		t.Fatalf("expected raw duration at speed 1.0, got %d", got)
	}
	if got := progress.TargetDurationMS(10.0, 2.0); got != 5_000 {
		t.Fatalf("expected halved duration at speed 2.0, got %d", got)
	}
	if got := progress.TargetDurationMS(10.0, 0.5); got != 20_000 {
		t.Fatalf("expected doubled duration at speed 0.5, got %d", got)
	}
	if got := progress.TargetDurationMS(0, 1.0); got != 1 {
		t.Fatalf("expected 1ms floor, got %d", got)
	}
	// Inside the epsilon the divide is skipped entirely.
	if got := progress.TargetDurationMS(10.0, 1.0004); got != 10_000 {
		t.Fatalf("expected near-1.0 speed to use raw duration, got %d", got)
	}
}

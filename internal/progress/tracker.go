package progress

import (
	"bufio"
	"io"
	"math"
	"regexp"
	"strconv"
)

// Stage is the coarse processing phase inferred from stream position.
type Stage int

const (
	StagePreparing Stage = iota
	StageVideo
	StageAudio
	StageFinalizing
	StageDone
)

// Label returns the short spinner-style description for the stage.
func (s Stage) Label() string {
	switch s {
	case StageVideo:
		return "Encoding video"
	case StageAudio:
		return "Adjusting/encoding audio"
	case StageFinalizing:
		return "Finalizing and muxing"
	case StageDone:
		return "Completed"
	default:
		return "Preparing filters"
	}
}

// Detail returns the longer bar message shown alongside the stage.
func (s Stage) Detail() string {
	switch s {
	case StageVideo:
		return "Processing frames..."
	case StageAudio:
		return "Applying atempo (if speed != 1.0)..."
	case StageFinalizing:
		return "Muxing, writing headers, closing output..."
	case StageDone:
		return "Done"
	default:
		return "Applying selected filters (if any)..."
	}
}

// Snapshot is an immutable view of tracker state after a line was applied.
type Snapshot struct {
	PositionMS int64
	TotalMS    int64
	Stage      Stage
	Done       bool
}

var progressLine = regexp.MustCompile(`^(\w+)=([\w\-\.:]+)$`)

// Tracker folds progress lines into position and stage state. It is owned
// by the single goroutine that pumps the encoder's output; callers receive
// state only through Snapshot copies.
type Tracker struct {
	totalMS    int64
	positionMS int64
	done       bool
}

// NewTracker builds a tracker against a precomputed total duration.
func NewTracker(totalMS int64) *Tracker {
	if totalMS < 1 {
		totalMS = 1
	}
	return &Tracker{totalMS: totalMS}
}

// TotalMS reports the clamping ceiling for positions.
func (t *Tracker) TotalMS() int64 {
	return t.totalMS
}

// ApplyLine folds one feed line into the tracker. The second return is
// false when the line did not change state (unmatched or irrelevant keys).
func (t *Tracker) ApplyLine(line string) (Snapshot, bool) {
	match := progressLine.FindStringSubmatch(line)
	if match == nil {
		return t.snapshot(), false
	}

	key, value := match[1], match[2]
	switch key {
	case "out_time_ms":
		// Despite the key name ffmpeg reports microseconds here.
		us, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			us = 0
		}
		pos := int64(us / 1000)
		if pos > t.totalMS {
			pos = t.totalMS
		}
		t.positionMS = pos
		return t.snapshot(), true
	case "progress":
		if value == "end" {
			t.done = true
			return t.snapshot(), true
		}
	}
	return t.snapshot(), false
}

func (t *Tracker) snapshot() Snapshot {
	return Snapshot{
		PositionMS: t.positionMS,
		TotalMS:    t.totalMS,
		Stage:      t.stage(),
		Done:       t.done,
	}
}

func (t *Tracker) stage() Stage {
	if t.done {
		return StageDone
	}
	fraction := float64(t.positionMS) / float64(t.totalMS)
	switch {
	case fraction < 0.10:
		return StagePreparing
	case fraction < 0.65:
		return StageVideo
	case fraction < 0.95:
		return StageAudio
	default:
		return StageFinalizing
	}
}

// Pump reads the feed until EOF, applying every line and notifying the
// callback after lines that changed state. Read errors are returned to the
// caller; parse anomalies are absorbed by the tracker.
func Pump(r io.Reader, tracker *Tracker, notify func(Snapshot)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		snapshot, changed := tracker.ApplyLine(scanner.Text())
		if changed && notify != nil {
			notify(snapshot)
		}
	}
	return scanner.Err()
}

// TargetDurationMS computes the expected output duration in milliseconds
// from the probed source duration and the requested speed. Speeds within
// 0.0005 of 1.0 skip the divide so the common no-change case avoids
// floating-point drift. The floor of 1ms keeps later ratio math safe.
func TargetDurationMS(durationSeconds, speed float64) int64 {
	targetSeconds := durationSeconds
	if math.Abs(speed-1.0) >= 0.0005 {
		targetSeconds = durationSeconds / speed
	}
	ms := int64(targetSeconds * 1000.0)
	if ms < 1 {
		return 1
	}
	return ms
}

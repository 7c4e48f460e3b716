package progress

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// UI renders tracker snapshots as a terminal progress bar.
type UI struct {
	bar   *progressbar.ProgressBar
	stage Stage
}

// NewUI builds the progress bar for an encode expected to produce totalMS
// milliseconds of output. When the audio stream will be time-stretched the
// initial description calls that out, mirroring what the encoder is about
// to spend its first moments doing.
func NewUI(totalMS int64, audioTimeStretch bool) *UI {
	description := StagePreparing.Label()
	if audioTimeStretch {
		description = "Audio will be time-stretched (atempo)"
	}

	bar := progressbar.NewOptions64(totalMS,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerHead:    ">",
			SaucerPadding: "-",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &UI{bar: bar, stage: StagePreparing}
}

// Observe pushes a tracker snapshot onto the bar. Description changes only
// on stage transitions to keep redraws cheap.
func (u *UI) Observe(snapshot Snapshot) {
	if u == nil || u.bar == nil {
		return
	}
	if snapshot.Stage != u.stage {
		u.stage = snapshot.Stage
		u.bar.Describe(snapshot.Stage.Label())
	}
	_ = u.bar.Set64(snapshot.PositionMS)
	if snapshot.Done {
		_ = u.bar.Finish()
	}
}

// Close finishes the bar if the stream ended without a progress=end marker.
func (u *UI) Close() {
	if u == nil || u.bar == nil {
		return
	}
	_ = u.bar.Finish()
}

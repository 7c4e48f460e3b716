package encoder

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/drunkleen/cli-video-enhancer/internal/filters"
)

// Plan describes one complete ffmpeg invocation.
type Plan struct {
	Input  string
	Output string

	// VideoFilters is the comma-joined -vf chain; empty means the video
	// stream is copied instead of re-encoded.
	VideoFilters string
	// AudioFilters is the -af chain; empty means the audio stream keeps
	// the codec args below (normally stream-copy).
	AudioFilters   string
	AudioCodecArgs []string

	CRF     int
	Preset  string
	Threads int
	Verbose bool
}

// Args renders the full ffmpeg argument list for the plan. Layout mirrors
// what the tool expects: global flags, input, per-stream codec decisions,
// output path last.
func (p Plan) Args() []string {
	args := make([]string, 0, 24)
	if !p.Verbose {
		args = append(args, "-hide_banner", "-nostats", "-loglevel", "error")
	}
	args = append(args, "-y", "-progress", "-", "-i", p.Input)

	if p.VideoFilters != "" {
		args = append(args,
			"-vf", p.VideoFilters,
			"-c:v", "libx264",
			"-crf", strconv.Itoa(p.CRF),
			"-preset", p.Preset,
			"-pix_fmt", "yuv420p",
			"-threads", strconv.Itoa(p.Threads),
		)
	} else {
		args = append(args, "-c:v", "copy")
		if p.Threads > 0 {
			args = append(args, "-threads", strconv.Itoa(p.Threads))
		}
	}

	if p.AudioFilters != "" {
		args = append(args, "-af", p.AudioFilters)
		args = append(args, p.AudioCodecArgs...)
	} else {
		args = append(args, "-c:a", "copy")
	}

	return append(args, p.Output)
}

// Summary is the single-line description logged before the encode starts.
func (p Plan) Summary() string {
	video := p.VideoFilters
	if video == "" {
		video = "copy"
	}
	audio := p.AudioFilters
	if audio == "" {
		audio = strings.Join(p.AudioCodecArgs, " ")
	}
	return fmt.Sprintf("video=%s audio=%s", video, audio)
}

// DefaultOutputPath derives the output file placed beside the input:
// <stem>_enhanced_speed<S>.mp4.
func DefaultOutputPath(input string, speed float64) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "output"
	}
	dir := filepath.Dir(input)
	return filepath.Join(dir, fmt.Sprintf("%s_enhanced_speed%s.mp4", stem, filters.FormatSpeed(speed)))
}

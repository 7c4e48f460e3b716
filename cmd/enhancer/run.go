package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/drunkleen/cli-video-enhancer/internal/config"
	"github.com/drunkleen/cli-video-enhancer/internal/deps"
	"github.com/drunkleen/cli-video-enhancer/internal/encoder"
	"github.com/drunkleen/cli-video-enhancer/internal/filters"
	"github.com/drunkleen/cli-video-enhancer/internal/history"
	"github.com/drunkleen/cli-video-enhancer/internal/interactive"
	"github.com/drunkleen/cli-video-enhancer/internal/logging"
	"github.com/drunkleen/cli-video-enhancer/internal/media/ffprobe"
	"github.com/drunkleen/cli-video-enhancer/internal/progress"
)

var successColor = color.New(color.FgGreen)

// runOptions collects everything one enhancement run needs, whether it came
// from flags or from the interactive prompt flow. Nil knob pointers mean the
// corresponding filter stays out of the chain.
type runOptions struct {
	Input  string
	Output string
	Speed  float64

	Denoise     *int
	Sharpen     *int
	Contrast    *int
	Saturation  *int
	Brightness  *int
	ScaleHeight *int

	CRF     int
	Preset  string
	Threads int
	Verbose bool

	FFmpegPath  string
	FFprobePath string
}

func (o *runOptions) fromAnswers(a interactive.Answers) {
	o.Input = a.Input
	o.Output = a.Output
	o.Speed = a.Speed
	o.Denoise = a.Denoise
	o.Sharpen = a.Sharpen
	o.Contrast = a.Contrast
	o.Saturation = a.Saturation
	o.Brightness = a.Brightness
	o.ScaleHeight = a.ScaleHeight
	o.CRF = a.CRF
	o.Preset = a.Preset
	o.Threads = a.Threads
	o.Verbose = a.Verbose
	o.FFmpegPath = a.FFmpegPath
	o.FFprobePath = a.FFprobePath
}

func (o runOptions) request() filters.Request {
	return filters.Request{
		Speed:       o.Speed,
		Denoise:     o.Denoise,
		Sharpen:     o.Sharpen,
		Contrast:    o.Contrast,
		Saturation:  o.Saturation,
		Brightness:  o.Brightness,
		ScaleHeight: o.ScaleHeight,
	}
}

func (o runOptions) validate() error {
	if strings.TrimSpace(o.Input) == "" {
		return errors.New("an input file is required")
	}
	if err := filters.ValidateSpeed(o.Speed); err != nil {
		return err
	}
	knobs := []struct {
		name  string
		value *int
	}{
		{"denoise", o.Denoise},
		{"sharpen", o.Sharpen},
		{"contrast", o.Contrast},
		{"saturation", o.Saturation},
		{"brightness", o.Brightness},
	}
	for _, knob := range knobs {
		if knob.value == nil {
			continue
		}
		if err := filters.ValidatePercent(knob.name, *knob.value); err != nil {
			return err
		}
	}
	if o.ScaleHeight != nil {
		if err := filters.ValidateScaleHeight(*o.ScaleHeight); err != nil {
			return err
		}
	}
	if o.CRF < 0 || o.CRF > 51 {
		return fmt.Errorf("crf must be between 0 and 51, got %d", o.CRF)
	}
	if o.Threads < 0 {
		return fmt.Errorf("threads must be zero or positive, got %d", o.Threads)
	}
	return nil
}

// resolveOutputPath picks the final output location: an explicit flag wins,
// then the configured output directory with the derived default name, then
// the input's own directory.
func resolveOutputPath(cfg *config.Config, input string, opts runOptions) (string, error) {
	if strings.TrimSpace(opts.Output) != "" {
		return config.ExpandPath(opts.Output)
	}
	derived := encoder.DefaultOutputPath(input, opts.Speed)
	if strings.TrimSpace(cfg.Paths.OutputDir) != "" {
		return filepath.Join(cfg.Paths.OutputDir, filepath.Base(derived)), nil
	}
	return derived, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func runEnhancement(cmd *cobra.Command, cfg *config.Config, opts runOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	input, err := config.ExpandPath(opts.Input)
	if err != nil {
		return err
	}
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("inspect input %q: %w", opts.Input, err)
	}
	if info.IsDir() {
		return fmt.Errorf("input %q is a directory", opts.Input)
	}

	output, err := resolveOutputPath(cfg, input, opts)
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	// One enhancement at a time per state directory; parallel runs would
	// fight over the terminal and the history database.
	lock := flock.New(filepath.Join(cfg.Paths.StateDir, "enhancer.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return errors.New("another enhancement is already running")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release instance lock", logging.Error(err))
		}
	}()

	tools, err := deps.ResolveTools(
		firstNonEmpty(opts.FFmpegPath, cfg.Tools.FFmpeg),
		firstNonEmpty(opts.FFprobePath, cfg.Tools.FFprobe),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	probe, err := ffprobe.Inspect(ctx, tools.FFprobe, input)
	if err != nil {
		return err
	}
	if probe.VideoStreamCount() == 0 {
		return fmt.Errorf("input %q has no video stream", input)
	}
	duration, err := probe.DurationSeconds()
	if err != nil {
		return err
	}
	width, height := probe.VideoDimensions()
	logger.Debug("probed source",
		logging.String("input", input),
		logging.Float64("duration_s", duration),
		logging.Int("width", width),
		logging.Int("height", height),
		logging.Int("video_streams", probe.VideoStreamCount()),
		logging.Int("audio_streams", probe.AudioStreamCount()),
	)

	videoFilters := filters.BuildVideo(opts.request())
	audioFilters, audioCodecArgs := filters.BuildAudio(opts.Speed)
	if audioFilters != "" {
		audioCodecArgs = []string{"-c:a", "aac", "-b:a", cfg.Encoding.AudioBitrate}
	}

	plan := encoder.Plan{
		Input:          input,
		Output:         output,
		VideoFilters:   videoFilters,
		AudioFilters:   audioFilters,
		AudioCodecArgs: audioCodecArgs,
		CRF:            opts.CRF,
		Preset:         opts.Preset,
		Threads:        opts.Threads,
		Verbose:        opts.Verbose,
	}
	totalMS := progress.TargetDurationMS(duration, opts.Speed)

	logger.Info("starting enhancement",
		logging.String("input", input),
		logging.String("output", output),
		logging.Float64("speed", opts.Speed),
		logging.String("plan", plan.Summary()),
		logging.Int64("target_ms", totalMS),
	)

	record := history.Record{
		ID:           uuid.NewString(),
		Input:        input,
		Output:       output,
		Speed:        opts.Speed,
		VideoFilters: videoFilters,
		AudioFilters: audioFilters,
		CRF:          opts.CRF,
		Preset:       opts.Preset,
		DurationMS:   totalMS,
		StartedAt:    time.Now().UTC(),
	}

	runErr := executeEncode(cmd, tools.FFmpeg, plan, totalMS, audioFilters != "")

	record.FinishedAt = time.Now().UTC()
	if runErr != nil {
		record.Status = history.StatusFailed
		record.ErrorMessage = runErr.Error()
	} else {
		record.Status = history.StatusCompleted
	}
	archiveRun(ctx, cfg, logger, record)

	if runErr != nil {
		logger.Error("enhancement failed", logging.Error(runErr), logging.String("input", input))
		return runErr
	}

	logger.Info("enhancement complete",
		logging.String("output", output),
		logging.Duration("elapsed", record.Elapsed()),
	)
	successColor.Fprintf(cmd.OutOrStdout(), "Enhanced %s -> %s in %s\n",
		filepath.Base(input), output, record.Elapsed().Round(time.Millisecond))
	return nil
}

// executeEncode launches ffmpeg and drives the progress bar until the
// process exits. The progress feed runs on its own goroutine; its error is
// only reported when the encode itself succeeded, since a dead process makes
// a broken pipe unremarkable.
func executeEncode(cmd *cobra.Command, ffmpegPath string, plan encoder.Plan, totalMS int64, audioTimeStretch bool) error {
	session, err := encoder.Start(cmd.Context(), ffmpegPath, plan)
	if err != nil {
		return err
	}

	tracker := progress.NewTracker(totalMS)
	ui := progress.NewUI(totalMS, audioTimeStretch)
	defer ui.Close()

	pumpErr := make(chan error, 1)
	go func() {
		pumpErr <- progress.Pump(session.Stdout, tracker, ui.Observe)
	}()

	// The pump sees EOF when the process closes its end; Wait must not run
	// until then or it would close the pipe out from under the reader.
	feedErr := <-pumpErr
	return joinEncodeErrors(session.Wait(), feedErr)
}

// joinEncodeErrors prefers the process failure over a feed read error, since
// a dead process makes a broken pipe unremarkable. A read error after a
// clean exit is still fatal.
func joinEncodeErrors(waitErr, feedErr error) error {
	if waitErr != nil {
		return waitErr
	}
	return feedErr
}

// archiveRun records the outcome in the history database. Archival failures
// are logged, never fatal: the encode result already happened.
func archiveRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, record history.Record) {
	store, err := history.Open(cfg.Paths.StateDir)
	if err != nil {
		logger.Warn("open history store", logging.Error(err))
		return
	}
	defer store.Close()
	if err := store.Add(ctx, record); err != nil {
		logger.Warn("archive run", logging.Error(err))
	}
}

package interactive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/drunkleen/cli-video-enhancer/internal/encoder"
	"github.com/drunkleen/cli-video-enhancer/internal/filters"
)

// Defaults seeds the prompt flow with values from configuration so an
// operator can accept them by pressing enter.
type Defaults struct {
	Speed   float64
	CRF     int
	Preset  string
	Threads int
	FFmpeg  string
	FFprobe string
}

// Answers holds everything the prompt flow gathered. Pointer fields follow
// the same convention as filters.Request: nil means the knob was skipped.
type Answers struct {
	Input       string
	Output      string
	Speed       float64
	Denoise     *int
	Sharpen     *int
	Contrast    *int
	Saturation  *int
	Brightness  *int
	ScaleHeight *int
	CRF         int
	Preset      string
	Threads     int
	Verbose     bool
	FFmpegPath  string
	FFprobePath string
}

// Request assembles the filter request from the collected answers.
func (a Answers) Request() filters.Request {
	return filters.Request{
		Speed:       a.Speed,
		Denoise:     a.Denoise,
		Sharpen:     a.Sharpen,
		Contrast:    a.Contrast,
		Saturation:  a.Saturation,
		Brightness:  a.Brightness,
		ScaleHeight: a.ScaleHeight,
	}
}

// ErrClosed reports that the input stream ended before the flow finished.
var ErrClosed = errors.New("interactive input closed")

var (
	promptColor = color.New(color.FgCyan)
	hintColor   = color.New(color.Faint)
	errorColor  = color.New(color.FgRed)
)

type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// Collect runs the full prompt flow, reading answers from in and writing
// prompts to out.
func Collect(in io.Reader, out io.Writer, defaults Defaults) (Answers, error) {
	p := &prompter{in: bufio.NewScanner(in), out: out}
	answers := Answers{
		CRF:         defaults.CRF,
		Preset:      defaults.Preset,
		Threads:     defaults.Threads,
		FFmpegPath:  defaults.FFmpeg,
		FFprobePath: defaults.FFprobe,
	}

	input, err := p.askInputPath()
	if err != nil {
		return answers, err
	}
	answers.Input = input

	speed, err := p.askSpeed(defaults.Speed)
	if err != nil {
		return answers, err
	}
	answers.Speed = speed

	suggested := encoder.DefaultOutputPath(input, speed)
	output, err := p.askString("Output file", suggested)
	if err != nil {
		return answers, err
	}
	answers.Output = output

	hintColor.Fprintln(p.out, "Percentage knobs: 0-100, 50 is neutral, enter skips the filter.")
	knobs := []struct {
		label string
		dest  **int
	}{
		{"Denoise %", &answers.Denoise},
		{"Sharpen %", &answers.Sharpen},
		{"Contrast %", &answers.Contrast},
		{"Saturation %", &answers.Saturation},
		{"Brightness %", &answers.Brightness},
	}
	for _, knob := range knobs {
		value, err := p.askPercent(knob.label)
		if err != nil {
			return answers, err
		}
		*knob.dest = value
	}

	scale, err := p.askScaleHeight()
	if err != nil {
		return answers, err
	}
	answers.ScaleHeight = scale

	crf, err := p.askInt("CRF (0-51)", defaults.CRF, func(v int) error {
		if v < 0 || v > 51 {
			return fmt.Errorf("crf must be between 0 and 51, got %d", v)
		}
		return nil
	})
	if err != nil {
		return answers, err
	}
	answers.CRF = crf

	preset, err := p.askString("x264 preset", defaults.Preset)
	if err != nil {
		return answers, err
	}
	answers.Preset = preset

	threads, err := p.askInt("Encoder threads (0 = auto)", defaults.Threads, func(v int) error {
		if v < 0 {
			return fmt.Errorf("threads must be zero or positive, got %d", v)
		}
		return nil
	})
	if err != nil {
		return answers, err
	}
	answers.Threads = threads

	verbose, err := p.askBool("Show ffmpeg output", false)
	if err != nil {
		return answers, err
	}
	answers.Verbose = verbose

	return answers, nil
}

func (p *prompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", ErrClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *prompter) ask(label, hint string) (string, error) {
	promptColor.Fprint(p.out, label)
	if hint != "" {
		hintColor.Fprintf(p.out, " [%s]", hint)
	}
	fmt.Fprint(p.out, ": ")
	return p.readLine()
}

func (p *prompter) askInputPath() (string, error) {
	for {
		line, err := p.ask("Input video file", "")
		if err != nil {
			return "", err
		}
		if line == "" {
			errorColor.Fprintln(p.out, "an input file is required")
			continue
		}
		info, err := os.Stat(line)
		if err != nil {
			errorColor.Fprintf(p.out, "cannot access %q: %v\n", line, err)
			continue
		}
		if info.IsDir() {
			errorColor.Fprintf(p.out, "%q is a directory\n", line)
			continue
		}
		return line, nil
	}
}

func (p *prompter) askSpeed(fallback float64) (float64, error) {
	hint := filters.FormatSpeed(fallback)
	for {
		line, err := p.ask("Playback speed multiplier", hint)
		if err != nil {
			return 0, err
		}
		if line == "" {
			return fallback, nil
		}
		speed, err := strconv.ParseFloat(line, 64)
		if err != nil {
			errorColor.Fprintf(p.out, "%q is not a number\n", line)
			continue
		}
		if err := filters.ValidateSpeed(speed); err != nil {
			errorColor.Fprintln(p.out, err.Error())
			continue
		}
		return speed, nil
	}
}

func (p *prompter) askString(label, fallback string) (string, error) {
	line, err := p.ask(label, fallback)
	if err != nil {
		return "", err
	}
	if line == "" {
		return fallback, nil
	}
	return line, nil
}

func (p *prompter) askPercent(label string) (*int, error) {
	for {
		line, err := p.ask(label, "skip")
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}
		value, err := filters.ParsePercent(label, line)
		if err != nil {
			errorColor.Fprintln(p.out, err.Error())
			continue
		}
		return &value, nil
	}
}

func (p *prompter) askScaleHeight() (*int, error) {
	for {
		line, err := p.ask("Scale height (even pixels)", "skip")
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}
		value, err := filters.ParseScaleHeight(line)
		if err != nil {
			errorColor.Fprintln(p.out, err.Error())
			continue
		}
		return &value, nil
	}
}

func (p *prompter) askInt(label string, fallback int, check func(int) error) (int, error) {
	for {
		line, err := p.ask(label, strconv.Itoa(fallback))
		if err != nil {
			return 0, err
		}
		if line == "" {
			return fallback, nil
		}
		value, err := strconv.Atoi(line)
		if err != nil {
			errorColor.Fprintf(p.out, "%q is not a whole number\n", line)
			continue
		}
		if err := check(value); err != nil {
			errorColor.Fprintln(p.out, err.Error())
			continue
		}
		return value, nil
	}
}

func (p *prompter) askBool(label string, fallback bool) (bool, error) {
	hint := "y/N"
	if fallback {
		hint = "Y/n"
	}
	for {
		line, err := p.ask(label, hint)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return fallback, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		errorColor.Fprintln(p.out, "answer y or n")
	}
}

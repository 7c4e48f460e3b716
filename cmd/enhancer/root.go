package main

import (
	"github.com/spf13/cobra"

	"github.com/drunkleen/cli-video-enhancer/internal/interactive"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	var (
		opts       runOptions
		denoise    int
		sharpen    int
		contrast   int
		saturation int
		brightness int
		scale      int
	)

	rootCmd := &cobra.Command{
		Use:           "enhancer",
		Short:         "Re-encode videos with percentage-driven ffmpeg filters",
		Long: `Enhancer wraps ffmpeg behind a handful of 0-100 percentage knobs for
denoising, sharpening, and color correction, plus playback speed and
scaling controls. Run it with flags, or with no input flag to answer
prompts interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("crf") {
				opts.CRF = cfg.Encoding.CRF
			}
			if !flags.Changed("preset") {
				opts.Preset = cfg.Encoding.Preset
			}
			if !flags.Changed("threads") {
				opts.Threads = cfg.Encoding.Threads
			}

			if opts.Input == "" {
				answers, err := interactive.Collect(cmd.InOrStdin(), cmd.ErrOrStderr(), interactive.Defaults{
					Speed:   opts.Speed,
					CRF:     opts.CRF,
					Preset:  opts.Preset,
					Threads: opts.Threads,
					FFmpeg:  opts.FFmpegPath,
					FFprobe: opts.FFprobePath,
				})
				if err != nil {
					return err
				}
				opts.fromAnswers(answers)
				return runEnhancement(cmd, cfg, opts)
			}

			if flags.Changed("denoise") {
				opts.Denoise = &denoise
			}
			if flags.Changed("sharpen") {
				opts.Sharpen = &sharpen
			}
			if flags.Changed("contrast") {
				opts.Contrast = &contrast
			}
			if flags.Changed("saturation") {
				opts.Saturation = &saturation
			}
			if flags.Changed("brightness") {
				opts.Brightness = &brightness
			}
			if flags.Changed("scale") {
				opts.ScaleHeight = &scale
			}
			return runEnhancement(cmd, cfg, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.Input, "input", "i", "", "Input video file")
	flags.StringVarP(&opts.Output, "output", "o", "", "Output file (default: <stem>_enhanced_speed<S>.mp4)")
	flags.Float64VarP(&opts.Speed, "speed", "s", 1.0, "Playback speed multiplier (> 0)")
	flags.IntVar(&denoise, "denoise", 50, "Denoise strength percent (0-100, 50 neutral)")
	flags.IntVar(&sharpen, "sharpen", 50, "Sharpen strength percent (0-100, 50 neutral)")
	flags.IntVar(&contrast, "contrast", 50, "Contrast percent (0-100, 50 neutral)")
	flags.IntVar(&saturation, "saturation", 50, "Saturation percent (0-100, 50 neutral)")
	flags.IntVar(&brightness, "brightness", 50, "Brightness percent (0-100, 50 neutral)")
	flags.IntVar(&scale, "scale", 0, "Output height in even pixels (width follows aspect)")
	flags.IntVar(&opts.CRF, "crf", 17, "x264 constant rate factor (0-51)")
	flags.StringVar(&opts.Preset, "preset", "slow", "x264 encoder preset")
	flags.IntVar(&opts.Threads, "threads", 0, "Encoder threads (0 = auto)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Pass ffmpeg's own log output through")
	flags.StringVar(&opts.FFmpegPath, "ffmpeg", "", "Explicit ffmpeg binary path")
	flags.StringVar(&opts.FFprobePath, "ffprobe", "", "Explicit ffprobe binary path")

	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newToolsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drunkleen/cli-video-enhancer/internal/deps"
)

func newToolsCommand(ctx *commandContext) *cobra.Command {
	var ffmpegFlag string
	var ffprobeFlag string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Check that ffmpeg and ffprobe are available",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			requirements := deps.Requirements(
				firstNonEmpty(ffmpegFlag, cfg.Tools.FFmpeg),
				firstNonEmpty(ffprobeFlag, cfg.Tools.FFprobe),
			)
			statuses := deps.CheckBinaries(requirements)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range toolStatusLines(statuses, colorize) {
				fmt.Fprintln(out, line)
			}
			if missingTools(statuses) {
				return fmt.Errorf("required tools are missing")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ffmpegFlag, "ffmpeg", "", "Explicit ffmpeg binary path")
	cmd.Flags().StringVar(&ffprobeFlag, "ffprobe", "", "Explicit ffprobe binary path")
	return cmd
}

func toolStatusLines(statuses []deps.Status, colorize bool) []string {
	lines := renderSectionHeader("External Tools", colorize)

	var missing []string
	for _, status := range statuses {
		kind := statusOK
		detail := fmt.Sprintf("Ready (command: %s)", status.Command)
		if !status.Available {
			kind = statusError
			detail = status.Detail
			if status.Optional {
				kind = statusWarn
			} else {
				missing = append(missing, status.Name)
			}
		}
		line := renderStatusLine(status.Name, kind, detail, colorize)
		if status.Description != "" {
			line += fmt.Sprintf(" - %s", status.Description)
		}
		lines = append(lines, line)
	}

	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Summary", statusError,
			fmt.Sprintf("Missing tools: %s", strings.Join(missing, ", ")), colorize))
	} else {
		lines = append(lines, renderStatusLine("Summary", statusOK, "All tools available", colorize))
	}
	return lines
}

func missingTools(statuses []deps.Status) bool {
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			return true
		}
	}
	return false
}

package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/drunkleen/cli-video-enhancer/internal/filters"
	"github.com/drunkleen/cli-video-enhancer/internal/history"
)

func buildHistoryRows(records []history.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			shortRunID(record.ID),
			filepath.Base(record.Input),
			filters.FormatSpeed(record.Speed) + "x",
			formatRunStatus(record.Status),
			formatElapsed(record.Elapsed()),
			formatRunTime(record.FinishedAt),
		})
	}
	return rows
}

func buildHistoryDetail(record history.Record) [][2]string {
	video := record.VideoFilters
	if video == "" {
		video = "(copy)"
	}
	audio := record.AudioFilters
	if audio == "" {
		audio = "(copy)"
	}
	pairs := [][2]string{
		{"ID", record.ID},
		{"Input", record.Input},
		{"Output", record.Output},
		{"Speed", filters.FormatSpeed(record.Speed) + "x"},
		{"Video filters", video},
		{"Audio filters", audio},
		{"CRF", fmt.Sprintf("%d", record.CRF)},
		{"Preset", record.Preset},
		{"Target duration", formatElapsed(time.Duration(record.DurationMS) * time.Millisecond)},
		{"Status", formatRunStatus(record.Status)},
		{"Started", formatRunTime(record.StartedAt)},
		{"Finished", formatRunTime(record.FinishedAt)},
		{"Took", formatElapsed(record.Elapsed())},
	}
	if record.ErrorMessage != "" {
		pairs = append(pairs, [2]string{"Error", record.ErrorMessage})
	}
	return pairs
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatRunStatus(status string) string {
	switch status {
	case history.StatusCompleted:
		return "Completed"
	case history.StatusFailed:
		return "Failed"
	default:
		return status
	}
}

func formatRunTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Local().Format("2006-01-02 15:04:05")
}

func formatElapsed(elapsed time.Duration) string {
	if elapsed <= 0 {
		return "-"
	}
	if elapsed < time.Second {
		return elapsed.Round(time.Millisecond).String()
	}
	return elapsed.Round(time.Second).String()
}

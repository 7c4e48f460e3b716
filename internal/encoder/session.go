package encoder

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

var commandContext = exec.CommandContext

// Session is a started ffmpeg process with its progress feed attached.
type Session struct {
	cmd *exec.Cmd

	// Stdout carries the -progress key=value feed.
	Stdout io.ReadCloser
}

// Start launches ffmpeg for the plan. The progress feed is piped through
// Stdout; stderr passes through to the terminal in verbose mode and is
// discarded otherwise.
func Start(ctx context.Context, binary string, plan Plan) (*Session, error) {
	cmd := commandContext(ctx, binary, plan.Args()...)
	if plan.Verbose {
		cmd.Stderr = os.Stderr
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	return &Session{cmd: cmd, Stdout: stdout}, nil
}

// Wait blocks until the process exits and maps a non-zero status to an error.
func (s *Session) Wait() error {
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

package deps

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Tools holds the resolved absolute paths of the external binaries the
// enhancer shells out to.
type Tools struct {
	FFmpeg  string
	FFprobe string
}

// ResolveTools locates ffmpeg and ffprobe, honouring explicit override
// paths before falling back to a PATH lookup. A missing binary is a fatal
// startup error.
func ResolveTools(ffmpegOverride, ffprobeOverride string) (Tools, error) {
	ffmpeg, err := ResolveBinary(ffmpegOverride, "ffmpeg")
	if err != nil {
		return Tools{}, err
	}
	ffprobe, err := ResolveBinary(ffprobeOverride, "ffprobe")
	if err != nil {
		return Tools{}, err
	}
	return Tools{FFmpeg: ffmpeg, FFprobe: ffprobe}, nil
}

// ResolveBinary returns the path to use for an external tool. When an
// override is supplied it must point at an existing file; otherwise the
// default name is searched on PATH, with an .exe fallback on Windows.
func ResolveBinary(override, defaultName string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		info, err := os.Stat(override)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("provided %s binary not found: %s", defaultName, override)
		}
		return override, nil
	}

	if path, err := exec.LookPath(defaultName); err == nil {
		return path, nil
	}
	if runtime.GOOS == "windows" {
		if path, err := exec.LookPath(defaultName + ".exe"); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%q not found in PATH", defaultName)
}

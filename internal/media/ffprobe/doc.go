// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The enhancer needs the container duration to size its progress bar before
// the encode starts; stream counts and dimensions ride along for debug
// logging. Inspect executes the binary and returns a parsed Result whose
// helpers expose those values.
package ffprobe

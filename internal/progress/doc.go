// Package progress interprets the line-oriented key=value feed ffmpeg
// writes under -progress and renders it as a terminal progress bar.
//
// A single Tracker owns the position and stage state; one goroutine pumps
// lines from the encoder's stdout into it while the caller waits on the
// process. Malformed lines and unparsable values degrade silently since
// they only affect the display, never the encode itself.
package progress

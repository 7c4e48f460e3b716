// Package filters translates user-facing enhancement knobs into ffmpeg
// filter-graph strings.
//
// Every percentage knob is centered on 50: values below weaken, values above
// strengthen, and exactly 50 contributes nothing to the graph. Builders are
// pure functions over a validated Request; an empty video graph tells the
// caller to stream-copy instead of re-encoding.
package filters

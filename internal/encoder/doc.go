// Package encoder plans and runs the ffmpeg invocation for an enhancement.
//
// A Plan captures everything the child process needs: input/output paths,
// the resolved video and audio filter chains, and re-encode parameters.
// Start launches ffmpeg with its machine-readable progress feed piped to
// the caller; Wait surfaces a non-zero exit as an error.
package encoder

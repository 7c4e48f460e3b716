// Package interactive collects enhancement parameters through a terminal
// prompt flow, as an alternative to passing flags.
//
// Every answer passes the same validation as the CLI surface: input paths
// must exist, percentages stay in 0..100, scale heights are positive and
// even, speed is positive. Invalid answers re-prompt instead of aborting.
package interactive

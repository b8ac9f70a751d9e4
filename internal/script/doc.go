// Package script replays gesture scripts against a swipe state on a manual
// frame clock. A script is a YAML document naming the anchors, the labels
// the guard refuses, an optional tuning profile and a list of steps such as
// drag, release, open, close, snap, animate, frames and reanchor.
//
// Run records a snapshot after every step and the outcome of every
// transition, so a gesture sequence can be checked without a display.
package script

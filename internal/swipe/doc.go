// Package swipe implements an anchored swipeable state machine. A drag
// gesture moves a one-dimensional offset between labelled anchors; on
// release the machine picks a target from position and velocity, runs a
// veto guard, and animates the offset onto the chosen anchor.
//
// Machine is the pure, single-owner state. State wraps it for hosts: it
// serializes drags, frames and programmatic transitions, publishes a
// snapshot for readers, and reports each transition as a model.Result.
package swipe

package model

// Package model defines the data shared by the swipe state machine and its
// hosts: state labels, anchors and anchor sets, frame snapshots, and the
// outcome of a transition. Values here are plain data with explicit
// validation at construction time.

// Package swimlane lays out actor lanes and threads flows through them.
//
// Each [diagram.Lane] is a horizontal band at its row, drawn once,
// translucent, spanning every step of every flow plus a margin. Each
// [diagram.Flow] is walked by a small state machine:
//
//	INIT -> for each step: EMIT_MARKER -> (not last) EMIT_ARROW -> DONE
//
// A marker is a diamond (0.25 x 0.2 half extents) for decision steps
// and a rectangle (0.35 x 0.18) otherwise, filled with the lane color
// and labelled with the step text. An arrow joins every consecutive
// pair, decision or not; decisions do not branch.
package swimlane

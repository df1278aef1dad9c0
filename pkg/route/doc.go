// Package route computes straight connectors between anchor boxes.
//
// There is no obstacle avoidance and no curve routing. [Route] joins two
// box centers and clips the segment at both box boundaries, so the
// endpoints sit exactly on the edges. A label sits at the midpoint of
// the two centers, which for equal-size boxes is also the midpoint of
// the clipped segment.
//
// [BetweenSteps] is the swimlane variant: a directed arrow from the
// right edge of one step marker to the left edge of the next, landing on
// the next step's lane row. Consecutive steps in different lanes give a
// diagonal arrow.
package route

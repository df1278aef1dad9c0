// Package layout turns caller-positioned nodes into anchor boxes.
//
// Layout never moves anything. [Place] centers a fixed-size box on each
// node's position; box size is configuration, not derived from label
// length. No overlap detection is performed, so callers own spacing.
//
// [GroupByCategory] buckets node ids by category in first-seen order.
// The order drives legend emission.
package layout

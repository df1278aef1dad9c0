// Package diagram defines the layout model consumed by the composer.
//
// A [Model] is a small, fully materialized description of one diagram:
// positioned [Node] values joined by [Edge] relationships (entity and
// architecture diagrams), and [Lane] rows with ordered [Flow] step
// sequences (swimlane diagrams). A model may carry both.
//
// Positions are caller-owned. Nothing in this package or downstream
// computes coordinates; the model states where things go.
//
// # Validation
//
// [Model.Validate] runs two passes. The shape pass (required fields, id
// syntax, step actors) uses ozzo-validation and fails with
// INVALID_MODEL. The referential pass checks that ids are unique
// (DUPLICATE_ID), that every edge endpoint names a node
// (UNKNOWN_NODE_REFERENCE) and that every step's actor has a lane
// (MISSING_LANE_FOR_ACTOR). Every error names the offending id.
//
// # Attribute shorthand
//
// Attributes decode from either an object or a plain string. In the
// string form a trailing "(PK)" or "(FK)" marker tags the attribute:
//
//	attributes:
//	  - student_id (PK)
//	  - user_id (FK)
//	  - name: email
//	    emphasis: none
package diagram

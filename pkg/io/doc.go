// Package io reads and writes diagram models as JSON, YAML or TOML.
//
// # Overview
//
// The composer consumes an in-memory [diagram.Model]. This package is
// the loader that gets one there from a file. All three encodings share
// one schema:
//
//	title: Platform ERD
//	nodes:
//	  - id: Users
//	    category: Core
//	    position: {x: 3, y: 8}
//	    attributes: [user_id (PK), email]
//	  - id: Students
//	    category: Academic
//	    position: {x: 1, y: 6}
//	    attributes: [student_id (PK), user_id (FK)]
//	edges:
//	  - {from: Users, to: Students, label: "1:1"}
//	lanes:
//	  - {actor: Student, row: 4}
//	flows:
//	  - title: Login
//	    title_anchor: {x: 1, y: 4.8}
//	    steps:
//	      - {actor: Student, text: Login, x: 1}
//	palette:
//	  Core: {fill: "#1FB8CD"}
//
// Decoding is strict: unknown keys are errors, so typos fail loudly
// instead of silently dropping data. Loaders check shape only through
// the decoder; referential integrity is checked by the composer.
//
// # Import
//
// Use [Load] to read a file (format from the extension) or [Read] to
// decode from any io.Reader:
//
//	m, err := io.Load("erd.yaml")
//
// # Export
//
// Use [Save] or [Write] to encode a model. Output is deterministic for a
// given model except for palette key order in YAML and TOML, which the
// encoders sort.
package io

// Package config loads and validates gapseq configuration.
//
// Configuration is built from three layers, later layers overriding
// earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← GAPSEQ_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← .toml, .yaml or .yml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// # Environment
//
//	GAPSEQ_LOG_LEVEL        logging.level
//	GAPSEQ_BUFFER_POOLED    buffer.pooled
//	GAPSEQ_BUFFER_CAPACITY  buffer.capacity
//	GAPSEQ_PIPELINE_SEED    pipeline.seed
//	GAPSEQ_SCRIPT           pipeline.script
//
// Other GAPSEQ_SECTION_KEY variables map to section.key.
//
// # Example
//
//	[logging]
//	level = "debug"
//
//	[buffer]
//	pooled = true
//	capacity = 64
//
//	[[pipeline.steps]]
//	op = "collapse_space"
//
//	[[pipeline.steps]]
//	op = "pad_even"
//	width = 20
//	left = "*"
//	right = "*"
//
// Load returns *ParseError for malformed files, *TypeError for values of
// the wrong type, and *ValidationError values (joined) for settings that
// fail validation.
package config

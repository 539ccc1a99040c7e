// Package cli wires together the Cobra command tree for the mentor binary.
//
// It defines the root command and all subcommands (learn, review, review-dir,
// knowledge, config, cache, version), binds flags, reads configuration,
// invokes the learning and review pipelines, and returns deterministic exit
// codes for CI gating.
package cli

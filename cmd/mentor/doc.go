// Mentor is a local-first CLI that learns a repository's conventions and
// reviews code changes against them.
//
// It extracts style, architecture, and functional patterns from a reference
// repository, stores them alongside an embedding index, and reviews files or
// directories with deterministic checks plus optional LLM-backed suggestions.
//
// Usage:
//
//	mentor learn <repository>             # extract and store project patterns
//	mentor review <file>                  # review a single file
//	mentor review <file> --against <old>  # review a change as a diff
//	mentor review-dir <directory>         # review every indexed file in a tree
//	mentor knowledge show                 # inspect the knowledge store
//	mentor config init                    # write a default config file
//
// See https://github.com/sakshikumar19/mentor for full documentation.
package main

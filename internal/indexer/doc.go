// Package indexer walks a resolved repository tree and reads the source
// files that match the configured extensions, skipping ignored directories.
// Its output is the file mapping consumed by pattern extraction and the
// knowledge store.
package indexer

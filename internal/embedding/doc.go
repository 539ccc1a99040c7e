// Package embedding provides vector embedding generation behind a
// capability interface. Backends: Google GenAI (cloud) and Ollama (local).
// When no backend is configured the factory returns a nil engine and the
// knowledge store operates without a similarity index.
package embedding

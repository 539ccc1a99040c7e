// Package redact removes secrets from code and diff content before it is
// sent to any LLM backend.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS access key IDs and secret access keys, bearer
// tokens, and provider-specific tokens (Groq, Google, OpenAI-style,
// GitHub).
//
// Path-based redaction is also supported: files whose names signal
// credentials (.env, *.pem, *.key) have their entire content replaced with
// [REDACTED] rather than being scanned line by line.
package redact

// Package config manages mentor configuration.
//
// Effective configuration is built by merging, in order: built-in defaults,
// the user config file, MENTOR_* environment variables, and CLI flag
// overrides. Credentials (GROQ_API_KEY, GEMINI_API_KEY) are never stored in
// the config file; they come from the environment only.
package config

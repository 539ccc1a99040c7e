// Package providers implements the Generator interface for each supported
// LLM backend.
//
// Supported providers: Groq (OpenAI-compatible chat completions) and
// Ollama / LMStudio for local models.
//
// All providers share a common retry helper with exponential back-off,
// rate-limit handling, and non-retryable authentication errors. Base URLs
// can be overridden through environment variables so that tests can
// redirect calls to local httptest servers without making live API
// requests.
//
// Use [New] to obtain a Generator by provider name and model string; an
// empty provider name yields a nil Generator, meaning generation is
// unavailable and callers fall back to deterministic recommendations.
package providers

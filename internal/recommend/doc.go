// Package recommend turns detector findings into the ordered review
// document consumed by output writers and integrations. Deterministic
// issues get suggestions from a fixed lookup table; when a generative
// backend and a diff are available, one additional generation request
// contributes schema-validated recommendations with explanations. The
// merged list is ordered high, medium, low, then everything else.
package recommend

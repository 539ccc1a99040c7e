// Package output formats review documents for display or machine
// consumption.
//
// Two formats are supported:
//   - text — human-readable terminal output (default)
//   - json — the full structured review list, stable for downstream
//     consumers such as comment-posting integrations
//
// Use [GetWriter] to obtain a [Writer] for a given format string, or
// [WriteReviews] to handle destination selection (file path or stdout).
package output

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/sakshikumar19/mentor/internal/detector"
	"github.com/sakshikumar19/mentor/internal/recommend"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, reviews []recommend.Review) error {
	ew := &errWriter{w: w}

	total := 0
	for _, review := range reviews {
		total += len(review.Recommendations)
	}

	ew.printf("Mentor Code Review\n")
	ew.println(strings.Repeat("─", 60))
	ew.printf("Files reviewed: %d, recommendations: %d\n", len(reviews), total)
	ew.println(strings.Repeat("─", 60))

	if total == 0 {
		ew.println("\nNo issues found. Looks good!")
		return ew.err
	}

	for _, review := range reviews {
		if len(review.Recommendations) == 0 {
			continue
		}
		ew.printf("\n%s\n", review.File)
		ew.println(strings.Repeat("─", 40))

		for _, rec := range review.Recommendations {
			ew.printf("\n  %s %s/%s\n", severityIcon(rec.Severity), rec.Type, rec.Subtype)
			for _, line := range wrapText(rec.Message, 70) {
				ew.printf("    %s\n", line)
			}
			if rec.Suggestion != "" {
				ew.println("  Suggestion:")
				for _, line := range wrapText(rec.Suggestion, 70) {
					ew.printf("    %s\n", line)
				}
			}
			if rec.Explanation != "" {
				ew.println("  Why:")
				for _, line := range wrapText(rec.Explanation, 70) {
					ew.printf("    %s\n", line)
				}
			}
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func severityIcon(severity string) string {
	switch severity {
	case detector.SeverityCritical, detector.SeverityHigh:
		return "[!!]"
	case detector.SeverityMedium:
		return "[!]"
	case detector.SeverityLow:
		return "[-]"
	default:
		return "[?]"
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sakshikumar19/mentor/internal/recommend"
)

// JSONWriter outputs the full review set as JSON.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, reviews []recommend.Review) error {
	data, err := json.MarshalIndent(reviews, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

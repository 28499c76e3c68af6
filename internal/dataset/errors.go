package dataset

import (
	"fmt"
	"strings"
)

// LoadError indicates the input file is missing or undecodable with any of
// the supported encodings. Fatal; the pipeline does not attempt recovery.
type LoadError struct {
	Path      string
	Encodings []string
	Err       error
}

func (e *LoadError) Error() string {
	if len(e.Encodings) > 0 {
		return fmt.Sprintf("load %s: not decodable as %s: %v", e.Path, strings.Join(e.Encodings, ", "), e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError reports every required column absent from a table, not just
// the first.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

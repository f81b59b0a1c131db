package schema

import (
	"fmt"
	"strings"
)

// SchemaError reports required fields that no input column could satisfy.
type SchemaError struct {
	Source    string
	Missing   []Field
	Available []string
}

func (e *SchemaError) Error() string {
	missing := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		missing[i] = string(f)
	}

	src := ""
	if e.Source != "" {
		src = fmt.Sprintf(" in %q", e.Source)
	}

	return fmt.Sprintf("missing required columns%s: [%s]; available columns: [%s]",
		src, strings.Join(missing, ", "), strings.Join(e.Available, ", "))
}

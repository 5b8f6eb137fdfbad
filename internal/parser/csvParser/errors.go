package csvParser

import "fmt"

// MissingColumnError means the header has no column for a required field.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("import file has no %s column", e.Column)
}

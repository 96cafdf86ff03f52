package workingspec

import (
	"fmt"
	"strings"
)

// StructuralValidationError carries the complete ordered list of structural
// violations found in a working spec. The validator never stops at the
// first problem: callers should see every violation at once.
type StructuralValidationError struct {
	// SpecID is the document's id field, if it had one.
	SpecID string

	// Violations is the ordered, non-empty list of violation messages.
	Violations []string
}

func (e *StructuralValidationError) Error() string {
	label := e.SpecID
	if label == "" {
		label = "working spec"
	}
	return fmt.Sprintf("%s failed structural validation: %s",
		label, strings.Join(e.Violations, "; "))
}

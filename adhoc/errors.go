package adhoc

import (
	"errors"
	"fmt"
)

// ErrExtraction is matched by every *ExtractionError.
var ErrExtraction = errors.New("failed to get table from adhoc query")

// ExtractionError is returned when no table name can be found in a query
type ExtractionError struct {
	Query string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %q", ErrExtraction.Error(), e.Query)
}

// Is makes errors.Is(err, ErrExtraction) hold.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

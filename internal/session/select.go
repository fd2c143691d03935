package session

import (
	"fmt"
	"strconv"
	"strings"
)

// InvalidChoiceError reports a selection outside the offered choices.
type InvalidChoiceError struct {
	Choice string
}

// Error implements the error interface for InvalidChoiceError.
func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("invalid choice: %s", e.Choice)
}

// ParseSelections expands a comma-separated selection string into 1-based row
// numbers, validating each against max. Segments may be single numbers or
// inclusive ranges, e.g. "1-3,5" selects rows 1, 2, 3, and 5. An empty input
// yields an empty selection (the caller treats it as a refresh).
func ParseSelections(raw string, max int) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var selections []int
	for _, segment := range strings.Split(raw, ",") {
		segment = strings.TrimSpace(segment)

		// Range expansion
		if a, b, ok := strings.Cut(segment, "-"); ok {
			lo, errLo := strconv.Atoi(strings.TrimSpace(a))
			hi, errHi := strconv.Atoi(strings.TrimSpace(b))
			if errLo != nil || errHi != nil || lo > hi {
				return nil, &InvalidChoiceError{Choice: segment}
			}
			for n := lo; n <= hi; n++ {
				selections = append(selections, n)
			}
			continue
		}

		n, err := strconv.Atoi(segment)
		if err != nil {
			return nil, &InvalidChoiceError{Choice: segment}
		}
		selections = append(selections, n)
	}

	// Validate selections against the available rows
	for _, n := range selections {
		if n < 1 || n > max {
			return nil, &InvalidChoiceError{Choice: strconv.Itoa(n)}
		}
	}

	return selections, nil
}

package session

import (
	"errors"
	"testing"
)

func TestParseSelections(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		max         int
		expected    []int
		expectError bool
		badChoice   string
	}{
		{
			name:     "single number",
			raw:      "3",
			max:      5,
			expected: []int{3},
		},
		{
			name:     "comma separated",
			raw:      "1,3,5",
			max:      5,
			expected: []int{1, 3, 5},
		},
		{
			name:     "range expansion",
			raw:      "1-3",
			max:      5,
			expected: []int{1, 2, 3},
		},
		{
			name:     "mixed ranges and numbers",
			raw:      "1-3,5",
			max:      5,
			expected: []int{1, 2, 3, 5},
		},
		{
			name:     "whitespace tolerated",
			raw:      " 1 , 2-3 ",
			max:      5,
			expected: []int{1, 2, 3},
		},
		{
			name:     "empty input means refresh",
			raw:      "",
			max:      5,
			expected: nil,
		},
		{
			name:        "non-numeric segment",
			raw:         "1,abc",
			max:         5,
			expectError: true,
			badChoice:   "abc",
		},
		{
			name:        "out of range",
			raw:         "6",
			max:         5,
			expectError: true,
			badChoice:   "6",
		},
		{
			name:        "zero is out of range",
			raw:         "0",
			max:         5,
			expectError: true,
			badChoice:   "0",
		},
		{
			name:        "range exceeding max",
			raw:         "4-6",
			max:         5,
			expectError: true,
			badChoice:   "6",
		},
		{
			name:        "inverted range",
			raw:         "3-1",
			max:         5,
			expectError: true,
			badChoice:   "3-1",
		},
		{
			name:        "malformed range",
			raw:         "1-x",
			max:         5,
			expectError: true,
			badChoice:   "1-x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelections(tt.raw, tt.max)

			if tt.expectError {
				var invalid *InvalidChoiceError
				if !errors.As(err, &invalid) {
					t.Fatalf("Expected InvalidChoiceError, got %v", err)
				}
				if invalid.Choice != tt.badChoice {
					t.Errorf("Expected bad choice %q, got %q", tt.badChoice, invalid.Choice)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Expected %v, got %v", tt.expected, got)
					break
				}
			}
		})
	}
}

func TestInvalidChoiceError_Error(t *testing.T) {
	err := &InvalidChoiceError{Choice: "42"}
	if err.Error() != "invalid choice: 42" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}

package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		token    string
		expected string
	}{
		{
			name:     "token in error string",
			input:    "request to https://app.tesuto.com failed: bad token secret123",
			token:    "secret123",
			expected: "request to https://app.tesuto.com failed: bad token [REDACTED]",
		},
		{
			name:     "multiple occurrences",
			input:    "secret123 then secret123 again",
			token:    "secret123",
			expected: "[REDACTED] then [REDACTED] again",
		},
		{
			name:     "empty token leaves string untouched",
			input:    "no token configured",
			token:    "",
			expected: "no token configured",
		},
		{
			name:     "token absent",
			input:    "connection refused",
			token:    "secret123",
			expected: "connection refused",
		},
		{
			name:     "token as env assignment",
			input:    "env: [TESUTO_API_TOKEN=secret123]",
			token:    "secret123",
			expected: "env: [TESUTO_API_TOKEN=[REDACTED]]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Redact(tt.input, tt.token))
		})
	}
}

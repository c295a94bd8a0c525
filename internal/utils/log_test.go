package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "negative limit drops the text", input: "Senior Go engineer", limit: -1, expect: ""},
		{name: "exact limit is kept", input: "python", limit: 6, expect: "python"},
		{name: "long prompt is cut", input: "Explain why Ada fits", limit: 7, expect: "Explain..."},
		{name: "whitespace is trimmed before counting", input: "\n  sql  \n", limit: 3, expect: "sql"},
		{name: "multibyte runes stay whole", input: "Zoë Müller", limit: 3, expect: "Zoë..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

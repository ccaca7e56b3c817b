package services

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "plain object",
			content: `{"a": 1}`,
			want:    `{"a": 1}`,
		},
		{
			name:    "json fence",
			content: "```json\n{\"a\": 1}\n```",
			want:    `{"a": 1}`,
		},
		{
			name:    "bare fence",
			content: "```\n{\"a\": 1}\n```",
			want:    `{"a": 1}`,
		},
		{
			name:    "surrounding prose",
			content: "Here are your questions:\n{\"a\": 1}\nLet me know if you need more.",
			want:    `{"a": 1}`,
		},
		{
			name:    "no object at all",
			content: "no json here",
			want:    "no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.content); got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

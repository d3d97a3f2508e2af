package providers

import (
	"encoding/json"
	"testing"
)

func TestParseJSONPayload(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "bare JSON array",
			content: `[{"input_text":"silvertip"}]`,
			want:    `[{"input_text":"silvertip"}]`,
		},
		{
			name:    "json code fence",
			content: "```json\n[{\"input_text\":\"silvertip\"}]\n```",
			want:    `[{"input_text":"silvertip"}]`,
		},
		{
			name:    "plain code fence",
			content: "```\n[1,2]\n```",
			want:    `[1,2]`,
		},
		{
			name:    "JSON surrounded by prose",
			content: "Here are the results:\n[1,2]\nLet me know if you need more.",
			want:    `[1,2]`,
		},
		{
			name:    "object payload",
			content: "```json\n{\"candidates\": []}\n```",
			want:    `{"candidates":[]}`,
		},
		{
			name:    "empty content",
			content: "   ",
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			content: "I could not identify any of these species.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSONPayload(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseJSONPayload() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidateJSON(t *testing.T) {
	schema := json.RawMessage(`{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["input_text"],
			"properties": {"input_text": {"type": "string"}}
		}
	}`)

	t.Run("valid payload", func(t *testing.T) {
		if err := ValidateJSON(schema, json.RawMessage(`[{"input_text":"elk"}]`)); err != nil {
			t.Errorf("ValidateJSON() error = %v", err)
		}
	})

	t.Run("invalid payload", func(t *testing.T) {
		if err := ValidateJSON(schema, json.RawMessage(`[{"wrong_key":1}]`)); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("empty schema is a no-op", func(t *testing.T) {
		if err := ValidateJSON(nil, json.RawMessage(`[1]`)); err != nil {
			t.Errorf("ValidateJSON() error = %v", err)
		}
	})
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "Pure JSON",
			input: `{"response": "Sure", "insurance_criteria": {}}`,
			want: map[string]interface{}{
				"response":           "Sure",
				"insurance_criteria": map[string]interface{}{},
			},
		},
		{
			name: "JSON in markdown code block",
			input: "```json\n" +
				`{"response": "Here you go", "insurance_criteria": {"coverage_type": "life"}}` + "\n```",
			want: map[string]interface{}{
				"response":           "Here you go",
				"insurance_criteria": map[string]interface{}{"coverage_type": "life"},
			},
		},
		{
			name:  "JSON with surrounding text",
			input: `Here is my answer: {"response": "ok", "count": 5} hope it helps.`,
			want: map[string]interface{}{
				"response": "ok",
				"count":    float64(5),
			},
		},
		{
			name:  "JSON with trailing comma",
			input: `{"name": "Bob", "age": 40,}`,
			want: map[string]interface{}{
				"name": "Bob",
				"age":  float64(40),
			},
		},
		{
			name:  "JSON with unquoted keys",
			input: `{name: "Alice", age: 35}`,
			want: map[string]interface{}{
				"name": "Alice",
				"age":  float64(35),
			},
		},
		{
			name:  "JSON with single quotes",
			input: `{'response': 'hello', 'insurance_criteria': {}}`,
			want: map[string]interface{}{
				"response":           "hello",
				"insurance_criteria": map[string]interface{}{},
			},
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "Plain text",
			input:   "Whole life insurance covers you for your entire life.",
			wantErr: true,
		},
		{
			name:    "Array is not an object",
			input:   `[1, 2, 3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			err := ParseAIJSON(tt.input, &got)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNotJSONObject)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractFromMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "JSON code block with json tag",
			input: "```json\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "JSON code block without tag",
			input: "```\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "Code block with prose",
			input: "```\nnot json\n```",
			want:  "",
		},
		{
			name:  "No code block",
			input: `{"test": true}`,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractFromMarkdown(tt.input))
		})
	}
}

func TestExtractBalancedBraces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Simple object", input: `{"a": 1}`, want: `{"a": 1}`},
		{name: "Nested objects", input: `{"a": {"b": 2}} tail`, want: `{"a": {"b": 2}}`},
		{name: "String containing braces", input: `{"text": "Hello {world}"}`, want: `{"text": "Hello {world}"}`},
		{name: "Escaped quote", input: `{"text": "say \"}\""}`, want: `{"text": "say \"}\""}`},
		{name: "Unbalanced", input: `{"a": 1`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBalancedBraces(tt.input, '{', '}'))
		})
	}
}

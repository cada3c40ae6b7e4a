package pipeline

import (
	"errors"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []byte
		expected string
		wantErr  error
		errHas   string
	}{
		{
			name:     "plain UTF-8",
			input:    []byte("# Title ☿"),
			expected: "# Title ☿",
		},
		{
			name:     "UTF-8 BOM stripped",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, "hi"...),
			expected: "hi",
		},
		{
			name:     "UTF-16 little endian",
			input:    []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00},
			expected: "hi",
		},
		{
			name:     "UTF-16 big endian",
			input:    []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i'},
			expected: "hi",
		},
		{
			name:     "CRLF and CR normalized",
			input:    []byte("a\r\nb\rc\n"),
			expected: "a\nb\nc\n",
		},
		{
			name:    "empty input",
			input:   nil,
			wantErr: ErrEmptyInput,
		},
		{
			name:    "BOM only",
			input:   []byte{0xEF, 0xBB, 0xBF},
			wantErr: ErrEmptyInput,
		},
		{
			name:    "invalid byte reports offset",
			input:   []byte("ab\xffc"),
			wantErr: ErrEncoding,
			errHas:  "invalid byte 0xFF at offset 2",
		},
		{
			name:    "truncated sequence",
			input:   []byte("a\xe2\x82"),
			wantErr: ErrEncoding,
			errHas:  "offset 1",
		},
		{
			name:    "Latin-1 text",
			input:   []byte("caf\xe9"),
			wantErr: ErrEncoding,
			errHas:  "0xE9 at offset 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
				if tt.errHas != "" && !strings.Contains(err.Error(), tt.errHas) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errHas)
				}
				if got != "" {
					t.Errorf("Decode() returned partial text %q on error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Decode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

package core

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestBOMSkippingReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("brand,range")...),
			expected: "brand,range",
		},
		{
			name:     "file without BOM",
			input:    []byte("brand,range"),
			expected: "brand,range",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM at start",
			input:    []byte{0xEF, 0xBB, 'a', 'b', 'c'},
			expected: string([]byte{0xEF, 0xBB, 'a', 'b', 'c'}),
		},
		{
			name:     "short file",
			input:    []byte("a"),
			expected: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewBOMSkippingReader(bytes.NewReader(tt.input))
			result, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestCountingReader(t *testing.T) {
	r := NewCountingReader(strings.NewReader("hello"))
	if _, err := io.ReadAll(r); err != nil {
		t.Fatal(err)
	}
	if r.BytesRead != 5 {
		t.Errorf("BytesRead = %d, want 5", r.BytesRead)
	}
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"ascii", []byte("Dead White"), "Dead White"},
		{"utf-8", []byte("Blanco Muerto é"), "Blanco Muerto é"},
		{"latin-1 e acute", []byte{'C', 'a', 'f', 0xE9}, "Café"},
		{"latin-1 umlaut", []byte{0xDC, 'b', 'e', 'r'}, "Über"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeText(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadImportText(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("brand\nVallejo")...)

	got, err := ReadImportText(bytes.NewReader(input), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "brand\nVallejo" {
		t.Errorf("got %q", got)
	}
}

func TestReadImportText_SizeLimit(t *testing.T) {
	if _, err := ReadImportText(strings.NewReader("12345"), 5); err != nil {
		t.Errorf("body at the limit should pass, got %v", err)
	}

	_, err := ReadImportText(strings.NewReader("123456"), 5)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

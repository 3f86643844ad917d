package stream

import (
	"testing"
)

func TestParseByteRange(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		size    int64
		start   int64
		end     int64
		wantErr bool
	}{
		{"prefix span", "bytes=0-99", 1000, 0, 99, false},
		{"interior span", "bytes=200-499", 1000, 200, 499, false},
		{"open ended", "bytes=500-", 1000, 500, 999, false},
		{"single byte", "bytes=999-999", 1000, 999, 999, false},
		{"end clamped to last byte", "bytes=900-4000", 1000, 900, 999, false},
		{"start at size", "bytes=1000-", 1000, 0, 0, true},
		{"start past size", "bytes=5000-6000", 1000, 0, 0, true},
		{"inverted span", "bytes=500-100", 1000, 0, 0, true},
		{"suffix form unsupported", "bytes=-500", 1000, 0, 0, true},
		{"missing unit", "0-99", 1000, 0, 0, true},
		{"wrong unit", "chunks=0-99", 1000, 0, 0, true},
		{"garbage start", "bytes=abc-100", 1000, 0, 0, true},
		{"garbage end", "bytes=0-xyz", 1000, 0, 0, true},
		{"multiple ranges", "bytes=0-99,200-", 1000, 0, 0, true},
		{"no dash", "bytes=100", 1000, 0, 0, true},
		{"empty spec", "bytes=", 1000, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := parseByteRange(tt.header, tt.size)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got start=%d end=%d", start, end)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if start != tt.start || end != tt.end {
				t.Errorf("got %d-%d, want %d-%d", start, end, tt.start, tt.end)
			}
		})
	}
}

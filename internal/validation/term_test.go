package validation

import (
	"strings"
	"testing"
)

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare name", "gifs", "gifs"},
		{"uppercase", "AWW", "aww"},
		{"surrounding whitespace", "  science \n", "science"},
		{"r prefix", "r/HighQualityGifs", "highqualitygifs"},
		{"leading slash r prefix", "/r/aww/", "aww"},
		{"full url", "https://www.reddit.com/r/Gifs/comments/abc/title/", "gifs"},
		{"old reddit url", "https://old.reddit.com/r/aww", "aww"},
		{"multireddit", "gifs+aww", "gifs+aww"},
		{"stray plus trimmed", "+gifs+", "gifs"},
		{"invalid characters dropped", "hello world!?", "helloworld"},
		{"underscore kept", "reaction_gifs", "reaction_gifs"},
		{"unicode dropped", "café", "caf"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
		{"non-subreddit url keeps path text", "https://example.org/foo", "foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTerm(tt.input); got != tt.expected {
				t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeTermTruncates(t *testing.T) {
	got := NormalizeTerm(strings.Repeat("a", 200))
	if len(got) != MaxTermLength {
		t.Errorf("expected length %d, got %d", MaxTermLength, len(got))
	}
}

func TestNormalizeTermIsIdempotent(t *testing.T) {
	inputs := []string{"r/Gifs", "https://www.reddit.com/r/aww/", "gifs+aww", "x y z"}
	for _, in := range inputs {
		once := NormalizeTerm(in)
		if twice := NormalizeTerm(once); twice != once {
			t.Errorf("NormalizeTerm not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestValidateTerm(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		shouldError bool
	}{
		{"valid", "r/Gifs", "gifs", false},
		{"empty", "", "", true},
		{"whitespace", "   ", "", true},
		{"no valid characters", "???", "", true},
		{"too short", "a", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTerm(tt.input)
			if tt.shouldError {
				if err == nil {
					t.Errorf("expected error for %q, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

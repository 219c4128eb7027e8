package embedding

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateUTF8(t *testing.T) {
	if got := truncateUTF8("short", 10); got != "short" {
		t.Fatalf("expected input unchanged, got %q", got)
	}
	if got := truncateUTF8("abcdef", 4); got != "abcd" {
		t.Fatalf("expected abcd, got %q", got)
	}

	// "é" is two bytes, so a 5-byte cut lands inside the third rune
	s := strings.Repeat("é", 4)
	got := truncateUTF8(s, 5)
	if got != "éé" {
		t.Fatalf("expected two whole runes, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncated text is not valid utf-8: %q", got)
	}

	long := strings.Repeat("a", maxGeminiInput-1) + "日本"
	if got := truncateUTF8(long, maxGeminiInput); !utf8.ValidString(got) || len(got) != maxGeminiInput-1 {
		t.Fatalf("expected cut before the multi-byte rune, got len %d", len(got))
	}
}

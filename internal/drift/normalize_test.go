package drift

import (
	"strings"
	"testing"
)

func TestNormalizeText_Basic(t *testing.T) {
	got := NormalizeText("  Hello,   World!  ")
	if got != "hello world" {
		t.Errorf("NormalizeText = %q, want %q", got, "hello world")
	}
}

func TestNormalizeText_Idempotent(t *testing.T) {
	inputs := []string{
		"Please reply in Bangla!",
		"let's START   over...",
		"",
		"Üñíçødé — tëxt?",
		"tabs\tand\nnewlines",
	}
	for _, in := range inputs {
		once := NormalizeText(in)
		twice := NormalizeText(once)
		if once != twice {
			t.Errorf("NormalizeText not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeText_UnicodeWordChars(t *testing.T) {
	got := NormalizeText("Café, naïve — 東京!")
	if got != "café naïve 東京" {
		t.Errorf("NormalizeText = %q, want %q", got, "café naïve 東京")
	}
}

func TestNormalizeText_StripsApostrophes(t *testing.T) {
	got := NormalizeText("Let's start over.")
	if got != "lets start over" {
		t.Errorf("NormalizeText = %q, want %q", got, "lets start over")
	}
}

func TestTokenize_PreservesPunctuation(t *testing.T) {
	tokens := Tokenize("Hello, world!  foo")
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[0] != "Hello," {
		t.Errorf("tokenizer should preserve punctuation, got %q", tokens[0])
	}
}

func TestTokenize_Empty(t *testing.T) {
	if tokens := Tokenize("   \t\n  "); len(tokens) != 0 {
		t.Errorf("expected no tokens, got %v", tokens)
	}
}

func TestMakeSignature(t *testing.T) {
	tokens := strings.Fields("a b c d e f g h i j")
	if sig := MakeSignature(tokens, 8); sig != "a b c d e f g h" {
		t.Errorf("signature = %q", sig)
	}
	if sig := MakeSignature(tokens[:3], 8); sig != "a b c" {
		t.Errorf("short signature = %q", sig)
	}
	if sig := MakeSignature(nil, 8); sig != "" {
		t.Errorf("empty signature = %q", sig)
	}
}

func TestMakeSignature_PrefixStable(t *testing.T) {
	base := strings.Fields("one two three four five six seven eight")
	extended := append(append([]string{}, base...), "nine", "ten")
	if MakeSignature(base, 8) != MakeSignature(extended, 8) {
		t.Error("signature should ignore tokens beyond position n")
	}
}

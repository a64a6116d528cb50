// Package drift implements the deterministic memory-drift detectors and
// the scoring model: text normalization, signature bucketing, Jaccard
// similarity verification, fact tracking, session-reset scanning, and
// event aggregation. Everything here is pure computation over in-memory
// data; safe to call concurrently as long as each call gets its own
// inputs.
package drift

import (
	"regexp"
	"strings"
)

var (
	// Word characters are Unicode letters, digits, and underscore.
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeText lowercases, strips punctuation, and collapses whitespace.
// Idempotent: NormalizeText(NormalizeText(s)) == NormalizeText(s).
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = nonWordRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokenize splits on whitespace runs, dropping empty tokens. It is
// punctuation-preserving on purpose: signature bucketing runs it over raw
// content, while similarity checks run it over normalized content. Do not
// unify the two without re-validating clustering quality.
func Tokenize(s string) []string {
	return strings.Fields(s)
}

// MakeSignature joins the first n tokens with single spaces. Fewer than n
// tokens yields all of them; zero tokens yields "". Signatures are cheap,
// collision-tolerant bucket keys: full similarity comparison only runs
// within a same-signature group, so the worst case O(n²) scan becomes a
// local O(k²) per bucket.
func MakeSignature(tokens []string, n int) string {
	if n < 0 {
		n = 0
	}
	if n > len(tokens) {
		n = len(tokens)
	}
	return strings.Join(tokens[:n], " ")
}

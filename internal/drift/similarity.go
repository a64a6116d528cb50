package drift

// TokenSet builds a set from a token list. Membership is case-sensitive;
// normalize upstream if case-insensitive comparison is wanted.
func TokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// JaccardSimilarity returns |A∩B| / |A∪B| in [0,1].
// Both sets empty → 1.0 (vacuously identical); exactly one empty → 0.0.
func JaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for t := range small {
		if _, ok := large[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// AreSimilar reports whether two token lists describe the same ask:
// Jaccard similarity of their sets at or above threshold.
func AreSimilar(tokensA, tokensB []string, threshold float64) bool {
	return JaccardSimilarity(TokenSet(tokensA), TokenSet(tokensB)) >= threshold
}

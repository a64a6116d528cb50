package transcript

import (
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkoukk/tiktoken-go"
)

// estimateCacheSize bounds the per-process token estimate cache.
// Transcripts repeat content often (quoted replies, retried asks), so a
// small LRU avoids re-encoding the same string.
const estimateCacheSize = 4096

var (
	encOnce sync.Once
	encoder *tiktoken.Tiktoken

	cacheOnce sync.Once
	estCache  *lru.Cache[string, int]
)

func tokenEncoder() *tiktoken.Tiktoken {
	encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			slog.Debug("tiktoken unavailable, using chars/4 estimate", "error", err)
			return
		}
		encoder = enc
	})
	return encoder
}

func estimateCache() *lru.Cache[string, int] {
	cacheOnce.Do(func() {
		// Size is fixed and positive, so New cannot fail.
		estCache, _ = lru.New[string, int](estimateCacheSize)
	})
	return estCache
}

// EstimateTokens returns an estimated token count for content.
// Uses the cl100k_base encoder when it loads, otherwise ceil(len/4).
// Estimates are approximate and never billing-accurate.
func EstimateTokens(content string) int {
	if content == "" {
		return 0
	}
	cache := estimateCache()
	if n, ok := cache.Get(content); ok {
		return n
	}
	var n int
	if enc := tokenEncoder(); enc != nil {
		n = len(enc.Encode(content, nil, nil))
	} else {
		n = (len(content) + 3) / 4
	}
	cache.Add(content, n)
	return n
}

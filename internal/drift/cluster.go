package drift

import (
	"fmt"
	"sort"
	"strings"

	"github.com/probelabs/driftscan/internal/transcript"
	"github.com/probelabs/driftscan/pkg/report"
)

// snippetMaxChars truncates evidence snippets for preview rendering.
const snippetMaxChars = 160

// candidate is one user message prepared for clustering.
type candidate struct {
	idx     int
	content string
	tokens  []string // normalized tokens, used for pairwise verification
}

// DetectRepetition finds groups of two or more user messages that are the
// same request despite wording variance.
//
// Messages are bucketed by the signature of their raw-token prefix, then
// verified pairwise inside each bucket with Jaccard similarity over
// normalized tokens. Mutually similar messages (connected components via
// union-find) form one cluster; a bucket whose pairs all miss the
// threshold produces no event.
func DetectRepetition(msgs []transcript.Message, pol Policy) []report.DriftEvent {
	pol = pol.normalized()

	buckets := make(map[string][]candidate)
	var order []string // bucket emission order follows first appearance
	for _, m := range msgs {
		if m.Role != transcript.RoleUser || strings.TrimSpace(m.Content) == "" {
			continue
		}
		sig := MakeSignature(Tokenize(m.Content), pol.SignatureLength)
		if sig == "" {
			continue
		}
		if _, seen := buckets[sig]; !seen {
			order = append(order, sig)
		}
		buckets[sig] = append(buckets[sig], candidate{
			idx:     m.Idx,
			content: m.Content,
			tokens:  Tokenize(NormalizeText(m.Content)),
		})
	}

	var events []report.DriftEvent
	for _, sig := range order {
		events = append(events, clusterBucket(buckets[sig], pol)...)
	}
	return events
}

// clusterBucket runs pairwise verification within one signature bucket and
// emits one event per connected component of size ≥ 2.
func clusterBucket(cands []candidate, pol Policy) []report.DriftEvent {
	k := len(cands)
	if k < 2 {
		return nil
	}

	sets := make([]map[string]struct{}, k)
	for i, c := range cands {
		sets[i] = TokenSet(c.tokens)
	}

	uf := newUnionFind(k)
	sims := make([][]float64, k)
	for i := range sims {
		sims[i] = make([]float64, k)
	}
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			sim := JaccardSimilarity(sets[i], sets[j])
			sims[i][j] = sim
			sims[j][i] = sim
			if sim >= pol.SimilarityThreshold {
				uf.union(i, j)
			}
		}
	}

	// Collect components preserving first-member order.
	components := make(map[int][]int)
	var roots []int
	for i := 0; i < k; i++ {
		root := uf.find(i)
		if _, seen := components[root]; !seen {
			roots = append(roots, root)
		}
		components[root] = append(components[root], i)
	}

	var events []report.DriftEvent
	for _, root := range roots {
		members := components[root]
		if len(members) < 2 {
			continue
		}
		events = append(events, clusterEvent(cands, sims, members, pol))
	}
	return events
}

func clusterEvent(cands []candidate, sims [][]float64, members []int, pol Policy) report.DriftEvent {
	size := len(members)

	minSim := 1.0
	for a := 0; a < size; a++ {
		for b := a + 1; b < size; b++ {
			if s := sims[members[a]][members[b]]; s < minSim {
				minSim = s
			}
		}
	}

	idxs := make([]int, size)
	for i, m := range members {
		idxs[i] = cands[m].idx
	}
	sort.Ints(idxs)

	snippets := make([]string, 0, min(size, pol.SnippetLimit))
	for i, m := range members {
		if i >= pol.SnippetLimit {
			break
		}
		snippets = append(snippets, truncateSnippet(cands[m].content))
	}

	return report.DriftEvent{
		Type:        report.EventRepetitionCluster,
		Severity:    clusterSeverity(size),
		Confidence:  clamp01(minSim),
		ClusterSize: size,
		Evidence: report.EventEvidence{
			MsgIdxs:  idxs,
			Snippets: snippets,
		},
		Summary: fmt.Sprintf("user repeated the same request %d times", size),
	}
}

// clusterSeverity maps cluster size onto 1..5, monotonically.
func clusterSeverity(size int) int {
	switch {
	case size <= 3:
		return 2
	case size <= 5:
		return 3
	case size <= 8:
		return 4
	default:
		return 5
	}
}

func truncateSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= snippetMaxChars {
		return s
	}
	cut := snippetMaxChars
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// unionFind is a plain disjoint-set with path compression and union by
// size, scoped to one bucket.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}

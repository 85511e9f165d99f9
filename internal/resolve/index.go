package resolve

import (
	"sort"
	"strings"
)

// Match tiers, in decreasing strength.
const (
	TierExact = "exact"
	TierFuzzy = "fuzzy"
	TierToken = "token"
)

// Default matcher thresholds.
const (
	DefaultFuzzyThreshold      = 85
	DefaultSuggestionThreshold = 70
	tokenFallbackScore         = 85
	wordSuggestionScore        = 75
)

// Match is a resolved company lookup.
type Match struct {
	Name  string // normalized dataset name that matched
	Rows  []int  // record indices under that name
	Score int
	Tier  string
}

// Suggestion is a close-but-not-matching candidate offered when a lookup
// fails to clear the match threshold.
type Suggestion struct {
	Name  string
	Score int
	Tier  string
}

// Index is a read-only lookup structure over normalized company names.
// Build it once after preprocessing; concurrent reads are safe.
type Index struct {
	rows  map[string][]int
	names []string // insertion-ordered normalized names
}

// NewIndex builds an index from normalized names. Records sharing a
// normalized form merge under one key.
func NewIndex(normalized []string) *Index {
	idx := &Index{rows: make(map[string][]int, len(normalized))}
	for i, name := range normalized {
		if name == "" {
			continue
		}
		if _, seen := idx.rows[name]; !seen {
			idx.names = append(idx.names, name)
		}
		idx.rows[name] = append(idx.rows[name], i)
	}
	return idx
}

// Len returns the number of distinct normalized names.
func (idx *Index) Len() int { return len(idx.names) }

// Names returns the insertion-ordered normalized name list.
func (idx *Index) Names() []string { return idx.names }

// Rows returns the record indices for an exact normalized name.
func (idx *Index) Rows(name string) []int { return idx.rows[name] }

// Resolve matches a raw query against the index: exact lookup first, then
// fuzzy similarity at or above threshold, then a whole-token fallback for
// single-word queries. Returns nil when nothing clears the bar.
func (idx *Index) Resolve(query string, threshold int) *Match {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	norm := NormalizeName(query)
	if norm == "" {
		return nil
	}

	if rows, ok := idx.rows[norm]; ok {
		return &Match{Name: norm, Rows: rows, Score: 100, Tier: TierExact}
	}

	best := &Match{}
	for _, name := range idx.names {
		if score := fuzzyScore(norm, name); score > best.Score {
			best.Name = name
			best.Score = score
			if score == 100 {
				break
			}
		}
	}
	if best.Score >= threshold {
		best.Rows = idx.rows[best.Name]
		best.Tier = TierFuzzy
		return best
	}

	// Single-word queries: accept the first name containing the query as
	// a whole token ("nestle" resolves against "nestle sa norway").
	if !strings.ContainsRune(norm, ' ') {
		for _, name := range idx.names {
			if containsToken(name, norm) {
				return &Match{Name: name, Rows: idx.rows[name], Score: tokenFallbackScore, Tier: TierToken}
			}
		}
	}

	return nil
}

// Suggest returns up to limit close candidates for a failed or exploratory
// lookup, ranked by score. Whole-token hits rank above partial similarity.
func (idx *Index) Suggest(query string, threshold, limit int) []Suggestion {
	if threshold <= 0 {
		threshold = DefaultSuggestionThreshold
	}
	if limit <= 0 {
		limit = 10
	}
	norm := NormalizeName(query)
	if norm == "" {
		return nil
	}

	var out []Suggestion
	for _, name := range idx.names {
		if containsToken(name, norm) {
			out = append(out, Suggestion{Name: name, Score: wordSuggestionScore, Tier: TierToken})
			continue
		}
		if score := MatchScore(norm, name); score >= threshold {
			out = append(out, Suggestion{Name: name, Score: score, Tier: TierFuzzy})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// fuzzyScore takes the best of plain edit distance and the token-order,
// token-set and substring-window measures.
func fuzzyScore(a, b string) int {
	best := Ratio(a, b)
	if s := MatchScore(a, b); s > best {
		best = s
	}
	return best
}

func containsToken(name, token string) bool {
	for _, tok := range strings.Fields(name) {
		if tok == token {
			return true
		}
	}
	return false
}

// Package sanctions maintains the World Bank debarment list and answers
// screening queries against it.
package sanctions

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/meridian-advisory/esg-screen/internal/resolve"
)

// DefaultFuzzyThreshold is the minimum fuzzy score for a sanctions hit.
const DefaultFuzzyThreshold = 85

// Detail describes one sanctions hit for reporting.
type Detail struct {
	SanctionedEntity string `json:"sanctioned_entity"`
	Source           string `json:"source"`
	SanctionType     string `json:"sanction_type"`
	MatchConfidence  int    `json:"match_confidence"`
}

// CheckResult is the outcome of screening one company name.
type CheckResult struct {
	Found       bool     `json:"found"`
	MatchedName string   `json:"matched_name,omitempty"`
	MatchType   string   `json:"match_type,omitempty"` // "exact" or "fuzzy"
	Confidence  int      `json:"confidence"`
	Details     []Detail `json:"details"`
}

// SearchResult is one entry from a similarity search over the list.
type SearchResult struct {
	Entity string `json:"entity"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// Stats summarizes the loaded list.
type Stats struct {
	TotalEntities   int `json:"total_entities"`
	NormalizedCount int `json:"normalized_count"`
}

// Snapshot is the cacheable form of a handler.
type Snapshot struct {
	Entities   []string          `json:"sanctions_list"`
	Normalized map[string]string `json:"normalized_lookup"`
	CreatedAt  int64             `json:"created_at"`
}

// Handler holds the sanctioned-entity list with a normalized lookup for
// exact matching. Zero value is an empty list; all queries on it miss.
type Handler struct {
	entities   []string
	normList   []string          // normalized form of each entity, same order
	normalized map[string]string // normalized name -> original name
}

// NewFromRows extracts firm names from raw spreadsheet rows. The first
// column carries the name; metadata rows ("Downloaded ...", repeated
// header rows, short fragments) are skipped.
func NewFromRows(rows [][]string) *Handler {
	var names []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if len(name) <= 3 ||
			strings.Contains(name, "Downloaded") ||
			strings.Contains(name, "Firm Name") {
			continue
		}
		names = append(names, name)
	}

	h := NewFromList(names)
	zap.L().Info("loaded sanctioned entities",
		zap.Int("count", len(h.entities)),
	)
	return h
}

// NewFromList builds a handler from an already-extracted name list, for
// example a cache restore.
func NewFromList(names []string) *Handler {
	h := &Handler{
		entities:   names,
		normList:   make([]string, len(names)),
		normalized: make(map[string]string, len(names)),
	}
	for i, name := range names {
		norm := resolve.NormalizeName(name)
		h.normList[i] = norm
		if norm != "" {
			if _, ok := h.normalized[norm]; !ok {
				h.normalized[norm] = name
			}
		}
	}
	return h
}

// Entities returns the raw sanctioned-entity names.
func (h *Handler) Entities() []string { return h.entities }

// Snapshot captures the handler state for the artifact cache.
func (h *Handler) Snapshot(createdAt int64) Snapshot {
	return Snapshot{
		Entities:   h.entities,
		Normalized: h.normalized,
		CreatedAt:  createdAt,
	}
}

// Check screens a company name against the list: exact normalized match
// first, then fuzzy matching over both raw and normalized forms. A zero
// threshold uses DefaultFuzzyThreshold.
func (h *Handler) Check(companyName string, threshold int) CheckResult {
	if len(h.entities) == 0 {
		return CheckResult{Details: []Detail{}}
	}
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}

	normQuery := resolve.NormalizeName(companyName)

	if original, ok := h.normalized[normQuery]; ok && normQuery != "" {
		return hit(original, "exact", 100)
	}

	queryLower := strings.ToLower(companyName)
	bestName := ""
	bestScore := 0

	for i, entity := range h.entities {
		score := fuzzyPair(queryLower, strings.ToLower(entity))
		if norm := h.normList[i]; norm != "" {
			if s := fuzzyPair(normQuery, norm); s > score {
				score = s
			}
		}
		if score > bestScore && score >= threshold {
			bestName = entity
			bestScore = score
		}
	}

	if bestName != "" {
		return hit(bestName, "fuzzy", bestScore)
	}
	return CheckResult{Details: []Detail{}}
}

// SearchSimilar ranks sanctioned entities by token overlap with the
// search term: whole-word matches dominate, substring matches break ties.
func (h *Handler) SearchSimilar(term string, limit int) []SearchResult {
	words := strings.Fields(strings.ToLower(term))
	if len(h.entities) == 0 || len(words) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	var matches []SearchResult
	for _, entity := range h.entities {
		entityWords := strings.Fields(strings.ToLower(entity))

		whole, partial := 0, 0
		for _, w := range words {
			for _, ew := range entityWords {
				if w == ew {
					whole++
					break
				}
			}
			for _, ew := range entityWords {
				if strings.Contains(ew, w) {
					partial++
					break
				}
			}
		}

		switch {
		case whole > 0:
			matches = append(matches, SearchResult{
				Entity: entity,
				Score:  whole*100 + partial*10,
				Reason: wordReason("word matches", whole),
			})
		case partial > 0:
			matches = append(matches, SearchResult{
				Entity: entity,
				Score:  partial * 10,
				Reason: wordReason("partial matches", partial),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Stats reports list sizes.
func (h *Handler) Stats() Stats {
	return Stats{
		TotalEntities:   len(h.entities),
		NormalizedCount: len(h.normalized),
	}
}

func fuzzyPair(a, b string) int {
	s1 := resolve.TokenSortRatio(a, b)
	s2 := resolve.PartialRatio(a, b)
	if s2 > s1 {
		return s2
	}
	return s1
}

func hit(name, matchType string, confidence int) CheckResult {
	return CheckResult{
		Found:       true,
		MatchedName: name,
		MatchType:   matchType,
		Confidence:  confidence,
		Details: []Detail{{
			SanctionedEntity: name,
			Source:           "World Bank",
			SanctionType:     "World Bank Debarment",
			MatchConfidence:  confidence,
		}},
	}
}

func wordReason(kind string, n int) string {
	return kind + ": " + strconv.Itoa(n)
}

package dataset

import "strings"

// Canonical motivation and category vocabularies. Table order is the
// tie-break: more specific and severe labels sit before generic ones, so
// "thermal coal" wins over "oil & gas" when both keywords appear.

type keywordEntry struct {
	label    string
	keywords []string
}

var motivationTable = []keywordEntry{
	{"thermal coal", []string{"thermal coal", "coal mining", "coal power", "coal-fired"}},
	{"corruption", []string{"corruption", "bribery", "corrupt practices"}},
	{"forced labour", []string{"forced labour", "forced labor", "slave labor", "slavery"}},
	{"child labour", []string{"child labour", "child labor", "child work"}},
	{"shale", []string{"shale", "fracking", "hydraulic fracturing"}},
	{"fossil expansion", []string{"fossil expansion", "fossil fuel expansion", "new fossil"}},
	{"oil & gas", []string{"oil", "gas", "petroleum", "lng", "oil & gas"}},
	{"human rights", []string{"human rights violations", "human rights"}},
	{"labour rights", []string{"labour rights", "labor rights", "worker rights"}},
	{"norms-based", []string{"norms-based", "norms based", "global compact"}},
	{"controversial behaviour", []string{"controversial behaviour", "controversial behavior"}},
}

var categoryTable = []keywordEntry{
	{"climate", []string{
		"climate", "fossil", "coal", "oil", "gas", "carbon", "emission",
		"environmental", "deforestation", "palm oil", "renewable",
		"sustainability", "energy transition", "fossil expansion", "thermal coal",
		"shale", "tar sands", "arctic drilling",
	}},
	{"human rights", []string{
		"human rights", "child labor", "child labour", "forced labor", "forced labour",
		"labor rights", "labour rights", "workplace rights", "social issues",
		"indigenous rights", "community rights", "worker rights",
	}},
	{"governance", []string{
		"corruption", "bribery", "fraud", "governance", "compliance",
		"money laundering", "tax evasion", "regulatory", "ethics",
		"integrity", "transparency", "anti-corruption",
	}},
	{"business practices", []string{
		"business practices", "controversial behaviour", "norms-based",
		"conduct", "violations", "breaches",
	}},
	{"cannabis", []string{"cannabis", "marijuana", "hemp"}},
}

// Unspecified is the canonical fallback label.
const Unspecified = "unspecified"

// CanonicalizeMotivation maps free-text motivation fields to the canonical
// motivation vocabulary. When nothing in the keyword table matches, a
// non-empty motivation keeps its own lower-cased text so informative raw
// values survive; only truly empty input becomes "unspecified".
func CanonicalizeMotivation(motivation, category, subCategory, source string) string {
	combined := strings.ToLower(motivation + " " + category + " " + subCategory + " " + source)

	for _, entry := range motivationTable {
		for _, kw := range entry.keywords {
			if strings.Contains(combined, kw) {
				return entry.label
			}
		}
	}

	if trimmed := strings.TrimSpace(motivation); trimmed != "" {
		return strings.ToLower(trimmed)
	}
	return Unspecified
}

// CanonicalizeCategory maps free-text category fields to the canonical
// category vocabulary. Unlike motivations, unmatched categories always
// fall back to "unspecified".
func CanonicalizeCategory(category, motivation string) string {
	combined := strings.ToLower(category + " " + motivation)

	for _, entry := range categoryTable {
		for _, kw := range entry.keywords {
			if strings.Contains(combined, kw) {
				return entry.label
			}
		}
	}

	return Unspecified
}

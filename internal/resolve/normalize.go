package resolve

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes lists corporate suffixes stripped during name normalization,
// in the order they are tried. A later suffix can strip again after an
// earlier one ("acme holding group" loses "group" then "holding").
var legalSuffixes = []string{
	"inc", "incorporated", "corp", "corporation", "ltd", "limited",
	"llc", "plc", "sa", "ag", "gmbh", "bv", "nv", "spa", "srl",
	"co", "company", "group", "holding", "holdings", "international",
	"global", "worldwide", "enterprises", "solutions",
}

var (
	suffixRes    []*regexp.Regexp
	multiSpaceRe = regexp.MustCompile(`\s+`)
	punctRe      = regexp.MustCompile(`[^\p{L}\p{N}_\s&-]`)

	// diacriticFold decomposes and drops combining marks so that
	// "Société Générale" and "Societe Generale" normalize identically.
	diacriticFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

func init() {
	suffixRes = make([]*regexp.Regexp, len(legalSuffixes))
	for i, s := range legalSuffixes {
		suffixRes[i] = regexp.MustCompile(`\b` + s + `\.?\s*$`)
	}
}

// NormalizeName standardizes a company name for matching by:
//  1. Trimming whitespace and lowercasing
//  2. Folding diacritics to their ASCII base forms
//  3. Stripping trailing legal suffixes (Inc, Ltd, GmbH, etc.)
//  4. Replacing punctuation other than "&" and "-" with spaces
//  5. Collapsing runs of whitespace
//
// The function is pure and idempotent; empty and whitespace-only input
// normalizes to the empty string. A name consisting only of suffix words
// ("Limited") also normalizes to empty.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	if folded, _, err := transform.String(diacriticFold, name); err == nil {
		name = folded
	}

	for _, re := range suffixRes {
		name = re.ReplaceAllString(name, "")
	}

	name = punctRe.ReplaceAllString(name, " ")
	name = multiSpaceRe.ReplaceAllString(name, " ")

	return strings.TrimSpace(name)
}

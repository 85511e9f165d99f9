package engine

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/meridian-advisory/esg-screen/internal/dataset"
	"github.com/meridian-advisory/esg-screen/internal/sanctions"
	"github.com/meridian-advisory/esg-screen/internal/scorer"
)

// MatchInfo reports how the queried name resolved across both datasets.
type MatchInfo struct {
	Found          bool   `json:"found"`
	MatchedCompany string `json:"matched_company,omitempty"`
	Confidence     int    `json:"confidence"`
	ExclusionFound bool   `json:"exclusion_found"`
	SanctionsFound bool   `json:"sanctions_found"`
}

// RiskAssessment carries the scored outcome for one company.
type RiskAssessment struct {
	Level     string                `json:"level"`
	Category  string                `json:"category"`
	Factors   scorer.Factors        `json:"factors"`
	Sanctions sanctions.CheckResult `json:"sanctions"`
}

// AnalysisResult is the full screening report for one company.
type AnalysisResult struct {
	Query            string                `json:"query"`
	Match            MatchInfo             `json:"match"`
	RiskAssessment   RiskAssessment        `json:"risk_assessment"`
	Recommendations  scorer.Recommendation `json:"recommendations"`
	ExclusionDetails []dataset.Record      `json:"exclusion_details,omitempty"`
	SanctionsDetails []sanctions.Detail    `json:"sanctions_details,omitempty"`
}

// CompanySuggestion is one near-miss candidate from the exclusion index.
type CompanySuggestion struct {
	Company string `json:"company"`
	Score   int    `json:"score"`
}

// Suggestions groups near-miss candidates from both datasets.
type Suggestions struct {
	Exclusions []CompanySuggestion      `json:"exclusion_matches"`
	Sanctions  []sanctions.SearchResult `json:"sanctions_matches"`
}

// Analyze screens one company: resolve it against the exclusion index,
// check the sanctions list, score the matched records and attach
// recommendations.
func (e *Engine) Analyze(name string) (*AnalysisResult, error) {
	if !e.loaded {
		return nil, eris.New("engine: datasets not loaded")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, eris.New("engine: company name is required")
	}

	threshold := e.cfg.Matching.FuzzyThreshold
	match := e.index.Resolve(name, threshold)

	var (
		records []dataset.Record
		display string
	)
	if match != nil {
		records = e.recordsFor(match.Rows)
		display = records[0].CompanyGroup
	}

	sanctionsRes := e.sanctions.Check(name, threshold)
	if match != nil && !sanctionsRes.Found && !strings.EqualFold(display, name) {
		// The company may appear on the sanctions list under its
		// registered name rather than the queried one.
		if recheck := e.sanctions.Check(display, threshold); recheck.Found {
			sanctionsRes = recheck
		}
	}

	level, factors := e.weights.Assess(records, e.thresholds)
	if sanctionsRes.Found && level == scorer.LevelLow {
		level = scorer.LevelMedium
		factors.Reason = "World Bank sanctions detected. " + factors.Reason
	}

	category := e.recommender.Categorize(records)

	res := &AnalysisResult{
		Query: name,
		Match: MatchInfo{
			Found:          match != nil || sanctionsRes.Found,
			ExclusionFound: match != nil,
			SanctionsFound: sanctionsRes.Found,
		},
		RiskAssessment: RiskAssessment{
			Level:     level,
			Category:  category,
			Factors:   factors,
			Sanctions: sanctionsRes,
		},
		Recommendations:  e.recommender.Recommend(level, category),
		ExclusionDetails: records,
		SanctionsDetails: sanctionsRes.Details,
	}

	// Exclusion matches take precedence over sanctions matches for the
	// headline identity.
	switch {
	case match != nil:
		res.Match.MatchedCompany = display
		res.Match.Confidence = match.Score
	case sanctionsRes.Found:
		res.Match.MatchedCompany = sanctionsRes.MatchedName
		res.Match.Confidence = sanctionsRes.Confidence
	}

	return res, nil
}

// Playbook returns the detailed engagement playbook for a risk level.
func (e *Engine) Playbook(level string) scorer.Playbook {
	return e.recommender.DetailedPlaybook(level)
}

// SearchSimilar returns near-miss candidates from both datasets for a
// search term that failed to resolve.
func (e *Engine) SearchSimilar(term string, limit int) (*Suggestions, error) {
	if !e.loaded {
		return nil, eris.New("engine: datasets not loaded")
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, eris.New("engine: search term is required")
	}
	if limit <= 0 {
		limit = e.cfg.Matching.MaxSuggestions
	}

	out := &Suggestions{}
	for _, s := range e.index.Suggest(term, e.cfg.Matching.SuggestionThreshold, limit) {
		out.Exclusions = append(out.Exclusions, CompanySuggestion{
			Company: e.displayName(s.Name),
			Score:   s.Score,
		})
	}
	out.Sanctions = e.sanctions.SearchSimilar(term, limit)
	return out, nil
}

// recordsFor copies the records at the given indices.
func (e *Engine) recordsFor(rows []int) []dataset.Record {
	out := make([]dataset.Record, 0, len(rows))
	for _, i := range rows {
		out = append(out, e.records[i])
	}
	return out
}

// displayName maps a normalized index name back to the original company
// group spelling.
func (e *Engine) displayName(normalized string) string {
	rows := e.index.Rows(normalized)
	if len(rows) == 0 {
		return normalized
	}
	return e.records[rows[0]].CompanyGroup
}

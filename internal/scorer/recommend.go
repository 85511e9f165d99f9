package scorer

import (
	"strings"

	"github.com/meridian-advisory/esg-screen/internal/dataset"
)

// CategoryNoExclusion is returned by Categorize when there is nothing to
// categorize.
const CategoryNoExclusion = "No Exclusion Found"

// Recommendation is the operational guidance for one risk assessment.
type Recommendation struct {
	BusinessContext         string   `json:"business_context"`
	ProjectTeamAction       string   `json:"project_team_action"`
	AcceptableScopes        string   `json:"acceptable_scopes,omitempty"`
	RestrictedScopes        string   `json:"restricted_scopes,omitempty"`
	StrategicPathway        string   `json:"strategic_pathway,omitempty"`
	ComplianceRole          string   `json:"compliance_role"`
	ContractScope           string   `json:"contract_scope"`
	Monitoring              string   `json:"monitoring"`
	QuickWins               []string `json:"quick_wins,omitempty"`
	ClientMessaging         string   `json:"client_messaging,omitempty"`
	CommercialOpportunities []string `json:"commercial_opportunities,omitempty"`
	CategoryContext         string   `json:"category_context,omitempty"`
}

// Playbook is the full engagement playbook for one risk tier.
type Playbook struct {
	Title                 string   `json:"title"`
	BusinessContext       string   `json:"business_context"`
	TypicalDrivers        []string `json:"typical_drivers"`
	ProjectTeamActions    []string `json:"project_team_actions"`
	AcceptableScopes      []string `json:"acceptable_scopes,omitempty"`
	RestrictedScopes      []string `json:"restricted_scopes,omitempty"`
	StrategicPathway      []string `json:"strategic_pathway,omitempty"`
	ComplianceRole        []string `json:"compliance_sustainability_role"`
	ContractRequirements  []string `json:"contract_scope_requirements"`
	MonitoringApproach    []string `json:"monitoring_approach"`
	QuickWins             []string `json:"quick_wins,omitempty"`
	ClientMessaging       string   `json:"client_messaging,omitempty"`
	CommercialOpportunity []string `json:"commercial_opportunities,omitempty"`
}

// recommendationCategories map exclusion text onto advisory categories.
// Order matters: the first category wins a tie.
var recommendationCategories = []keywordGroup{
	{"Human Rights", []string{
		"human rights", "child labor", "child labour", "forced labor", "forced labour",
		"labor rights", "labour rights", "workplace rights", "social issues",
		"indigenous rights", "community rights", "worker rights", "freedom of association",
	}},
	{"Climate", []string{
		"climate", "fossil", "coal", "oil", "gas", "carbon", "emission",
		"environmental", "deforestation", "palm oil", "renewable",
		"sustainability", "green", "energy transition", "fossil expansion",
		"thermal coal", "paris alignment", "decarbonisation",
	}},
	{"Country Policy", []string{
		"sanctions", "embargoed", "restricted", "blacklist", "watchlist",
		"country risk", "geopolitical", "trade restrictions", "export controls",
	}},
	{"Governance", []string{
		"corruption", "bribery", "fraud", "governance", "compliance",
		"money laundering", "tax evasion", "regulatory", "ethics",
		"integrity", "transparency", "anti-corruption", "norms-based",
	}},
}

type keywordGroup struct {
	label    string
	keywords []string
}

// Recommender maps risk assessments onto the operational engagement
// playbook.
type Recommender struct{}

// Categorize assigns the dominant advisory category across a company's
// exclusion records. Each record votes at most once per category; the
// category with the most votes wins, earlier categories breaking ties.
// Records with no keyword hits at all default to Governance.
func (Recommender) Categorize(records []dataset.Record) string {
	if len(records) == 0 {
		return CategoryNoExclusion
	}

	counts := make([]int, len(recommendationCategories))
	for i := range records {
		r := &records[i]
		combined := strings.ToLower(r.Motivation + " " + r.MainCategory + " " + r.SubCategory)
		for ci, group := range recommendationCategories {
			for _, kw := range group.keywords {
				if strings.Contains(combined, kw) {
					counts[ci]++
					break
				}
			}
		}
	}

	best, bestCount := -1, 0
	for ci, n := range counts {
		if n > bestCount {
			best, bestCount = ci, n
		}
	}
	if best < 0 {
		return "Governance"
	}
	return recommendationCategories[best].label
}

// Recommend returns the playbook guidance for a risk level, with
// category-specific context attached for Medium and High tiers. Unknown
// levels fall back to the Low Risk guidance.
func (re Recommender) Recommend(level, category string) Recommendation {
	var rec Recommendation
	switch level {
	case LevelHigh:
		rec = highRiskRecommendation()
	case LevelMedium:
		rec = mediumRiskRecommendation()
	default:
		rec = lowRiskRecommendation()
	}

	if level == LevelMedium || level == LevelHigh {
		rec.CategoryContext = categoryContext(category, level)
	}
	return rec
}

func lowRiskRecommendation() Recommendation {
	return Recommendation{
		BusinessContext:   "No significant ESG concerns identified. Proceed with standard controls.",
		ProjectTeamAction: `Proceed with standard onboarding and project risk assessment. Document "no exclusions detected / below threshold" and date-stamp sources.`,
		ComplianceRole:    "No pre-approval needed; random spot checks (e.g., quarterly sample). Keep evidence pack (sources, parsed year) in the central register.",
		ContractScope:     "Standard clauses (Code of Conduct, anti-corruption, HSE, data privacy).",
		Monitoring:        "Passive monitoring. Re-screen before major new proposals or annually.",
	}
}

func mediumRiskRecommendation() Recommendation {
	return Recommendation{
		BusinessContext:   "Moderate ESG concerns identified. Engagement is viable with targeted mitigations and scope guardrails that support business continuity.",
		ProjectTeamAction: "Define guardrails to ensure work does not enable flagged activities. Consider adding a Risk & Mitigation section to the proposal with clear owners and dates. Hold a short pre-engagement briefing with Compliance/Sustainability to align on scope and mitigations.",
		AcceptableScopes:  "Standard operations, safety improvements, compliance uplift, environmental remediation, transition planning.",
		RestrictedScopes:  "Activities that would directly worsen or expand the flagged issue area.",
		ComplianceRole:    "Unit-level pre-approval with logged conditions. Provide model clauses aligned to risk. Define practical KPIs (e.g., quarterly worker interviews; milestone audits).",
		ContractScope:     "Include right-to-suspend/terminate if credible allegations emerge. For climate-adjacent work, prohibit scopes that worsen the issue. Pre-clear sensitive communications/case studies.",
		Monitoring:        "Quarterly re-screening aligned to project milestones. Escalate to High if sector-level bans emerge, impacted countries reach >=3, or investor exclusions reach >=5 with diversification.",
		QuickWins: []string{
			`Add a one-page "Scope Guardrails" annex to proposals, clear and client-friendly.`,
		},
		ClientMessaging: "We'll keep the project focused on improvements and avoid activities that could exacerbate the concern, so you can continue operating while strengthening stakeholder trust.",
		CommercialOpportunities: []string{
			"Focused partner/supplier due diligence tied to the flagged area",
			`Paris-alignment assessment or "Social Audit Lite"`,
			"Quarterly ESG risk review synced with delivery milestones",
		},
	}
}

func highRiskRecommendation() Recommendation {
	return Recommendation{
		BusinessContext:   "Significant ESG concerns identified. Engagement may proceed for strategic clients with executive approval and tightly defined, harm-reducing scopes.",
		ProjectTeamAction: "Default is to avoid scopes that could enable the flagged activities. Acceptable scopes focus on safety-critical, remediation, decommissioning, just transition, compliance uplift, and renewable transition. For strategic or public-interest cases, route to Executive Review with a concise business case detailing benefits and protections.",
		AcceptableScopes:  "Safety-critical, environmental remediation, decommissioning, just transition, compliance uplift, renewable transition.",
		RestrictedScopes:  "Fossil expansion, exploration, or any services that could worsen ESG concerns.",
		StrategicPathway:  "Executive Review path for major clients or public-interest scopes with strict boundaries and evidence requirements.",
		ComplianceRole:    "Executive approval with documented rationale. Enhanced Due Diligence (UNGC/OECD/ILO evidence), third-party integrity reports, grievance mechanisms, and an independent verification plan. Define strict service boundaries to prevent greenwashing risk.",
		ContractScope:     "Mandatory clauses: audit/access rights; corrective action plan with milestones; step-in/exit rights; disclosure cooperation; human-rights remediation obligations. Include performance triggers to pause/exit upon credible allegations, sanctions changes, or KPI failures.",
		Monitoring:        "Monthly active monitoring and milestone reviews. Terminate or pause if conditions are breached or risk escalates.",
		QuickWins: []string{
			`Run a targeted "harm-reduction scoping" workshop to shape acceptable work packages.`,
			"Produce a two-page executive brief summarizing safeguards, KPIs, and exit triggers.",
		},
		ClientMessaging: "Given stakeholder expectations, we propose focusing on safety, remediation, and transition-aligned activities only, backed by independent verification and clear exit protections for both sides.",
		CommercialOpportunities: []string{
			"EDD package with third-party verification",
			"Transition strategy & decommissioning planning",
			"Independent monitoring & KPI assurance",
		},
	}
}

// categoryContext adds category-specific guidance for elevated tiers.
func categoryContext(category, level string) string {
	type key struct{ category, level string }
	contexts := map[key]string{
		{"Human Rights", LevelMedium}:   "Focus on Freedom of Association and Collective Bargaining commitments, worker voice mechanisms, independent audits with access and remediation clauses. Ensure supplier and partner due diligence covers worker welfare aspects.",
		{"Human Rights", LevelHigh}:     "Enhanced Due Diligence must include ILO compliance evidence, independent verification of working conditions, grievance mechanism effectiveness, and human rights impact assessment. Consider only safety-critical or harm-reduction scopes.",
		{"Climate", LevelMedium}:        "Conduct Paris-alignment assessment for all climate-adjacent work. Ensure project includes transition or advisory elements (renewables, decarbonisation). Document rationale for engagement and prohibit services enabling fossil expansion.",
		{"Climate", LevelHigh}:          "Restrict engagement to transition-aligned, decommissioning, or environmental remediation work only. Absolutely prohibit fossil expansion or greenwashing activities. Require monthly monitoring of Paris-alignment compliance.",
		{"Governance", LevelMedium}:     "Implement UNGC and OECD adherence requirements. Establish corrective action plans with time-bound milestones and periodic compliance reporting.",
		{"Governance", LevelHigh}:       "Enhanced Due Diligence must include anti-corruption policy evidence, third-party integrity reports, and independent compliance verification. Limit scope to compliance uplift activities only with strict monitoring.",
		{"Country Policy", LevelMedium}: "Include compliance clauses covering sanctions adherence and supplier checks. Validate all contract clauses and monitor compliance exposure throughout engagement.",
		{"Country Policy", LevelHigh}:   "Engagement not recommended until sanctions and legal clearance obtained. If critical public interest scope approved, require monthly sanctions monitoring and immediate termination clause if status changes.",
	}
	return contexts[key{category, level}]
}

// DetailedPlaybook returns the complete operational playbook for a risk
// tier. Unknown levels fall back to the Low Risk playbook.
func (Recommender) DetailedPlaybook(level string) Playbook {
	switch level {
	case LevelHigh:
		return Playbook{
			Title:           "Strategic engagement with executive oversight",
			BusinessContext: "Significant ESG concerns identified. Engagement may proceed for strategic clients with executive approval and tightly defined, harm-reducing scopes.",
			TypicalDrivers: []string{
				"Sector-level fossil/coal",
				"Multi-country multi-investor consensus",
				"Severe Human Rights/Governance issues",
				"Long persistence",
			},
			ProjectTeamActions: []string{
				"Default is to avoid scopes that could enable the flagged activities",
				"Acceptable scopes focus on safety-critical, remediation, decommissioning, just transition, compliance uplift, and renewable transition",
				"For strategic or public-interest cases, route to Executive Review with a concise business case detailing benefits and protections",
			},
			AcceptableScopes: []string{
				"Safety-critical", "Environmental remediation", "Decommissioning",
				"Just transition", "Compliance uplift", "Renewable transition",
			},
			RestrictedScopes: []string{
				"Fossil expansion", "Exploration", "Any services that could worsen ESG concerns",
			},
			StrategicPathway: []string{
				"Executive Review path for major clients or public-interest scopes with strict boundaries and evidence requirements",
			},
			ComplianceRole: []string{
				"Executive approval with documented rationale",
				"Enhanced Due Diligence (UNGC/OECD/ILO evidence), third-party integrity reports, sanctions/country checks, grievance mechanisms, and an independent verification plan",
				"Define strict service boundaries to prevent greenwashing risk",
			},
			ContractRequirements: []string{
				"Mandatory clauses: audit/access rights; corrective action plan with milestones; step-in/exit rights; disclosure cooperation; human-rights remediation obligations",
				"Include performance triggers to pause/exit upon credible allegations, sanctions changes, or KPI failures",
			},
			MonitoringApproach: []string{
				"Monthly active monitoring and milestone reviews",
				"Terminate or pause if conditions are breached or risk escalates",
			},
			QuickWins: []string{
				`Run a targeted "harm-reduction scoping" workshop to shape acceptable work packages`,
				"Produce a two-page executive brief summarizing safeguards, KPIs, and exit triggers",
			},
			ClientMessaging: "Given stakeholder expectations, we propose focusing on safety, remediation, and transition-aligned activities only, backed by independent verification and clear exit protections for both sides.",
			CommercialOpportunity: []string{
				"EDD package with third-party verification",
				"Transition strategy & decommissioning planning",
				"Independent monitoring & KPI assurance",
			},
		}
	case LevelMedium:
		return Playbook{
			Title:           "Controlled engagement with enhanced oversight",
			BusinessContext: "Moderate ESG concerns identified. Engagement is viable with targeted mitigations and scope guardrails that support business continuity.",
			TypicalDrivers: []string{
				"Norms/labour-rights concerns",
				"Limited geography consensus",
				"Single category issues",
			},
			ProjectTeamActions: []string{
				"Define guardrails to ensure work does not enable flagged activities",
				"Add a Risk & Mitigation section to the proposal with clear owners and dates",
				"Hold a short pre-engagement briefing with Compliance/Sustainability to align on scope and mitigations",
				"If partners are involved, run proportionate due diligence focused on the same risk area",
			},
			AcceptableScopes: []string{
				"Standard operations", "Safety improvements", "Compliance uplift",
				"Environmental remediation", "Transition planning",
			},
			RestrictedScopes: []string{
				"Activities that would directly worsen or expand the flagged issue area",
			},
			ComplianceRole: []string{
				"Unit-level pre-approval with logged conditions",
				"Provide model clauses aligned to risk (e.g., FoA/CB commitments, worker voice, UNGC/OECD adherence)",
				"Define practical KPIs (e.g., quarterly worker interviews; milestone audits)",
			},
			ContractRequirements: []string{
				"Include right-to-suspend/terminate if credible allegations emerge",
				"For climate-adjacent work, add Paris-alignment assessment; prohibit scopes that worsen the issue",
				"Pre-clear sensitive communications/case studies",
			},
			MonitoringApproach: []string{
				"Quarterly re-screening aligned to project milestones",
				"Escalate to High if sector-level bans emerge, impacted countries reach >=3, or investor exclusions reach >=5 with diversification",
			},
			QuickWins: []string{
				`Add a one-page "Scope Guardrails" annex to proposals, clear and client-friendly`,
			},
			ClientMessaging: "We'll keep the project focused on improvements and avoid activities that could exacerbate the concern, so you can continue operating while strengthening stakeholder trust.",
			CommercialOpportunity: []string{
				"Focused partner/supplier due diligence tied to the flagged area",
				`Paris-alignment assessment or "Social Audit Lite"`,
				"Quarterly ESG risk review synced with delivery milestones",
			},
		}
	default:
		return Playbook{
			Title:           "Proceed per standard controls",
			BusinessContext: "No significant ESG concerns identified. Proceed with standard controls.",
			TypicalDrivers: []string{
				"No exclusions detected", "Below risk threshold", "Minimal investor concerns",
			},
			ProjectTeamActions: []string{
				"Proceed with standard onboarding and project risk assessment",
				`Document "no exclusions detected / below threshold" and date-stamp sources`,
				"Maintain standard KYC, HSE, Data Privacy checks",
				"No special approvals required",
			},
			ComplianceRole: []string{
				"No pre-approval needed",
				"Random spot checks (quarterly sample basis)",
				"Add client to automated monitoring (monthly/quarterly update scans)",
				"Keep evidence pack (sources, parsed year) in central register",
			},
			ContractRequirements: []string{
				"Standard contractual clauses (Code of Conduct, anti-corruption, HSE, data privacy)",
				"No extra conditions unless sector-specific norms apply",
			},
			MonitoringApproach: []string{
				"Passive monitoring",
				"Re-screen before major new proposals or annually",
			},
		}
	}
}

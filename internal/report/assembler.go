package report

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/joelkehle/veridian-reports/internal/location"
)

// Section headings shared by the assembler and the PDF pages.
const (
	TitleExecutiveSummary = "Executive Summary"
	TitleLocation         = "Location Intelligence Analysis"
	TitleRegulatory       = "Regulatory Landscape"
	TitleTalent           = "Talent & Ecosystem Analysis"
	TitleCompetitors      = "Competitive Landscape"
	TitleRoadmap          = "Implementation Roadmap"
	TitleResources        = "Local Resource Directory"
	TitleRisk             = "Risk Assessment"
)

// SectionTitles lists the bundle sections in document order.
var SectionTitles = []string{
	TitleExecutiveSummary,
	TitleLocation,
	TitleRegulatory,
	TitleTalent,
	TitleCompetitors,
	TitleRoadmap,
	TitleResources,
	TitleRisk,
}

const concernsPreviewRunes = 150

// Rand is the random source for the illustrative competitor counts.
type Rand interface {
	IntN(n int) int
}

// NewSeededRand returns a deterministic source for the given seed.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Assembler builds report bundles from static tables and string templates.
// It is safe for concurrent use.
type Assembler struct {
	mu   sync.Mutex
	rand Rand
	now  func() time.Time
}

// NewAssembler returns an assembler drawing from r. A nil r seeds from the
// clock.
func NewAssembler(r Rand) *Assembler {
	if r == nil {
		r = NewSeededRand(uint64(time.Now().UnixNano()))
	}
	return &Assembler{rand: r, now: time.Now}
}

// Generate implements ContentGenerator with the templated path.
func (a *Assembler) Generate(_ context.Context, req Request) (Bundle, error) {
	return a.Assemble(req)
}

// Assemble validates req and produces the eight-section templated bundle.
func (a *Assembler) Assemble(req Request) (Bundle, error) {
	if err := Validate(req); err != nil {
		return Bundle{}, err
	}
	cls := location.Classify(req.Location.City, req.Location.State)
	return a.build(req, cls), nil
}

func (a *Assembler) build(req Request, cls location.Classification) Bundle {
	city := strings.TrimSpace(req.Location.City)
	state := location.NormalizeState(req.Location.State)
	reg := location.Regulation(state)
	talent := location.ScoreTalent(city, state)
	recs := location.RecommendTalent(city, state, cls.Tier)

	return Bundle{
		ExecutiveSummary:      executiveSummary(req, city, state, cls, reg),
		LocationAnalysis:      locationAnalysis(city, cls, talent),
		RegulatoryAnalysis:    regulatoryAnalysis(state, reg),
		TalentAnalysis:        talentAnalysis(talent, recs),
		CompetitorAnalysis:    a.competitorAnalysis(city, state, cls.Tier),
		ImplementationRoadmap: roadmap(req.Strategy.Timeline),
		ResourceDirectory:     resourceDirectory(city),
		RiskAssessment:        riskAssessment(state, cls),
		GeneratedAt:           a.now().UTC(),
		Source:                SourceTemplate,
	}
}

var budgetLabels = map[Budget]string{
	BudgetUnder10K:   "under $10K",
	Budget10KTo50K:   "$10K to $50K",
	Budget50KTo100K:  "$50K to $100K",
	Budget100KTo250K: "$100K to $250K",
	Budget250KPlus:   "$250K or more",
}

func budgetLabel(b Budget) string {
	if l, ok := budgetLabels[b]; ok {
		return l
	}
	return string(b)
}

func focusLabel(f Focus) string {
	return strings.ReplaceAll(string(f), "-", " ")
}

// TimelineMonths converts a timeline to its month count; unknown values
// are treated as twelve months.
func TimelineMonths(t Timeline) int {
	switch t {
	case Timeline3Months:
		return 3
	case Timeline6Months:
		return 6
	default:
		return 12
	}
}

func executiveSummary(req Request, city, state string, cls location.Classification, reg location.StateRegulation) string {
	var marketDesc string
	switch cls.Tier {
	case location.TierMajor:
		marketDesc = "major metropolitan Web3 hub"
	case location.TierSuburban:
		marketDesc = "suburban market with access to " + cls.NearestMajorCity
	default:
		marketDesc = "rural market ideal for remote-first Web3 operations"
	}

	var regDesc string
	switch reg.CryptoFriendly {
	case location.ClimateFriendly:
		regDesc = "favorable regulatory environment"
	case location.ClimateModerate:
		regDesc = "moderate regulatory requirements"
	default:
		regDesc = "strict regulatory framework requiring careful compliance"
	}

	talentRec := "Build a remote-first team with periodic gatherings"
	if cls.Tier == location.TierMajor {
		talentRec = "Leverage local Web3 talent and community"
	}
	complianceRec := "Move quickly while maintaining compliance basics"
	if reg.CryptoFriendly == location.ClimateStrict {
		complianceRec = "Prioritize compliance infrastructure early"
	}

	c := req.Company
	s := req.Strategy
	months := TimelineMonths(s.Timeline)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s Web3 Strategy\n\n", TitleExecutiveSummary, strings.TrimSpace(c.Name))
	b.WriteString("## Company Overview\n")
	fmt.Fprintf(&b, "%s operates in the %s industry with %s employees.\n", strings.TrimSpace(c.Name), strings.TrimSpace(c.Industry), c.Size)
	fmt.Fprintf(&b, "With a budget of %s, the company is positioned to explore Web3 opportunities strategically.\n\n", budgetLabel(c.Budget))

	b.WriteString("## Location Advantage\n")
	fmt.Fprintf(&b, "Based in %s, %s, your company has access to a %s.\n", city, state, marketDesc)
	fmt.Fprintf(&b, "This location offers %s talent density and a %s.\n\n", cls.TalentDensity, regDesc)

	b.WriteString("## Strategic Focus\n")
	fmt.Fprintf(&b, "Based on your primary focus on %s, we've developed a %d-month roadmap that addresses your key concerns:\n", focusLabel(s.Primary), months)
	fmt.Fprintf(&b, "%s\n\n", preview(strings.TrimSpace(s.Concerns), concernsPreviewRunes))

	b.WriteString("## Key Recommendations\n")
	fmt.Fprintf(&b, "1. %s\n", talentRec)
	fmt.Fprintf(&b, "2. %s\n", complianceRec)
	fmt.Fprintf(&b, "3. Focus on %s as secondary priorities\n\n", strings.Join(firstN(nonBlank(s.Secondary), 2), " and "))

	b.WriteString("## Expected Outcomes\n")
	fmt.Fprintf(&b, "Within %d months, you can expect to have a functional Web3 strategy aligned with your business goals and compliant with %s regulations.\n", months, state)
	return b.String()
}

func locationAnalysis(city string, cls location.Classification, talent location.TalentScore) LocationAnalysis {
	strength := "developing"
	if talent.Rank == location.DensityHigh {
		strength = "strong"
	}
	summary := fmt.Sprintf("%s is a %s market with %s Web3 talent.", city, cls.Tier, strength)
	if cls.NearestWeb3Hub != "" {
		summary += fmt.Sprintf(" Nearest major hub: %s.", cls.NearestWeb3Hub)
	}
	return LocationAnalysis{
		MarketTier:        cls.Tier,
		NearestHub:        cls.NearestWeb3Hub,
		NearestMajorCity:  cls.NearestMajorCity,
		HubDistance:       cls.DistanceToMajor,
		TalentScore:       talent.Score,
		TalentRank:        talent.Rank,
		Developers:        talent.Details.Developers,
		GrowthRate:        talent.Details.GrowthRate,
		MarketScore:       cls.MarketScore,
		MarketOpportunity: cls.MarketOpportunity,
		Summary:           summary,
	}
}

func regulatoryAnalysis(state string, reg location.StateRegulation) RegulatoryAnalysis {
	var outlook string
	switch reg.CryptoFriendly {
	case location.ClimateFriendly:
		outlook = "This presents fewer compliance barriers for Web3 initiatives."
	case location.ClimateStrict:
		outlook = "Expect significant compliance requirements and regulatory oversight."
	default:
		outlook = "Moderate compliance requirements with room to operate."
	}
	return RegulatoryAnalysis{
		State:              state,
		StateName:          reg.Name,
		Climate:            reg.CryptoFriendly,
		MoneyTransmitter:   reg.MoneyTransmitter,
		TaxTreatment:       reg.TaxTreatment,
		Notes:              reg.Notes,
		Checklist:          location.ComplianceChecklist(state),
		RecommendedActions: location.RegulatoryActions(state),
		LastUpdated:        reg.LastUpdated,
		Summary:            fmt.Sprintf("%s has a %s regulatory climate. %s", state, reg.CryptoFriendly, outlook),
	}
}

func talentAnalysis(t location.TalentScore, recs location.TalentRecommendations) TalentAnalysis {
	return TalentAnalysis{
		Score:               t.Score,
		Rank:                t.Rank,
		EstimatedDevelopers: t.Details.Developers,
		GrowthRate:          t.Details.GrowthRate,
		RemoteCapability:    t.Details.Remote,
		HiringStrategy:      recs.Strategy,
		Approach:            recs.HiringApproach,
		SalaryMultiplier:    recs.SalaryMultiplier,
		Channels:            recs.TopChannels,
		TimeToHire:          recs.EstimatedTimeToHire,
	}
}

type competitorRange struct {
	base, spread int
}

var competitorRanges = map[location.Tier]competitorRange{
	location.TierMajor:    {15, 10},
	location.TierSuburban: {8, 7},
	location.TierRural:    {3, 5},
}

const defaultCompetitorCount = 5

func (a *Assembler) competitorCount(tier location.Tier) int {
	r, ok := competitorRanges[tier]
	if !ok {
		return defaultCompetitorCount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return r.base + a.rand.IntN(r.spread)
}

func (a *Assembler) competitorAnalysis(city, state string, tier location.Tier) CompetitorAnalysis {
	n := a.competitorCount(tier)
	return CompetitorAnalysis{
		TotalCompetitors: n,
		ActiveInWeb3:     n * 6 / 10,
		RaisingFunding:   n * 3 / 10,
		Gaps: []string{
			"Most competitors lack location-specific strategy",
			"Few are addressing regulatory compliance comprehensively",
			"Talent acquisition remains a common pain point",
		},
		Opportunities: []string{
			fmt.Sprintf("Differentiate through %s-specific compliance expertise", state),
			fmt.Sprintf("Build community in %s before competitors establish presence", city),
			"Focus on your specific industry vertical",
		},
	}
}

func roadmap(t Timeline) Roadmap {
	months := TimelineMonths(t)
	return Roadmap{
		Timeline: t,
		Phases: []Phase{
			{
				Month: 1,
				Focus: "Foundation",
				Tasks: []string{
					"Legal entity setup and compliance review",
					"Team education and Web3 fundamentals training",
					"Technology stack selection",
					"Initial community building",
				},
			},
			{
				Month: months / 3,
				Focus: "Development",
				Tasks: []string{
					"MVP or pilot program development",
					"Partnership outreach",
					"Regulatory documentation preparation",
					"User testing with early adopters",
				},
			},
			{
				Month: months * 66 / 100,
				Focus: "Launch",
				Tasks: []string{
					"Public launch or pilot expansion",
					"Marketing and community engagement",
					"Performance monitoring setup",
					"Iterate based on feedback",
				},
			},
		},
		Milestones: []string{
			"Complete regulatory review by end of Month 1",
			fmt.Sprintf("Launch pilot by end of Month %d", months/2),
			fmt.Sprintf("Public launch by end of Month %d", months),
		},
	}
}

func resourceDirectory(city string) ResourceDirectory {
	return ResourceDirectory{
		LegalFirms: []LegalFirm{
			{Name: "Perkins Coie", Focus: "Blockchain & Crypto", National: true},
			{Name: "Anderson Kill", Focus: "Cryptocurrency", National: true},
			{Name: "Cooley LLP", Focus: "Tech & Blockchain", National: true},
		},
		LocalResources: []LocalResource{
			{Type: "Meetup", Name: city + " Blockchain Developers", URL: "https://meetup.com/" + slugify(city) + "-blockchain"},
			{Type: "Accelerator", Name: "Web3 Launchpad", URL: "https://web3launchpad.io"},
			{Type: "Community", Name: "Crypto Commons", URL: "https://cryptocommons.community"},
		},
		FundingSources: []string{
			"Local angel investor networks",
			"Web3-focused VC firms",
			"State economic development grants",
			"Crypto native DAO treasuries",
		},
		DevelopmentPartners: []string{
			"ConsenSys",
			"Alchemy Ventures",
			"ThirdWeb",
			"Local dev shops",
		},
	}
}

func riskAssessment(state string, cls location.Classification) RiskAssessment {
	strict := cls.RegulatoryClimate == location.ClimateStrict
	thinTalent := cls.TalentDensity == location.DensityLow

	regLikelihood := "medium"
	overall := "moderate"
	if strict {
		regLikelihood = "high"
		overall = "elevated"
	}
	talentLikelihood := "medium"
	talentMitigation := "Competitive packages, culture building, internship programs"
	if thinTalent {
		talentLikelihood = "high"
		talentMitigation = "Remote-first hiring, relocation packages, contractor relationships"
	}

	return RiskAssessment{
		Risks: []Risk{
			{
				Category:   "Regulatory",
				Risk:       "Regulatory changes in " + state,
				Likelihood: regLikelihood,
				Impact:     "high",
				Mitigation: "Regular compliance reviews, legal counsel retainer, flexible architecture",
			},
			{
				Category:   "Market",
				Risk:       "Market volatility and crypto winter",
				Likelihood: "medium",
				Impact:     "high",
				Mitigation: "Diversified treasury strategy, focus on fundamentals, extended runway planning",
			},
			{
				Category:   "Talent",
				Risk:       fmt.Sprintf("Difficulty hiring in %s market", cls.Tier),
				Likelihood: talentLikelihood,
				Impact:     "medium",
				Mitigation: talentMitigation,
			},
			{
				Category:   "Technical",
				Risk:       "Security vulnerabilities or smart contract risks",
				Likelihood: "medium",
				Impact:     "critical",
				Mitigation: "Multiple security audits, bug bounty program, gradual feature rollout",
			},
		},
		Overall: overall,
		Recommendations: []string{
			"Conduct quarterly compliance reviews",
			"Maintain legal counsel retainer in your state",
			"Implement multi-signature security for all contracts",
			"Build with upgradeable contract architecture",
			"Diversify across multiple chains/protocols",
		},
	}
}

// preview cuts s to at most n runes, marking the cut with an ellipsis.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimRightFunc(string(r[:n]), unicode.IsSpace) + "..."
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

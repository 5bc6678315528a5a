package report

import (
	"time"

	"github.com/joelkehle/veridian-reports/internal/location"
)

type CompanySize string

const (
	Size1To10    CompanySize = "1-10"
	Size11To50   CompanySize = "11-50"
	Size51To200  CompanySize = "51-200"
	Size201To500 CompanySize = "201-500"
	Size500Plus  CompanySize = "500+"
)

type Budget string

const (
	BudgetUnder10K   Budget = "under-10k"
	Budget10KTo50K   Budget = "10k-50k"
	Budget50KTo100K  Budget = "50k-100k"
	Budget100KTo250K Budget = "100k-250k"
	Budget250KPlus   Budget = "250k-plus"
)

type Focus string

const (
	FocusCompliance   Focus = "compliance"
	FocusTalent       Focus = "talent"
	FocusFundraising  Focus = "fundraising"
	FocusProduct      Focus = "product"
	FocusGoToMarket   Focus = "go-to-market"
	FocusPartnerships Focus = "partnerships"
)

type Timeline string

const (
	Timeline3Months  Timeline = "3-months"
	Timeline6Months  Timeline = "6-months"
	Timeline12Months Timeline = "12-months"
)

// Source records which content generator produced a bundle.
type Source string

const (
	SourceTemplate  Source = "template"
	SourceAnthropic Source = "anthropic"
	SourceDeepSeek  Source = "deepseek"
	SourceGemini    Source = "gemini"
)

type Company struct {
	Name        string      `json:"name"`
	Website     string      `json:"website,omitempty"`
	Industry    string      `json:"industry"`
	Size        CompanySize `json:"size"`
	Budget      Budget      `json:"budget"`
	Founded     string      `json:"founded,omitempty"`
	Description string      `json:"description,omitempty"`
}

type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
}

type Strategy struct {
	Primary   Focus    `json:"primary"`
	Secondary []string `json:"secondary"`
	Timeline  Timeline `json:"timeline"`
	Concerns  string   `json:"concerns"`
	Goals     string   `json:"goals"`
}

// Request is the wizard submission. PaymentRef is opaque to generation.
type Request struct {
	Company    Company  `json:"company"`
	Location   Location `json:"location"`
	Strategy   Strategy `json:"strategy"`
	PaymentRef string   `json:"payment_ref,omitempty"`
}

type LocationAnalysis struct {
	MarketTier        location.Tier        `json:"market_tier"`
	NearestHub        string               `json:"nearest_hub,omitempty"`
	NearestMajorCity  string               `json:"nearest_major_city,omitempty"`
	HubDistance       int                  `json:"hub_distance"`
	TalentScore       int                  `json:"talent_score"`
	TalentRank        location.Density     `json:"talent_rank"`
	Developers        int                  `json:"developers"`
	GrowthRate        int                  `json:"growth_rate"`
	MarketScore       int                  `json:"market_score"`
	MarketOpportunity location.Opportunity `json:"market_opportunity"`
	Summary           string               `json:"summary"`
}

type RegulatoryAnalysis struct {
	State              string           `json:"state"`
	StateName          string           `json:"state_name"`
	Climate            location.Climate `json:"climate"`
	MoneyTransmitter   string           `json:"money_transmitter"`
	TaxTreatment       string           `json:"tax_treatment"`
	Notes              string           `json:"notes"`
	Checklist          []string         `json:"checklist"`
	RecommendedActions []string         `json:"recommended_actions"`
	LastUpdated        string           `json:"last_updated"`
	Summary            string           `json:"summary"`
}

type TalentAnalysis struct {
	Score               int                     `json:"score"`
	Rank                location.Density        `json:"rank"`
	EstimatedDevelopers int                     `json:"estimated_developers"`
	GrowthRate          int                     `json:"growth_rate"`
	RemoteCapability    location.Density        `json:"remote_capability"`
	HiringStrategy      string                  `json:"hiring_strategy"`
	Approach            location.HiringApproach `json:"approach"`
	SalaryMultiplier    float64                 `json:"salary_multiplier"`
	Channels            []string                `json:"channels"`
	TimeToHire          string                  `json:"time_to_hire"`
}

// CompetitorAnalysis counts are illustrative draws, not measurements.
type CompetitorAnalysis struct {
	TotalCompetitors int      `json:"total_competitors"`
	ActiveInWeb3     int      `json:"active_in_web3"`
	RaisingFunding   int      `json:"raising_funding"`
	Gaps             []string `json:"gaps"`
	Opportunities    []string `json:"opportunities"`
}

type Phase struct {
	Month int      `json:"month"`
	Focus string   `json:"focus"`
	Tasks []string `json:"tasks"`
}

type Roadmap struct {
	Timeline   Timeline `json:"timeline"`
	Phases     []Phase  `json:"phases"`
	Milestones []string `json:"milestones"`
}

type LegalFirm struct {
	Name     string `json:"name"`
	Focus    string `json:"focus"`
	National bool   `json:"national"`
}

type LocalResource struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ResourceDirectory struct {
	LegalFirms          []LegalFirm     `json:"legal_firms"`
	LocalResources      []LocalResource `json:"local_resources"`
	FundingSources      []string        `json:"funding_sources"`
	DevelopmentPartners []string        `json:"development_partners"`
}

type Risk struct {
	Category   string `json:"category"`
	Risk       string `json:"risk"`
	Likelihood string `json:"likelihood"`
	Impact     string `json:"impact"`
	Mitigation string `json:"mitigation"`
}

type RiskAssessment struct {
	Risks           []Risk   `json:"risks"`
	Overall         string   `json:"overall"`
	Recommendations []string `json:"recommendations"`
}

// Bundle is the content of one fulfilled report. It is produced once and
// never patched; regenerating yields a new bundle.
type Bundle struct {
	ExecutiveSummary      string             `json:"executive_summary"`
	LocationAnalysis      LocationAnalysis   `json:"location_analysis"`
	RegulatoryAnalysis    RegulatoryAnalysis `json:"regulatory_analysis"`
	TalentAnalysis        TalentAnalysis     `json:"talent_analysis"`
	CompetitorAnalysis    CompetitorAnalysis `json:"competitor_analysis"`
	ImplementationRoadmap Roadmap            `json:"implementation_roadmap"`
	ResourceDirectory     ResourceDirectory  `json:"resource_directory"`
	RiskAssessment        RiskAssessment     `json:"risk_assessment"`
	GeneratedAt           time.Time          `json:"generated_at"`
	Source                Source             `json:"source"`
}

package location

import (
	"fmt"
	"slices"
	"strings"
)

type Density string

const (
	DensityHigh   Density = "high"
	DensityMedium Density = "medium"
	DensityLow    Density = "low"
)

type talentHub struct {
	City            string
	State           string
	TotalDevelopers int
	Companies       int
	Meetups         int
	Universities    []string
	GrowthRate      int
	AvgSalary       int
	Remote          Density
}

type secondaryMarket struct {
	City       string
	State      string
	Developers int
	Growth     int
}

var talentHubs = []talentHub{
	{"San Francisco", "CA", 15700, 842, 47, []string{"Stanford", "UC Berkeley", "USF"}, 32, 185000, DensityMedium},
	{"New York", "NY", 14300, 756, 52, []string{"NYU", "Columbia", "Cornell Tech"}, 28, 175000, DensityMedium},
	{"Austin", "TX", 8900, 423, 31, []string{"UT Austin", "St. Edwards"}, 45, 155000, DensityHigh},
	{"Miami", "FL", 5600, 312, 24, []string{"University of Miami", "FIU"}, 52, 145000, DensityHigh},
	{"Los Angeles", "CA", 7200, 389, 28, []string{"UCLA", "USC", "Caltech"}, 25, 165000, DensityMedium},
	{"Chicago", "IL", 4800, 256, 19, []string{"UChicago", "Northwestern", "UIUC"}, 22, 148000, DensityMedium},
	{"Seattle", "WA", 6100, 334, 23, []string{"UW", "Seattle U"}, 30, 172000, DensityMedium},
	{"Denver", "CO", 3900, 198, 17, []string{"CU Boulder", "Denver U", "CSU"}, 35, 152000, DensityHigh},
	{"Boston", "MA", 5200, 287, 21, []string{"MIT", "Harvard", "BU", "Northeastern"}, 27, 168000, DensityMedium},
	{"Atlanta", "GA", 3100, 167, 14, []string{"Georgia Tech", "Emory", "GSU"}, 38, 142000, DensityHigh},
}

var secondaryMarkets = []secondaryMarket{
	{"Salt Lake City", "UT", 1800, 42},
	{"Raleigh", "NC", 2100, 39},
	{"Nashville", "TN", 1600, 44},
	{"Portland", "OR", 2200, 28},
	{"Phoenix", "AZ", 1900, 35},
	{"San Diego", "CA", 2800, 24},
	{"Dallas", "TX", 3400, 31},
	{"Houston", "TX", 2600, 27},
	{"Philadelphia", "PA", 2300, 21},
	{"Detroit", "MI", 1200, 18},
	{"Minneapolis", "MN", 1700, 23},
	{"St. Louis", "MO", 1100, 19},
	{"Kansas City", "MO", 1300, 22},
	{"New Orleans", "LA", 800, 31},
	{"Memphis", "TN", 600, 25},
}

var remoteFriendlyStates = []string{"TX", "FL", "TN", "NV", "WY", "SD", "NH", "AZ", "CO", "NC", "GA"}

var stateTalentScores = map[string]int{
	"CA": 98, "NY": 95, "TX": 82, "FL": 76, "IL": 71,
	"WA": 79, "CO": 74, "MA": 81, "GA": 65, "NC": 62,
	"VA": 60, "PA": 58, "OH": 52, "MI": 48, "MN": 55,
	"TN": 53, "AZ": 51, "OR": 59, "MD": 57, "UT": 56,
}

const defaultStateTalentScore = 40

type TalentDetails struct {
	Developers int     `json:"developers"`
	GrowthRate int     `json:"growth_rate"`
	Remote     Density `json:"remote"`
}

type TalentScore struct {
	Score   int           `json:"score"`
	Rank    Density       `json:"rank"`
	Details TalentDetails `json:"details"`
}

type HiringApproach string

const (
	HiringLocal  HiringApproach = "local"
	HiringRemote HiringApproach = "remote"
	HiringHybrid HiringApproach = "hybrid"
)

type TalentRecommendations struct {
	Strategy            string         `json:"strategy"`
	HiringApproach      HiringApproach `json:"hiring_approach"`
	SalaryMultiplier    float64        `json:"salary_multiplier"`
	TopChannels         []string       `json:"top_channels"`
	EstimatedTimeToHire string         `json:"estimated_time_to_hire"`
}

func sameCity(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func findTalentHub(city, state string) (talentHub, bool) {
	for _, h := range talentHubs {
		if sameCity(h.City, city) && h.State == state {
			return h, true
		}
	}
	return talentHub{}, false
}

func isTalentHubCity(city string) bool {
	for _, h := range talentHubs {
		if sameCity(h.City, city) {
			return true
		}
	}
	return false
}

func remoteFriendly(state string) bool {
	return slices.Contains(remoteFriendlyStates, state)
}

func remoteLevel(state string) Density {
	if remoteFriendly(state) {
		return DensityHigh
	}
	return DensityMedium
}

// ScoreTalent looks up developer-population data for a location: primary
// hub first, then secondary market, then the state-level score.
func ScoreTalent(city, state string) TalentScore {
	code := NormalizeState(state)
	if h, ok := findTalentHub(city, code); ok {
		return TalentScore{
			Score: 95,
			Rank:  DensityHigh,
			Details: TalentDetails{
				Developers: h.TotalDevelopers,
				GrowthRate: h.GrowthRate,
				Remote:     h.Remote,
			},
		}
	}
	for _, m := range secondaryMarkets {
		if sameCity(m.City, city) && m.State == code {
			return TalentScore{
				Score: 70,
				Rank:  DensityMedium,
				Details: TalentDetails{
					Developers: m.Developers,
					GrowthRate: m.Growth,
					Remote:     remoteLevel(code),
				},
			}
		}
	}

	score, ok := stateTalentScores[code]
	if !ok {
		score = defaultStateTalentScore
	}
	return TalentScore{
		Score: score,
		Rank:  rankForScore(score),
		Details: TalentDetails{
			Developers: score * 15,
			GrowthRate: 15 + roundDiv(score, 5),
			Remote:     remoteLevel(code),
		},
	}
}

func rankForScore(score int) Density {
	switch {
	case score >= 70:
		return DensityHigh
	case score >= 45:
		return DensityMedium
	default:
		return DensityLow
	}
}

// roundDiv rounds a/b half-up for non-negative operands.
func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}

// RecommendTalent picks a hiring approach for the location.
func RecommendTalent(city, state string, tier Tier) TalentRecommendations {
	code := NormalizeState(state)
	hub := isTalentHubCity(city)
	remoteOK := remoteFriendly(code)

	rec := TalentRecommendations{
		HiringApproach:      HiringHybrid,
		SalaryMultiplier:    1.0,
		EstimatedTimeToHire: "4-6 weeks",
	}
	switch {
	case hub:
		rec.HiringApproach = HiringLocal
		rec.SalaryMultiplier = 1.3
		rec.EstimatedTimeToHire = "2-4 weeks"
	case tier == TierRural:
		rec.HiringApproach = HiringRemote
		rec.SalaryMultiplier = 0.9
		rec.EstimatedTimeToHire = "6-8 weeks"
	}

	switch {
	case hub:
		rec.TopChannels = []string{
			"Local meetups and hackathons",
			fmt.Sprintf("%s Blockchain Developers group", strings.TrimSpace(city)),
			"University career fairs",
			"Local VC portfolio companies",
		}
	case tier == TierMajor:
		rec.TopChannels = []string{
			"Remote-first job boards",
			"Web3 talent platforms",
			"Industry Discord servers",
			"Twitter crypto community",
		}
	default:
		rec.TopChannels = []string{
			"Remote job boards (WeWorkRemotely, RemoteOK)",
			"Web3 native hiring platforms",
			"International developer communities",
			"Bounty-based hiring",
		}
	}

	switch {
	case hub:
		rec.Strategy = fmt.Sprintf("Leverage %s's deep talent pool through local hiring and partnerships with blockchain meetups.", strings.TrimSpace(city))
	case remoteOK:
		rec.Strategy = "Combine local hiring with remote talent to access the best of both worlds."
	default:
		rec.Strategy = "Focus on remote-first hiring with occasional in-person gatherings for team building."
	}
	return rec
}

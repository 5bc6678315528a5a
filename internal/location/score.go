package location

type Opportunity string

const (
	OpportunityExcellent   Opportunity = "excellent"
	OpportunityGood        Opportunity = "good"
	OpportunityFair        Opportunity = "fair"
	OpportunityChallenging Opportunity = "challenging"
)

const baseMarketScore = 50

var climateWeight = map[Climate]int{
	ClimateFriendly: 30,
	ClimateModerate: 15,
	ClimateStrict:   -20,
}

var tierWeight = map[Tier]int{
	TierMajor:    20,
	TierSuburban: 10,
	TierRural:    -10,
}

// MarketScore is the 0-100 opportunity score shown on reports. Unknown
// climates and tiers contribute nothing.
func MarketScore(climate Climate, tier Tier) int {
	score := baseMarketScore + climateWeight[climate] + tierWeight[tier]
	return min(100, max(0, score))
}

func OpportunityForScore(score int) Opportunity {
	switch {
	case score >= 80:
		return OpportunityExcellent
	case score >= 60:
		return OpportunityGood
	case score >= 40:
		return OpportunityFair
	default:
		return OpportunityChallenging
	}
}

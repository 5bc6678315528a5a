package location

import "strings"

type Tier string

const (
	TierMajor    Tier = "major"
	TierSuburban Tier = "suburban"
	TierRural    Tier = "rural"
)

const (
	suburbanDistanceMiles = 25
	ruralDistanceMiles    = 75
)

// Classification is the market profile of a city/state pair. It is derived
// on demand from static tables and never stored on its own.
type Classification struct {
	City              string      `json:"city"`
	State             string      `json:"state"`
	Tier              Tier        `json:"tier"`
	NearestMajorCity  string      `json:"nearest_major_city,omitempty"`
	NearestWeb3Hub    string      `json:"nearest_web3_hub,omitempty"`
	Web3HubType       HubType     `json:"web3_hub_type,omitempty"`
	DistanceToMajor   int         `json:"distance_to_major,omitempty"`
	RegulatoryClimate Climate     `json:"regulatory_climate"`
	TalentDensity     Density     `json:"talent_density"`
	MarketScore       int         `json:"market_score"`
	MarketOpportunity Opportunity `json:"market_opportunity"`
}

// Classify buckets a location into a market tier and attaches regulatory,
// talent and market-opportunity labels. Every input resolves to a tier.
//
// The suburban and rural rules are name heuristics, not geography: a city is
// suburban when the first three letters of any major city in its state occur
// in its name, and rural locations borrow the last table entry whose state
// shares the input state's first letter.
func Classify(city, state string) Classification {
	normCity := strings.ToLower(strings.TrimSpace(city))
	normState := NormalizeState(state)

	c := Classification{City: city, State: state}
	switch {
	case classifyMajor(&c, normCity, normState):
	case classifySuburban(&c, normCity, normState):
	default:
		classifyRural(&c, normState)
	}

	c.RegulatoryClimate = Regulation(normState).CryptoFriendly
	c.TalentDensity = ScoreTalent(city, normState).Rank
	c.MarketScore = MarketScore(c.RegulatoryClimate, c.Tier)
	c.MarketOpportunity = OpportunityForScore(c.MarketScore)
	return c
}

func classifyMajor(c *Classification, city, state string) bool {
	var match *majorCity
	for i := range majorCities {
		if strings.ToLower(majorCities[i].City) == city && majorCities[i].State == state {
			match = &majorCities[i]
			break
		}
	}
	if match == nil {
		return false
	}
	c.Tier = TierMajor
	c.NearestWeb3Hub = match.City
	for _, h := range web3Hubs {
		if strings.ToLower(h.City) == city && h.State == state {
			c.NearestWeb3Hub = h.City
			c.Web3HubType = h.Type
			break
		}
	}
	return true
}

func classifySuburban(c *Classification, city, state string) bool {
	suburban := false
	for _, mc := range majorCities {
		if mc.State == state && strings.Contains(city, cityPrefix(mc.City)) {
			suburban = true
			break
		}
	}
	if !suburban {
		return false
	}

	c.Tier = TierSuburban
	c.DistanceToMajor = suburbanDistanceMiles
	for _, mc := range majorCities {
		if mc.State == state {
			c.NearestMajorCity = mc.City
			break
		}
	}
	c.NearestWeb3Hub = c.NearestMajorCity
	for _, h := range web3Hubs {
		if h.State == state {
			c.NearestWeb3Hub = h.City
			c.Web3HubType = h.Type
			break
		}
	}
	return true
}

func classifyRural(c *Classification, state string) {
	c.Tier = TierRural
	c.DistanceToMajor = ruralDistanceMiles

	nearestMajor := majorCities[0]
	for _, mc := range majorCities {
		if sameInitial(mc.State, state) {
			nearestMajor = mc
		}
	}
	nearestHub := web3Hubs[0]
	for _, h := range web3Hubs {
		if sameInitial(h.State, state) {
			nearestHub = h
		}
	}
	c.NearestMajorCity = nearestMajor.City
	c.NearestWeb3Hub = nearestHub.City
	c.Web3HubType = nearestHub.Type
}

func cityPrefix(city string) string {
	lower := strings.ToLower(city)
	if len(lower) > 3 {
		return lower[:3]
	}
	return lower
}

func sameInitial(a, b string) bool {
	return a != "" && b != "" && a[0] == b[0]
}

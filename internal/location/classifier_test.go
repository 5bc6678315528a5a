package location

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassifyEveryStateResolvesTierAndClimate(t *testing.T) {
	cities := []string{"Smallville", "Springfield", "Austin", "x", ""}
	for _, state := range StateCodes() {
		for _, city := range cities {
			c := Classify(city, state)
			switch c.Tier {
			case TierMajor, TierSuburban, TierRural:
			default:
				t.Fatalf("Classify(%q,%q) tier=%q", city, state, c.Tier)
			}
			if c.RegulatoryClimate == ClimateUnknown {
				t.Fatalf("Classify(%q,%q) climate unknown", city, state)
			}
			if c.MarketScore < 0 || c.MarketScore > 100 {
				t.Fatalf("Classify(%q,%q) market score %d out of range", city, state, c.MarketScore)
			}
		}
	}
}

func TestClassifyKnownLocations(t *testing.T) {
	tests := []struct {
		name  string
		city  string
		state string
		want  Classification
	}{
		{
			name:  "primary hub",
			city:  "Austin",
			state: "TX",
			want: Classification{
				City: "Austin", State: "TX", Tier: TierMajor,
				NearestWeb3Hub: "Austin", Web3HubType: HubPrimary,
				RegulatoryClimate: ClimateFriendly, TalentDensity: DensityHigh,
				MarketScore: 100, MarketOpportunity: OpportunityExcellent,
			},
		},
		{
			name:  "strict primary hub",
			city:  "San Francisco",
			state: "CA",
			want: Classification{
				City: "San Francisco", State: "CA", Tier: TierMajor,
				NearestWeb3Hub: "San Francisco", Web3HubType: HubPrimary,
				RegulatoryClimate: ClimateStrict, TalentDensity: DensityHigh,
				MarketScore: 50, MarketOpportunity: OpportunityFair,
			},
		},
		{
			name:  "major city without hub defaults hub to itself",
			city:  "Columbus",
			state: "OH",
			want: Classification{
				City: "Columbus", State: "OH", Tier: TierMajor,
				NearestWeb3Hub: "Columbus",
				RegulatoryClimate: ClimateFriendly, TalentDensity: DensityMedium,
				MarketScore: 100, MarketOpportunity: OpportunityExcellent,
			},
		},
		{
			name:  "rural wyoming",
			city:  "Smallville",
			state: "WY",
			want: Classification{
				City: "Smallville", State: "WY", Tier: TierRural,
				NearestMajorCity: "Milwaukee", NearestWeb3Hub: "Seattle", Web3HubType: HubSecondary,
				DistanceToMajor: 75,
				RegulatoryClimate: ClimateFriendly, TalentDensity: DensityLow,
				MarketScore: 70, MarketOpportunity: OpportunityGood,
			},
		},
		{
			name:  "suburban by prefix",
			city:  "Sandy Oaks",
			state: "TX",
			want: Classification{
				City: "Sandy Oaks", State: "TX", Tier: TierSuburban,
				NearestMajorCity: "Houston", NearestWeb3Hub: "Austin", Web3HubType: HubPrimary,
				DistanceToMajor: 25,
				RegulatoryClimate: ClimateFriendly, TalentDensity: DensityHigh,
				MarketScore: 90, MarketOpportunity: OpportunityExcellent,
			},
		},
		{
			name:  "suburban without hub in state falls back to major city",
			city:  "Tempe Mesa Heights",
			state: "AZ",
			want: Classification{
				City: "Tempe Mesa Heights", State: "AZ", Tier: TierSuburban,
				NearestMajorCity: "Phoenix", NearestWeb3Hub: "Phoenix",
				DistanceToMajor: 25,
				RegulatoryClimate: ClimateFriendly, TalentDensity: DensityMedium,
				MarketScore: 90, MarketOpportunity: OpportunityExcellent,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.city, tt.state)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Classify mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyNormalizesInput(t *testing.T) {
	c := Classify("  austin ", "tx ")
	if c.Tier != TierMajor {
		t.Fatalf("tier=%s want major", c.Tier)
	}
	if c.NearestWeb3Hub != "Austin" {
		t.Fatalf("hub=%q want table casing Austin", c.NearestWeb3Hub)
	}
	if c.City != "  austin " || c.State != "tx " {
		t.Fatalf("expected raw input echoed, got %q/%q", c.City, c.State)
	}
}

func TestClassifyPrefixHeuristicMissesDissimilarSuburbs(t *testing.T) {
	// Round Rock borders Austin but shares no three-letter prefix with a Texas major city.
	c := Classify("Round Rock", "TX")
	if c.Tier != TierRural {
		t.Fatalf("tier=%s want rural", c.Tier)
	}
	if c.NearestMajorCity != "Arlington" {
		t.Fatalf("nearest major=%q want last T-state entry Arlington", c.NearestMajorCity)
	}
	if c.NearestWeb3Hub != "Austin" {
		t.Fatalf("nearest hub=%q want Austin", c.NearestWeb3Hub)
	}
}

func TestClassifyUnknownStateFallsBackToFirstEntries(t *testing.T) {
	c := Classify("Nowhere", "ZZ")
	if c.Tier != TierRural {
		t.Fatalf("tier=%s want rural", c.Tier)
	}
	if c.NearestMajorCity != "New York" || c.NearestWeb3Hub != "San Francisco" {
		t.Fatalf("unexpected fallbacks %q / %q", c.NearestMajorCity, c.NearestWeb3Hub)
	}
	if c.RegulatoryClimate != ClimateUnknown {
		t.Fatalf("climate=%s want unknown", c.RegulatoryClimate)
	}
	if c.MarketScore != 40 {
		t.Fatalf("market score=%d want 40", c.MarketScore)
	}

	empty := Classify("Nowhere", "")
	if empty.NearestMajorCity != "New York" {
		t.Fatalf("empty state nearest major=%q", empty.NearestMajorCity)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	for _, in := range [][2]string{{"Austin", "TX"}, {"Sandy Oaks", "TX"}, {"Smallville", "WY"}} {
		a := Classify(in[0], in[1])
		b := Classify(in[0], in[1])
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("non-deterministic classification for %v:\n%s", in, diff)
		}
	}
}

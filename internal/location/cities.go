package location

type HubType string

const (
	HubPrimary   HubType = "primary"
	HubSecondary HubType = "secondary"
)

type majorCity struct {
	City       string
	State      string
	Population int
}

type web3Hub struct {
	City  string
	State string
	Type  HubType
}

// Table order matters: suburban and rural lookups pick entries by position.
var majorCities = []majorCity{
	{"New York", "NY", 8419000},
	{"Los Angeles", "CA", 3929000},
	{"Chicago", "IL", 2716000},
	{"Houston", "TX", 2303000},
	{"Phoenix", "AZ", 1608000},
	{"Philadelphia", "PA", 1584000},
	{"San Antonio", "TX", 1547000},
	{"San Diego", "CA", 1387000},
	{"Dallas", "TX", 1344000},
	{"Austin", "TX", 974000},
	{"San Jose", "CA", 971000},
	{"Fort Worth", "TX", 958000},
	{"Jacksonville", "FL", 954000},
	{"Charlotte", "NC", 910000},
	{"Columbus", "OH", 907000},
	{"Indianapolis", "IN", 876000},
	{"San Francisco", "CA", 815000},
	{"Seattle", "WA", 794000},
	{"Denver", "CO", 734000},
	{"Washington", "DC", 712000},
	{"Boston", "MA", 692000},
	{"El Paso", "TX", 679000},
	{"Nashville", "TN", 678000},
	{"Detroit", "MI", 631000},
	{"Oklahoma City", "OK", 687000},
	{"Portland", "OR", 652000},
	{"Las Vegas", "NV", 656000},
	{"Memphis", "TN", 630000},
	{"Louisville", "KY", 628000},
	{"Baltimore", "MD", 576000},
	{"Milwaukee", "WI", 563000},
	{"Albuquerque", "NM", 562000},
	{"Tucson", "AZ", 548000},
	{"Fresno", "CA", 545000},
	{"Mesa", "AZ", 517000},
	{"Sacramento", "CA", 525000},
	{"Atlanta", "GA", 498000},
	{"Kansas City", "MO", 508000},
	{"Colorado Springs", "CO", 483000},
	{"Raleigh", "NC", 476000},
	{"Miami", "FL", 442000},
	{"Virginia Beach", "VA", 455000},
	{"Omaha", "NE", 485000},
	{"Oakland", "CA", 425000},
	{"Minneapolis", "MN", 429000},
	{"Tulsa", "OK", 413000},
	{"Arlington", "TX", 394000},
	{"New Orleans", "LA", 369000},
	{"Wichita", "KS", 397000},
	{"Cleveland", "OH", 367000},
}

var web3Hubs = []web3Hub{
	{"San Francisco", "CA", HubPrimary},
	{"New York", "NY", HubPrimary},
	{"Austin", "TX", HubPrimary},
	{"Miami", "FL", HubPrimary},
	{"Denver", "CO", HubSecondary},
	{"Seattle", "WA", HubSecondary},
	{"Boston", "MA", HubSecondary},
	{"Los Angeles", "CA", HubSecondary},
	{"Chicago", "IL", HubSecondary},
}

package location

import "strings"

type Climate string

const (
	ClimateFriendly Climate = "friendly"
	ClimateModerate Climate = "moderate"
	ClimateStrict   Climate = "strict"
	ClimateUnknown  Climate = "unknown"
)

// StateRegulation summarizes how a state treats crypto and Web3 businesses.
type StateRegulation struct {
	Name             string  `json:"name"`
	CryptoFriendly   Climate `json:"crypto_friendly"`
	MoneyTransmitter string  `json:"money_transmitter"`
	TaxTreatment     string  `json:"tax_treatment"`
	Notes            string  `json:"notes"`
	LastUpdated      string  `json:"last_updated"`
}

const regulationsUpdated = "2024-01-15"

func reg(name string, climate Climate, transmitter, tax, notes string) StateRegulation {
	return StateRegulation{
		Name:             name,
		CryptoFriendly:   climate,
		MoneyTransmitter: transmitter,
		TaxTreatment:     tax,
		Notes:            notes,
		LastUpdated:      regulationsUpdated,
	}
}

const (
	noLicense     = "No specific license"
	licenseReq    = "License required"
	licenseMaybe  = "License may be required"
	incomeTax     = "Income tax applies"
	propertyTax   = "Property tax applies"
	noStateIncome = "No state income tax"
)

var stateRegulations = map[string]StateRegulation{
	"AL": reg("Alabama", ClimateModerate, licenseReq, propertyTax, "No specific crypto laws. Generally business-friendly."),
	"AK": reg("Alaska", ClimateFriendly, noLicense, noStateIncome, "No state income tax. Minimal crypto regulations."),
	"AZ": reg("Arizona", ClimateFriendly, licenseMaybe, propertyTax, "Cryptocurrency recognized as legal tender. Pro-business stance."),
	"AR": reg("Arkansas", ClimateModerate, licenseReq, incomeTax, "Virtual currency transmission covered by the money transmitter act."),
	"CA": reg("California", ClimateStrict, "DFPI licensing required", incomeTax, "Money transmission laws apply. DFPI licensing required for certain activities."),
	"CO": reg("Colorado", ClimateFriendly, noLicense, incomeTax, "Favorable regulations. State blockchain council established."),
	"CT": reg("Connecticut", ClimateModerate, licenseReq, incomeTax, "Digital assets guidance issued by banking department."),
	"DC": reg("District of Columbia", ClimateModerate, licenseReq, incomeTax, "Money transmitter license issued by DISB covers virtual currency."),
	"DE": reg("Delaware", ClimateFriendly, noLicense, incomeTax, "Business-friendly. Blockchain stocks allowed."),
	"FL": reg("Florida", ClimateFriendly, licenseMaybe, noStateIncome, "No state income tax. Generally crypto-friendly regulations."),
	"GA": reg("Georgia", ClimateModerate, licenseReq, incomeTax, "No specific crypto laws. Money transmitter license may apply."),
	"HI": reg("Hawaii", ClimateStrict, licenseReq, incomeTax, "Strict money transmission laws for crypto businesses."),
	"ID": reg("Idaho", ClimateFriendly, noLicense, incomeTax, "No specific crypto regulations. Business-friendly."),
	"IL": reg("Illinois", ClimateModerate, licenseReq, incomeTax, "Blockchain Task Force established. Generally favorable."),
	"IN": reg("Indiana", ClimateFriendly, noLicense, incomeTax, "Cryptocurrency exempt from money transmission laws."),
	"IA": reg("Iowa", ClimateModerate, licenseMaybe, incomeTax, "No specific crypto laws. Traditional regulations apply."),
	"KS": reg("Kansas", ClimateModerate, licenseReq, incomeTax, "Money transmitter license may be required."),
	"KY": reg("Kentucky", ClimateFriendly, noLicense, incomeTax, "Friendly to crypto mining. Tax incentives available."),
	"LA": reg("Louisiana", ClimateModerate, licenseMaybe, incomeTax, "Blockchain and cryptocurrency laws being developed."),
	"ME": reg("Maine", ClimateModerate, noLicense, incomeTax, "No specific cryptocurrency regulations."),
	"MD": reg("Maryland", ClimateModerate, licenseReq, incomeTax, "Financial technology sandbox available."),
	"MA": reg("Massachusetts", ClimateStrict, licenseReq, incomeTax, "Strict securities laws apply to some tokens."),
	"MI": reg("Michigan", ClimateModerate, noLicense, incomeTax, "No specific crypto regulations."),
	"MN": reg("Minnesota", ClimateModerate, licenseReq, incomeTax, "Money transmission laws may apply."),
	"MS": reg("Mississippi", ClimateFriendly, noLicense, incomeTax, "No specific cryptocurrency laws."),
	"MO": reg("Missouri", ClimateFriendly, noLicense, incomeTax, "Generally business-friendly. No specific laws."),
	"MT": reg("Montana", ClimateFriendly, noLicense, "No sales tax", "No state sales tax. Crypto-friendly environment."),
	"NE": reg("Nebraska", ClimateFriendly, noLicense, incomeTax, "Digital asset banking framework established."),
	"NV": reg("Nevada", ClimateFriendly, noLicense, noStateIncome, "Blockchain technology encouraged. No state income tax."),
	"NH": reg("New Hampshire", ClimateFriendly, noLicense, noStateIncome, "No state income tax. Generally favorable."),
	"NJ": reg("New Jersey", ClimateStrict, licenseReq, incomeTax, "BitLicense-style regulations being considered."),
	"NM": reg("New Mexico", ClimateFriendly, noLicense, incomeTax, "No specific cryptocurrency regulations."),
	"NY": reg("New York", ClimateStrict, "BitLicense required", incomeTax, "BitLicense required for crypto businesses operating in NY."),
	"NC": reg("North Carolina", ClimateModerate, licenseReq, incomeTax, "Money transmission laws apply."),
	"ND": reg("North Dakota", ClimateModerate, noLicense, incomeTax, "Blockchain laws being developed."),
	"OH": reg("Ohio", ClimateFriendly, noLicense, incomeTax, "Previously accepted crypto for taxes. Business-friendly."),
	"OK": reg("Oklahoma", ClimateFriendly, noLicense, incomeTax, "Blockchain business-friendly laws passed."),
	"OR": reg("Oregon", ClimateModerate, licenseReq, incomeTax, "No specific crypto regulations."),
	"PA": reg("Pennsylvania", ClimateModerate, noLicense, incomeTax, "Guidance issued but no specific laws."),
	"RI": reg("Rhode Island", ClimateModerate, licenseReq, incomeTax, "Money transmitter license required."),
	"SC": reg("South Carolina", ClimateModerate, noLicense, incomeTax, "No specific cryptocurrency laws."),
	"SD": reg("South Dakota", ClimateFriendly, noLicense, noStateIncome, "No state income tax. Business-friendly."),
	"TN": reg("Tennessee", ClimateFriendly, noLicense, noStateIncome, "Favorable to blockchain. No state income tax."),
	"TX": reg("Texas", ClimateFriendly, noLicense, noStateIncome, "Very crypto-friendly. No specific money transmission license required."),
	"UT": reg("Utah", ClimateFriendly, noLicense, incomeTax, "Blockchain technology encouraged."),
	"VT": reg("Vermont", ClimateModerate, licenseMaybe, incomeTax, "Limited guidance on digital assets."),
	"VA": reg("Virginia", ClimateFriendly, noLicense, incomeTax, "Blockchain technology encouraged."),
	"WA": reg("Washington", ClimateStrict, licenseReq, incomeTax, "Strict regulations. Money transmitter license required."),
	"WV": reg("West Virginia", ClimateModerate, noLicense, incomeTax, "No specific crypto laws."),
	"WI": reg("Wisconsin", ClimateModerate, noLicense, incomeTax, "No specific cryptocurrency regulations."),
	"WY": reg("Wyoming", ClimateFriendly, noLicense, noStateIncome, "Most crypto-friendly state. Comprehensive DAO and crypto laws."),
}

// NormalizeState upper-cases and trims a postal code.
func NormalizeState(state string) string {
	return strings.ToUpper(strings.TrimSpace(state))
}

// Regulation returns the regulation row for a state. Unknown codes get a
// conservative placeholder with an unknown climate rather than an error.
func Regulation(state string) StateRegulation {
	code := NormalizeState(state)
	if r, ok := stateRegulations[code]; ok {
		return r
	}
	return StateRegulation{
		Name:             code,
		CryptoFriendly:   ClimateUnknown,
		MoneyTransmitter: "Consult legal counsel",
		TaxTreatment:     "Consult tax professional",
		Notes:            "Consult with local legal counsel for specific regulations.",
		LastUpdated:      regulationsUpdated,
	}
}

// KnownState reports whether the code is in the regulation table.
func KnownState(state string) bool {
	_, ok := stateRegulations[NormalizeState(state)]
	return ok
}

// StateCodes lists every state code in the regulation table.
func StateCodes() []string {
	out := make([]string, 0, len(stateRegulations))
	for code := range stateRegulations {
		out = append(out, code)
	}
	return out
}

// ComplianceChecklist lists the setup steps a Web3 business in the state
// should plan for.
func ComplianceChecklist(state string) []string {
	code := NormalizeState(state)
	r := Regulation(code)

	checklist := []string{
		"Register business entity with Secretary of State",
		"Obtain EIN from IRS",
		"Determine money transmitter license requirements",
	}
	if strings.Contains(r.MoneyTransmitter, "required") {
		checklist = append(checklist,
			"Apply for money transmitter license",
			"Prepare financial statements and bonding requirements",
			"Implement AML/KYC procedures",
		)
	}
	switch code {
	case "NY":
		checklist = append(checklist,
			"Apply for BitLicense",
			"Designate compliance officer",
			"Maintain transaction records for 7 years",
		)
	case "CA":
		checklist = append(checklist,
			"Register with DFPI",
			"Comply with California Consumer Privacy Act",
		)
	case "TX", "WY", "FL":
		checklist = append(checklist, "Review state-specific tax exemptions")
	}
	return checklist
}

var stateActions = map[string][]string{
	"TX": {
		"Register business entity with Texas Secretary of State",
		"Obtain EIN from IRS",
		"No specific money transmitter license required",
		"Review Texas tax incentives for blockchain",
		"Implement standard AML/KYC procedures",
	},
	"CA": {
		"Register with California Secretary of State",
		"Apply for money transmitter license with DFPI",
		"Comply with California Consumer Privacy Act",
		"Designate compliance officer",
		"Maintain detailed transaction records",
	},
	"NY": {
		"Register with New York Department of State",
		"Apply for BitLicense",
		"Designate compliance officer",
		"Implement enhanced AML/KYC",
		"Prepare for regular audits",
	},
	"FL": {
		"Register with Florida Division of Corporations",
		"Review money services business requirements",
		"No state income tax - review implications",
		"Standard AML/KYC procedures",
		"Consider Miami-Dade county requirements",
	},
	"WY": {
		"Register with Wyoming Secretary of State",
		"Review DAO LLC structure options",
		"No state income tax",
		"Consider special purpose depository bank",
		"Leverage crypto-friendly laws",
	},
}

var genericActions = []string{
	"Register business entity",
	"Obtain EIN from IRS",
	"Review license requirements",
	"Implement AML/KYC",
	"Prepare tax strategy",
}

// RegulatoryActions returns the state-specific first actions shown on the
// printed regulatory page, or a generic list.
func RegulatoryActions(state string) []string {
	if actions, ok := stateActions[NormalizeState(state)]; ok {
		return append([]string(nil), actions...)
	}
	return append([]string(nil), genericActions...)
}

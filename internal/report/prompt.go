package report

import (
	"fmt"
	"strings"

	"github.com/joelkehle/veridian-reports/internal/location"
)

const systemPrompt = "You are a senior Web3 strategy consultant writing location-specific reports for US businesses. Write in markdown."

// Disclaimer closes remotely generated summaries. Templated summaries omit
// it; the printed risk page carries the disclaimer for every report.
func Disclaimer(companyName, state string) string {
	return fmt.Sprintf("DISCLAIMER: This report provides educational guidance and strategic recommendations based on AI analysis. "+
		"%s should consult with licensed legal, financial, and technical professionals in %s before implementing any Web3 strategies. "+
		"Regulations vary by location and change frequently. Veridian Group is not responsible for implementation outcomes.",
		strings.TrimSpace(companyName), location.NormalizeState(state))
}

// BuildPrompt renders the request and its classification into the prompt
// sent to remote text generators.
func BuildPrompt(req Request, cls location.Classification) string {
	c := req.Company
	name := strings.TrimSpace(c.Name)
	city := strings.TrimSpace(req.Location.City)
	state := location.NormalizeState(req.Location.State)
	hub := cls.NearestWeb3Hub
	hubType := string(cls.Web3HubType)
	if hubType == "" {
		hubType = "hub"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a comprehensive Web3 strategy report for %s based in %s, %s.\n\n", name, city, state)

	b.WriteString("COMPANY DETAILS:\n")
	fmt.Fprintf(&b, "- Industry: %s\n", strings.TrimSpace(c.Industry))
	fmt.Fprintf(&b, "- Company Size: %s\n", c.Size)
	fmt.Fprintf(&b, "- Budget: %s\n", budgetLabel(c.Budget))
	fmt.Fprintf(&b, "- Primary Focus: %s\n", focusLabel(req.Strategy.Primary))
	fmt.Fprintf(&b, "- Timeline: %d months\n", TimelineMonths(req.Strategy.Timeline))
	fmt.Fprintf(&b, "- Primary Concerns: %s\n", strings.TrimSpace(req.Strategy.Concerns))
	fmt.Fprintf(&b, "- Goals: %s\n\n", strings.TrimSpace(req.Strategy.Goals))

	b.WriteString("LOCATION ANALYSIS:\n")
	fmt.Fprintf(&b, "- Location Tier: %s\n", cls.Tier)
	fmt.Fprintf(&b, "- State: %s\n", state)
	switch cls.Tier {
	case location.TierMajor:
		b.WriteString("- Major metropolitan area with strong infrastructure\n")
	case location.TierSuburban:
		fmt.Fprintf(&b, "- Suburban area near %s\n", orDefault(cls.NearestMajorCity, "major city"))
	default:
		fmt.Fprintf(&b, "- Rural area, nearest major hub: %s (%d miles)\n", cls.NearestMajorCity, cls.DistanceToMajor)
	}
	fmt.Fprintf(&b, "- Nearest Web3 Hub: %s (%s)\n", hub, hubType)
	fmt.Fprintf(&b, "- Regulatory Climate: %s\n", cls.RegulatoryClimate)
	fmt.Fprintf(&b, "- Talent Density: %s\n\n", cls.TalentDensity)

	b.WriteString("REPORT STRUCTURE:\n")
	fmt.Fprintf(&b, "1. EXECUTIVE SUMMARY\n   - Key Opportunities for %s\n   - Location Advantages in %s, %s\n   - Risk Assessment Summary\n\n", name, city, state)
	fmt.Fprintf(&b, "2. LOCATION-SPECIFIC OPPORTUNITIES\n   - Web3 Talent Pool Access\n   - Local Crypto Regulations in %s\n   - Infrastructure Availability\n   - Partnership Opportunities in %s\n\n", state, hub)
	fmt.Fprintf(&b, "3. STATE REGULATORY LANDSCAPE\n   - %s Crypto Laws Summary\n   - Tax Implications\n   - Compliance Requirements\n   - Recommended Legal Counsel in State\n\n", state)
	b.WriteString("4. 90-DAY IMPLEMENTATION ROADMAP\n   - Month 1: Foundation & Education\n   - Month 2: Pilot Program Design\n   - Month 3: Launch & Community Building\n\n")
	fmt.Fprintf(&b, "5. RESOURCE DIRECTORY\n   - Local Web3 Meetups & Events\n   - %s Blockchain Organizations\n   - Recommended Service Providers\n   - Funding Opportunities\n\n", state)
	b.WriteString("6. RISK MITIGATION\n   - Location-Specific Risks\n   - Regulatory Compliance Plan\n   - Security Protocols\n   - Contingency Planning\n\n")

	b.WriteString("TONE: Professional, authoritative, actionable. Write as a top-tier consulting firm.\n")
	b.WriteString("LENGTH: Approximately 5 pages worth of content.\n")
	b.WriteString("FORMAT: Use markdown with clear headers, bullet points, and numbered lists.\n\n")
	fmt.Fprintf(&b, "IMPORTANT: Include this disclaimer at the end:\n%q\n\n", Disclaimer(name, state))
	b.WriteString("Now generate the comprehensive report:")
	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

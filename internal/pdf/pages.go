package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joelkehle/veridian-reports/internal/location"
	"github.com/joelkehle/veridian-reports/internal/report"
)

const notAvailable = "Not available for this report."

// pageMarkdown returns one markdown document per content page, in print
// order. Missing content falls back to neutral placeholders so a partial
// record still prints.
func pageMarkdown(doc Document) []string {
	b := doc.Content
	if b == nil {
		b = &report.Bundle{}
	}
	state := location.NormalizeState(doc.State)
	if state == "" {
		state = b.RegulatoryAnalysis.State
	}
	return []string{
		executivePage(doc, b),
		locationPage(doc, b),
		regulatoryPage(state, b),
		talentPage(b),
		competitorPage(b),
		roadmapPage(b),
		resourcesPage(b),
		riskPage(state, b),
	}
}

func executivePage(doc Document, b *report.Bundle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", report.TitleExecutiveSummary)

	la := b.LocationAnalysis
	if la.MarketScore > 0 {
		fmt.Fprintf(&sb, "- **Market score:** %d/100 (%s opportunity)\n", la.MarketScore, la.MarketOpportunity)
	} else {
		fmt.Fprintf(&sb, "- **Market score:** %s\n", notAvailable)
	}
	fmt.Fprintf(&sb, "- **Regulatory climate:** %s\n", orFallback(string(b.RegulatoryAnalysis.Climate)))
	fmt.Fprintf(&sb, "- **Talent density:** %s\n", orFallback(string(la.TalentRank)))
	if b.ImplementationRoadmap.Timeline != "" {
		fmt.Fprintf(&sb, "- **Timeline:** %d months\n", report.TimelineMonths(b.ImplementationRoadmap.Timeline))
	}
	sb.WriteString("\n")

	if doc.PrimaryFocus != "" {
		fmt.Fprintf(&sb, "> Based on your location, prioritize %s in the first 30 days.\n\n",
			strings.ReplaceAll(string(doc.PrimaryFocus), "-", " "))
	}

	if summary := strings.TrimSpace(b.ExecutiveSummary); summary != "" {
		sb.WriteString(demoteHeadings(summary))
		sb.WriteString("\n")
	} else {
		sb.WriteString(notAvailable + "\n")
	}
	return sb.String()
}

func locationPage(doc Document, b *report.Bundle) string {
	la := b.LocationAnalysis
	tier := la.MarketTier
	if tier == "" {
		tier = doc.LocationTier
	}
	nearest := la.NearestMajorCity
	if nearest == "" {
		nearest = doc.NearestMajorCity
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", report.TitleLocation)
	sb.WriteString("| Metric | Value |\n| --- | --- |\n")
	fmt.Fprintf(&sb, "| Market Tier | %s |\n", mdCell(orFallback(string(tier))))
	fmt.Fprintf(&sb, "| Market Score | %s |\n", mdCell(scoreCell(la.MarketScore)))
	fmt.Fprintf(&sb, "| Regulatory Climate | %s |\n", mdCell(orFallback(string(b.RegulatoryAnalysis.Climate))))
	fmt.Fprintf(&sb, "| Talent Density | %s |\n", mdCell(orFallback(string(la.TalentRank))))
	fmt.Fprintf(&sb, "| Competitive Intensity | %s |\n", mdCell(intensity(b.CompetitorAnalysis.TotalCompetitors)))
	fmt.Fprintf(&sb, "| Nearest Web3 Hub | %s |\n", mdCell(orFallback(la.NearestHub)))
	if nearest != "" {
		fmt.Fprintf(&sb, "| Nearest Major City | %s |\n", mdCell(nearest))
	}
	if la.Developers > 0 {
		fmt.Fprintf(&sb, "| Estimated Web3 Developers | %d |\n", la.Developers)
		fmt.Fprintf(&sb, "| Annual Growth | %d%% |\n", la.GrowthRate)
	}
	sb.WriteString("\n")
	if la.Summary != "" {
		sb.WriteString(la.Summary + "\n")
	}
	return sb.String()
}

func regulatoryPage(state string, b *report.Bundle) string {
	ra := b.RegulatoryAnalysis
	var sb strings.Builder
	title := report.TitleRegulatory
	if state != "" {
		title = state + " " + title
	}
	fmt.Fprintf(&sb, "## %s\n\n", title)
	if ra.Summary != "" {
		sb.WriteString(ra.Summary + "\n\n")
	}
	if ra.MoneyTransmitter != "" {
		fmt.Fprintf(&sb, "- **Money transmitter:** %s\n", ra.MoneyTransmitter)
		fmt.Fprintf(&sb, "- **Tax treatment:** %s\n", ra.TaxTreatment)
		fmt.Fprintf(&sb, "- **Notes:** %s\n", ra.Notes)
		if ra.LastUpdated != "" {
			fmt.Fprintf(&sb, "- **Last reviewed:** %s\n", ra.LastUpdated)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("### Compliance Checklist\n\n")
	actions := ra.RecommendedActions
	if len(actions) == 0 {
		actions = location.RegulatoryActions(state)
	}
	for _, a := range actions {
		fmt.Fprintf(&sb, "- [ ] %s\n", a)
	}
	if len(ra.Checklist) > 0 {
		sb.WriteString("\n### Filing Requirements\n\n")
		for _, c := range ra.Checklist {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
	}
	return sb.String()
}

func talentPage(b *report.Bundle) string {
	ta := b.TalentAnalysis
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", report.TitleTalent)
	if ta.Score == 0 {
		sb.WriteString(notAvailable + "\n")
		return sb.String()
	}
	sb.WriteString("| Talent Score | Density | Developers | Growth | Remote |\n| --- | --- | --- | --- | --- |\n")
	fmt.Fprintf(&sb, "| %d | %s | %d | %d%% | %s |\n\n",
		ta.Score, ta.Rank, ta.EstimatedDevelopers, ta.GrowthRate, ta.RemoteCapability)
	fmt.Fprintf(&sb, "**Hiring strategy:** %s\n\n", ta.HiringStrategy)
	fmt.Fprintf(&sb, "- Approach: %s\n", ta.Approach)
	fmt.Fprintf(&sb, "- Salary multiplier: %.2fx\n", ta.SalaryMultiplier)
	fmt.Fprintf(&sb, "- Time to hire: %s\n\n", ta.TimeToHire)
	if len(ta.Channels) > 0 {
		sb.WriteString("### Recruiting Channels\n\n")
		for _, c := range ta.Channels {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
	}
	return sb.String()
}

func competitorPage(b *report.Bundle) string {
	ca := b.CompetitorAnalysis
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", report.TitleCompetitors)
	if ca.TotalCompetitors == 0 && len(ca.Gaps) == 0 {
		sb.WriteString(notAvailable + "\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "An estimated **%d** comparable companies operate in this market; %d are active in Web3 and %d are raising funding.\n\n",
		ca.TotalCompetitors, ca.ActiveInWeb3, ca.RaisingFunding)
	writeList(&sb, "Market Gaps", ca.Gaps)
	writeList(&sb, "Opportunities", ca.Opportunities)
	return sb.String()
}

func roadmapPage(b *report.Bundle) string {
	rm := b.ImplementationRoadmap
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", roadmapTitle(rm.Timeline))
	if len(rm.Phases) == 0 {
		sb.WriteString(notAvailable + "\n")
		return sb.String()
	}
	for _, p := range rm.Phases {
		fmt.Fprintf(&sb, "### Month %d: %s\n\n", p.Month, p.Focus)
		for _, t := range p.Tasks {
			fmt.Fprintf(&sb, "- %s\n", t)
		}
		sb.WriteString("\n")
	}
	writeList(&sb, "Milestones", rm.Milestones)
	return sb.String()
}

func roadmapTitle(t report.Timeline) string {
	if t == "" {
		return report.TitleRoadmap
	}
	months := report.TimelineMonths(t)
	if months == 3 {
		return "90-Day " + report.TitleRoadmap
	}
	return fmt.Sprintf("%d-Month %s", months, report.TitleRoadmap)
}

func resourcesPage(b *report.Bundle) string {
	rd := b.ResourceDirectory
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", report.TitleResources)
	if len(rd.LegalFirms) == 0 && len(rd.LocalResources) == 0 {
		sb.WriteString(notAvailable + "\n")
		return sb.String()
	}
	if len(rd.LegalFirms) > 0 {
		sb.WriteString("### Legal Counsel\n\n| Firm | Focus | Coverage |\n| --- | --- | --- |\n")
		for _, f := range rd.LegalFirms {
			coverage := "Regional"
			if f.National {
				coverage = "National"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", mdCell(f.Name), mdCell(f.Focus), coverage)
		}
		sb.WriteString("\n")
	}
	if len(rd.LocalResources) > 0 {
		sb.WriteString("### Local Community\n\n")
		for _, r := range rd.LocalResources {
			fmt.Fprintf(&sb, "- **%s:** [%s](%s)\n", r.Type, r.Name, r.URL)
		}
		sb.WriteString("\n")
	}
	writeList(&sb, "Funding Sources", rd.FundingSources)
	writeList(&sb, "Development Partners", rd.DevelopmentPartners)
	return sb.String()
}

func riskPage(state string, b *report.Bundle) string {
	rk := b.RiskAssessment
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", report.TitleRisk)
	if len(rk.Risks) == 0 {
		sb.WriteString(notAvailable + "\n\n")
	} else {
		fmt.Fprintf(&sb, "Overall risk level: **%s**\n\n", orFallback(rk.Overall))
		sb.WriteString("| Category | Risk | Likelihood | Impact | Mitigation |\n| --- | --- | --- | --- | --- |\n")
		for _, r := range rk.Risks {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
				mdCell(r.Category), mdCell(r.Risk), mdCell(r.Likelihood), mdCell(r.Impact), mdCell(r.Mitigation))
		}
		sb.WriteString("\n")
		writeList(&sb, "Recommendations", rk.Recommendations)
	}

	where := state
	if where == "" {
		where = "your state"
	}
	fmt.Fprintf(&sb, "**DISCLAIMER:** This report provides educational guidance. Veridian Group is not a law firm, "+
		"financial advisor, or registered investment advisor. All strategies involve substantial risk. "+
		"Consult with qualified professionals in %s before implementing.\n", where)
	return sb.String()
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "### %s\n\n", heading)
	for _, it := range items {
		fmt.Fprintf(sb, "- %s\n", it)
	}
	sb.WriteString("\n")
}

var reHeading = regexp.MustCompile(`(?m)^(#{1,4})(\s)`)

// demoteHeadings pushes generated headings two levels down so they nest
// under the page title.
func demoteHeadings(md string) string {
	return reHeading.ReplaceAllString(md, "##$1$2")
}

func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func orFallback(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func scoreCell(score int) string {
	if score <= 0 {
		return notAvailable
	}
	return fmt.Sprintf("%d/100", score)
}

func intensity(total int) string {
	switch {
	case total <= 0:
		return notAvailable
	case total >= 15:
		return "high"
	case total >= 8:
		return "medium"
	default:
		return "low"
	}
}

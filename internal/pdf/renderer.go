package pdf

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/joelkehle/veridian-reports/internal/location"
	"github.com/joelkehle/veridian-reports/internal/report"
	"github.com/joelkehle/veridian-reports/internal/store"
)

// ErrInvalidReport is returned when a document lacks an id or company name.
var ErrInvalidReport = errors.New("invalid report data")

// Document is everything the renderer reads from a stored report.
type Document struct {
	ID               string
	CompanyName      string
	City             string
	State            string
	LocationTier     location.Tier
	NearestMajorCity string
	PrimaryFocus     report.Focus
	CreatedAt        time.Time
	Content          *report.Bundle
}

func DocumentFromRecord(rec store.Record) Document {
	return Document{
		ID:               rec.ID,
		CompanyName:      rec.CompanyName,
		City:             rec.City,
		State:            rec.State,
		LocationTier:     rec.LocationTier,
		NearestMajorCity: rec.NearestMajorCity,
		PrimaryFocus:     rec.Request.Strategy.Primary,
		CreatedAt:        rec.CreatedAt,
		Content:          rec.Content,
	}
}

// Renderer lays a document into the fixed page sequence and prints it.
type Renderer struct {
	printer Printer
	md      goldmark.Markdown
}

func NewRenderer(printer Printer) *Renderer {
	return &Renderer{
		printer: printer,
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (r *Renderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	htmlDoc, err := r.HTML(doc)
	if err != nil {
		return nil, err
	}
	out, err := r.printer.Print(ctx, htmlDoc)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return out, nil
}

// HTML builds the print-ready document: a cover followed by one section
// per page.
func (r *Renderer) HTML(doc Document) (string, error) {
	if strings.TrimSpace(doc.ID) == "" || strings.TrimSpace(doc.CompanyName) == "" {
		return "", ErrInvalidReport
	}

	var body strings.Builder
	body.WriteString(coverHTML(doc))
	for _, md := range pageMarkdown(doc) {
		var content strings.Builder
		if err := r.md.Convert([]byte(md), &content); err != nil {
			return "", fmt.Errorf("markdown convert: %w", err)
		}
		body.WriteString("<section class='page'>")
		body.WriteString(applyPrintLayoutHooks(content.String()))
		body.WriteString("</section>")
	}

	return "<!doctype html><html><head><meta charset='utf-8'><title>" +
		html.EscapeString("Veridian Report - "+doc.CompanyName) + "</title>" +
		"<style>" + printCSS + "</style></head><body>" +
		body.String() +
		"</body></html>", nil
}

var (
	rePageTitle  = regexp.MustCompile(`^\s*<h2([^>]*)>`)
	reDisclaimer = regexp.MustCompile(`<p>(\s*<strong>DISCLAIMER:</strong>)`)
)

// applyPrintLayoutHooks tags the leading h2 of a page as its title and
// boxes the disclaimer paragraph.
func applyPrintLayoutHooks(contentHTML string) string {
	out := rePageTitle.ReplaceAllString(contentHTML, `<h2$1 data-page-title="true">`)
	out = reDisclaimer.ReplaceAllString(out, `<p class="disclaimer">$1`)
	return out
}

var reFilenameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename is the suggested download name for a company's report.
func Filename(companyName string) string {
	return "Veridian_Report_" + reFilenameUnsafe.ReplaceAllString(strings.TrimSpace(companyName), "_") + ".pdf"
}

func coverHTML(doc Document) string {
	date := doc.CreatedAt
	if date.IsZero() {
		date = time.Now()
	}
	var b strings.Builder
	b.WriteString("<section class='cover'>")
	b.WriteString("<div class='brand'>VERIDIAN GROUP</div>")
	b.WriteString("<h1>" + html.EscapeString(strings.TrimSpace(doc.CompanyName)) + "</h1>")
	b.WriteString("<div class='subtitle'>Web3 Location Strategy Report</div>")
	b.WriteString("<div class='location'>" + html.EscapeString(locationLine(doc)) + "</div>")
	b.WriteString("<div class='meta'><div><strong>Date:</strong> " + html.EscapeString(date.Format("January 2, 2006")) + "</div>")
	b.WriteString("<div><strong>Report ID:</strong> " + html.EscapeString(doc.ID) + "</div></div>")
	b.WriteString("<div class='confidential'>Confidential. Prepared exclusively for " + html.EscapeString(strings.TrimSpace(doc.CompanyName)) + ".</div>")
	b.WriteString("</section>")
	return b.String()
}

func locationLine(doc Document) string {
	city := strings.TrimSpace(doc.City)
	state := location.NormalizeState(doc.State)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}

const printCSS = `
html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;}
body{font-family:Helvetica,Arial,sans-serif;color:#1E2F45;font-size:11pt;line-height:1.45;margin:0;}
.cover{break-after:page;page-break-after:always;min-height:9in;display:flex;flex-direction:column;justify-content:center;padding:0 0.4in;background:#0A1A2F;color:#F8FAFC;}
.cover .brand{color:#C6A13B;letter-spacing:0.3em;font-weight:700;font-size:10pt;margin-bottom:1.5rem;}
.cover h1{font-size:32pt;margin:0 0 0.5rem 0;color:#fff;}
.cover .subtitle{font-size:16pt;color:#F5D76F;margin-bottom:2rem;}
.cover .location{font-size:13pt;margin-bottom:2rem;}
.cover .meta{font-size:10pt;color:#CBD5E1;}
.cover .confidential{margin-top:3rem;font-size:8pt;color:#94A3B8;}
.page{break-after:page;page-break-after:always;}
.page:last-child{break-after:auto;page-break-after:auto;}
h2[data-page-title="true"]{font-size:20pt;color:#0A1A2F;border-bottom:3px solid #C6A13B;padding-bottom:0.3rem;margin-top:0;}
h3{font-size:13pt;color:#2C3E5A;margin-top:1.2rem;}
h4{font-size:11pt;color:#4A5B6E;}
blockquote{border-left:4px solid #C6A13B;background:#FDF9E7;margin:1rem 0;padding:0.5rem 0.9rem;}
table{width:100%;border-collapse:collapse;font-size:9.5pt;margin:0.8rem 0;}
th,td{border:1px solid #CBD5E1;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}
thead th{background:#F1F5F9;font-weight:700;}
a{color:#3B82F6;}
.disclaimer{margin-top:1.5rem;padding:0.7rem;border:1px solid #E2E8F0;background:#F8FAFC;font-size:8.5pt;color:#4A5B6E;}
`

package pdf

import (
	"context"
	"errors"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/joelkehle/veridian-reports/internal/location"
	"github.com/joelkehle/veridian-reports/internal/report"
	"github.com/joelkehle/veridian-reports/internal/store"
)

type fakePrinter struct {
	got string
	out []byte
	err error
}

func (f *fakePrinter) Print(_ context.Context, htmlDoc string) ([]byte, error) {
	f.got = htmlDoc
	return f.out, f.err
}

func sampleRequest() report.Request {
	return report.Request{
		Company: report.Company{
			Name:     "Ridge & Pine | Labs",
			Industry: "Real Estate",
			Size:     report.Size11To50,
			Budget:   report.Budget10KTo50K,
		},
		Location: report.Location{City: "Boise", State: "id"},
		Strategy: report.Strategy{
			Primary:   report.FocusCompliance,
			Secondary: []string{"talent"},
			Timeline:  report.Timeline3Months,
			Concerns:  "How do tokenized deeds interact with state escrow rules?",
			Goals:     "Pilot one fractional ownership listing this year.",
		},
	}
}

var reTag = regexp.MustCompile(`<[^>]+>`)

func visibleText(doc string) string {
	return html.UnescapeString(reTag.ReplaceAllString(doc, " "))
}

func TestHTMLRequiresIDAndCompany(t *testing.T) {
	r := NewRenderer(&fakePrinter{})
	for _, doc := range []Document{
		{CompanyName: "Acme"},
		{ID: "r-1", CompanyName: "   "},
	} {
		if _, err := r.HTML(doc); !errors.Is(err, ErrInvalidReport) {
			t.Fatalf("expected ErrInvalidReport for %+v, got %v", doc, err)
		}
	}
	if _, err := r.Render(context.Background(), Document{}); !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("render: expected ErrInvalidReport, got %v", err)
	}
}

func TestTemplatedReportPrintsOneDisclaimer(t *testing.T) {
	bundle, err := report.NewAssembler(report.NewSeededRand(2)).Assemble(sampleRequest())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if strings.Contains(strings.ToUpper(bundle.ExecutiveSummary), "DISCLAIMER") {
		t.Fatalf("templated summary should not carry a disclaimer:\n%s", bundle.ExecutiveSummary)
	}
	out, err := NewRenderer(&fakePrinter{}).HTML(Document{ID: "r-1", CompanyName: "Ridge", State: "id", Content: &bundle})
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if n := strings.Count(out, `class="disclaimer"`); n != 1 {
		t.Fatalf("disclaimer paragraphs=%d, want 1", n)
	}
	if !strings.Contains(visibleText(out), "Consult with qualified professionals in ID") {
		t.Fatal("risk page disclaimer missing state")
	}
}

// A stored and reloaded report must still print every section heading.
func TestStoredReportRendersAllSections(t *testing.T) {
	ctx := context.Background()
	req := sampleRequest()
	asm := report.NewAssembler(report.NewSeededRand(7))
	bundle, err := asm.Assemble(req)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "reports.db"), store.Config{})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer s.Close()
	cls := location.Classify(req.Location.City, req.Location.State)
	rec, err := s.Create(ctx, store.CreateInput{UserID: "u", Request: req, LocationTier: cls.Tier, NearestMajorCity: cls.NearestMajorCity})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Complete(ctx, rec.ID, bundle); err != nil {
		t.Fatalf("complete: %v", err)
	}
	loaded, err := s.Get(ctx, rec.ID, "u")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	out, err := NewRenderer(&fakePrinter{}).HTML(DocumentFromRecord(loaded))
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	text := visibleText(out)
	for _, title := range report.SectionTitles {
		if !strings.Contains(text, title) {
			t.Errorf("rendered report missing section %q", title)
		}
	}
	for _, want := range []string{
		"ID Regulatory Landscape",
		"90-Day Implementation Roadmap",
		"Ridge & Pine | Labs",
		"Based on your location, prioritize compliance in the first 30 days.",
		"Consult with qualified professionals in ID before implementing.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}
	if n := strings.Count(out, "<section class='page'>"); n != 8 {
		t.Fatalf("content pages=%d, want 8", n)
	}
	if strings.Count(out, `data-page-title="true"`) != 8 {
		t.Fatalf("every page should carry a title hook")
	}
}

func TestHTMLFallsBackWithoutContent(t *testing.T) {
	doc := Document{
		ID:           "r-2",
		CompanyName:  "Acme",
		City:         "Denver",
		State:        "co",
		LocationTier: location.TierMajor,
		CreatedAt:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	out, err := NewRenderer(&fakePrinter{}).HTML(doc)
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	text := visibleText(out)
	for _, want := range []string{"Denver, CO", "June 1, 2025", "CO Regulatory Landscape", notAvailable, "major"} {
		if !strings.Contains(text, want) {
			t.Errorf("fallback output missing %q", want)
		}
	}
	// Checklist falls back to the state's static actions.
	if !strings.Contains(text, location.RegulatoryActions("CO")[0]) {
		t.Errorf("expected static CO actions in checklist")
	}
}

func TestRenderPassesHTMLToPrinter(t *testing.T) {
	p := &fakePrinter{out: []byte("%PDF-1.7")}
	out, err := NewRenderer(p).Render(context.Background(), Document{ID: "r-3", CompanyName: "<script>x</script>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "%PDF-1.7" {
		t.Fatalf("unexpected bytes %q", out)
	}
	if strings.Contains(p.got, "<script>") {
		t.Fatalf("company name not escaped: %s", p.got)
	}

	p.err = errors.New("chrome exited")
	if _, err := NewRenderer(p).Render(context.Background(), Document{ID: "r-3", CompanyName: "Acme"}); err == nil || !strings.Contains(err.Error(), "chrome exited") {
		t.Fatalf("expected printer error, got %v", err)
	}
}

func TestExecutiveSummaryHeadingsAreDemoted(t *testing.T) {
	doc := Document{
		ID:          "r-4",
		CompanyName: "Acme",
		Content:     &report.Bundle{ExecutiveSummary: "# Overview\n\n## Detail\n\ntext"},
	}
	out, err := NewRenderer(&fakePrinter{}).HTML(doc)
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(out, "<h3>Overview</h3>") || !strings.Contains(out, "<h4>Detail</h4>") {
		t.Fatalf("headings not demoted: %s", out)
	}
	if strings.Contains(out, "<h1>Overview") {
		t.Fatal("summary h1 leaked into page")
	}
}

func TestApplyPrintLayoutHooks(t *testing.T) {
	in := "<h2>Risk Assessment</h2><p>x</p><h2>Other</h2><p><strong>DISCLAIMER:</strong> y</p>"
	out := applyPrintLayoutHooks(in)
	if !strings.HasPrefix(out, `<h2 data-page-title="true">Risk Assessment</h2>`) {
		t.Fatalf("expected title hook, got: %s", out)
	}
	if strings.Count(out, "data-page-title") != 1 {
		t.Fatalf("only the leading heading is a page title: %s", out)
	}
	if !strings.Contains(out, `<p class="disclaimer"><strong>DISCLAIMER:</strong>`) {
		t.Fatalf("expected disclaimer hook, got: %s", out)
	}
}

func TestFilename(t *testing.T) {
	cases := map[string]string{
		"Acme":                "Veridian_Report_Acme.pdf",
		"Ridge & Pine | Labs": "Veridian_Report_Ridge___Pine___Labs.pdf",
		" Café 42 ":           "Veridian_Report_Caf__42.pdf",
	}
	for in, want := range cases {
		if got := Filename(in); got != want {
			t.Errorf("Filename(%q)=%q want %q", in, got, want)
		}
	}
}

func TestRoadmapTitle(t *testing.T) {
	cases := map[report.Timeline]string{
		report.Timeline3Months:  "90-Day Implementation Roadmap",
		report.Timeline6Months:  "6-Month Implementation Roadmap",
		report.Timeline12Months: "12-Month Implementation Roadmap",
		"":                      "Implementation Roadmap",
	}
	for in, want := range cases {
		if got := roadmapTitle(in); got != want {
			t.Errorf("roadmapTitle(%q)=%q want %q", in, got, want)
		}
	}
}

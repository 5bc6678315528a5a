package report

import (
	"errors"
	"strings"
	"testing"
)

func problemFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	fields := make([]string, 0, len(verr.Problems))
	for _, p := range verr.Problems {
		fields = append(fields, p.Field)
	}
	return fields
}

func TestValidateAcceptsCompleteRequest(t *testing.T) {
	if err := Validate(validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := validRequest()
	req.Company.Website = ""
	req.Location.State = " wy "
	if err := Validate(req); err != nil {
		t.Fatalf("optional website and lower-case state should pass: %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	req := Request{
		Company: Company{
			Name:        "A",
			Website:     "acme.com",
			Size:        "huge",
			Budget:      "lots",
			Description: strings.Repeat("x", 501),
		},
		Location: Location{City: "X", State: "Texas"},
		Strategy: Strategy{
			Primary:   "growth",
			Secondary: []string{" "},
			Timeline:  "2-weeks",
			Concerns:  "short",
			Goals:     strings.Repeat("g", 1001),
		},
	}
	got := problemFields(t, Validate(req))
	want := []string{
		"company.name", "company.website", "company.industry", "company.size", "company.budget",
		"company.description", "location.city", "location.state", "strategy.primary",
		"strategy.secondary", "strategy.timeline", "strategy.concerns", "strategy.goals",
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("fields=%v\nwant   %v", got, want)
	}
	if msg := Validate(req).Error(); !strings.HasPrefix(msg, "invalid report request: company.name: must be at least 2 characters") {
		t.Fatalf("error message=%q", msg)
	}
}

func TestValidStateCode(t *testing.T) {
	for in, want := range map[string]bool{
		"TX":   true,
		"wy":   true,
		" ca ": true,
		"ZZ":   true,
		"T":    false,
		"TEX":  false,
		"T1":   false,
		"":     false,
		"é":    false,
	} {
		if got := ValidStateCode(in); got != want {
			t.Fatalf("ValidStateCode(%q)=%v want %v", in, got, want)
		}
	}
}

func TestValidateWebsite(t *testing.T) {
	for in, ok := range map[string]bool{
		"https://acme.example.com": true,
		"http://acme.io/about":     true,
		"ftp://acme.io":            false,
		"acme.io":                  false,
		"https://":                 false,
	} {
		req := validRequest()
		req.Company.Website = in
		err := Validate(req)
		if ok && err != nil {
			t.Fatalf("%q rejected: %v", in, err)
		}
		if !ok && err == nil {
			t.Fatalf("%q accepted", in)
		}
	}
}

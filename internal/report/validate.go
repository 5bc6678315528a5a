package report

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"
)

var (
	validSizes     = []CompanySize{Size1To10, Size11To50, Size51To200, Size201To500, Size500Plus}
	validBudgets   = []Budget{BudgetUnder10K, Budget10KTo50K, Budget50KTo100K, Budget100KTo250K, Budget250KPlus}
	validFocuses   = []Focus{FocusCompliance, FocusTalent, FocusFundraising, FocusProduct, FocusGoToMarket, FocusPartnerships}
	validTimelines = []Timeline{Timeline3Months, Timeline6Months, Timeline12Months}
)

type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every problem found in a request.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return "invalid report request: " + strings.Join(parts, "; ")
}

type problems []FieldProblem

func (p *problems) add(field, format string, args ...any) {
	*p = append(*p, FieldProblem{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (p *problems) length(field, value string, lo, hi int) {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	switch {
	case n < lo:
		p.add(field, "must be at least %d characters", lo)
	case n > hi:
		p.add(field, "must be at most %d characters", hi)
	}
}

// Validate checks a request against the wizard's field rules and returns a
// *ValidationError listing every problem, or nil.
func Validate(req Request) error {
	var p problems

	c := req.Company
	p.length("company.name", c.Name, 2, 100)
	if w := strings.TrimSpace(c.Website); w != "" && !validWebsite(w) {
		p.add("company.website", "must be an absolute http or https URL")
	}
	if strings.TrimSpace(c.Industry) == "" {
		p.add("company.industry", "is required")
	}
	if !slices.Contains(validSizes, c.Size) {
		p.add("company.size", "must be one of %s", joinValues(validSizes))
	}
	if !slices.Contains(validBudgets, c.Budget) {
		p.add("company.budget", "must be one of %s", joinValues(validBudgets))
	}
	if utf8.RuneCountInString(c.Description) > 500 {
		p.add("company.description", "must be at most 500 characters")
	}

	p.length("location.city", req.Location.City, 2, 100)
	if !ValidStateCode(req.Location.State) {
		p.add("location.state", "must be a two-letter state code")
	}

	s := req.Strategy
	if !slices.Contains(validFocuses, s.Primary) {
		p.add("strategy.primary", "must be one of %s", joinValues(validFocuses))
	}
	if countNonBlank(s.Secondary) == 0 {
		p.add("strategy.secondary", "select at least one secondary focus")
	}
	if !slices.Contains(validTimelines, s.Timeline) {
		p.add("strategy.timeline", "must be one of %s", joinValues(validTimelines))
	}
	p.length("strategy.concerns", s.Concerns, 10, 1000)
	p.length("strategy.goals", s.Goals, 10, 1000)

	if len(p) > 0 {
		return &ValidationError{Problems: p}
	}
	return nil
}

// ValidStateCode reports whether s is two ASCII letters after trimming.
// Membership in the regulation table is not required.
func ValidStateCode(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i] | 0x20
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

func validWebsite(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func countNonBlank(values []string) int {
	n := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

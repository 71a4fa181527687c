package evaluations

import (
	"regexp"
	"strings"
	"testing"

	"star-backend/internal/catalog"
	"star-backend/internal/interview"
)

var numberedLine = regexp.MustCompile(`(?m)^\d+\. `)

func sampleContext() interview.Context {
	return interview.Context{
		Role:            "AI/ML Engineer",
		Company:         "Amazon",
		ExperienceLevel: "Mid-level (3-5 years)",
		Question:        "Tell me about a time you disagreed with your manager.",
		Answer:          strings.Repeat("I led the migration of our ranking model. ", 3),
	}
}

// principlesBlock returns the text between the principles heading and the answer heading.
func principlesBlock(t *testing.T, user string) string {
	t.Helper()
	_, rest, ok := strings.Cut(user, "Leadership Principles (")
	if !ok {
		t.Fatalf("principles heading missing:\n%s", user)
	}
	block, _, ok := strings.Cut(rest, "**Candidate's Answer:**")
	if !ok {
		t.Fatalf("answer heading missing:\n%s", user)
	}
	return block
}

func TestBuildPromptEmbedsContext(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	ic := sampleContext()
	values := cat.ValuesOrEmpty(ic.Company)

	p, err := BuildPrompt(ic, values)
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if !strings.Contains(p.System, "STAR method") {
		t.Fatalf("unexpected system text %q", p.System)
	}
	for _, want := range []string{ic.Role, ic.Company, ic.ExperienceLevel, ic.Question, ic.Answer, "1. Customer Obsession"} {
		if !strings.Contains(p.User, want) {
			t.Fatalf("expected %q in user prompt", want)
		}
	}
	if got := len(numberedLine.FindAllString(principlesBlock(t, p.User), -1)); got != len(values.Principles) {
		t.Fatalf("expected %d numbered principles, got %d", len(values.Principles), got)
	}
	if !strings.Contains(p.User, "no code fences") {
		t.Fatalf("expected JSON-only instruction")
	}
}

func TestBuildPromptListsDimensionsInOrder(t *testing.T) {
	p, err := BuildPrompt(sampleContext(), catalog.CompanyValues{Name: "Amazon"})
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	last := -1
	for _, name := range Dimensions("Amazon") {
		idx := strings.Index(p.User, `"dimension": "`+name+`"`)
		if idx < 0 {
			t.Fatalf("dimension %q missing", name)
		}
		if idx < last {
			t.Fatalf("dimension %q out of order", name)
		}
		last = idx
	}
	for _, key := range []string{`"starAnalysis"`, `"rewriteSuggestions"`, `"interviewReadyAssessment"`, `"lengthTimingFeedback"`} {
		if !strings.Contains(p.User, key) {
			t.Fatalf("expected schema key %s", key)
		}
	}
}

func TestBuildPromptWithoutPrinciples(t *testing.T) {
	ic := sampleContext()
	ic.Company = "Wakanda"
	p, err := BuildPrompt(ic, catalog.CompanyValues{Name: "Wakanda", Principles: []string{}})
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if p.System == "" || p.User == "" {
		t.Fatalf("expected non-empty prompt")
	}
	if got := numberedLine.FindAllString(principlesBlock(t, p.User), -1); len(got) != 0 {
		t.Fatalf("expected no numbered principles, got %v", got)
	}
	if !strings.Contains(p.User, "Wakanda Leadership Principles") {
		t.Fatalf("expected company-specific dimension")
	}
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	values := catalog.CompanyValues{Name: "Google", Principles: []string{"Focus on the user", "Think big"}}
	a, _ := BuildPrompt(sampleContext(), values)
	b, _ := BuildPrompt(sampleContext(), values)
	if a != b {
		t.Fatalf("expected identical prompts")
	}
}

package evaluations

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"star-backend/internal/catalog"
	"star-backend/internal/interview"
)

//go:embed prompts/system.txt
var systemPrompt string

//go:embed prompts/user.tmpl
var userTemplateText string

var userTemplate = template.Must(template.New("evaluation_user").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(userTemplateText))

// dimension is one scored rubric row. The principles row is named per company.
type dimension struct {
	Name string
	Hint string
}

var starSections = []string{"situation", "task", "action", "result"}

// Dimensions returns the scored rubric rows, in order, for company.
func Dimensions(company string) []string {
	dims := dimensionsFor(company)
	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = d.Name
	}
	return names
}

func dimensionsFor(company string) []dimension {
	return []dimension{
		{Name: "Situation Clarity", Hint: "Detailed explanation"},
		{Name: "Task Definition", Hint: "Detailed explanation"},
		{Name: "Actions Taken", Hint: "Detailed explanation"},
		{Name: "Results & Impact", Hint: "Detailed explanation"},
		{Name: company + " Leadership Principles", Hint: "Detailed explanation showing which principles are demonstrated"},
		{Name: "Technical Depth (Role-Relevant)", Hint: "Detailed explanation"},
		{Name: "Communication & Structure", Hint: "Detailed explanation"},
	}
}

type promptData struct {
	Role            string
	Company         string
	ExperienceLevel string
	Question        string
	Answer          string
	Principles      []string
	Dimensions      []dimension
	Sections        []string
}

// BuildPrompt renders the evaluation instructions for ic. values may carry
// zero principles; the prompt then lists none.
func BuildPrompt(ic interview.Context, values catalog.CompanyValues) (interview.Prompt, error) {
	var buf bytes.Buffer
	err := userTemplate.Execute(&buf, promptData{
		Role:            ic.Role,
		Company:         ic.Company,
		ExperienceLevel: ic.ExperienceLevel,
		Question:        ic.Question,
		Answer:          ic.Answer,
		Principles:      values.Principles,
		Dimensions:      dimensionsFor(ic.Company),
		Sections:        starSections,
	})
	if err != nil {
		return interview.Prompt{}, fmt.Errorf("render evaluation prompt: %w", err)
	}
	return interview.Prompt{
		System: strings.TrimSpace(systemPrompt),
		User:   buf.String(),
	}, nil
}

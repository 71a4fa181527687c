package generations

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"star-backend/internal/catalog"
	"star-backend/internal/interview"
)

var (
	//go:embed prompts/system.txt
	systemPrompt string

	//go:embed prompts/user.tmpl
	userTemplateText string

	userTemplate = template.Must(template.New("generation_user").Parse(userTemplateText))
)

type promptData struct {
	Role             string
	Company          string
	ExperienceLevel  string
	Question         string
	CandidateContext string
	Principles       []string
}

// BuildPrompt renders the generation instructions for ic. Without candidate
// context the model is told to invent a realistic example.
func BuildPrompt(ic interview.Context, values catalog.CompanyValues) (interview.Prompt, error) {
	var buf bytes.Buffer
	err := userTemplate.Execute(&buf, promptData{
		Role:             ic.Role,
		Company:          ic.Company,
		ExperienceLevel:  ic.ExperienceLevel,
		Question:         ic.Question,
		CandidateContext: strings.TrimSpace(ic.FreeformContext),
		Principles:       values.Principles,
	})
	if err != nil {
		return interview.Prompt{}, fmt.Errorf("render generation prompt: %w", err)
	}
	return interview.Prompt{
		System: strings.TrimSpace(systemPrompt),
		User:   strings.TrimRight(buf.String(), "\n"),
	}, nil
}

// InterpretResponse trims the model's answer. Blank output is an error.
func InterpretResponse(raw string) (string, error) {
	answer := strings.TrimSpace(raw)
	if answer == "" {
		return "", interview.ErrEmptyResponse
	}
	return answer, nil
}

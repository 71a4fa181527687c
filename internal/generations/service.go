// Package generations drafts an example STAR answer for an interview question.
package generations

import (
	"context"
	"errors"
	"time"

	"star-backend/internal/catalog"
	"star-backend/internal/interview"
	"star-backend/internal/llm"
	"star-backend/internal/shared/metrics"
	"star-backend/internal/shared/telemetry"
	"star-backend/internal/usage"
)

const (
	temperature = 0.8
	maxTokens   = 1500
	opGenerate  = "generate answer"
)

// Request is the generate-answer payload. Context is optional.
type Request struct {
	TargetRole      string `json:"targetRole" binding:"required"`
	TargetCompany   string `json:"targetCompany" binding:"required"`
	ExperienceLevel string `json:"experienceLevel" binding:"required"`
	Question        string `json:"question" binding:"required,min=10"`
	Context         string `json:"context"`
}

var validationMessages = map[string]string{
	"question.min": "Question must be at least 10 characters long",
}

func (r Request) interviewContext() interview.Context {
	return interview.Context{
		Role:            r.TargetRole,
		Company:         r.TargetCompany,
		ExperienceLevel: r.ExperienceLevel,
		Question:        r.Question,
		FreeformContext: r.Context,
	}
}

// Service generates answers.
type Service struct {
	Catalog *catalog.Catalog
	LLM     llm.Client
	Usage   *usage.Service
}

// Generate validates ic and returns a STAR answer drafted by the model.
// Companies without a principle set get a prompt listing none.
func (s *Service) Generate(ctx context.Context, ic interview.Context) (string, error) {
	req := Request{
		TargetRole:      ic.Role,
		TargetCompany:   ic.Company,
		ExperienceLevel: ic.ExperienceLevel,
		Question:        ic.Question,
		Context:         ic.FreeformContext,
	}
	if err := interview.Validate(req, validationMessages); err != nil {
		return "", err
	}

	start := time.Now()
	answer, err := s.generate(ctx, ic)

	status := usage.StatusOK
	if err != nil {
		status = usage.StatusFailed
		if !errors.Is(err, context.Canceled) {
			telemetry.Error("generation.failed", map[string]any{
				"code":  interview.ErrorCode(err),
				"error": err,
			})
		}
	}
	s.Usage.Record(ctx, usage.Event{
		Kind:       usage.KindGenerate,
		Role:       ic.Role,
		Company:    ic.Company,
		Status:     status,
		ErrorCode:  interview.ErrorCode(err),
		DurationMs: time.Since(start).Milliseconds(),
	})
	return answer, err
}

func (s *Service) generate(ctx context.Context, ic interview.Context) (string, error) {
	metrics.IncGenerationRequests()
	prompt, err := BuildPrompt(ic, s.Catalog.ValuesOrEmpty(ic.Company))
	if err != nil {
		return "", err
	}

	llmStart := time.Now()
	raw, err := s.LLM.Complete(ctx, llm.Request{
		System:      prompt.System,
		User:        prompt.User,
		Format:      llm.FormatText,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	metrics.ObserveLLMDurationMs(float64(time.Since(llmStart).Milliseconds()))
	if err != nil {
		metrics.IncLLMFailures()
		return "", &interview.UpstreamError{Op: opGenerate, Err: err}
	}

	answer, err := InterpretResponse(raw)
	if err != nil {
		metrics.IncLLMFailures()
		return "", &interview.UpstreamError{Op: opGenerate, Err: err}
	}
	return answer, nil
}

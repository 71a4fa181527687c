// Package evaluations scores a candidate's STAR answer against the interview
// rubric using the configured model.
package evaluations

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
	temperature = 0.7
	maxTokens   = 4000
	opEvaluate  = "evaluate answer"
)

// Request is the evaluate payload.
type Request struct {
	TargetRole      string `json:"targetRole" binding:"required"`
	TargetCompany   string `json:"targetCompany" binding:"required"`
	ExperienceLevel string `json:"experienceLevel" binding:"required"`
	Question        string `json:"question" binding:"required"`
	Answer          string `json:"answer" binding:"required,min=50,max=10000"`
}

var validationMessages = map[string]string{
	"answer.min": "Answer must be at least 50 characters long",
	"answer.max": "Answer must be less than 10,000 characters",
}

// Context converts the payload into the shared interview model.
func (r Request) Context() interview.Context {
	return interview.Context{
		Role:            r.TargetRole,
		Company:         r.TargetCompany,
		ExperienceLevel: r.ExperienceLevel,
		Question:        r.Question,
		Answer:          r.Answer,
	}
}

func requestFrom(ic interview.Context) Request {
	return Request{
		TargetRole:      ic.Role,
		TargetCompany:   ic.Company,
		ExperienceLevel: ic.ExperienceLevel,
		Question:        ic.Question,
		Answer:          ic.Answer,
	}
}

// Service evaluates answers.
type Service struct {
	Catalog *catalog.Catalog
	LLM     llm.Client
	Usage   *usage.Service

	// SchemaCheck rejects results whose scored dimensions do not match the rubric.
	SchemaCheck bool
	// StripFences accepts a result wrapped in a markdown code fence.
	StripFences bool
}

// Evaluate validates ic, asks the model for a rubric evaluation and returns
// the parsed result.
func (s *Service) Evaluate(ctx context.Context, ic interview.Context) (Result, error) {
	if err := interview.Validate(requestFrom(ic), validationMessages); err != nil {
		return Result{}, err
	}

	start := time.Now()
	res, err := s.evaluate(ctx, ic)
	s.record(ctx, ic, start, err)
	return res, err
}

func (s *Service) evaluate(ctx context.Context, ic interview.Context) (Result, error) {
	metrics.IncEvaluationRequests()
	values := s.Catalog.ValuesOrEmpty(ic.Company)
	prompt, err := BuildPrompt(ic, values)
	if err != nil {
		return Result{}, err
	}

	llmStart := time.Now()
	raw, err := s.LLM.Complete(ctx, llm.Request{
		System:      prompt.System,
		User:        prompt.User,
		Format:      llm.FormatJSON,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	metrics.ObserveLLMDurationMs(float64(time.Since(llmStart).Milliseconds()))
	if err != nil {
		metrics.IncLLMFailures()
		return Result{}, &interview.UpstreamError{Op: opEvaluate, Err: err}
	}

	res, err := s.interpret(raw)
	if err != nil {
		metrics.IncLLMFailures()
		return Result{}, &interview.MalformedResponseError{Err: err}
	}
	if s.SchemaCheck {
		rub, err := res.Rubric()
		if err == nil {
			err = rub.Validate(ic.Company)
		}
		if err != nil {
			metrics.IncLLMFailures()
			return Result{}, &interview.MalformedResponseError{Err: err}
		}
	}
	return res, nil
}

func (s *Service) interpret(raw string) (Result, error) {
	if !s.StripFences {
		return InterpretResponse(raw)
	}
	res, stripped, err := InterpretResponseLenient(raw)
	if stripped {
		telemetry.Warn("evaluation.fence_stripped", map[string]any{"parsed": err == nil})
	}
	return res, err
}

func (s *Service) record(ctx context.Context, ic interview.Context, start time.Time, err error) {
	status := usage.StatusOK
	if err != nil {
		status = usage.StatusFailed
		fields := map[string]any{
			"code":  interview.ErrorCode(err),
			"error": err,
		}
		if errors.Is(err, context.Canceled) {
			telemetry.Info("evaluation.cancelled", fields)
		} else {
			telemetry.Error("evaluation.failed", fields)
		}
	}
	s.Usage.Record(ctx, usage.Event{
		Kind:       usage.KindEvaluate,
		Role:       ic.Role,
		Company:    ic.Company,
		Status:     status,
		ErrorCode:  interview.ErrorCode(err),
		DurationMs: time.Since(start).Milliseconds(),
	})
}

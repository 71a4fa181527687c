package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"star-backend/internal/llm"
	"star-backend/internal/shared/telemetry"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	providerName   = "gemini"
)

// Client implements llm.Client using the Gemini generateContent API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a Gemini client. A nil httpClient gets a 120s timeout.
func NewClient(baseURL, apiKey, model string, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required for Gemini")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Complete sends one system+user exchange and returns the first candidate's text.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.User}}}},
		GenerationConfig: generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}
	if strings.TrimSpace(req.System) != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.System}}}
	}
	if req.Format == llm.FormatJSON {
		body.GenerationConfig.ResponseMimeType = "application/json"
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini response read: %w", err)
	}

	var parsed generateResponse
	parseErr := json.Unmarshal(respBody, &parsed)
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(respBody))
		if parseErr == nil && parsed.Error != nil {
			msg = fmt.Sprintf("%s (%s)", parsed.Error.Message, parsed.Error.Status)
		}
		if len(msg) > 500 {
			msg = msg[:500]
		}
		return "", &llm.HTTPError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
			Body:       msg,
		}
	}
	if parseErr != nil {
		return "", fmt.Errorf("gemini response parse: %w", parseErr)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("gemini response missing candidates")
	}

	var b strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}

	fields := map[string]any{
		"provider":      providerName,
		"model":         c.model,
		"json_mode":     req.Format == llm.FormatJSON,
		"duration_ms":   time.Since(start).Milliseconds(),
		"finish_reason": parsed.Candidates[0].FinishReason,
	}
	if u := parsed.UsageMetadata; u != nil {
		fields["prompt_tokens"] = u.PromptTokenCount
		fields["completion_tokens"] = u.CandidatesTokenCount
		fields["total_tokens"] = u.TotalTokenCount
	}
	telemetry.Info("llm.call", fields)

	return b.String(), nil
}

func retryAfter(raw string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

var _ llm.Client = (*Client)(nil)

package usage

import "time"

// Kind is the operation a usage event records.
type Kind string

const (
	KindEvaluate Kind = "evaluate"
	KindGenerate Kind = "generate"
)

// Status is the outcome of a recorded operation.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Event is one model-backed request. Answers and generated text are never stored.
type Event struct {
	ID         string
	Kind       Kind
	ClientKey  string
	Role       string
	Company    string
	Status     Status
	ErrorCode  string
	DurationMs int64
	CreatedAt  time.Time
}

// Summary aggregates a client's events.
type Summary struct {
	Evaluations int `json:"evaluations"`
	Generations int `json:"generations"`
	Failed      int `json:"failed"`
}

func (s *Summary) add(kind Kind, status Status, n int) {
	if status == StatusFailed {
		s.Failed += n
		return
	}
	switch kind {
	case KindEvaluate:
		s.Evaluations += n
	case KindGenerate:
		s.Generations += n
	}
}

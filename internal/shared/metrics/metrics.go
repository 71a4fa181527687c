package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	evaluationRequestsTotal atomic.Uint64
	generationRequestsTotal atomic.Uint64
	llmFailuresTotal        atomic.Uint64
	rateLimitedTotal        atomic.Uint64

	llmDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 20000, 30000, 60000, 120000})
)

// IncEvaluationRequests counts an evaluation that reached the model.
func IncEvaluationRequests() {
	evaluationRequestsTotal.Add(1)
}

// IncGenerationRequests counts a generation that reached the model.
func IncGenerationRequests() {
	generationRequestsTotal.Add(1)
}

// IncLLMFailures counts a failed or uninterpretable model call.
func IncLLMFailures() {
	llmFailuresTotal.Add(1)
}

// IncRateLimited counts a request rejected by the rate limiter.
func IncRateLimited() {
	rateLimitedTotal.Add(1)
}

// ObserveLLMDurationMs records a model call duration in milliseconds.
func ObserveLLMDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	llmDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "evaluation_requests_total", "Total answer evaluations sent to the model", evaluationRequestsTotal.Load())
	writeCounter(&buf, "generation_requests_total", "Total answer generations sent to the model", generationRequestsTotal.Load())
	writeCounter(&buf, "llm_failures_total", "Total model calls that failed or returned unusable output", llmFailuresTotal.Load())
	writeCounter(&buf, "rate_limited_requests_total", "Total requests rejected by the rate limiter", rateLimitedTotal.Load())
	writeHistogram(&buf, "llm_duration_ms", "Model call duration in milliseconds", llmDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	// counts are per-bucket; writeHistogram makes them cumulative.
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Package providers implements the hosted analysis path: an
// OpenAI-compatible chat-completions client that asks a model to emit
// drift events as JSON. Hosted output feeds the same deterministic
// scoring layer as the heuristic detectors; callers fall back to the
// heuristics when the hosted call fails.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/probelabs/driftscan/internal/transcript"
	"github.com/probelabs/driftscan/pkg/report"
)

const (
	defaultTimeout = 60 * time.Second

	// Transcript serialization budget for the prompt. Oversized
	// transcripts keep the head where preferences are usually stated and
	// the tail where drift shows up.
	promptMaxChars = 24_000
	promptHead     = 0.7

	// Requests per minute against the hosted endpoint.
	defaultRPM   = 20
	defaultBurst = 5
)

// RetryConfig controls exponential backoff for failed hosted calls.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig returns sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  1 * time.Second,
		MaxDelay:   15 * time.Second,
	}
}

// HostedAnalyzer calls an OpenAI-compatible endpoint to detect drift
// events. Safe for concurrent use.
type HostedAnalyzer struct {
	apiBase string
	apiKey  string
	model   string
	httpc   *http.Client
	limiter *rate.Limiter
	retry   RetryConfig
}

// NewHostedAnalyzer creates a hosted analyzer for the given endpoint.
func NewHostedAnalyzer(apiBase, apiKey, model string) *HostedAnalyzer {
	return &HostedAnalyzer{
		apiBase: strings.TrimRight(apiBase, "/"),
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(float64(defaultRPM)/60.0), defaultBurst),
		retry:   DefaultRetryConfig(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AnalyzeTranscript asks the hosted model for drift events.
// The model's output is parsed leniently: malformed event records are
// skipped, unrecognized event types are carried through (they score 0).
func (a *HostedAnalyzer) AnalyzeTranscript(ctx context.Context, t *transcript.Transcript) ([]report.DriftEvent, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: serializeTranscript(t)},
		},
	})
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	var content string
	for attempt := 0; attempt <= a.retry.MaxRetries; attempt++ {
		content, err = a.call(ctx, reqBody, requestID)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < a.retry.MaxRetries {
			delay := backoffWithJitter(a.retry.BaseDelay, a.retry.MaxDelay, attempt)
			slog.Warn("hosted analysis failed, retrying",
				"request_id", requestID, "attempt", attempt+1, "delay", delay, "error", err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("hosted analysis: %w", err)
	}

	events := ParseEvents(content)
	slog.Debug("hosted analysis complete", "request_id", requestID, "events", len(events))
	return events, nil
}

func (a *HostedAnalyzer) call(ctx context.Context, body []byte, requestID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.apiBase+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(data))
	}

	var cr chatResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("api error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}
	return cr.Choices[0].Message.Content, nil
}

// serializeTranscript renders messages as "idx role: content" lines,
// clipped to the prompt budget with a head/tail split.
func serializeTranscript(t *transcript.Transcript) string {
	var b strings.Builder
	for _, m := range t.Messages {
		fmt.Fprintf(&b, "[%d] %s: %s\n", m.Idx, m.Role, m.Content)
	}
	s := b.String()
	if len(s) <= promptMaxChars {
		return s
	}
	head := int(float64(promptMaxChars) * promptHead)
	tail := promptMaxChars - head
	return s[:head] + "\n... [transcript truncated] ...\n" + s[len(s)-tail:]
}

// backoffWithJitter computes delay = min(base * 2^attempt, max) ± 25%.
func backoffWithJitter(base, max time.Duration, attempt int) time.Duration {
	delay := base << uint(attempt)
	if delay > max {
		delay = max
	}
	quarter := delay / 4
	if quarter > 0 {
		jitter := time.Duration(rand.Int64N(int64(quarter*2))) - quarter
		delay += jitter
	}
	return delay
}

func truncateBody(data []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(data))
	if len(s) > limit {
		s = s[:limit] + "…"
	}
	return s
}

const analysisSystemPrompt = `You inspect a conversation transcript between a user and an AI assistant for memory drift.

Report drift events as a JSON array, nothing else. Each event:
{
  "type": "repetition_cluster" | "session_reset" | "preference_forgotten" | "contradiction",
  "severity": 1-5,
  "confidence": 0.0-1.0,
  "summary": "one sentence",
  "evidence": {"msg_idxs": [..], "snippets": [".."]},
  "cluster_size": <repetition_cluster only>,
  "reset_phrase": "<session_reset only>",
  "preference_key": "<preference_forgotten only>",
  "preference_value": "<preference_forgotten only>",
  "old_value": "<contradiction only>",
  "new_value": "<contradiction only>"
}

msg_idxs must reference the bracketed message indices from the transcript. Return [] when there is no drift.`

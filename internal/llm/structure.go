package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jonathan/company-enricher/internal/prompts"
	"github.com/jonathan/company-enricher/internal/types"
)

// MaxPromptChars caps how much website text is sent to the model.
const MaxPromptChars = 2000

// DefaultSummary replaces a missing or empty summary in the model reply.
const DefaultSummary = "No summary available"

// Outcome is the result of a structuring attempt: either a usable Result,
// or the reason the model output could not be used.
type Outcome struct {
	Result      types.Structured
	Unavailable error
}

// Structured reports whether Result came from the model.
func (o Outcome) Structured() bool {
	return o.Unavailable == nil
}

// Structurer turns website text into a types.Structured using a model.
type Structurer struct {
	client  Client
	timeout time.Duration
}

// NewStructurer creates a Structurer. A nil client makes every call Unavailable with ErrNotConfigured.
func NewStructurer(client Client, timeout time.Duration) *Structurer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Structurer{client: client, timeout: timeout}
}

// Structure asks the model to summarize text from websiteURL.
//
// A *ProviderError is returned for quota, authentication and network failures.
// Every other failure, including an unparseable reply or a timeout, is reported
// through Outcome.Unavailable with a nil error.
func (s *Structurer) Structure(ctx context.Context, text, websiteURL string) (Outcome, error) {
	if s.client == nil {
		return Outcome{Unavailable: ErrNotConfigured}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.client.GenerateJSON(ctx, BuildPrompt(text, websiteURL))
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			return Outcome{}, perr
		}
		return Outcome{Unavailable: err}, nil
	}

	result, err := ParseReply(reply)
	if err != nil {
		return Outcome{Unavailable: err}, nil
	}
	return Outcome{Result: result}, nil
}

// BuildPrompt renders the structuring prompt for websiteURL, truncating text to MaxPromptChars.
func BuildPrompt(text, websiteURL string) string {
	template := prompts.MustGet("enrichment.json", "structure-website")
	return prompts.Format(template, map[string]string{
		"WebsiteURL": websiteURL,
		"Content":    truncate(text, MaxPromptChars),
	})
}

// ParseReply extracts and normalizes the JSON object in a model reply.
func ParseReply(reply string) (types.Structured, error) {
	raw, ok := ExtractJSONObject(reply)
	if !ok {
		return types.Structured{}, &ParseError{Message: "no JSON found in AI response"}
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return types.Structured{}, &ParseError{Message: "invalid JSON in AI response", Cause: err}
	}

	return normalize(parsed), nil
}

// normalize guarantees every field is present: missing or non-array lists become empty
// and a missing summary becomes DefaultSummary. Non-string list items are dropped.
func normalize(parsed map[string]any) types.Structured {
	summary, _ := parsed["summary"].(string)
	if summary == "" {
		summary = DefaultSummary
	}
	return types.Structured{
		Summary:    summary,
		WhatTheyDo: stringList(parsed["whatTheyDo"]),
		Keywords:   stringList(parsed["keywords"]),
		Signals:    stringList(parsed["signals"]),
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	out := make([]string, 0, len(items))
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

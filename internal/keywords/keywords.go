// Package keywords turns a job description into a deduplicated list of
// categorized keywords using the generative API.
package keywords

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/resumate/resumate/internal/apperr"
	"github.com/resumate/resumate/internal/llm"
	"github.com/resumate/resumate/pkg/logger"
	"github.com/resumate/resumate/pkg/metrics"
)

// MaxKeywords is the number of keywords the prompt asks for.
const MaxKeywords = 30

// Keyword is one extracted term. Category is one of skill, tool, cert, role,
// soft_skill, education or experience_level.
type Keyword struct {
	Text       string  `json:"text"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

var responseSchema = llm.MustSchema(`{
	"type": "object",
	"required": ["keywords"],
	"properties": {
		"keywords": {"type": "array"}
	}
}`)

const promptTemplate = `You extract keywords from job descriptions.
Respond with JSON only, no markdown and no commentary, in exactly this shape:

{
  "keywords": [
    {"text": "<string>", "category": "<skill|tool|cert|role|soft_skill|education|experience_level>", "confidence": <number from 0 to 1>}
  ]
}

List at most %d of the most important skills, tools, certifications and roles in the job description below.
Do not repeat a keyword. Keep the usual capitalization of tool names (for example React.js, AWS).

Job description:
"""
%s
"""`

// Extractor calls the generative API for keywords.
type Extractor struct {
	client llm.Client
}

func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

var generateOptions = llm.Options{Temperature: 0.2, MaxOutputTokens: 2048, RelaxedSafety: true}

// Extract returns the keywords of jd. An unparseable answer is retried once; a
// second failure yields an empty list rather than an error. A failing API call
// is returned as an *apperr.UpstreamError and never retried.
func (e *Extractor) Extract(ctx context.Context, jd string) ([]Keyword, error) {
	if strings.TrimSpace(jd) == "" {
		return nil, apperr.Invalid("jd", "Job description missing.")
	}
	prompt := fmt.Sprintf(promptTemplate, MaxKeywords, jd)

	for attempt := 1; attempt <= 2; attempt++ {
		text, err := e.client.Generate(ctx, prompt, generateOptions)
		if err != nil {
			metrics.LLMRequests.WithLabelValues("keywords", "error").Inc()
			return nil, apperr.Upstream("gemini", err)
		}
		var out struct {
			Keywords []json.RawMessage `json:"keywords"`
		}
		if err := llm.DecodeObject(text, responseSchema, &out); err != nil {
			metrics.LLMRequests.WithLabelValues("keywords", "unparseable").Inc()
			logger.Warnf("keywords: attempt %d: %v (output starts %q)", attempt, err, head(text, 200))
			continue
		}
		metrics.LLMRequests.WithLabelValues("keywords", "ok").Inc()
		return Dedupe(decodeItems(out.Keywords)), nil
	}
	logger.Errorf("keywords: model returned unusable output twice; returning empty list")
	return []Keyword{}, nil
}

// decodeItems keeps every item with a string text. A category or confidence of
// the wrong type is zeroed instead of discarding the item; a numeric string
// confidence is parsed.
func decodeItems(raw []json.RawMessage) []Keyword {
	out := make([]Keyword, 0, len(raw))
	for i, r := range raw {
		var item map[string]any
		if err := json.Unmarshal(r, &item); err != nil {
			logger.Debugf("keywords: item %d skipped: %v", i, err)
			continue
		}
		text, ok := item["text"].(string)
		if !ok {
			logger.Debugf("keywords: item %d skipped: text is %T", i, item["text"])
			continue
		}
		k := Keyword{Text: text}
		k.Category, _ = item["category"].(string)
		switch v := item["confidence"].(type) {
		case float64:
			k.Confidence = v
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				k.Confidence = f
			}
		}
		out = append(out, k)
	}
	return out
}

// Dedupe drops blank entries and case-insensitive duplicates, keeping the first
// occurrence with its text trimmed.
func Dedupe(in []Keyword) []Keyword {
	seen := make(map[string]struct{}, len(in))
	out := make([]Keyword, 0, len(in))
	for _, k := range in {
		text := strings.TrimSpace(k.Text)
		key := strings.ToLower(text)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		k.Text = text
		out = append(out, k)
	}
	return out
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

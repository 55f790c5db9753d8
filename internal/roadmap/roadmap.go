// Package roadmap builds a short learning plan from the gap between a job
// description and a resume. It makes two dependent generative API calls.
package roadmap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/resumate/resumate/internal/apperr"
	"github.com/resumate/resumate/internal/llm"
	"github.com/resumate/resumate/pkg/logger"
	"github.com/resumate/resumate/pkg/metrics"
)

const (
	// MaxPhases caps the number of roadmap steps returned.
	MaxPhases = 2
	// NoGapsMessage is returned with an empty roadmap when gap analysis finds nothing usable.
	NoGapsMessage = "Could not identify skill gaps for roadmap creation."
)

// Phase is one step of the learning plan. Models label steps with either week or phase.
type Phase struct {
	Week             string `json:"week,omitempty"`
	Phase            string `json:"phase,omitempty"`
	Focus            string `json:"focus"`
	TopicsSummary    string `json:"topics_summary"`
	ResourcesSummary string `json:"resources_summary"`
	Goal             string `json:"goal,omitempty"`
}

type Request struct {
	JobDescription string `json:"jobDescription"`
	Resume         string `json:"resume"`
	Duration       string `json:"duration"`
}

func (r Request) validate() error {
	if strings.TrimSpace(r.JobDescription) == "" || strings.TrimSpace(r.Resume) == "" || strings.TrimSpace(r.Duration) == "" {
		return apperr.Invalid("", "Job description, resume, and duration are required.")
	}
	return nil
}

// Result is the response body. Error is set only when the plan was short-circuited.
type Result struct {
	Roadmap []Phase `json:"roadmap"`
	Error   string  `json:"error,omitempty"`
}

var (
	gapSchema = llm.MustSchema(`{
		"type": "object",
		"required": ["missing_skills"],
		"properties": {"missing_skills": {"type": "array", "items": {"type": "string"}}}
	}`)
	roadmapSchema = llm.MustSchema(`{
		"type": "object",
		"required": ["roadmap"],
		"properties": {"roadmap": {"type": "array", "items": {"type": "object"}}}
	}`)

	gapOptions     = llm.Options{Temperature: 0.3, MaxOutputTokens: 512, JSON: true}
	roadmapOptions = llm.Options{Temperature: 0.3, MaxOutputTokens: 2048, JSON: true}
)

const gapPrompt = `You analyse skill gaps between a job description and a resume.
Name the three most important skills the job asks for that the resume lacks or shows only weakly.
Respond with JSON only, in exactly this shape: {"missing_skills": ["<skill>", "<skill>", "<skill>"]}

Job description: """%s"""
Resume: """%s"""`

const roadmapPrompt = `You are a career mentor writing a learning plan.
Skills to learn: %s.
The whole plan must fit in %s and have at most %d steps.

For each step give:
- "week" or "phase": when it happens
- "focus": the main theme
- "topics_summary": one short sentence on what to study
- "resources_summary": two or three key resources or URLs, comma separated
- "goal": the expected outcome in three to five words

Respond with JSON only, in exactly this shape:
{"roadmap": [{"week": "<string>", "focus": "<string>", "topics_summary": "<string>", "resources_summary": "<string>", "goal": "<string>"}]}`

// Generator runs gap analysis followed by roadmap generation.
type Generator struct {
	client  llm.Client
	timeout time.Duration
}

// NewGenerator returns a Generator whose generative API calls each get their own
// timeout. A non-positive timeout defaults to 30s.
func NewGenerator(client llm.Client, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Generator{client: client, timeout: timeout}
}

func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}

	var gaps struct {
		MissingSkills []string `json:"missing_skills"`
	}
	text, err := g.call(ctx, "gap", fmt.Sprintf(gapPrompt, req.JobDescription, req.Resume), gapOptions)
	if err != nil {
		return Result{}, err
	}
	if err := llm.DecodeObject(text, gapSchema, &gaps); err != nil {
		logger.Warnf("roadmap: gap analysis unusable: %v", err)
	}
	skills := cleanSkills(gaps.MissingSkills)
	if len(skills) == 0 {
		logger.Warnf("roadmap: no skill gaps identified; skipping roadmap call")
		return Result{Roadmap: []Phase{}, Error: NoGapsMessage}, nil
	}

	text, err = g.call(ctx, "roadmap", fmt.Sprintf(roadmapPrompt, strings.Join(skills, ", "), req.Duration, MaxPhases), roadmapOptions)
	if err != nil {
		return Result{}, err
	}
	var plan struct {
		Roadmap []Phase `json:"roadmap"`
	}
	if err := llm.DecodeObject(text, roadmapSchema, &plan); err != nil {
		logger.Warnf("roadmap: roadmap output unusable: %v", err)
		return Result{Roadmap: []Phase{}}, nil
	}
	if plan.Roadmap == nil {
		plan.Roadmap = []Phase{}
	}
	if len(plan.Roadmap) > MaxPhases {
		plan.Roadmap = plan.Roadmap[:MaxPhases]
	}
	return Result{Roadmap: plan.Roadmap}, nil
}

// call runs one generative request under its own deadline.
func (g *Generator) call(ctx context.Context, op, prompt string, opts llm.Options) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	text, err := g.client.Generate(ctx, prompt, opts)
	if err != nil {
		outcome := "error"
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			outcome = "timeout"
		}
		metrics.LLMRequests.WithLabelValues("roadmap_"+op, outcome).Inc()
		return "", apperr.Upstream("gemini", fmt.Errorf("%s call: %w", op, err))
	}
	metrics.LLMRequests.WithLabelValues("roadmap_"+op, "ok").Inc()
	return text, nil
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

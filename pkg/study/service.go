package study

import (
	"context"
	"fmt"

	"ai-studyguide-be/pkg/genai"
)

// DetectionCharLimit caps how much of the document is sent to the domain
// classifier. Generation always receives the full text.
const DetectionCharLimit = 4000

// CompletionClient is the slice of the Gemini client this package needs.
// A test double returning canned schema-shaped responses satisfies it.
type CompletionClient interface {
	GenerateStructured(ctx context.Context, model string, prompt string, schema *genai.Schema, out interface{}) error
}

type Config struct {
	DetectionModel  string // fast model used for the domain gate
	GenerationModel string // heavyweight model used for guide generation
	TargetDomain    string // the only domain the gate lets through
}

func (c *Config) defaults() {
	if c.DetectionModel == "" {
		c.DetectionModel = "gemini-2.5-flash"
	}
	if c.GenerationModel == "" {
		c.GenerationModel = "gemini-2.5-pro"
	}
	if c.TargetDomain == "" {
		c.TargetDomain = DomainDentistry
	}
}

// Service implements the domain gate and the study guide generator on top of
// a structured completion client.
type Service struct {
	client CompletionClient
	cfg    Config
}

func NewService(client CompletionClient, cfg Config) *Service {
	cfg.defaults()
	return &Service{client: client, cfg: cfg}
}

func (s *Service) TargetDomain() string {
	return s.cfg.TargetDomain
}

// DetectDomain classifies the first DetectionCharLimit characters of text.
// The confidence threshold lives in the prompt; the returned decision is not
// recomputed locally.
func (s *Service) DetectDomain(ctx context.Context, text string, persona string) (*DomainVerdict, error) {
	sample := text
	if runes := []rune(text); len(runes) > DetectionCharLimit {
		sample = string(runes[:DetectionCharLimit])
	}

	prompt := fmt.Sprintf(`%s
Analyze the following text and determine its academic domain. Your response must be in JSON format.
The 'decision' should be 'continue' if confidence for '%s' is >= 0.7, otherwise it should be 'stop_domain_mismatch'.

Text to analyze:
---
%s
---
`, persona, s.cfg.TargetDomain, sample)

	var verdict DomainVerdict
	if err := s.client.GenerateStructured(ctx, s.cfg.DetectionModel, prompt, DomainCheckSchema(), &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

// GenerateGuide builds the full study guide from the entire extracted text.
// On success the guide's OriginalContent is set to the input text.
func (s *Service) GenerateGuide(ctx context.Context, text string, persona string) (*StudyGuide, error) {
	prompt := fmt.Sprintf(`%s

Your job is to deeply analyze the material below and craft a complete study guide. Strict rules:
1. Use only the provided text as your knowledge source.
2. Support every fact with a citation containing a page number (assume the document starts at page 1 when not given).
3. Output must be valid JSON that matches the provided schema exactly.

Source material:
---
%s
---

Return JSON only.`, persona, text)

	var guide StudyGuide
	if err := s.client.GenerateStructured(ctx, s.cfg.GenerationModel, prompt, StudyGuideSchema(), &guide); err != nil {
		return nil, err
	}
	guide.OriginalContent = text
	return &guide, nil
}

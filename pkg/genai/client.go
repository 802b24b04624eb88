package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client is a thin wrapper around the Gemini generateContent REST endpoint.
// It exposes two operations: free-text generation with an enforced response
// schema, and text extraction from an inline image.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests to point the client
// at a local stub server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http: &http.Client{
			Timeout: 180 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Wire structs ---

type generatePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateContent struct {
	Parts []*generatePart `json:"parts"`
	Role  string          `json:"role,omitempty"`
}

type generationConfig struct {
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema  `json:"responseSchema,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
}

type generateRequest struct {
	Contents         []*generateContent `json:"contents"`
	GenerationConfig *generationConfig  `json:"generationConfig,omitempty"`
}

type generateCandidate struct {
	Content *generateContent `json:"content"`
}

type generateResponse struct {
	Candidates []*generateCandidate `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, model string, req *generateRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("x-goog-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var genRes generateResponse
	if err := json.Unmarshal(resBody, &genRes); err != nil {
		return "", err
	}
	if len(genRes.Candidates) == 0 || genRes.Candidates[0].Content == nil || len(genRes.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model %s", model)
	}

	return genRes.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateText sends a plain prompt and returns the raw model text.
func (c *Client) GenerateText(ctx context.Context, model string, prompt string) (string, error) {
	return c.generate(ctx, model, &generateRequest{
		Contents: []*generateContent{
			{Parts: []*generatePart{{Text: prompt}}, Role: "user"},
		},
	})
}

// GenerateStructured sends a prompt with a strict response schema and decodes
// the JSON answer into out. A malformed response is returned as an error;
// no repair or retry is attempted.
func (c *Client) GenerateStructured(ctx context.Context, model string, prompt string, schema *Schema, out interface{}) error {
	text, err := c.generate(ctx, model, &generateRequest{
		Contents: []*generateContent{
			{Parts: []*generatePart{{Text: prompt}}, Role: "user"},
		},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	})
	if err != nil {
		return err
	}

	cleaned := StripMarkdownFences(text)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("parse error: %w | raw: %s", err, cleaned)
	}
	return nil
}

// ExtractTextFromImage asks the model to transcribe legible text from the
// supplied image bytes. The instruction forbids commentary, so the returned
// string is the extracted text verbatim.
func (c *Client) ExtractTextFromImage(ctx context.Context, model string, imageBytes []byte, mimeType string) (string, error) {
	return c.generate(ctx, model, &generateRequest{
		Contents: []*generateContent{
			{
				Parts: []*generatePart{
					{InlineData: &inlineData{
						MimeType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(imageBytes),
					}},
					{Text: "Extract all legible text from this image. Return text only, no commentary."},
				},
				Role: "user",
			},
		},
	})
}

// StripMarkdownFences removes a ```json ... ``` wrapper some models emit
// around structured output even when a JSON mime type was requested.
func StripMarkdownFences(text string) string {
	b := []byte(text)
	b = bytes.TrimSpace(b)
	b = bytes.TrimPrefix(b, []byte("```json"))
	b = bytes.TrimPrefix(b, []byte("```"))
	b = bytes.TrimSuffix(b, []byte("```"))
	b = bytes.TrimSpace(b)
	return string(b)
}

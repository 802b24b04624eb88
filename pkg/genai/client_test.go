package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelResponse(text string) string {
	res := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]interface{}{{"text": text}},
			}},
		},
	}
	raw, _ := json.Marshal(res)
	return string(raw)
}

func TestGenerateStructuredSendsSchema(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Contains(t, r.URL.Path, "models/gemini-2.5-flash:generateContent")

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(modelResponse(`{"decision":"continue"}`)))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	schema := Object(map[string]*Schema{"decision": String()}, "decision")

	var out struct {
		Decision string `json:"decision"`
	}
	err := client.GenerateStructured(context.Background(), "gemini-2.5-flash", "classify this", schema, &out)
	require.NoError(t, err)
	assert.Equal(t, "continue", out.Decision)

	genConfig, ok := captured["generationConfig"].(map[string]interface{})
	require.True(t, ok, "request must carry a generationConfig")
	assert.Equal(t, "application/json", genConfig["responseMimeType"])
	assert.NotNil(t, genConfig["responseSchema"])
}

func TestGenerateStructuredStripsFences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelResponse("```json\n{\"decision\":\"continue\"}\n```")))
	}))
	defer server.Close()

	client := NewClient("k", WithBaseURL(server.URL))
	var out struct {
		Decision string `json:"decision"`
	}
	err := client.GenerateStructured(context.Background(), "m", "p", String(), &out)
	require.NoError(t, err)
	assert.Equal(t, "continue", out.Decision)
}

func TestGenerateStructuredMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelResponse("not json at all")))
	}))
	defer server.Close()

	client := NewClient("k", WithBaseURL(server.URL))
	var out map[string]interface{}
	err := client.GenerateStructured(context.Background(), "m", "p", String(), &out)
	require.Error(t, err)
	// The raw payload is kept in the error for debugging.
	assert.Contains(t, err.Error(), "not json at all")
}

func TestGenerateTextStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"quota"}`))
	}))
	defer server.Close()

	client := NewClient("k", WithBaseURL(server.URL))
	_, err := client.GenerateText(context.Background(), "m", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateTextEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewClient("k", WithBaseURL(server.URL))
	_, err := client.GenerateText(context.Background(), "m", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestExtractTextFromImageSendsInlineData(t *testing.T) {
	imageBytes := []byte{0x89, 0x50, 0x4e, 0x47}
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(modelResponse("transcribed text")))
	}))
	defer server.Close()

	client := NewClient("k", WithBaseURL(server.URL))
	text, err := client.ExtractTextFromImage(context.Background(), "m", imageBytes, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "transcribed text", text)

	contents := captured["contents"].([]interface{})
	parts := contents[0].(map[string]interface{})["parts"].([]interface{})
	inline := parts[0].(map[string]interface{})["inlineData"].(map[string]interface{})
	assert.Equal(t, "image/png", inline["mimeType"])
	assert.Equal(t, base64.StdEncoding.EncodeToString(imageBytes), inline["data"])
}

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkdownFences(tt.in))
		})
	}
}

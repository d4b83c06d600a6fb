package commentary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pbaille/witness/internal/domain"
)

const anthropicAPI = "https://api.anthropic.com/v1/messages"

// Commentator turns a snapshot and its growth report into a short prose
// reflection. Strictly a post-processing hook: no invariant of the pipeline
// depends on its output, and every failure downgrades to a log line at the
// call site.
type Commentator struct {
	apiKey string
	model  string
}

// New creates a Commentator, failing fast when no API key is configured.
func New() (*Commentator, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	return &Commentator{
		apiKey: apiKey,
		model:  "claude-sonnet-4-20250514",
	}, nil
}

// Comment produces commentary for the run.
func (c *Commentator) Comment(snap *domain.Snapshot, report string) (string, error) {
	resp, err := c.callAPI(buildPrompt(snap, report))
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	return cleanResponse(resp), nil
}

func buildPrompt(snap *domain.Snapshot, report string) string {
	var sb strings.Builder

	sb.WriteString("You are the daily witness of a growing field of concepts.\n")
	sb.WriteString("Below is today's growth report. Write 2-3 sentences of plain prose\n")
	sb.WriteString("reflecting on what changed. No markdown, no lists, no preamble.\n\n")
	sb.WriteString(report)
	sb.WriteString("\nCurrent layers:\n")
	for _, l := range snap.Layers {
		sb.WriteString("- ")
		sb.WriteString(l.Name)
		sb.WriteString("\n")
	}

	return sb.String()
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Commentator) callAPI(prompt string) (string, error) {
	reqBody := apiRequest{
		Model:     c.model,
		MaxTokens: 512,
		Messages: []apiMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", anthropicAPI, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("api error: %s", apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response")
	}

	return apiResp.Content[0].Text, nil
}

// cleanResponse strips stray code fences from the model output.
func cleanResponse(resp string) string {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	return strings.TrimSpace(resp)
}

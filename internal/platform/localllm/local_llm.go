package localllm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// DefaultURL is the chat completions endpoint of a local OpenAI-compatible server.
const DefaultURL = "http://localhost:1234/v1/chat/completions"

// Client represents a client for the local LLM.
type Client struct {
	httpClient *http.Client
	apiURL     string
	model      string
}

// NewClient creates a new client for the local LLM.
func NewClient(httpClient *http.Client, apiURL, model string) *Client {
	if apiURL == "" {
		apiURL = DefaultURL
	}
	return &Client{
		httpClient: httpClient,
		apiURL:     apiURL,
		model:      model,
	}
}

// Request represents the request body for the local LLM.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Message represents a message in the request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response represents the response from the local LLM.
type Response struct {
	Choices []Choice `json:"choices"`
}

// Choice represents a choice in the response.
type Choice struct {
	Message Message `json:"message"`
}

// GenerateContent sends a single user message and returns the first choice.
func (c *Client) GenerateContent(ctx context.Context, text string, maxTokens int) (string, error) {
	reqBody := Request{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: "You write short, friendly meal-planning notes."},
			{Role: "user", Content: text},
		},
		Temperature: 0,
		MaxTokens:   maxTokens,
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received non-OK status code: %d", resp.StatusCode)
	}

	var llmResp Response
	if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(llmResp.Choices) > 0 {
		if content := strings.TrimSpace(llmResp.Choices[0].Message.Content); content != "" {
			return content, nil
		}
	}

	return "", fmt.Errorf("no content found in response")
}

// Summarize condenses text into one paragraph of roughly minWords to maxWords words.
func (c *Client) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	prompt := fmt.Sprintf("%s\n\nAnswer in one plain paragraph of %d to %d words, without markdown or lists.", text, minWords, maxWords)
	summary, err := c.GenerateContent(ctx, prompt, maxWords*2)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return summary, nil
}

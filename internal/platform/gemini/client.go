package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-1.5-flash"

// tokensPerWord gives the output token cap some headroom over the word budget.
const tokensPerWord = 2

// Client is a client for the Gemini API.
type Client struct {
	client    *genai.Client
	modelName string
}

// NewClient creates a new Gemini client. It is meant to be built once at
// startup and shared.
func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Client{client: client, modelName: modelName}, nil
}

// Summarize condenses text into a single paragraph of roughly minWords to
// maxWords words. Generation is greedy so identical input yields identical output.
func (c *Client) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(0)
	model.SetCandidateCount(1)
	model.SetMaxOutputTokens(int32(maxWords * tokensPerWord))

	prompt := fmt.Sprintf("%s\n\nAnswer in one plain paragraph of %d to %d words, without markdown or lists.", text, minWords, maxWords)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	summary := strings.TrimSpace(sb.String())
	if summary == "" {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}
	return summary, nil
}

// Close closes the underlying Gemini client.
func (c *Client) Close() error {
	return c.client.Close()
}

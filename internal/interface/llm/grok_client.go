package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"farewatch/internal/domain/entity"
	"farewatch/pkg/logger"
)

const systemPrompt = "You are a helpful AI assistant specializing in flight search and travel optimization. " +
	"Provide clear, actionable recommendations based on the data provided."

// GrokClient implements the Analyzer interface against the x.ai
// chat-completions API (OpenAI-compatible wire format).
type GrokClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
	logger      logger.Logger
}

// NewGrokClient creates a client for the given API base and model.
func NewGrokClient(apiKey, baseURL, model string, temperature float64, timeout time.Duration, log logger.Logger) *GrokClient {
	return &GrokClient{
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
		client:      &http.Client{Timeout: timeout},
		logger:      log,
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
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Analyze sends the prompt to the model and wraps the reply. A reply that
// parses as a JSON object becomes a structured entry, anything else free
// text. Transport, HTTP and API-level failures all surface as errors.
func (c *GrokClient) Analyze(ctx context.Context, prompt string) (*entity.AnalysisEntry, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling chat request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding chat response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("chat API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat API returned no choices")
	}

	content := parsed.Choices[0].Message.Content
	c.logger.Debug("Analysis response received", "bytes", len(content))

	// The model sometimes answers with a JSON object, sometimes prose.
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(content), &fields); err == nil && len(fields) > 0 {
		return entity.NewStructuredAnalysis(fields, content), nil
	}
	return entity.NewTextAnalysis(content), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

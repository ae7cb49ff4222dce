package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"creditdispute-backend/internal/llm"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client implements llm.Client using the OpenAI HTTP API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	File     *fileRef  `json:"file,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type fileRef struct {
	FileID string `json:"file_id"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *chatUsage `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ParseReport asks the model to convert extracted report text into the
// structured negative-account JSON payload.
func (c *Client) ParseReport(ctx context.Context, input llm.ParseInput) (json.RawMessage, error) {
	if strings.TrimSpace(input.ReportText) == "" {
		return nil, fmt.Errorf("report text is empty")
	}

	messages := []chatMessage{
		{Role: "system", Content: parseSystemPrompt},
		{Role: "user", Content: buildParseUserPrompt(input.Bureau, input.ReportText)},
	}

	raw, usage, err := c.chatOnce(ctx, messages, &responseFormat{Type: "json_object"})
	if err != nil {
		return nil, err
	}
	logUsage(c.model, "parse_report", usage)

	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("invalid JSON from OpenAI")
	}
	return json.RawMessage(raw), nil
}

func (c *Client) chatOnce(ctx context.Context, messages []chatMessage, format *responseFormat) (string, *chatUsage, error) {
	temp := float32(0)
	reqBody := chatRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    &temp,
		ResponseFormat: format,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", nil, fmt.Errorf("openai request timeout: %w", err)
		}
		return "", nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", nil, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", nil, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", nil, fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", nil, fmt.Errorf("openai response empty content")
	}
	return content, parsed.Usage, nil
}

func logUsage(model, operation string, usage *chatUsage) {
	if usage == nil {
		log.Printf("llm response model=%s op=%s", model, operation)
		return
	}
	log.Printf("llm response model=%s op=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		model, operation, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
}

var _ llm.Client = (*Client)(nil)

package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"hausmeister/internal/config"
)

const (
	defaultBaseURL = "https://ai.gateway.lovable.dev/v1"
	defaultModel   = "google/gemini-3-flash-preview"

	// maxErrorBody bounds how much of a failed response ends up in the error.
	maxErrorBody = 512
)

var (
	ErrNoToolCall   = errors.New("response contains no extract_invoice_data tool call")
	ErrBadArguments = errors.New("tool call arguments are not valid")
)

// Client implements Extractor using chat completions with a forced tool call.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient constructs a client from cfg. The API key is required.
func NewClient(cfg config.AIConfig, log *slog.Logger) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("AI_API_KEY is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}, nil
}

type chatMessage struct {
	Role      string     `json:"role"`
	Content   string     `json:"content,omitempty"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

type toolCall struct {
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type toolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type tool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Tools      []tool        `json:"tools"`
	ToolChoice tool          `json:"tool_choice"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Extract asks the model for the invoice fields of one attachment.
func (c *Client) Extract(ctx context.Context, in Input) (*Result, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(in)},
			{Role: "user", Content: userPrompt(in)},
		},
		Tools: []tool{{
			Type: "function",
			Function: toolFunction{
				Name:        toolName,
				Description: "Extrahiert Rechnungsdaten aus E-Mail-Informationen",
				Parameters:  toolSchema,
			},
		}},
		ToolChoice: tool{Type: "function", Function: toolFunction{Name: toolName}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("extraction request timeout: %w", err)
		}
		return nil, fmt.Errorf("extraction request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("extraction endpoint returned %d: %s", resp.StatusCode, truncate(string(body), maxErrorBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("extraction response parse: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("extraction error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if parsed.Usage != nil {
		c.log.DebugContext(ctx, "extraction usage",
			"model", c.model,
			"prompt_tokens", parsed.Usage.PromptTokens,
			"completion_tokens", parsed.Usage.CompletionTokens,
		)
	}
	if len(parsed.Choices) == 0 || len(parsed.Choices[0].Message.ToolCalls) == 0 {
		return nil, ErrNoToolCall
	}

	call := parsed.Choices[0].Message.ToolCalls[0]
	if strings.TrimSpace(call.Function.Arguments) == "" {
		return nil, ErrNoToolCall
	}
	var res Result
	if err := json.Unmarshal([]byte(call.Function.Arguments), &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	return &res, nil
}

var _ Extractor = (*Client)(nil)

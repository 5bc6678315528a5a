package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

const (
	DefaultDeepSeekBaseURL = "https://api.deepseek.com/v1"
	DefaultDeepSeekModel   = "deepseek-chat"
	DefaultGeminiModel     = "gemini-2.5-flash"

	generationTemperature = 0.7
	generationMaxTokens   = 4000
)

var errEmptyCompletion = errors.New("empty completion")

// TextGenerator sends one prompt to a remote model and returns its text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

type AnthropicTextGenerator struct {
	messages AnthropicMessager
	model    anthropic.Model
}

func NewAnthropicTextGenerator(apiKey, model string) (*AnthropicTextGenerator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	m := anthropic.ModelClaudeSonnet4_20250514
	if model != "" {
		m = anthropic.Model(model)
	}
	return &AnthropicTextGenerator{messages: newAnthropicClient(apiKey), model: m}, nil
}

func (a *AnthropicTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   generationMaxTokens,
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(generationTemperature),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return completion(sb.String())
}

// ChatCompletionTextGenerator talks to an OpenAI-compatible
// /chat/completions endpoint such as DeepSeek.
type ChatCompletionTextGenerator struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewChatCompletionTextGenerator(baseURL, apiKey, model string, client *http.Client) (*ChatCompletionTextGenerator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("DEEPSEEK_API_KEY not configured")
	}
	if baseURL == "" {
		baseURL = DefaultDeepSeekBaseURL
	}
	if model == "" {
		model = DefaultDeepSeekModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ChatCompletionTextGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  client,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

func (g *ChatCompletionTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read chat completion: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat completion status code: %d: %s", resp.StatusCode, gjson.GetBytes(body, "error.message").String())
	}
	return completion(gjson.GetBytes(body, "choices.0.message.content").String())
}

type GeminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiClientCreator func(ctx context.Context, apiKey string) (GeminiModels, error)

func defaultGeminiCreator(ctx context.Context, apiKey string) (GeminiModels, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client.Models, nil
}

var newGeminiClient GeminiClientCreator = defaultGeminiCreator

type GeminiTextGenerator struct {
	models GeminiModels
	model  string
}

func NewGeminiTextGenerator(ctx context.Context, apiKey, model string) (*GeminiTextGenerator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not configured")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	models, err := newGeminiClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return &GeminiTextGenerator{models: models, model: model}, nil
}

func (g *GeminiTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	temp := float32(generationTemperature)
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   generationMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return completion(resp.Text())
}

func completion(raw string) (string, error) {
	text := stripCodeFences(raw)
	if text == "" {
		return "", errEmptyCompletion
	}
	return text, nil
}

// stripCodeFences unwraps a reply that arrived as a single fenced block.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") && len(s) >= 6 {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// failureClass labels a remote generation error for logs.
func failureClass(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return "timeout"
	}
	if errors.Is(err, errEmptyCompletion) {
		return "empty"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"):
		return "rate_limit"
	case strings.Contains(msg, "status code: 5") || strings.Contains(msg, "server error"):
		return "server"
	case strings.Contains(msg, "status code: 4"):
		return "client"
	default:
		return "transport"
	}
}

package llmclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient implements Client against the OpenAI chat-completions API,
// including multimodal image blocks for page-level document analysis.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIClient constructs a client, falling back to OPENAI_API_KEY /
// OPENAI_URL environment variables when baseURL or apiKey are empty.
func NewOpenAIClient(baseURL, model, apiKey string, logger *slog.Logger) *OpenAIClient {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_URL")
		if baseURL == "" {
			baseURL = defaultOpenAIBaseURL
		}
	}
	if model == "" {
		model = openai.GPT4o
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []ChatMessage{NewUserMessage(prompt)})
}

func (c *OpenAIClient) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	c.logger.Info("chat called", "model", c.model, "message_count", len(messages))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		c.logger.Error("chat failed", "error", err)
		return "", fmt.Errorf("openai chat failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) StructuredChat(ctx context.Context, messages []ChatMessage) (string, error) {
	c.logger.Info("structured chat called", "model", c.model, "message_count", len(messages))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:          c.model,
		Messages:       toOpenAIMessages(messages),
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		c.logger.Error("structured chat failed", "error", err)
		return "", fmt.Errorf("openai structured chat failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Stream(ctx context.Context, prompt string) (<-chan string, error) {
	c.logger.Info("stream called", "model", c.model, "prompt_len", len(prompt))

	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAIMessages([]ChatMessage{NewUserMessage(prompt)}),
		Stream:   true,
	})
	if err != nil {
		c.logger.Error("stream failed", "error", err)
		return nil, fmt.Errorf("openai stream failed: %w", err)
	}

	tokenChan := make(chan string)
	go func() {
		defer close(tokenChan)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if err == io.EOF {
				return
			}
			if err != nil {
				c.logger.Error("stream receive error", "error", err)
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case tokenChan <- delta:
			case <-ctx.Done():
				return
			}
		}
	}()

	return tokenChan, nil
}

func toOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		role := string(msg.Role)

		if !hasImageBlock(msg) {
			out[i] = openai.ChatCompletionMessage{Role: role, Content: msg.Text()}
			continue
		}

		parts := []openai.ChatMessagePart{}
		if msg.Content != "" {
			parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: msg.Content})
		}
		for _, b := range msg.Blocks {
			switch b.Type {
			case BlockText:
				parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: b.Text})
			case BlockImage:
				url := fmt.Sprintf("data:%s;base64,%s", b.ImageMimeType, b.ImageBase64)
				parts = append(parts, openai.ChatMessagePart{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: url},
				})
			}
		}
		out[i] = openai.ChatCompletionMessage{Role: role, MultiContent: parts}
	}
	return out
}

func hasImageBlock(msg ChatMessage) bool {
	for _, b := range msg.Blocks {
		if b.Type == BlockImage {
			return true
		}
	}
	return false
}

var _ Client = (*OpenAIClient)(nil)

package llmclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// DefaultBedrockModel is used when the caller does not specify one.
const DefaultBedrockModel = "anthropic.claude-3-5-sonnet-20241022-v2:0"

// BedrockClient implements Client against AWS Bedrock's Converse API. It
// exists as the "enterprise" provider path in SPEC_FULL.md's DOMAIN STACK
// wiring, an alternative to OpenAIClient; no configuration field selects
// it, and the CLI wires OpenAIClient only.
type BedrockClient struct {
	client      *bedrockruntime.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *slog.Logger
}

// NewBedrockClient constructs a client using the default AWS credential
// chain, defaulting region from AWS_REGION / AWS_DEFAULT_REGION.
func NewBedrockClient(ctx context.Context, model string, maxTokens int, logger *slog.Logger) (*BedrockClient, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}
	if model == "" {
		model = DefaultBedrockModel
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &BedrockClient{
		client:      bedrockruntime.NewFromConfig(cfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: 0.1,
		logger:      logger,
	}, nil
}

func (c *BedrockClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []ChatMessage{NewUserMessage(prompt)})
}

func (c *BedrockClient) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	c.logger.Info("chat called", "model", c.model, "message_count", len(messages))

	converseMessages, systemPrompts := c.convertMessages(messages)
	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(c.model),
		Messages: converseMessages,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(c.maxTokens)),
			Temperature: aws.Float32(c.temperature),
		},
	}
	if len(systemPrompts) > 0 {
		input.System = systemPrompts
	}

	resp, err := c.client.Converse(ctx, input)
	if err != nil {
		c.logger.Error("chat failed", "error", err)
		return "", fmt.Errorf("bedrock converse failed: %w", err)
	}
	return extractText(resp), nil
}

func (c *BedrockClient) StructuredChat(ctx context.Context, messages []ChatMessage) (string, error) {
	instruction := "You must respond with valid JSON only. Do not include any text outside the JSON object."
	withInstruction := append([]ChatMessage{NewSystemMessage(instruction)}, messages...)
	return c.Chat(ctx, withInstruction)
}

func (c *BedrockClient) Stream(ctx context.Context, prompt string) (<-chan string, error) {
	converseMessages, systemPrompts := c.convertMessages([]ChatMessage{NewUserMessage(prompt)})
	input := &bedrockruntime.ConverseStreamInput{
		ModelId:  aws.String(c.model),
		Messages: converseMessages,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(c.maxTokens)),
			Temperature: aws.Float32(c.temperature),
		},
	}
	if len(systemPrompts) > 0 {
		input.System = systemPrompts
	}

	resp, err := c.client.ConverseStream(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("bedrock stream failed: %w", err)
	}

	tokenChan := make(chan string)
	go func() {
		defer close(tokenChan)
		for event := range resp.GetStream().Events() {
			delta, ok := event.(*types.ConverseStreamOutputMemberContentBlockDelta)
			if !ok {
				continue
			}
			textDelta, ok := delta.Value.Delta.(*types.ContentBlockDeltaMemberText)
			if !ok {
				continue
			}
			select {
			case tokenChan <- textDelta.Value:
			case <-ctx.Done():
				return
			}
		}
	}()

	return tokenChan, nil
}

func (c *BedrockClient) convertMessages(messages []ChatMessage) ([]types.Message, []types.SystemContentBlock) {
	var converseMessages []types.Message
	var systemPrompts []types.SystemContentBlock

	for _, msg := range messages {
		content := msg.Text()
		switch msg.Role {
		case RoleSystem:
			systemPrompts = append(systemPrompts, &types.SystemContentBlockMemberText{Value: content})
		case RoleUser:
			blocks := []types.ContentBlock{&types.ContentBlockMemberText{Value: content}}
			for _, b := range msg.Blocks {
				if b.Type != BlockImage {
					continue
				}
				raw, err := base64.StdEncoding.DecodeString(b.ImageBase64)
				if err != nil {
					continue
				}
				blocks = append(blocks, &types.ContentBlockMemberImage{
					Value: types.ImageBlock{
						Format: imageFormat(b.ImageMimeType),
						Source: &types.ImageSourceMemberBytes{Value: raw},
					},
				})
			}
			converseMessages = append(converseMessages, types.Message{Role: types.ConversationRoleUser, Content: blocks})
		case RoleAssistant:
			converseMessages = append(converseMessages, types.Message{
				Role:    types.ConversationRoleAssistant,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: content}},
			})
		}
	}

	return converseMessages, systemPrompts
}

func imageFormat(mime string) types.ImageFormat {
	switch {
	case strings.Contains(mime, "png"):
		return types.ImageFormatPng
	case strings.Contains(mime, "webp"):
		return types.ImageFormatWebp
	default:
		return types.ImageFormatJpeg
	}
}

func extractText(resp *bedrockruntime.ConverseOutput) string {
	if resp.Output == nil {
		return ""
	}
	msgOutput, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, block := range msgOutput.Value.Content {
		if textBlock, ok := block.(*types.ContentBlockMemberText); ok {
			sb.WriteString(textBlock.Value)
		}
	}
	return sb.String()
}

var _ Client = (*BedrockClient)(nil)

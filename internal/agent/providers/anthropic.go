package providers

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/kestrel-labs/toolcore/internal/agent"
	"github.com/kestrel-labs/toolcore/internal/agent/toolconv"
)

// AnthropicClient adapts the Anthropic Messages API to the
// agent.LLMClient interface.
type AnthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicClient builds an AnthropicClient for the given API key and
// model (e.g. anthropic.ModelClaude3_5SonnetLatest).
func NewAnthropicClient(apiKey string, model anthropic.Model) *AnthropicClient {
	if model == "" {
		model = anthropic.ModelClaude3_5SonnetLatest
	}
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Complete implements agent.LLMClient.
func (c *AnthropicClient) Complete(ctx context.Context, systemPrompt string, conversation []agent.Message, tools []agent.Tool, opts agent.CompletionOptions) (agent.AssistantReply, error) {
	messages := make([]anthropic.MessageParam, 0, len(conversation))
	for _, m := range conversation {
		msg, ok := toAnthropicMessage(m)
		if ok {
			messages = append(messages, msg)
		}
	}

	toolParams, err := toolconv.ToAnthropicTools(tools)
	if err != nil {
		return agent.AssistantReply{}, fmt.Errorf("providers: anthropic tool conversion: %w", err)
	}

	maxTokens := int64(opts.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:  messages,
		Tools:     toolParams,
	})
	if err != nil {
		return agent.AssistantReply{}, fmt.Errorf("providers: anthropic completion: %w", err)
	}

	return toAssistantReply(resp), nil
}

func toAnthropicMessage(m agent.Message) (anthropic.MessageParam, bool) {
	switch m.Role {
	case agent.RoleUser:
		return anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)), true
	case agent.RoleAssistant:
		blocks := []anthropic.ContentBlockParamUnion{}
		if m.Content != "" {
			blocks = append(blocks, anthropic.NewTextBlock(m.Content))
		}
		for _, tc := range m.ToolCalls {
			blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, string(tc.Arguments), tc.ToolName))
		}
		return anthropic.NewAssistantMessage(blocks...), true
	case agent.RoleTool:
		return anthropic.NewUserMessage(anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false)), true
	default:
		return anthropic.MessageParam{}, false
	}
}

func toAssistantReply(resp *anthropic.Message) agent.AssistantReply {
	var reply agent.AssistantReply
	for _, block := range resp.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			reply.Content += variant.Text
		case anthropic.ToolUseBlock:
			reply.ToolCalls = append(reply.ToolCalls, agent.ToolCallRequest{
				ID:        variant.ID,
				ToolName:  variant.Name,
				Arguments: variant.Input,
			})
		}
	}
	return reply
}

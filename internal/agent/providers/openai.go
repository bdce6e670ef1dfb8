// Package providers holds compact LLMClient implementations wrapping
// specific provider SDKs -- the external collaborators the core spec
// declares out of scope but which a complete repository needs in order
// to actually run an agent loop against a real model.
package providers

import (
	"context"
	"fmt"

	"github.com/kestrel-labs/toolcore/internal/agent"
	"github.com/kestrel-labs/toolcore/internal/agent/toolconv"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient adapts the go-openai chat-completions API to the
// agent.LLMClient interface.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds an OpenAIClient for the given API key and model
// (e.g. openai.GPT4o).
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIClient{client: openai.NewClient(apiKey), model: model}
}

// Complete implements agent.LLMClient.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt string, conversation []agent.Message, tools []agent.Tool, opts agent.CompletionOptions) (agent.AssistantReply, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(conversation)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range conversation {
		messages = append(messages, toOpenAIMessage(m))
	}

	req := openai.ChatCompletionRequest{
		Model:       modelOrDefault(opts.Model, c.model),
		Messages:    messages,
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
		Tools:       toolconv.ToOpenAITools(tools),
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return agent.AssistantReply{}, fmt.Errorf("providers: openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return agent.AssistantReply{}, fmt.Errorf("providers: openai completion returned no choices")
	}

	choice := resp.Choices[0].Message
	reply := agent.AssistantReply{Content: choice.Content}
	for _, tc := range choice.ToolCalls {
		reply.ToolCalls = append(reply.ToolCalls, agent.ToolCallRequest{
			ID:        tc.ID,
			ToolName:  tc.Function.Name,
			Arguments: []byte(tc.Function.Arguments),
		})
	}
	return reply, nil
}

func modelOrDefault(requested, fallback string) string {
	if requested != "" && requested != "default" {
		return requested
	}
	return fallback
}

func toOpenAIMessage(m agent.Message) openai.ChatCompletionMessage {
	switch m.Role {
	case agent.RoleUser:
		return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: m.Content}
	case agent.RoleAssistant:
		msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: m.Content}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.ToolName,
					Arguments: string(tc.Arguments),
				},
			})
		}
		return msg
	case agent.RoleTool:
		return openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
	default:
		return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: m.Content}
	}
}

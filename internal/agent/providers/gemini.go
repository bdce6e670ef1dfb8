package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kestrel-labs/toolcore/internal/agent"
	"github.com/kestrel-labs/toolcore/internal/agent/toolconv"
	"google.golang.org/genai"
)

// GeminiClient adapts the Google Gen AI SDK's synchronous generation call
// to the agent.LLMClient interface -- a condensed, non-streaming sibling
// of the teacher's GoogleProvider, which drives the same SDK through a
// channel of CompletionChunks instead.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds a GeminiClient for the given API key and model
// (e.g. "gemini-2.0-flash"); an empty model falls back to that default.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("providers: gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Complete implements agent.LLMClient.
func (c *GeminiClient) Complete(ctx context.Context, systemPrompt string, conversation []agent.Message, tools []agent.Tool, opts agent.CompletionOptions) (agent.AssistantReply, error) {
	contents := toGeminiContents(conversation)

	config := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}}
	}
	if geminiTools := toolconv.ToGeminiTools(tools); len(geminiTools) > 0 {
		config.Tools = geminiTools
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}

	model := c.model
	if opts.Model != "" && opts.Model != "default" {
		model = opts.Model
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return agent.AssistantReply{}, fmt.Errorf("providers: gemini completion: %w", err)
	}

	return toAssistantReplyFromGemini(resp)
}

func toGeminiContents(conversation []agent.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(conversation))
	for _, m := range conversation {
		content := &genai.Content{}
		switch m.Role {
		case agent.RoleUser:
			content.Role = genai.RoleUser
		case agent.RoleAssistant:
			content.Role = genai.RoleModel
		case agent.RoleTool:
			content.Role = genai.RoleUser
		default:
			continue
		}

		if m.Content != "" {
			content.Parts = append(content.Parts, &genai.Part{Text: m.Content})
		}

		switch m.Role {
		case agent.RoleAssistant:
			for _, tc := range m.ToolCalls {
				var args map[string]any
				if err := json.Unmarshal(tc.Arguments, &args); err != nil {
					args = map[string]any{}
				}
				content.Parts = append(content.Parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{Name: tc.ToolName, Args: args},
				})
			}
		case agent.RoleTool:
			var response map[string]any
			if err := json.Unmarshal([]byte(m.Content), &response); err != nil {
				response = map[string]any{"result": m.Content}
			}
			content.Parts = append(content.Parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{Name: m.ToolCallID, Response: response},
			})
		}

		if len(content.Parts) > 0 {
			contents = append(contents, content)
		}
	}
	return contents
}

func toAssistantReplyFromGemini(resp *genai.GenerateContentResponse) (agent.AssistantReply, error) {
	var reply agent.AssistantReply
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.Text != "" {
				reply.Content += part.Text
			}
			if part.FunctionCall != nil {
				argsJSON, err := json.Marshal(part.FunctionCall.Args)
				if err != nil {
					return agent.AssistantReply{}, fmt.Errorf("providers: gemini function call args: %w", err)
				}
				reply.ToolCalls = append(reply.ToolCalls, agent.ToolCallRequest{
					ID:        fmt.Sprintf("call_%s", part.FunctionCall.Name),
					ToolName:  part.FunctionCall.Name,
					Arguments: argsJSON,
				})
			}
		}
	}
	return reply, nil
}

// Package chatmodel adapts any OpenAI-compatible chat completions endpoint to
// the ADK model.LLM interface.
package chatmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// Config configures the endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Model talks to /chat/completions.
type Model struct {
	config Config
	client *http.Client
}

// New creates a Model, filling in defaults for empty fields.
func New(cfg Config) *Model {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Model{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (m *Model) Name() string {
	return m.config.Model
}

// GenerateContent yields a single non-streamed response.
func (m *Model) GenerateContent(ctx context.Context, req *model.LLMRequest, _ bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := m.generate(ctx, req)
		yield(resp, err)
	}
}

type chatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type toolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type toolDef struct {
	Type     string          `json:"type"`
	Function toolDefFunction `json:"function"`
}

type toolDefFunction struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	Tools       []toolDef     `json:"tools,omitempty"`
	ToolChoice  string        `json:"tool_choice,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string     `json:"content"`
			ToolCalls []toolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (m *Model) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	body := chatRequest{
		Model:    m.config.Model,
		Messages: buildMessages(req),
		Tools:    buildTools(req),
	}
	if len(body.Tools) > 0 {
		body.ToolChoice = "auto"
	}
	if req != nil && req.Config != nil && req.Config.Temperature != nil {
		t := float64(*req.Config.Temperature)
		body.Temperature = &t
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("chat api status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("chat api error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("chat api error: empty choices")
	}

	msg := result.Choices[0].Message
	parts := make([]*genai.Part, 0, 1+len(msg.ToolCalls))
	if strings.TrimSpace(msg.Content) != "" {
		parts = append(parts, genai.NewPartFromText(msg.Content))
	}
	for _, tc := range msg.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				args = map[string]any{"_raw": tc.Function.Arguments}
			}
		}
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{ID: tc.ID, Name: tc.Function.Name, Args: args},
		})
	}

	return &model.LLMResponse{
		Content: &genai.Content{Role: genai.RoleModel, Parts: parts},
	}, nil
}

func buildMessages(req *model.LLMRequest) []chatMessage {
	if req == nil {
		return nil
	}
	var messages []chatMessage
	if req.Config != nil && req.Config.SystemInstruction != nil {
		if text := joinText(req.Config.SystemInstruction.Parts); text != "" {
			messages = append(messages, chatMessage{Role: "system", Content: text})
		}
	}

	for _, content := range req.Contents {
		if content == nil {
			continue
		}
		var calls []toolCall
		var text strings.Builder
		for _, part := range content.Parts {
			switch {
			case part == nil:
			case part.FunctionResponse != nil:
				out, _ := json.Marshal(part.FunctionResponse.Response)
				messages = append(messages, chatMessage{
					Role:       "tool",
					ToolCallID: part.FunctionResponse.ID,
					Name:       part.FunctionResponse.Name,
					Content:    string(out),
				})
			case part.FunctionCall != nil:
				args, _ := json.Marshal(part.FunctionCall.Args)
				calls = append(calls, toolCall{
					ID:       part.FunctionCall.ID,
					Type:     "function",
					Function: toolFunction{Name: part.FunctionCall.Name, Arguments: string(args)},
				})
			case strings.TrimSpace(part.Text) != "":
				if text.Len() > 0 {
					text.WriteString("\n")
				}
				text.WriteString(part.Text)
			}
		}
		if text.Len() > 0 || len(calls) > 0 {
			role := "user"
			if content.Role == genai.RoleModel {
				role = "assistant"
			}
			messages = append(messages, chatMessage{Role: role, Content: strings.TrimSpace(text.String()), ToolCalls: calls})
		}
	}
	return messages
}

func joinText(parts []*genai.Part) string {
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != nil && strings.TrimSpace(p.Text) != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}

func buildTools(req *model.LLMRequest) []toolDef {
	if req == nil || req.Config == nil {
		return nil
	}
	var tools []toolDef
	for _, gt := range req.Config.Tools {
		if gt == nil {
			continue
		}
		for _, decl := range gt.FunctionDeclarations {
			if decl == nil || decl.Name == "" {
				continue
			}
			var params any
			switch {
			case decl.ParametersJsonSchema != nil:
				params = decl.ParametersJsonSchema
			case decl.Parameters != nil:
				params = decl.Parameters
			}
			tools = append(tools, toolDef{
				Type:     "function",
				Function: toolDefFunction{Name: decl.Name, Description: decl.Description, Parameters: params},
			})
		}
	}
	return tools
}

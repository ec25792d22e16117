package chatmodel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func collect(t *testing.T, m *Model, req *model.LLMRequest) (*model.LLMResponse, error) {
	t.Helper()
	var resp *model.LLMResponse
	var err error
	for r, e := range m.GenerateContent(context.Background(), req, false) {
		resp, err = r, e
	}
	return resp, err
}

func TestGenerateContentSendsSystemAndParsesToolCall(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"","tool_calls":[{"id":"c1","type":"function","function":{"name":"SaveFollowUpTasks","arguments":"{\"tasks\":[\"Call back\"]}"}}]}}]}`))
	}))
	defer srv.Close()

	m := New(Config{APIKey: "key", BaseURL: srv.URL + "/", Model: "test-model"})
	req := &model.LLMRequest{
		Contents: []*genai.Content{genai.NewContentFromText("notes", genai.RoleUser)},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("be brief", genai.RoleUser),
			Tools: []*genai.Tool{{FunctionDeclarations: []*genai.FunctionDeclaration{
				{Name: "SaveFollowUpTasks", Description: "save"},
			}}},
		},
	}

	resp, err := collect(t, m, req)
	require.NoError(t, err)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be brief", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "auto", got.ToolChoice)
	assert.Equal(t, "test-model", got.Model)

	require.Len(t, resp.Content.Parts, 1)
	call := resp.Content.Parts[0].FunctionCall
	require.NotNil(t, call)
	assert.Equal(t, "SaveFollowUpTasks", call.Name)
	assert.Equal(t, []any{"Call back"}, call.Args["tasks"])
}

func TestGenerateContentReportsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := collect(t, New(Config{BaseURL: srv.URL}), &model.LLMRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewAppliesDefaults(t *testing.T) {
	m := New(Config{})
	assert.Equal(t, defaultModel, m.Name())
	assert.Equal(t, defaultBaseURL, m.config.BaseURL)
}

package agent

import (
	"context"
	"fmt"

	"roofing_crm_backend/platform/ai/chatmodel"
	"roofing_crm_backend/platform/config"

	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// NewModel builds the LLM selected by AI_PROVIDER.
func NewModel(ctx context.Context, cfg config.AIConfig) (model.LLM, error) {
	switch cfg.GetAIProvider() {
	case "openai":
		return chatmodel.New(chatmodel.Config{
			APIKey:  cfg.GetAIAPIKey(),
			BaseURL: cfg.GetAIBaseURL(),
			Model:   cfg.GetAIModel(),
		}), nil
	case "gemini", "":
		name := cfg.GetAIModel()
		if name == "" {
			name = defaultGeminiModel
		}
		llm, err := gemini.NewModel(ctx, name, &genai.ClientConfig{
			APIKey:  cfg.GetAIAPIKey(),
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini model: %w", err)
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.GetAIProvider())
	}
}

// safetySettings match the thresholds the sales team signed off on.
func safetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockLowAndAbove},
	}
}

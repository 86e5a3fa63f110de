package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iraycd/sway-backend/internal/services/chat/models"
)

func TestPromptForConciseShortCircuit(t *testing.T) {
	analysis := models.Analysis{
		QueryType:           models.QuerySimple,
		RecommendedApproach: models.ApproachConcise,
		ConversationSummary: "a greeting",
	}

	prompt := PromptFor(analysis)

	assert.Equal(t, ConcisePrompt(), prompt)
	assert.NotContains(t, prompt, "a greeting")
}

func TestPromptForAugmentsAdaptivePrompt(t *testing.T) {
	tests := []struct {
		name      string
		analysis  models.Analysis
		directive string
	}{
		{
			name: "therapeutic detailed",
			analysis: models.Analysis{
				QueryType:           models.QueryTherapeutic,
				RecommendedApproach: models.ApproachDetailed,
				EmotionalState:      "anxious about work",
				ConversationSummary: "deadline pressure",
			},
			directive: "Provide detailed therapeutic support.",
		},
		{
			name: "therapeutic concise",
			analysis: models.Analysis{
				QueryType:           models.QueryTherapeutic,
				RecommendedApproach: models.ApproachConcise,
				EmotionalState:      "mildly curious",
				ConversationSummary: "asking about breathing exercises",
			},
			directive: "Keep your response brief and focused.",
		},
		{
			name: "simple but detailed still goes adaptive",
			analysis: models.Analysis{
				QueryType:           models.QuerySimple,
				RecommendedApproach: models.ApproachDetailed,
				EmotionalState:      "neutral",
				ConversationSummary: "factual question",
			},
			directive: "Provide detailed therapeutic support.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := PromptFor(tt.analysis)

			assert.Contains(t, prompt, AdaptivePrompt())
			assert.Contains(t, prompt, tt.analysis.ConversationSummary)
			assert.Contains(t, prompt, tt.analysis.EmotionalState)
			assert.Contains(t, prompt, tt.directive)
		})
	}
}

func TestPromptForIsDeterministic(t *testing.T) {
	analysis := models.DefaultAnalysis()
	assert.Equal(t, PromptFor(analysis), PromptFor(analysis))
}

func TestCatalogEntriesAreDistinct(t *testing.T) {
	prompts := map[string]string{
		"system":     SystemPrompt(),
		"acute":      AcuteDistressPrompt(),
		"anxiety":    AnxietyPrompt(),
		"depression": DepressionPrompt(),
		"concise":    ConcisePrompt(),
		"adaptive":   AdaptivePrompt(),
	}

	seen := make(map[string]string)
	for name, prompt := range prompts {
		assert.NotEmpty(t, prompt, name)
		if prev, dup := seen[prompt]; dup {
			t.Errorf("prompt %q duplicates %q", name, prev)
		}
		seen[prompt] = name
	}
}

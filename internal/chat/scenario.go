package chat

import (
	"context"
	"strings"

	"github.com/cheekylabs/cheeky/internal/provider"
	"github.com/cheekylabs/cheeky/internal/store"
)

const replyScenarioError = "Sorry, I couldn't set up the scenario. Try again."

// StartScenario generates a roleplay opener for the given scenario type and
// returns it. Each invocation produces a fresh scene: the opener is kept out
// of the dialogue context and the response cache, but is persisted to the
// conversation log. Failures map to a user-safe fallback.
func (e *Engine) StartScenario(ctx context.Context, user store.User, scenarioType string) string {
	req := provider.CompletionRequest{
		Messages: []provider.LLMMessage{
			{Role: provider.MessageRoleSystem, Content: scenarioPrompt(scenarioType, user.Gender, user.BotGender)},
			{Role: provider.MessageRoleUser, Content: "Start the roleplay"},
		},
		MaxTokens:   e.config.RoleplayMaxTokens,
		Temperature: ptr(e.config.RoleplayTemperature),
	}

	resp, err := e.provider.Complete(ctx, req)
	if err != nil {
		e.logger.Error("scenario generation failed", "user", user.ID, "scenario", scenarioType, "error", err)
		if e.metrics != nil {
			e.metrics.ProviderErrors.WithLabelValues("scenario").Inc()
		}
		return replyScenarioError
	}

	opener := strings.TrimSpace(resp.Content)
	if e.metrics != nil {
		e.metrics.Completions.Inc()
	}

	userLine := "Start the roleplay: " + scenarioType
	err = e.users.SaveConversation(ctx, store.Conversation{
		UserID:     user.ID,
		Message:    userLine,
		Response:   opener,
		TokensUsed: approxTokens(userLine, opener),
	})
	if err != nil {
		e.logger.Warn("scenario persist failed", "user", user.ID, "error", err)
	}
	return opener
}

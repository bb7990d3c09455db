// Package chat implements the conversation engine: it turns inbound
// messages into persona-driven model replies, maintains each user's rolling
// dialogue context, and serves cached responses for conversation openers.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cheekylabs/cheeky/internal/dialog"
	"github.com/cheekylabs/cheeky/internal/ops"
	"github.com/cheekylabs/cheeky/internal/provider"
	"github.com/cheekylabs/cheeky/internal/respcache"
	"github.com/cheekylabs/cheeky/internal/store"
	"github.com/cheekylabs/cheeky/pkg/message"
)

// ResponseSender delivers outbound messages. The channel dispatcher
// implements it.
type ResponseSender interface {
	Send(ctx context.Context, msg message.OutboundMessage) error
}

// Deps are the collaborators the engine needs. Metrics and Prefs may be nil.
type Deps struct {
	Users     store.UserStore
	Dialog    *dialog.ContextStore
	Optimizer *dialog.Optimizer
	Cache     *respcache.Cache
	Prefs     *dialog.PreferenceExtractor
	Provider  provider.Provider
	Sender    ResponseSender
	Metrics   *ops.Metrics
	Logger    *slog.Logger
}

// Engine is the chat orchestrator. One instance serves all users; all
// per-user state lives in the stores.
type Engine struct {
	config    Config
	users     store.UserStore
	dialog    *dialog.ContextStore
	optimizer *dialog.Optimizer
	cache     *respcache.Cache
	prefs     *dialog.PreferenceExtractor
	provider  provider.Provider
	sender    ResponseSender
	metrics   *ops.Metrics
	logger    *slog.Logger
}

// NewEngine creates an Engine with the given configuration and collaborators.
func NewEngine(cfg Config, d Deps) *Engine {
	cfg.defaults()
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		config:    cfg,
		users:     d.Users,
		dialog:    d.Dialog,
		optimizer: d.Optimizer,
		cache:     d.Cache,
		prefs:     d.Prefs,
		provider:  d.Provider,
		sender:    d.Sender,
		metrics:   d.Metrics,
		logger:    logger,
	}
}

// Inbox returns the inbound callback to hand to channels via SetInbox.
// Each message is handled on its own goroutine: one user's model round
// trip must not stall other users' turns or the channel's polling loop.
func (e *Engine) Inbox() func(msg message.InboundMessage) error {
	return func(msg message.InboundMessage) error {
		go func() {
			if err := e.HandleInbound(context.Background(), msg); err != nil {
				e.logger.Error("inbound handling failed",
					"channel", msg.Channel,
					"sender", msg.Sender.ID,
					"error", err,
				)
			}
		}()
		return nil
	}
}

// HandleInbound processes one inbound message end to end: command dispatch
// or a conversation turn, then delivery of the reply.
func (e *Engine) HandleInbound(ctx context.Context, msg message.InboundMessage) error {
	started := time.Now()
	if e.metrics != nil {
		e.metrics.InboundMessages.WithLabelValues(msg.Channel).Inc()
	}

	user, err := e.ensureUser(ctx, msg)
	if err != nil {
		return fmt.Errorf("chat: load user %s: %w", msg.Sender.ID, err)
	}
	e.dialog.TouchSession(ctx, user.ID)

	var out message.OutboundMessage
	if msg.IsCommand() {
		out = e.handleCommand(ctx, user, msg)
	} else {
		reply := e.respond(ctx, user, msg.Text)
		out = message.Reply(msg, reply)
	}

	if e.metrics != nil {
		e.metrics.ObserveTurnLatency(time.Since(started))
	}
	return e.sender.Send(ctx, out)
}

// ensureUser loads the sender's profile, creating one on first contact.
func (e *Engine) ensureUser(ctx context.Context, msg message.InboundMessage) (store.User, error) {
	user, err := e.users.GetUser(ctx, msg.Sender.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return store.User{}, err
	}

	user, err = e.users.CreateUser(ctx, store.User{
		ID:        msg.Sender.ID,
		Username:  msg.Sender.Username,
		FirstName: msg.Sender.DisplayName,
	})
	if err != nil {
		return store.User{}, err
	}
	e.logger.Info("new user provisioned", "user", user.ID, "channel", msg.Channel)
	return user, nil
}

// respond runs one conversation turn and returns the reply text. It never
// returns an error: every failure class maps to a user-safe fallback.
func (e *Engine) respond(ctx context.Context, user store.User, text string) string {
	if e.hitsStopWord(user, text) {
		return replyRefused
	}

	history := e.optimizer.Optimized(ctx, user.ID, e.config.TokenBudget)

	// Openers are cacheable: without history the reply depends only on the
	// message and persona, so identical first contacts share one completion.
	cacheKey := respcache.Key{
		Message:    text,
		Style:      string(user.Style),
		UserGender: string(user.Gender),
		BotGender:  string(user.BotGender),
	}
	cacheable := len(history) == 0
	if cacheable {
		if cached, ok := e.cache.Lookup(ctx, cacheKey); ok {
			if e.metrics != nil {
				e.metrics.RecordCacheLookup(true)
			}
			e.finishTurn(ctx, user, text, cached)
			return cached
		}
		if e.metrics != nil {
			e.metrics.RecordCacheLookup(false)
		}
	}

	req := provider.CompletionRequest{
		Messages:         e.buildMessages(user, history, text),
		MaxTokens:        e.config.MaxTokens,
		Temperature:      ptr(e.config.Temperature),
		PresencePenalty:  ptr(e.config.PresencePenalty),
		FrequencyPenalty: ptr(e.config.FrequencyPenalty),
	}

	resp, err := e.provider.Complete(ctx, req)
	if err != nil {
		return e.fallbackFor(user.ID, err)
	}

	reply := strings.TrimSpace(resp.Content)
	if e.metrics != nil {
		e.metrics.Completions.Inc()
	}

	if cacheable {
		e.cache.Store(ctx, cacheKey, reply)
	}
	e.finishTurn(ctx, user, text, reply)
	return reply
}

// finishTurn records a completed exchange: context window append and
// best-effort persistence. Failures are logged, never surfaced.
func (e *Engine) finishTurn(ctx context.Context, user store.User, text, reply string) {
	if err := e.dialog.Append(ctx, user.ID, text, reply); err != nil {
		e.logger.Warn("context append failed", "user", user.ID, "error", err)
	}
	err := e.users.SaveConversation(ctx, store.Conversation{
		UserID:     user.ID,
		Message:    text,
		Response:   reply,
		TokensUsed: approxTokens(text, reply),
	})
	if err != nil {
		e.logger.Warn("conversation persist failed", "user", user.ID, "error", err)
	}
}

// approxTokens estimates the token cost of an exchange with the same word
// estimator the optimizer budgets with.
func approxTokens(text, reply string) int {
	var est dialog.WordEstimator
	return est.Estimate(text) + est.Estimate(reply)
}

// buildMessages assembles the provider request: persona prompt, optimized
// context, then the current message.
func (e *Engine) buildMessages(user store.User, history []dialog.Turn, text string) []provider.LLMMessage {
	msgs := make([]provider.LLMMessage, 0, len(history)+2)
	msgs = append(msgs, provider.LLMMessage{
		Role:    provider.MessageRoleSystem,
		Content: systemPrompt(user.Style, user.BotGender),
	})
	for _, t := range history {
		msgs = append(msgs, provider.LLMMessage{
			Role:    provider.MessageRole(t.Role),
			Content: t.Content,
		})
	}
	return append(msgs, provider.LLMMessage{
		Role:    provider.MessageRoleUser,
		Content: text,
	})
}

// hitsStopWord reports whether the message trips a global or per-user stop
// word. Matching is a case-insensitive substring test.
func (e *Engine) hitsStopWord(user store.User, text string) bool {
	lower := strings.ToLower(text)
	for _, word := range e.config.StopWords {
		if word != "" && strings.Contains(lower, strings.ToLower(word)) {
			return true
		}
	}
	for _, word := range user.StopWords {
		if word != "" && strings.Contains(lower, strings.ToLower(word)) {
			return true
		}
	}
	return false
}

// fallbackFor maps a provider failure to its user-facing reply and records
// the error.
func (e *Engine) fallbackFor(userID string, err error) string {
	var code string
	var reply string
	switch {
	case errors.Is(err, provider.ErrRateLimit):
		code, reply = "rate_limit", replyRateLimited
	case errors.Is(err, provider.ErrContextLength), errors.Is(err, provider.ErrProviderDown):
		code, reply = "provider", replyProviderError
	default:
		code, reply = "unknown", replyUnknownError
	}
	e.logger.Error("completion failed", "user", userID, "code", code, "error", err)
	if e.metrics != nil {
		e.metrics.ProviderErrors.WithLabelValues(code).Inc()
	}
	return reply
}

func ptr(f float64) *float64 { return &f }

package chat_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cheekylabs/cheeky/internal/chat"
	"github.com/cheekylabs/cheeky/internal/dialog"
	"github.com/cheekylabs/cheeky/internal/kv"
	"github.com/cheekylabs/cheeky/internal/provider"
	"github.com/cheekylabs/cheeky/internal/provider/providertest"
	"github.com/cheekylabs/cheeky/internal/respcache"
	"github.com/cheekylabs/cheeky/internal/store"
	"github.com/cheekylabs/cheeky/pkg/message"
)

// memUsers is an in-memory store.UserStore for engine tests.
type memUsers struct {
	mu    sync.Mutex
	users map[string]store.User
	convs map[string][]store.Conversation
	stats map[string]store.UserStats
}

func newMemUsers() *memUsers {
	return &memUsers{
		users: make(map[string]store.User),
		convs: make(map[string][]store.Conversation),
		stats: make(map[string]store.UserStats),
	}
}

func (m *memUsers) GetUser(_ context.Context, id string) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.User{}, store.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) CreateUser(_ context.Context, u store.User) (store.User, error) {
	if u.Gender == "" {
		u.Gender = store.GenderNeutral
	}
	if u.BotGender == "" {
		u.BotGender = store.GenderFemale
	}
	if u.Style == "" {
		u.Style = store.StylePlayful
	}
	u.Active = true
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt

	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) UpdateUser(_ context.Context, u store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return store.ErrUserNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) SaveConversation(_ context.Context, c store.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.CreatedAt = time.Now()
	m.convs[c.UserID] = append(m.convs[c.UserID], c)
	s := m.stats[c.UserID]
	s.UserID = c.UserID
	s.MessageCount++
	s.TotalTokens += int64(c.TokensUsed)
	s.FavoriteStyle = m.users[c.UserID].Style
	s.LastActive = c.CreatedAt
	m.stats[c.UserID] = s
	return nil
}

func (m *memUsers) GetUserStats(_ context.Context, id string) (store.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[id]
	if !ok {
		return store.UserStats{UserID: id}, nil
	}
	return s, nil
}

func (m *memUsers) RecentConversations(_ context.Context, id string, n int) ([]store.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	convs := m.convs[id]
	if len(convs) > n {
		convs = convs[len(convs)-n:]
	}
	out := make([]store.Conversation, len(convs))
	for i, c := range convs {
		out[len(convs)-1-i] = c
	}
	return out, nil
}

// mockSender records outbound messages.
type mockSender struct {
	mu   sync.Mutex
	sent []message.OutboundMessage
}

func (m *mockSender) Send(_ context.Context, msg message.OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockSender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *mockSender) last() (message.OutboundMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return message.OutboundMessage{}, false
	}
	return m.sent[len(m.sent)-1], true
}

// testEngine bundles an Engine with its test collaborators.
type testEngine struct {
	engine   *chat.Engine
	users    *memUsers
	dialog   *dialog.ContextStore
	provider *providertest.MockProvider
	sender   *mockSender
}

func newTestEngine(cfg chat.Config, mock *providertest.MockProvider) *testEngine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mem := kv.NewMemory()
	dialogCfg := dialog.Config{}
	ctxStore := dialog.NewContextStore(mem, dialog.NewSummarizer(nil, nil), dialogCfg, logger)
	users := newMemUsers()
	sender := &mockSender{}

	engine := chat.NewEngine(cfg, chat.Deps{
		Users:     users,
		Dialog:    ctxStore,
		Optimizer: dialog.NewOptimizer(ctxStore, nil, dialogCfg),
		Cache:     respcache.New(mem, 0, logger),
		Prefs:     dialog.NewPreferenceExtractor(ctxStore, nil),
		Provider:  mock,
		Sender:    sender,
		Logger:    logger,
	})

	return &testEngine{
		engine:   engine,
		users:    users,
		dialog:   ctxStore,
		provider: mock,
		sender:   sender,
	}
}

// fixedProvider replies with a fixed string.
func fixedProvider(reply string) *providertest.MockProvider {
	return &providertest.MockProvider{
		CompleteFunc: func(_ context.Context, _ provider.CompletionRequest) (provider.CompletionResponse, error) {
			return provider.CompletionResponse{Content: reply, FinishReason: provider.FinishReasonStop}, nil
		},
	}
}

// failingProvider always returns err.
func failingProvider(err error) *providertest.MockProvider {
	return &providertest.MockProvider{
		CompleteFunc: func(_ context.Context, _ provider.CompletionRequest) (provider.CompletionResponse, error) {
			return provider.CompletionResponse{}, err
		},
	}
}

func inbound(userID, text string) message.InboundMessage {
	return message.InboundMessage{
		ID:        "m1",
		Timestamp: time.Now(),
		Channel:   "channel.telegram",
		Sender:    message.Sender{ID: userID, Username: "tester", DisplayName: "Tester"},
		Chat:      message.Chat{ID: userID, Type: message.ChatDM},
		Text:      text,
	}
}

package chat_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cheekylabs/cheeky/internal/chat"
	"github.com/cheekylabs/cheeky/internal/store"
)

func TestCommand_Start(t *testing.T) {
	t.Parallel()

	te := newTestEngine(chat.Config{}, fixedProvider("unused"))
	if err := te.engine.HandleInbound(context.Background(), inbound("1", "/start")); err != nil {
		t.Fatal(err)
	}

	out, _ := te.sender.last()
	if !strings.Contains(out.Text, "Tester") {
		t.Errorf("greeting = %q, want it to address the user by name", out.Text)
	}
	if out.Hints == nil || len(out.Hints.Keyboard) == 0 {
		t.Error("greeting has no style keyboard")
	}
}

func TestCommand_Help(t *testing.T) {
	t.Parallel()

	te := newTestEngine(chat.Config{}, fixedProvider("unused"))
	if err := te.engine.HandleInbound(context.Background(), inbound("1", "/help")); err != nil {
		t.Fatal(err)
	}

	out, _ := te.sender.last()
	for _, cmd := range []string{"/start", "/style", "/clear", "/stats", "/roleplay"} {
		if !strings.Contains(out.Text, cmd) {
			t.Errorf("help text missing %s", cmd)
		}
	}
}

func TestCommand_UnknownFallsBackToHelp(t *testing.T) {
	t.Parallel()

	te := newTestEngine(chat.Config{}, fixedProvider("unused"))
	if err := te.engine.HandleInbound(context.Background(), inbound("1", "/frobnicate")); err != nil {
		t.Fatal(err)
	}
	out, _ := te.sender.last()
	if !strings.Contains(out.Text, "/help") {
		t.Errorf("reply = %q, want the help text", out.Text)
	}
}

func TestCommand_StyleUpdatesProfile(t *testing.T) {
	t.Parallel()

	te := newTestEngine(chat.Config{}, fixedProvider("unused"))
	ctx := context.Background()

	if err := te.engine.HandleInbound(ctx, inbound("2", "/style mysterious")); err != nil {
		t.Fatal(err)
	}

	user, err := te.users.GetUser(ctx, "2")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Style != store.StyleMysterious {
		t.Errorf("Style = %q, want mysterious", user.Style)
	}
	out, _ := te.sender.last()
	if !strings.Contains(out.Text, "mysterious") {
		t.Errorf("confirmation = %q", out.Text)
	}
}

func TestCommand_StyleRejectsUnknown(t *testing.T) {
	t.Parallel()

	te := newTestEngine(chat.Config{}, fixedProvider("unused"))
	ctx := context.Background()

	if err := te.engine.HandleInbound(ctx, inbound("3", "/style grumpy")); err != nil {
		t.Fatal(err)
	}

	out, _ := te.sender.last()
	if out.Hints == nil || len(out.Hints.Keyboard) == 0 {
		t.Error("rejection reply has no style keyboard")
	}
	user, _ := te.users.GetUser(ctx, "3")
	if user.Style != store.StylePlayful {
		t.Errorf("Style = %q, want the default untouched", user.Style)
	}
}

func TestCommand_StyleWithBotSuffix(t *testing.T) {
	t.Parallel()

	te := newTestEngine(chat.Config{}, fixedProvider("unused"))
	ctx := context.Background()

	if err := te.engine.HandleInbound(ctx, inbound("4", "/style@cheeky_bot romantic")); err != nil {
		t.Fatal(err)
	}
	user, _ := te.users.GetUser(ctx, "4")
	if user.Style != store.StyleRomantic {
		t.Errorf("Style = %q, want romantic", user.Style)
	}
}

func TestCommand_ClearForgetsContext(t *testing.T) {
	t.Parallel()

	te := newTestEngine(chat.Config{}, fixedProvider("reply"))
	ctx := context.Background()

	if err := te.engine.HandleInbound(ctx, inbound("5", "hello there")); err != nil {
		t.Fatal(err)
	}
	if got := te.dialog.Len(ctx, "5"); got != 2 {
		t.Fatalf("precondition: context length = %d, want 2", got)
	}

	if err := te.engine.HandleInbound(ctx, inbound("5", "/clear")); err != nil {
		t.Fatal(err)
	}
	if got := te.dialog.Len(ctx, "5"); got != 0 {
		t.Errorf("context length after /clear = %d, want 0", got)
	}
}

func TestCommand_Stats(t *testing.T) {
	t.Parallel()

	te := newTestEngine(chat.Config{}, fixedProvider("reply"))
	ctx := context.Background()

	// No activity yet.
	if err := te.engine.HandleInbound(ctx, inbound("6", "/stats")); err != nil {
		t.Fatal(err)
	}
	out, _ := te.sender.last()
	if !strings.Contains(out.Text, "No stats yet") {
		t.Errorf("reply = %q, want the empty-stats message", out.Text)
	}

	// After a turn there are stats.
	if err := te.engine.HandleInbound(ctx, inbound("6", "hi")); err != nil {
		t.Fatal(err)
	}
	if err := te.engine.HandleInbound(ctx, inbound("6", "/stats")); err != nil {
		t.Fatal(err)
	}
	out, _ = te.sender.last()
	if !strings.Contains(out.Text, "Messages: 1") {
		t.Errorf("reply = %q, want the message count", out.Text)
	}
}

func TestCommand_StatsShowsInferredInterests(t *testing.T) {
	t.Parallel()

	te := newTestEngine(chat.Config{}, fixedProvider("sounds lovely"))
	ctx := context.Background()

	if err := te.engine.HandleInbound(ctx, inbound("11", "I love to travel and see new countries")); err != nil {
		t.Fatal(err)
	}
	if err := te.engine.HandleInbound(ctx, inbound("11", "/stats")); err != nil {
		t.Fatal(err)
	}

	out, _ := te.sender.last()
	if !strings.Contains(out.Text, "Interests: travel") {
		t.Errorf("reply = %q, want inferred travel interest", out.Text)
	}
}

func TestCommand_RoleplayListsScenarios(t *testing.T) {
	t.Parallel()

	te := newTestEngine(chat.Config{}, fixedProvider("unused"))
	if err := te.engine.HandleInbound(context.Background(), inbound("7", "/roleplay")); err != nil {
		t.Fatal(err)
	}
	out, _ := te.sender.last()
	if out.Hints == nil || len(out.Hints.Keyboard) != 5 {
		t.Fatalf("scenario keyboard = %+v, want 5 rows", out.Hints)
	}
}

func TestCommand_RoleplayStartsScenario(t *testing.T) {
	t.Parallel()

	mock := fixedProvider("The waves glow in the sunset... care to walk with me? 😍")
	te := newTestEngine(chat.Config{}, mock)
	ctx := context.Background()

	if err := te.engine.HandleInbound(ctx, inbound("8", "/roleplay beach_romance")); err != nil {
		t.Fatal(err)
	}

	out, _ := te.sender.last()
	if !strings.Contains(out.Text, "sunset") {
		t.Errorf("opener = %q", out.Text)
	}

	// Scenario sampling differs from normal turns.
	req := mock.LastRequest
	if req.MaxTokens != 300 {
		t.Errorf("MaxTokens = %d, want 300", req.MaxTokens)
	}
	if req.Temperature == nil || *req.Temperature != 0.9 {
		t.Errorf("Temperature = %v, want 0.9", req.Temperature)
	}
	if !strings.Contains(req.Messages[0].Content, "walk on the beach at sunset") {
		t.Errorf("scenario prompt = %q", req.Messages[0].Content)
	}

	// A fresh scene every time: nothing enters the dialogue context, but
	// the exchange lands in the conversation log.
	if got := te.dialog.Len(ctx, "8"); got != 0 {
		t.Errorf("context length = %d, want 0", got)
	}
	convs, err := te.users.RecentConversations(ctx, "8", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 1 || !strings.Contains(convs[0].Response, "sunset") {
		t.Errorf("conversations = %+v, want the persisted opener", convs)
	}
}

package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cheekylabs/cheeky/internal/store"
	"github.com/cheekylabs/cheeky/pkg/message"
)

const helpText = `I'm a companion bot for flirty, romantic conversation.

Commands:
/start - introduce yourself
/help - this message
/style <playful|romantic|passionate|mysterious> - set my communication style
/roleplay <scenario> - start a roleplay scenario
/clear - forget our conversation
/stats - your usage stats

Anything else you send me, I'll answer in character. You can stop at any
time, and stop words you configure are always respected.`

// styleKeyboard offers the four styles as reply buttons.
var styleKeyboard = [][]string{
	{"/style playful", "/style romantic"},
	{"/style passionate", "/style mysterious"},
}

// handleCommand dispatches a slash command and returns the reply. Unknown
// commands get the help text.
func (e *Engine) handleCommand(ctx context.Context, user store.User, msg message.InboundMessage) message.OutboundMessage {
	switch msg.Command() {
	case "start":
		return e.cmdStart(user, msg)
	case "style":
		return e.cmdStyle(ctx, user, msg)
	case "roleplay":
		return e.cmdRoleplay(ctx, user, msg)
	case "clear":
		return e.cmdClear(ctx, user, msg)
	case "stats":
		return e.cmdStats(ctx, user, msg)
	default:
		return message.Reply(msg, helpText)
	}
}

func (e *Engine) cmdStart(user store.User, msg message.InboundMessage) message.OutboundMessage {
	name := user.FirstName
	if name == "" {
		name = user.Username
	}
	greeting := "Hey! 👋 I'm a companion bot for flirty, romantic chat.\n\nPick a style to get started:"
	if name != "" {
		greeting = fmt.Sprintf("Hey, %s! 👋 Good to see you.\n\nPick a style, or just start chatting:", name)
	}
	return message.Reply(msg, greeting).WithKeyboard(styleKeyboard)
}

func (e *Engine) cmdStyle(ctx context.Context, user store.User, msg message.InboundMessage) message.OutboundMessage {
	arg := store.Style(strings.ToLower(msg.CommandArgs()))
	if arg == "" {
		return message.Reply(msg, "Which style? Pick one:").WithKeyboard(styleKeyboard)
	}
	if !store.ValidStyle(arg) {
		return message.Reply(msg, fmt.Sprintf("I don't know the style %q. Pick one:", arg)).WithKeyboard(styleKeyboard)
	}

	user.Style = arg
	if err := e.users.UpdateUser(ctx, user); err != nil {
		e.logger.Error("style update failed", "user", user.ID, "error", err)
		return message.Reply(msg, replyUnknownError)
	}
	return message.Reply(msg, fmt.Sprintf("Done! I'll be %s from now on 😊", arg))
}

func (e *Engine) cmdRoleplay(ctx context.Context, user store.User, msg message.InboundMessage) message.OutboundMessage {
	scenario := strings.ToLower(msg.CommandArgs())
	if scenario == "" {
		names := make([]string, 0, len(scenarioDescriptions))
		for name := range scenarioDescriptions {
			names = append(names, "/roleplay "+name)
		}
		sort.Strings(names)
		rows := make([][]string, len(names))
		for i, n := range names {
			rows[i] = []string{n}
		}
		return message.Reply(msg, "Pick a scenario:").WithKeyboard(rows)
	}

	opener := e.StartScenario(ctx, user, scenario)
	return message.Reply(msg, opener)
}

func (e *Engine) cmdClear(ctx context.Context, user store.User, msg message.InboundMessage) message.OutboundMessage {
	if err := e.dialog.Clear(ctx, user.ID); err != nil {
		e.logger.Error("context clear failed", "user", user.ID, "error", err)
		return message.Reply(msg, replyUnknownError)
	}
	return message.Reply(msg, "Done, I've forgotten our conversation. Clean slate! ✨")
}

func (e *Engine) cmdStats(ctx context.Context, user store.User, msg message.InboundMessage) message.OutboundMessage {
	stats, err := e.users.GetUserStats(ctx, user.ID)
	if err != nil {
		e.logger.Error("stats fetch failed", "user", user.ID, "error", err)
		return message.Reply(msg, replyUnknownError)
	}
	if stats.MessageCount == 0 {
		return message.Reply(msg, "📊 No stats yet. Say something!")
	}
	style := stats.FavoriteStyle
	if style == "" {
		style = user.Style
	}
	text := fmt.Sprintf("📊 Your stats\n\n💬 Messages: %d\n🔤 Tokens used: %d\n❤️ Style: %s\n🕐 Last active: %s",
		stats.MessageCount, stats.TotalTokens, style, stats.LastActive.Format("02.01.2006 15:04"))

	if e.prefs != nil {
		if p := e.prefs.Preferences(ctx, user.ID); len(p.Topics) > 0 {
			text += "\n🎯 Interests: " + strings.Join(p.Topics, ", ")
		}
	}
	return message.Reply(msg, text)
}

package app

import (
	"fmt"
	"log/slog"

	"github.com/cheekylabs/cheeky/internal/channel"
	"github.com/cheekylabs/cheeky/internal/chat"
	"github.com/cheekylabs/cheeky/internal/config"
	"github.com/cheekylabs/cheeky/internal/core"
	"github.com/cheekylabs/cheeky/internal/dialog"
	"github.com/cheekylabs/cheeky/internal/kv"
	"github.com/cheekylabs/cheeky/internal/ops"
	"github.com/cheekylabs/cheeky/internal/provider"
	"github.com/cheekylabs/cheeky/internal/respcache"
	"github.com/cheekylabs/cheeky/internal/store"
)

// wireEngine builds the chat engine from loaded modules and connects every
// channel's inbox to it. Must be called after LoadModules and before Start:
// module services are registered during Provision, and channels read their
// inbox on Start.
func wireEngine(
	app *core.App,
	appCtx *core.AppContext,
	cfg *config.Config,
	ids []string,
	logger *slog.Logger,
) error {
	// Discover channels and the provider from loaded modules.
	dispatcher := channel.NewDispatcher()
	var channels []channel.Channel
	var llm provider.Provider

	for _, id := range ids {
		mod, ok := app.Module(id)
		if !ok {
			continue
		}
		if ch, ok := mod.(channel.Channel); ok {
			// Register under the full module ID (e.g. "channel.telegram")
			// because that is what channels set as msg.Channel inbound.
			if err := dispatcher.Register(id, ch); err != nil {
				return fmt.Errorf("registering channel %s: %w", id, err)
			}
			channels = append(channels, ch)
			logger.Info("wire: registered channel", "channel", id)
		}
		if p, ok := mod.(provider.Provider); ok {
			llm = p
			logger.Info("wire: discovered provider", "module", id)
		}
	}

	if len(channels) == 0 {
		return fmt.Errorf("wire: at least one channel module is required")
	}
	if llm == nil {
		return fmt.Errorf("wire: at least one provider module is required")
	}

	// The user store is mandatory: profiles and stats live there.
	users, err := resolveUserStore(appCtx)
	if err != nil {
		return err
	}

	// The KV substrate backs the context window and the response cache.
	// Without a kv module everything still works, just process-local.
	kvStore := resolveKV(appCtx, logger)

	summarizer := dialog.NewSummarizer(nil, nil)
	ctxStore := dialog.NewContextStore(kvStore, summarizer, cfg.Dialog, logger)

	var metrics *ops.Metrics
	if svc, ok := appCtx.GetService("ops.metrics"); ok {
		metrics, _ = svc.(*ops.Metrics)
	}
	if metrics != nil {
		ctxStore.SetSummaryRefreshHook(metrics.SummaryRefreshes.Inc)
	}

	engine := chat.NewEngine(cfg.Chat, chat.Deps{
		Users:     users,
		Dialog:    ctxStore,
		Optimizer: dialog.NewOptimizer(ctxStore, nil, cfg.Dialog),
		Cache:     respcache.New(kvStore, cfg.Chat.CacheTTL, logger),
		Prefs:     dialog.NewPreferenceExtractor(ctxStore, summarizer),
		Provider:  llm,
		Sender:    dispatcher,
		Metrics:   metrics,
		Logger:    logger,
	})

	for _, ch := range channels {
		ch.SetInbox(engine.Inbox())
	}

	appCtx.RegisterService("chat.engine", engine)
	logger.Info("wire: engine connected", "channels", len(channels))
	return nil
}

// resolveUserStore looks up the "store.users" service.
func resolveUserStore(appCtx *core.AppContext) (store.UserStore, error) {
	svc, ok := appCtx.GetService("store.users")
	if !ok {
		return nil, fmt.Errorf("wire: store.users service not found (is a store module configured?)")
	}
	users, ok := svc.(store.UserStore)
	if !ok {
		return nil, fmt.Errorf("wire: store.users service does not implement store.UserStore")
	}
	return users, nil
}

// resolveKV looks up the "kv.store" service, falling back to the in-process
// store when no kv module is loaded.
func resolveKV(appCtx *core.AppContext, logger *slog.Logger) kv.Store {
	if svc, ok := appCtx.GetService("kv.store"); ok {
		if s, ok := svc.(kv.Store); ok {
			return s
		}
	}
	logger.Warn("wire: no kv module loaded, dialogue context will not survive restarts")
	return kv.NewMemory()
}

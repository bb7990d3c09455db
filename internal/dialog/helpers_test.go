package dialog_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/cheekylabs/cheeky/internal/dialog"
	"github.com/cheekylabs/cheeky/internal/kv"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStore builds a ContextStore over a fresh in-memory substrate.
func newTestStore(cfg dialog.Config) (*dialog.ContextStore, *kv.Memory) {
	mem := kv.NewMemory()
	store := dialog.NewContextStore(mem, dialog.NewSummarizer(nil, nil), cfg, discardLogger())
	return store, mem
}

// appendPairs appends n user/assistant exchanges with generated content.
func appendPairs(t *testing.T, store *dialog.ContextStore, userID string, n int) {
	t.Helper()
	for i := range n {
		err := store.Append(context.Background(), userID,
			fmt.Sprintf("user message %d", i),
			fmt.Sprintf("assistant reply %d", i),
		)
		if err != nil {
			t.Fatalf("Append pair %d: %v", i, err)
		}
	}
}

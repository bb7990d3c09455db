package dialog_test

import (
	"context"
	"testing"

	"github.com/cheekylabs/cheeky/internal/dialog"
)

func TestPreferenceExtractor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		exchanges  [][2]string
		wantStyle  string
		wantTopics []string
	}{
		{
			name:      "empty window is neutral",
			wantStyle: "neutral",
		},
		{
			name: "no hints stays neutral",
			exchanges: [][2]string{
				{"good morning", "morning to you"},
			},
			wantStyle: "neutral",
		},
		{
			name: "playful style from keywords",
			exchanges: [][2]string{
				{"tell me a joke", "why did the gopher cross the road"},
			},
			wantStyle: "playful",
		},
		{
			name: "rule order decides between competing styles",
			exchanges: [][2]string{
				{"I love a good game night", "me too"},
			},
			wantStyle: "playful",
		},
		{
			name: "romantic style in russian",
			exchanges: [][2]string{
				{"мне нравится романтика", "и мне"},
			},
			wantStyle: "romantic",
		},
		{
			name: "topics collected in first-seen order",
			exchanges: [][2]string{
				{"my work is busy", "sounds rough"},
				{"planning a trip soon", "nice"},
				{"back to work tomorrow", "good luck"},
			},
			wantStyle:  "neutral",
			wantTopics: []string{"work", "travel"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, _ := newTestStore(dialog.Config{})
			ctx := context.Background()
			for _, ex := range tt.exchanges {
				if err := store.Append(ctx, "1", ex[0], ex[1]); err != nil {
					t.Fatal(err)
				}
			}

			ext := dialog.NewPreferenceExtractor(store, nil)
			got := ext.Preferences(ctx, "1")

			if got.Style != tt.wantStyle {
				t.Errorf("Style = %q, want %q", got.Style, tt.wantStyle)
			}
			if len(got.Topics) != len(tt.wantTopics) {
				t.Fatalf("Topics = %v, want %v", got.Topics, tt.wantTopics)
			}
			for i, topic := range tt.wantTopics {
				if got.Topics[i] != topic {
					t.Errorf("Topics[%d] = %q, want %q", i, got.Topics[i], topic)
				}
			}
		})
	}
}

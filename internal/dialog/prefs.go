package dialog

import (
	"context"
	"strings"
)

// Preferences is what the extractor can infer about a user from their
// recent window. Style is one of the communication styles, or "neutral"
// when nothing in the window hints at one.
type Preferences struct {
	Style  string
	Topics []string
}

// prefScanPairs is how many exchanges the extractor looks back over.
const prefScanPairs = 25

// stylePrefRules map conversational keywords to a preferred communication
// style. First matching rule wins, so the order encodes priority.
var stylePrefRules = []Rule{
	{Tag: "playful", Triggers: []string{"joke", "game", "fun", "шутка", "игра", "весело"}},
	{Tag: "romantic", Triggers: []string{"romance", "love", "tenderness", "романтика", "любовь", "нежность"}},
	{Tag: "passionate", Triggers: []string{"passion", "emotions", "feelings", "страсть", "эмоции", "чувства"}},
}

// PreferenceExtractor infers soft user preferences from the stored window.
// It is read-only over the store; it never mutates anything.
type PreferenceExtractor struct {
	store      *ContextStore
	summarizer *Summarizer
}

// NewPreferenceExtractor creates an extractor sharing the summarizer's
// topic taxonomy.
func NewPreferenceExtractor(store *ContextStore, summarizer *Summarizer) *PreferenceExtractor {
	if summarizer == nil {
		summarizer = NewSummarizer(nil, nil)
	}
	return &PreferenceExtractor{store: store, summarizer: summarizer}
}

// Preferences scans the user's recent turns and returns inferred style and
// topics. An empty window yields neutral preferences.
func (p *PreferenceExtractor) Preferences(ctx context.Context, userID string) Preferences {
	prefs := Preferences{Style: "neutral"}

	window := p.store.Get(ctx, userID, prefScanPairs)
	if len(window) == 0 {
		return prefs
	}

	var sb strings.Builder
	for _, t := range window {
		sb.WriteString(strings.ToLower(t.Content))
		sb.WriteByte(' ')
	}
	all := sb.String()

	if tag, ok := firstMatch(stylePrefRules, all); ok {
		prefs.Style = tag
	}

	seen := make(map[string]struct{})
	for _, t := range window {
		if tag, ok := firstMatch(p.summarizer.topics, strings.ToLower(t.Content)); ok {
			if _, dup := seen[tag]; !dup {
				seen[tag] = struct{}{}
				prefs.Topics = append(prefs.Topics, tag)
			}
		}
	}

	return prefs
}

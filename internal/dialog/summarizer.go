package dialog

import (
	"fmt"
	"strings"
)

// Rule maps a tag to the trigger words that imply it. Matching is a
// case-insensitive substring test against a turn's content.
type Rule struct {
	Tag      string   `yaml:"tag"`
	Triggers []string `yaml:"triggers"`
}

// Summarizer condenses a slice of turns into a one-line summary of topics
// and mood. It is pure keyword matching; no model call is involved, so a
// summary can be recomputed on every window refresh without cost.
type Summarizer struct {
	topics      []Rule
	moods       []Rule
	maxTopics   int
	defaultMood string
}

// NewSummarizer creates a Summarizer with the given taxonomies. Nil slices
// fall back to the built-in defaults.
func NewSummarizer(topics, moods []Rule) *Summarizer {
	if topics == nil {
		topics = defaultTopicRules
	}
	if moods == nil {
		moods = defaultMoodRules
	}
	return &Summarizer{
		topics:      topics,
		moods:       moods,
		maxTopics:   3,
		defaultMood: "neutral",
	}
}

// Summarize produces the summary line for the given turns, or "" for an
// empty input.
//
// Topic rules are evaluated in order and the first match per turn wins;
// up to three unique topics are reported in first-seen order. Mood rules
// are also first-match per turn, but across turns the LAST matching turn
// determines the mood, so the summary tracks where the conversation ended
// up rather than where it started.
func (s *Summarizer) Summarize(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}

	var topics []string
	seen := make(map[string]struct{})
	mood := s.defaultMood

	for _, t := range turns {
		content := strings.ToLower(t.Content)

		if tag, ok := firstMatch(s.topics, content); ok {
			if _, dup := seen[tag]; !dup {
				seen[tag] = struct{}{}
				topics = append(topics, tag)
			}
		}

		if tag, ok := firstMatch(s.moods, content); ok {
			mood = tag
		}
	}

	if len(topics) > s.maxTopics {
		topics = topics[:s.maxTopics]
	}
	topicsStr := "general topics"
	if len(topics) > 0 {
		topicsStr = strings.Join(topics, ", ")
	}

	return fmt.Sprintf("Conversation context: %s. Mood: %s. Continue in the same style.", topicsStr, mood)
}

// firstMatch returns the tag of the first rule whose any trigger occurs in
// content.
func firstMatch(rules []Rule, content string) (string, bool) {
	for _, r := range rules {
		for _, trig := range r.Triggers {
			if trig != "" && strings.Contains(content, strings.ToLower(trig)) {
				return r.Tag, true
			}
		}
	}
	return "", false
}

// Default taxonomies. Triggers cover English and Russian because the bot's
// audience chats in both.
var defaultTopicRules = []Rule{
	{Tag: "work", Triggers: []string{"work", "career", "business", "работа", "карьера", "бизнес"}},
	{Tag: "travel", Triggers: []string{"travel", "trip", "vacation", "путешествие", "поездка", "отпуск"}},
	{Tag: "entertainment", Triggers: []string{"music", "movie", "book", "музыка", "фильм", "книга"}},
	{Tag: "sports", Triggers: []string{"sport", "fitness", "workout", "спорт", "фитнес", "тренировка"}},
}

var defaultMoodRules = []Rule{
	{Tag: "joyful", Triggers: []string{"😊", "😄", "joy", "fun", "радость", "весело"}},
	{Tag: "sad", Triggers: []string{"😢", "sad", "grief", "грусть", "печаль"}},
	{Tag: "romantic", Triggers: []string{"😍", "love", "romance", "любовь", "романтика"}},
}

package nlp

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

var suggestions = []string{
	"How do I register as a student?",
	"How can I become a teacher?",
	"How do I schedule a meeting?",
	"How do I pay with eSewa?",
	"How do I withdraw my balance?",
}

type Matcher struct {
	corpus Corpus
	random RandomSource
}

type MatcherOption func(*Matcher)

func WithRandomSource(source RandomSource) MatcherOption {
	return func(m *Matcher) {
		if source != nil {
			m.random = source
		}
	}
}

type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

// NewMatcher validates the corpus and keeps a private copy of it, so later
// changes to the caller's slices are not visible to the matcher.
func NewMatcher(corpus Corpus, opts ...MatcherOption) (*Matcher, error) {
	if err := corpus.Validate(); err != nil {
		return nil, fmt.Errorf("invalid corpus: %w", err)
	}

	m := &Matcher{
		corpus: corpus.clone(),
		random: globalSource{},
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

func (m *Matcher) ResolveIntent(message string) (Intent, float64, bool) {
	normalized := Normalize(message)

	bestScore := 0.0
	bestIndex := -1
	for i, intent := range m.corpus.Intents {
		for _, pattern := range intent.Patterns {
			score := Similarity(normalized, Normalize(pattern))
			if score > bestScore {
				bestScore = score
				bestIndex = i
			}
		}
	}

	if bestIndex < 0 || bestScore <= IntentThreshold {
		return Intent{}, bestScore, false
	}
	return m.corpus.Intents[bestIndex], bestScore, true
}

func (m *Matcher) ResolveFAQ(message string) (FAQEntry, float64, bool) {
	normalized := Normalize(message)

	bestScore := 0.0
	bestIndex := -1
	for i, entry := range m.corpus.FAQ {
		score := Similarity(normalized, Normalize(entry.Question))
		if score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	if bestIndex < 0 || bestScore <= FAQThreshold {
		return FAQEntry{}, bestScore, false
	}
	return m.corpus.FAQ[bestIndex], bestScore, true
}

func (m *Matcher) Match(message string) Reply {
	if intent, score, ok := m.ResolveIntent(message); ok {
		return Reply{
			Text:    intent.Responses[m.random.IntN(len(intent.Responses))],
			Source:  SourceIntent,
			Matched: intent.Tag,
			Score:   score,
		}
	}

	if entry, score, ok := m.ResolveFAQ(message); ok {
		return Reply{
			Text:    entry.Answer,
			Source:  SourceFAQ,
			Matched: entry.Question,
			Score:   score,
		}
	}

	return Reply{
		Text:   FallbackResponse,
		Source: SourceFallback,
	}
}

func (m *Matcher) GetResponse(message string) string {
	return m.Match(message).Text
}

func (m *Matcher) Explain(message string) Explanation {
	normalized := Normalize(message)
	explanation := Explanation{
		Input:          message,
		NormalizedText: normalized,
		Tokens:         strings.Fields(normalized),
		Source:         SourceFallback,
	}

	intent, intentScore, intentOK := m.ResolveIntent(message)
	explanation.IntentScore = intentScore
	if intentOK {
		explanation.BestIntent = intent.Tag
		explanation.Source = SourceIntent
	}

	entry, faqScore, faqOK := m.ResolveFAQ(message)
	explanation.FAQScore = faqScore
	if faqOK {
		explanation.BestQuestion = entry.Question
		if !intentOK {
			explanation.Source = SourceFAQ
		}
	}

	return explanation
}

func (m *Matcher) GetSuggestions() []string {
	out := make([]string, len(suggestions))
	copy(out, suggestions)
	return out
}

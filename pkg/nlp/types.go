package nlp

import "errors"

const (
	IntentThreshold = 0.3
	FAQThreshold    = 0.4

	FallbackResponse = "I'm not sure I understand. Could you rephrase that? You can also contact support at support@sikshamantra.com for more help."
)

type Source string

const (
	SourceIntent   Source = "intent"
	SourceFAQ      Source = "faq"
	SourceFallback Source = "fallback"
)

var (
	ErrIntentWithoutResponses = errors.New("intent has no responses")
	ErrFAQWithoutAnswer       = errors.New("faq entry has no answer")
	ErrEmptyCorpus            = errors.New("corpus has no intents and no faq entries")
)

type Intent struct {
	Tag       string   `json:"tag" yaml:"tag"`
	Patterns  []string `json:"patterns" yaml:"patterns"`
	Responses []string `json:"responses" yaml:"responses"`
}

type FAQEntry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

type Corpus struct {
	Intents []Intent   `json:"intents" yaml:"intents"`
	FAQ     []FAQEntry `json:"faq" yaml:"faq"`
}

// RandomSource picks the response index for a matched intent. *rand.Rand from
// math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type Reply struct {
	Text    string  `json:"text"`
	Source  Source  `json:"source"`
	Matched string  `json:"matched,omitempty"`
	Score   float64 `json:"score"`
}

type Explanation struct {
	Input          string   `json:"input"`
	NormalizedText string   `json:"normalized_text"`
	Tokens         []string `json:"tokens"`
	BestIntent     string   `json:"best_intent,omitempty"`
	IntentScore    float64  `json:"intent_score"`
	BestQuestion   string   `json:"best_question,omitempty"`
	FAQScore       float64  `json:"faq_score"`
	Source         Source   `json:"source"`
}

type IMatcher interface {
	ResolveIntent(message string) (Intent, float64, bool)
	ResolveFAQ(message string) (FAQEntry, float64, bool)
	GetResponse(message string) string
	Match(message string) Reply
	Explain(message string) Explanation
	GetSuggestions() []string
}

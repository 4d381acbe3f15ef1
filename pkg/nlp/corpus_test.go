package nlp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCorpus(t *testing.T) {
	corpus, err := DefaultCorpus()
	require.NoError(t, err)
	require.NotEmpty(t, corpus.Intents)
	require.NotEmpty(t, corpus.FAQ)

	m, err := NewMatcher(corpus)
	require.NoError(t, err)

	for _, suggestion := range m.GetSuggestions() {
		reply := m.Match(suggestion)
		assert.Equal(t, SourceIntent, reply.Source, "suggestion %q should hit an intent", suggestion)
	}

	reply := m.Match("How do I register as a student?")
	assert.Equal(t, "register_student", reply.Matched)
}

func TestLoadCorpus(t *testing.T) {
	doc := `
intents:
  - tag: greeting
    patterns: [hello, hi there]
    responses: [Hello!]
faq:
  - question: can i get a refund
    answer: Within 7 days.
`
	corpus, err := LoadCorpus(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, Corpus{
		Intents: []Intent{{Tag: "greeting", Patterns: []string{"hello", "hi there"}, Responses: []string{"Hello!"}}},
		FAQ:     []FAQEntry{{Question: "can i get a refund", Answer: "Within 7 days."}},
	}, corpus)
}

func TestLoadCorpus_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "empty document",
			doc:     "",
			wantErr: ErrEmptyCorpus,
		},
		{
			name:    "no entries",
			doc:     "intents: []\nfaq: []\n",
			wantErr: ErrEmptyCorpus,
		},
		{
			name:    "intent without responses",
			doc:     "intents:\n  - tag: broken\n    patterns: [refund]\n",
			wantErr: ErrIntentWithoutResponses,
		},
		{
			name:    "faq without answer",
			doc:     "faq:\n  - question: refund\n",
			wantErr: ErrFAQWithoutAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCorpus(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadCorpus_UnknownField(t *testing.T) {
	_, err := LoadCorpus(strings.NewReader("intents:\n  - tag: x\n    pattern: [oops]\n    responses: [a]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode corpus")
}

func TestLoadCorpusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("faq:\n  - question: which devices are supported\n    answer: All of them.\n"), 0o644))

	corpus, err := LoadCorpusFile(path)
	require.NoError(t, err)
	require.Len(t, corpus.FAQ, 1)
	assert.Equal(t, "All of them.", corpus.FAQ[0].Answer)

	_, err = LoadCorpusFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

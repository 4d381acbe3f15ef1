package nlp

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed corpus/default.yaml
var defaultCorpus []byte

// Validate rejects corpora the matcher cannot answer from. An intent without
// responses would leave nothing to pick once it wins, so it is refused here
// instead of being skipped during matching.
func (c Corpus) Validate() error {
	for i, intent := range c.Intents {
		if len(intent.Responses) == 0 {
			return fmt.Errorf("intent %d (%q): %w", i, intent.Tag, ErrIntentWithoutResponses)
		}
	}
	for i, entry := range c.FAQ {
		if entry.Answer == "" {
			return fmt.Errorf("faq %d (%q): %w", i, entry.Question, ErrFAQWithoutAnswer)
		}
	}
	return nil
}

func (c Corpus) clone() Corpus {
	out := Corpus{
		Intents: make([]Intent, len(c.Intents)),
		FAQ:     make([]FAQEntry, len(c.FAQ)),
	}
	for i, intent := range c.Intents {
		out.Intents[i] = Intent{
			Tag:       intent.Tag,
			Patterns:  append([]string(nil), intent.Patterns...),
			Responses: append([]string(nil), intent.Responses...),
		}
	}
	copy(out.FAQ, c.FAQ)
	return out
}

func LoadCorpus(r io.Reader) (Corpus, error) {
	var corpus Corpus

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&corpus); err != nil {
		if err == io.EOF {
			return Corpus{}, ErrEmptyCorpus
		}
		return Corpus{}, fmt.Errorf("failed to decode corpus: %w", err)
	}

	if len(corpus.Intents) == 0 && len(corpus.FAQ) == 0 {
		return Corpus{}, ErrEmptyCorpus
	}

	if err := corpus.Validate(); err != nil {
		return Corpus{}, err
	}

	return corpus, nil
}

func LoadCorpusFile(path string) (Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return Corpus{}, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	return LoadCorpus(f)
}

func DefaultCorpus() (Corpus, error) {
	return LoadCorpus(bytes.NewReader(defaultCorpus))
}

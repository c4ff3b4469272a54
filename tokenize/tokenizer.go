package tokenize

import (
	"fmt"
	"hash/fnv"
	"strings"

	anknown "github.com/anknown/ahocorasick"
	cedar "github.com/iohub/ahocorasick"

	"github.com/sigrowio/sigindex"
)

// defaultFallbackIdfX10 treats an out-of-vocabulary word as maximally
// rare, steering it toward the shared-row path rather than claiming a
// private row it has no statistics to justify.
const defaultFallbackIdfX10 = sigindex.MaxIdfX10Value

const defaultFallbackGramSize = 1

func hashWord(s string) uint64 {
	h := fnv.New64()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func splitWords(text string) []string {
	return strings.Fields(text)
}

// matcher is the multi-pattern search automaton a Tokenizer drives.
// Built once, read concurrently thereafter.
type matcher interface {
	build(words []string) error
	search(text string) []string
}

// ahoMatcher is the default matcher, backed by anknown/ahocorasick's
// rune-based Aho-Corasick machine.
type ahoMatcher struct {
	machine *anknown.Machine
}

func newAhoMatcher() *ahoMatcher {
	return &ahoMatcher{machine: new(anknown.Machine)}
}

func (m *ahoMatcher) build(words []string) error {
	keys := make([][]rune, len(words))
	for i, w := range words {
		keys[i] = []rune(w)
	}
	return m.machine.Build(keys)
}

func (m *ahoMatcher) search(text string) []string {
	hits := m.machine.MultiPatternSearch([]rune(text), false)
	words := make([]string, len(hits))
	for i, h := range hits {
		words[i] = string(h.Word)
	}
	return words
}

// cedarMatcher is the alternative matcher, backed by iohub/ahocorasick's
// double-array trie.
type cedarMatcher struct {
	m *cedar.Matcher
}

func newCedarMatcher() *cedarMatcher {
	return &cedarMatcher{m: cedar.NewMatcher()}
}

func (m *cedarMatcher) build(words []string) error {
	for i, w := range words {
		m.m.Insert([]byte(w), i)
	}
	m.m.Compile()
	return nil
}

func (m *cedarMatcher) search(text string) []string {
	key := []byte(text)
	resp := m.m.Match(key)
	var words []string
	for resp.HasNext() {
		for _, item := range resp.NextMatchItem(key) {
			words = append(words, string(m.m.Key(key, item)))
		}
	}
	resp.Release()
	return words
}

// Tokenizer turns text into Term values: a vocabulary hit mints a Term
// from its known (IdfX10, GramSize); anything the automaton misses is
// hashed into a maximally-rare adhoc Term instead of being dropped.
type Tokenizer struct {
	vocab   *Vocabulary
	match   matcher
	fallIdf int
	fallGS  int
}

// NewTokenizer builds a Tokenizer over vocab using the default
// rune-based Aho-Corasick matcher.
func NewTokenizer(vocab *Vocabulary) (*Tokenizer, error) {
	return newTokenizer(vocab, newAhoMatcher())
}

// NewCedarTokenizer builds a Tokenizer over vocab using the
// double-array-trie matcher instead, for workloads dominated by very
// large vocabularies where construction time matters more than the
// default matcher's simplicity.
func NewCedarTokenizer(vocab *Vocabulary) (*Tokenizer, error) {
	return newTokenizer(vocab, newCedarMatcher())
}

func newTokenizer(vocab *Vocabulary, m matcher) (*Tokenizer, error) {
	if err := m.build(vocab.Words()); err != nil {
		return nil, fmt.Errorf("tokenize: building automaton: %w", err)
	}
	return &Tokenizer{
		vocab:   vocab,
		match:   m,
		fallIdf: defaultFallbackIdfX10,
		fallGS:  defaultFallbackGramSize,
	}, nil
}

// Tokenize scans text for vocabulary hits and mints a Term for each;
// any whitespace-delimited word the automaton didn't already cover is
// hashed into a fallback adhoc Term instead of being discarded.
func (t *Tokenizer) Tokenize(text string) []sigindex.Term {
	hits := t.match.search(text)
	covered := make(map[string]bool, len(hits))
	terms := make([]sigindex.Term, 0, len(hits))

	for _, word := range hits {
		if covered[word] {
			continue
		}
		covered[word] = true
		if term, ok := t.vocab.Lookup(word); ok {
			terms = append(terms, term)
		}
	}

	for _, word := range splitWords(text) {
		if covered[word] {
			continue
		}
		covered[word] = true
		terms = append(terms, sigindex.NewTerm(hashWord(word), t.fallIdf, t.fallGS))
	}

	return terms
}

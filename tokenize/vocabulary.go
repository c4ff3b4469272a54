// Package tokenize turns raw text into sigindex.Term values: an
// Aho-Corasick automaton matches a configured vocabulary, and any word
// it misses falls back to a hashed adhoc term.
package tokenize

import "github.com/sigrowio/sigindex"

// VocabularyEntry is the (IdfX10, GramSize) metadata a known surface
// string mints its Term with.
type VocabularyEntry struct {
	IdfX10   int
	GramSize int
}

// Vocabulary is an immutable surface-string -> Term mapping. It is safe
// for concurrent reads once built.
type Vocabulary struct {
	entries map[string]VocabularyEntry
}

// NewVocabulary copies entries into a Vocabulary. The input map is not
// retained.
func NewVocabulary(entries map[string]VocabularyEntry) *Vocabulary {
	v := &Vocabulary{entries: make(map[string]VocabularyEntry, len(entries))}
	for word, entry := range entries {
		v.entries[word] = entry
	}
	return v
}

// Words returns every surface string in the vocabulary, for feeding an
// Aho-Corasick automaton's Build step.
func (v *Vocabulary) Words() []string {
	words := make([]string, 0, len(v.entries))
	for word := range v.entries {
		words = append(words, word)
	}
	return words
}

// Lookup mints a Term for word, true if word is in the vocabulary.
func (v *Vocabulary) Lookup(word string) (sigindex.Term, bool) {
	entry, ok := v.entries[word]
	if !ok {
		return sigindex.Term{}, false
	}
	return sigindex.NewTerm(hashWord(word), entry.IdfX10, entry.GramSize), true
}

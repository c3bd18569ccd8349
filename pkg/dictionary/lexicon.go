package dictionary

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Entry is a known word with its frequency.
type Entry struct {
	Word      string
	Frequency int
}

// Lexicon indexes known words for exact and prefix lookups.
type Lexicon struct {
	trie  *patricia.Trie
	words int
}

// NewLexicon builds a Lexicon from a word-frequency map.
func NewLexicon(freqs map[string]int) *Lexicon {
	lex := &Lexicon{trie: patricia.NewTrie()}
	for word, freq := range freqs {
		lex.Add(word, freq)
	}
	return lex
}

// Add inserts or replaces a word.
func (l *Lexicon) Add(word string, frequency int) {
	if word == "" {
		return
	}
	key := patricia.Prefix(word)
	if l.trie.Insert(key, frequency) {
		l.words++
		return
	}
	l.trie.Set(key, frequency)
}

// Len returns the number of words.
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return l.words
}

// Contains reports whether word is known. A nil Lexicon knows nothing.
func (l *Lexicon) Contains(word string) bool {
	if l == nil {
		return false
	}
	return l.trie.Match(patricia.Prefix(word))
}

// Frequency returns the stored frequency of word.
func (l *Lexicon) Frequency(word string) (int, bool) {
	if l == nil {
		return 0, false
	}
	item := l.trie.Get(patricia.Prefix(word))
	if item == nil {
		return 0, false
	}
	return item.(int), true
}

// WithPrefix lists up to limit known words starting with prefix, most frequent first.
// A non-positive limit returns all of them.
func (l *Lexicon) WithPrefix(prefix string, limit int) []Entry {
	if l == nil {
		return nil
	}

	var entries []Entry
	err := l.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		entries = append(entries, Entry{Word: string(p), Frequency: item.(int)})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting lexicon subtree: %v", err)
		return nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Frequency != entries[j].Frequency {
			return entries[i].Frequency > entries[j].Frequency
		}
		return entries[i].Word < entries[j].Word
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

package corpus

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/wordfind/internal/utils"
	"github.com/bastiangx/wordfind/pkg/dictionary"
	"golang.org/x/text/unicode/norm"
)

// Options controls how lines are cut into token sentences.
type Options struct {
	// SplitRunes emits every CJK rune as its own token, for text without word boundaries.
	SplitRunes bool
	// Normalize applies Unicode NFC before splitting.
	Normalize bool
	// Lowercase folds tokens to lower case.
	Lowercase bool
	// SkipNumbers drops tokens made only of digits.
	SkipNumbers bool
	// MinTokenLen drops tokens with fewer runes.
	MinTokenLen int
	StopWords   dictionary.StopWords
}

// Tokenizer splits lines into sentences of tokens.
type Tokenizer struct {
	opts Options
}

// NewTokenizer returns a Tokenizer with the given options.
func NewTokenizer(opts Options) *Tokenizer {
	return &Tokenizer{opts: opts}
}

// Sentences splits a line at punctuation and symbols, then into tokens at whitespace.
// Filtered tokens are removed before n-gram generation, so their neighbours become adjacent.
// Empty sentences are dropped.
func (t *Tokenizer) Sentences(line string) [][]string {
	if t.opts.Normalize {
		line = norm.NFC.String(line)
	}

	var sentences [][]string
	var current []string
	var word strings.Builder

	flushWord := func() {
		if word.Len() == 0 {
			return
		}
		if token, ok := t.keep(word.String()); ok {
			current = append(current, token)
		}
		word.Reset()
	}
	flushSentence := func() {
		flushWord()
		if len(current) > 0 {
			sentences = append(sentences, current)
			current = nil
		}
	}

	for _, r := range line {
		switch {
		case unicode.IsSpace(r):
			flushWord()
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			flushSentence()
		case t.opts.SplitRunes && isIdeographic(r):
			flushWord()
			word.WriteRune(r)
			flushWord()
		default:
			word.WriteRune(r)
		}
	}
	flushSentence()
	return sentences
}

func (t *Tokenizer) keep(token string) (string, bool) {
	if t.opts.Lowercase {
		token = strings.ToLower(token)
	}
	if t.opts.MinTokenLen > 0 && utf8.RuneCountInString(token) < t.opts.MinTokenLen {
		return "", false
	}
	if t.opts.SkipNumbers && utils.IsOnlyNumbers(token) {
		return "", false
	}
	if t.opts.StopWords.Contains(token) {
		return "", false
	}
	return token, true
}

func isIdeographic(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

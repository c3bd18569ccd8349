package corpus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bastiangx/wordfind/pkg/cooccur"
	"github.com/charmbracelet/log"
)

// IngestStats counts what an ingestion pass consumed.
type IngestStats struct {
	Lines     int
	Sentences int
	Tokens    int
	Sequences int
}

// Add accumulates other into s.
func (s *IngestStats) Add(other IngestStats) {
	s.Lines += other.Lines
	s.Sentences += other.Sentences
	s.Tokens += other.Tokens
	s.Sequences += other.Sequences
}

// Ingester feeds tokenized text into a trie, one sentence at a time.
type Ingester struct {
	trie      *cooccur.Trie
	tokenizer *Tokenizer
	span      int
}

// NewIngester returns an Ingester inserting spans of up to span tokens.
// span is clamped to 1..cooccur.MaxSequence.
func NewIngester(trie *cooccur.Trie, tokenizer *Tokenizer, span int) *Ingester {
	span = max(1, min(span, cooccur.MaxSequence))
	return &Ingester{trie: trie, tokenizer: tokenizer, span: span}
}

// IngestFile ingests a corpus file.
func (in *Ingester) IngestFile(ctx context.Context, filename string) (IngestStats, error) {
	file, err := os.Open(filename)
	if err != nil {
		return IngestStats{}, fmt.Errorf("failed to open corpus %s: %w", filename, err)
	}
	defer file.Close()

	stats, err := in.Ingest(ctx, file)
	if err != nil {
		return stats, fmt.Errorf("failed to ingest corpus %s: %w", filename, err)
	}
	log.Debugf("Ingested %s: %d lines, %d tokens, %d sequences", filename, stats.Lines, stats.Tokens, stats.Sequences)
	return stats, nil
}

// Ingest reads r line by line. It checks ctx between lines.
func (in *Ingester) Ingest(ctx context.Context, r io.Reader) (IngestStats, error) {
	var stats IngestStats

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 16*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Lines++
		for _, sentence := range in.tokenizer.Sentences(scanner.Text()) {
			stats.Sentences++
			stats.Tokens += len(sentence)
			err := EachNGram(sentence, in.span, func(gram []string) error {
				stats.Sequences++
				return in.trie.Insert(gram)
			})
			if err != nil {
				return stats, err
			}
		}
	}
	return stats, scanner.Err()
}

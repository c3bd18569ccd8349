/*
Package discover runs a full word discovery pass.

A Pipeline loads the seed dictionary and stop-words named in the config,
seeds a co-occurrence trie with the dictionary frequencies, ingests corpus
files into it, and ranks the resulting pairs as candidate words.

	p := discover.New(cfg)
	trie, stats, err := p.Build(ctx, "corpus.txt")
	result, err := p.Discover(trie)
	discover.WriteWords(os.Stdout, result.Accepted)

Seeding happens before any corpus text is read, so seed counts are part of the
unigram totals that PMI is computed against.
*/
package discover

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/wordfind/internal/logger"
	"github.com/bastiangx/wordfind/internal/utils"
	"github.com/bastiangx/wordfind/pkg/config"
	"github.com/bastiangx/wordfind/pkg/cooccur"
	"github.com/bastiangx/wordfind/pkg/corpus"
	"github.com/bastiangx/wordfind/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// Pipeline wires config, dictionaries and the trie together.
type Pipeline struct {
	cfg       *config.Config
	log       *log.Logger
	seed      map[string]int
	lexicon   *dictionary.Lexicon
	stopWords dictionary.StopWords
	loaded    bool
}

// New returns a Pipeline for cfg. A nil cfg uses config.DefaultConfig.
func New(cfg *config.Config) *Pipeline {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Pipeline{
		cfg: cfg,
		log: logger.New("discover"),
	}
}

// Config returns the live config. Changes apply to later calls.
func (p *Pipeline) Config() *config.Config {
	return p.cfg
}

// Lexicon returns the known words from the seed dictionary.
// It is empty until LoadDictionaries or Build has run.
func (p *Pipeline) Lexicon() *dictionary.Lexicon {
	if p.lexicon == nil {
		return dictionary.NewLexicon(nil)
	}
	return p.lexicon
}

// LoadDictionaries reads the seed dictionary and stop-word files named in the
// config. Empty paths are skipped. Later calls are no-ops.
func (p *Pipeline) LoadDictionaries() error {
	if p.loaded {
		return nil
	}

	if path := p.cfg.Dict.SeedPath; path != "" {
		seed, stats, err := dictionary.LoadSeed(path, p.cfg.Dict.MinSeedCount)
		if err != nil {
			return err
		}
		if stats.Malformed > 0 {
			p.log.Warnf("Skipped %d malformed lines in %s", stats.Malformed, path)
		}
		p.seed = seed
		p.log.Infof("Loaded %s seed words", utils.FormatWithCommas(stats.Kept))
	}
	p.lexicon = dictionary.NewLexicon(p.seed)

	if path := p.cfg.Corpus.StopWordsPath; path != "" {
		stopWords, err := dictionary.LoadStopWords(path)
		if err != nil {
			return err
		}
		p.stopWords = stopWords
		p.log.Debugf("Loaded %d stop-words", len(stopWords))
	}

	p.loaded = true
	return nil
}

// NewTrie returns an empty trie configured from the discover section.
func (p *Pipeline) NewTrie() *cooccur.Trie {
	return cooccur.New(
		cooccur.WithPMIThreshold(p.cfg.Discover.PMIThreshold),
		cooccur.WithParallelism(p.cfg.Discover.Parallelism),
	)
}

// Tokenizer returns a tokenizer configured from the corpus section.
// Stop-words are included once LoadDictionaries has run.
func (p *Pipeline) Tokenizer() *corpus.Tokenizer {
	c := p.cfg.Corpus
	return corpus.NewTokenizer(corpus.Options{
		SplitRunes:  c.SplitRunes,
		Normalize:   c.Normalize,
		Lowercase:   c.Lowercase,
		SkipNumbers: c.SkipNumbers,
		MinTokenLen: c.MinTokenLen,
		StopWords:   p.stopWords,
	})
}

// Build creates a seeded trie and ingests every corpus file into it in order.
func (p *Pipeline) Build(ctx context.Context, corpusPaths ...string) (*cooccur.Trie, corpus.IngestStats, error) {
	var total corpus.IngestStats
	if err := p.LoadDictionaries(); err != nil {
		return nil, total, err
	}

	trie := p.NewTrie()
	trie.Seed(p.seed)

	start := time.Now()
	ingester := corpus.NewIngester(trie, p.Tokenizer(), p.cfg.Discover.NgramSize)
	for _, path := range corpusPaths {
		stats, err := ingester.IngestFile(ctx, path)
		total.Add(stats)
		if err != nil {
			return nil, total, err
		}
	}

	p.log.Infof("Built trie with %s nodes from %s tokens in %v",
		utils.FormatWithCommas(trie.Len()), utils.FormatWithCommas(total.Tokens), time.Since(start))
	return trie, total, nil
}

// BuildFrom is Build for an in-memory corpus.
func (p *Pipeline) BuildFrom(ctx context.Context, r io.Reader) (*cooccur.Trie, corpus.IngestStats, error) {
	if err := p.LoadDictionaries(); err != nil {
		return nil, corpus.IngestStats{}, err
	}
	trie := p.NewTrie()
	trie.Seed(p.seed)

	stats, err := corpus.NewIngester(trie, p.Tokenizer(), p.cfg.Discover.NgramSize).Ingest(ctx, r)
	if err != nil {
		return nil, stats, err
	}
	return trie, stats, nil
}

// Discover ranks the pairs of trie and accepts up to max_candidates words.
// With skip_known set, words already in the seed lexicon are not accepted.
func (p *Pipeline) Discover(trie *cooccur.Trie) (cooccur.Result, error) {
	var opts []cooccur.RankOption
	if p.cfg.Discover.SkipKnown {
		opts = append(opts, cooccur.WithExclude(p.Lexicon().Contains))
	}

	start := time.Now()
	result, err := trie.ExtractCandidates(p.cfg.Discover.MaxCandidates, opts...)
	if err != nil {
		return cooccur.Result{}, fmt.Errorf("candidate extraction failed: %w", err)
	}
	p.log.Debug("Ranked candidates",
		"ranked", len(result.Ranked),
		"accepted", len(result.Accepted),
		"took", time.Since(start))
	return result, nil
}

// WriteWords writes one `word score` line per candidate, the same shape a seed
// dictionary is read from.
func WriteWords(w io.Writer, accepted []cooccur.Candidate) error {
	bw := bufio.NewWriter(w)
	for _, c := range accepted {
		if _, err := fmt.Fprintf(bw, "%s %s\n", c.Word, utils.FormatScore(c.Score)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

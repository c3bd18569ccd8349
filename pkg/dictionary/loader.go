// Package dictionary loads the text inputs that shape a discovery run:
// the seed word-frequency dictionary, the stop-word list, and the Lexicon of known words.
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultMinSeedCount drops seed entries seen this many times or fewer.
const DefaultMinSeedCount = 2

// LoadStats reports how a text file was consumed.
type LoadStats struct {
	Lines     int
	Kept      int
	Dropped   int
	Malformed int
}

// LoadSeed reads a `token count` dictionary file. See ReadSeed.
func LoadSeed(filename string, minCount int) (map[string]int, LoadStats, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to open seed dictionary %s: %w", filename, err)
	}
	defer file.Close()

	freqs, stats, err := ReadSeed(file, minCount)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read seed dictionary %s: %w", filename, err)
	}
	log.Debugf("Seed dictionary %s: %d kept, %d dropped, %d malformed", filename, stats.Kept, stats.Dropped, stats.Malformed)
	return freqs, stats, nil
}

// ReadSeed parses lines of `token count [extra fields...]`.
// Entries with count <= minCount are dropped. Lines without a numeric count are
// logged and skipped. A token listed twice keeps its last count.
func ReadSeed(r io.Reader, minCount int) (map[string]int, LoadStats, error) {
	var stats LoadStats
	freqs := make(map[string]int)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		stats.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			log.Warnf("Skipping seed line %d: missing count field: %q", stats.Lines, line)
			stats.Malformed++
			continue
		}
		count, err := strconv.Atoi(fields[1])
		if err != nil {
			log.Warnf("Skipping seed line %d: invalid count %q", stats.Lines, fields[1])
			stats.Malformed++
			continue
		}
		if count <= minCount {
			stats.Dropped++
			continue
		}

		freqs[fields[0]] = count
		stats.Kept++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, err
	}
	return freqs, stats, nil
}

// StopWords is a set of tokens excluded before n-gram generation.
type StopWords map[string]struct{}

// Contains reports whether token is a stop-word. A nil set contains nothing.
func (s StopWords) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// LoadStopWords reads a stop-word file. See ReadStopWords.
func LoadStopWords(filename string) (StopWords, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open stop-word list %s: %w", filename, err)
	}
	defer file.Close()

	words, err := ReadStopWords(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read stop-word list %s: %w", filename, err)
	}
	log.Debugf("Loaded %d stop-words from %s", len(words), filename)
	return words, nil
}

// ReadStopWords reads one whitespace-trimmed token per line. Blank lines are ignored.
func ReadStopWords(r io.Reader) (StopWords, error) {
	words := make(StopWords)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if token := strings.TrimSpace(scanner.Text()); token != "" {
			words[token] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

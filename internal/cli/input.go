// Package cli handles interactive input for inspecting a trained trie while debugging.
package cli

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/wordfind/internal/utils"
	"github.com/bastiangx/wordfind/pkg/cooccur"
	"github.com/bastiangx/wordfind/pkg/discover"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var wordStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})

// InputHandler reads commands line by line and prints trie statistics.
//
//	new york   statistics of the pair (new, york)
//	new        count of a single token and whether it is a known word
//	:top 5     the five best accepted words
//	:stats     node and total counts
//	:walk new  every path under a first token, with counts
//	:ctx a b c forward and rotated counts of a 3-gram
//	:dump      the whole trie in compact form
type InputHandler struct {
	trie         *cooccur.Trie
	pipeline     *discover.Pipeline
	in           io.Reader
	out          *log.Logger
	noFilter     bool
	requestCount int
	cached       *cooccur.Result
}

// NewInputHandler returns a handler reading from in and printing to out.
// With noFilter set, tokens with digits or symbols are looked up as typed.
func NewInputHandler(trie *cooccur.Trie, pipeline *discover.Pipeline, in io.Reader, out io.Writer, noFilter bool) *InputHandler {
	return &InputHandler{
		trie:     trie,
		pipeline: pipeline,
		in:       in,
		out: log.NewWithOptions(out, log.Options{
			ReportTimestamp: false,
			ReportCaller:    false,
		}),
		noFilter: noFilter,
	}
}

// Start runs the input loop until the input ends.
func (h *InputHandler) Start() error {
	h.out.Print("WordFind CLI")
	h.out.Print("type two tokens, :top N or :stats and press Enter (Ctrl+C to exit):")

	reader := bufio.NewReader(h.in)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// handleInput runs one command.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	start := time.Now()
	defer func() {
		log.Debugf("Took [ %v ] for input #%d '%s'", time.Since(start), h.requestCount, line)
	}()

	if strings.HasPrefix(line, ":") {
		h.handleCommand(strings.Fields(line))
		return
	}

	tokens := strings.Fields(line)
	if !h.noFilter {
		for _, token := range tokens {
			if !utils.IsValidToken(token) {
				h.out.Errorf("Invalid token: '%s'", token)
				return
			}
		}
	}

	switch len(tokens) {
	case 1:
		h.printToken(tokens[0])
	case 2:
		h.printPair(tokens[0], tokens[1])
	default:
		h.out.Errorf("Expected one or two tokens, got %d", len(tokens))
	}
}

func (h *InputHandler) handleCommand(fields []string) {
	switch fields[0] {
	case ":top":
		n := h.pipeline.Config().Discover.MaxCandidates
		if len(fields) > 1 {
			parsed, err := strconv.Atoi(fields[1])
			if err != nil || parsed < 1 {
				h.out.Errorf("Invalid count: '%s'", fields[1])
				return
			}
			n = parsed
		}
		h.printTop(n)
	case ":stats":
		h.printStats()
	case ":walk":
		if len(fields) != 2 {
			h.out.Errorf("Usage: :walk <token>")
			return
		}
		h.printWalk(fields[1])
	case ":ctx":
		if len(fields) != 4 {
			h.out.Errorf("Usage: :ctx <a> <b> <c>")
			return
		}
		h.printContext(fields[1], fields[2], fields[3])
	case ":dump":
		h.printDump()
	default:
		h.out.Errorf("Unknown command: %s", fields[0])
	}
}

func (h *InputHandler) printToken(token string) {
	count, terminal := h.trie.Count(token)
	if !terminal {
		h.out.Warnf("Token not found: '%s'", token)
		return
	}
	known := h.pipeline.Lexicon().Contains(token)
	h.out.Printf("%s count: %s known: %t", wordStyle.Render(token), utils.FormatWithCommas(count), known)
}

func (h *InputHandler) printPair(x, y string) {
	stats, found, err := h.trie.PairStats(x, y)
	if err != nil {
		h.out.Errorf("Pair lookup failed: %v", err)
		return
	}
	if !found {
		h.out.Warnf("Pair not found: '%s %s'", x, y)
		return
	}

	word := wordStyle.Render(stats.Pair.Word())
	if !stats.HasPMI {
		h.out.Printf("%s count: %s (not a full pair)", word, utils.FormatWithCommas(stats.Count))
		return
	}
	h.out.Printf("%s count: %s p: %s pmi: %s", word,
		utils.FormatWithCommas(stats.Count),
		utils.FormatScore(stats.Probability),
		utils.FormatScore(stats.PMI))
	h.out.Printf("%s left entropy: %s right entropy: %s score: %s", word,
		utils.FormatScore(stats.LeftEntropy),
		utils.FormatScore(stats.RightEntropy),
		utils.FormatScore(stats.Score()))
	if stats.PMI <= h.trie.PMIThreshold() {
		h.out.Printf("pmi is below the threshold %v", h.trie.PMIThreshold())
	}
}

func (h *InputHandler) printTop(n int) {
	if h.cached == nil {
		result, err := h.pipeline.Discover(h.trie)
		if err != nil {
			h.out.Errorf("Discovery failed: %v", err)
			return
		}
		h.cached = &result
	}

	accepted := h.cached.Accepted
	if len(accepted) == 0 {
		h.out.Warnf("No words above pmi threshold %v", h.trie.PMIThreshold())
		return
	}
	if len(accepted) > n {
		accepted = accepted[:n]
	}

	h.out.Printf("Top %d of %d ranked pairs:", len(accepted), len(h.cached.Ranked))
	for i, c := range accepted {
		h.out.Printf("%2d. %-24s (score: %s)", i+1, wordStyle.Render(c.Word), utils.FormatScore(c.Score))
	}
}

func (h *InputHandler) printStats() {
	sum := h.trie.Summarize()
	h.out.Printf("nodes: %s", utils.FormatWithCommas(sum.Nodes))
	h.out.Printf("unigrams: %s (total %s)", utils.FormatWithCommas(sum.Unigrams), utils.FormatWithCommas(sum.UnigramTotal))
	h.out.Printf("pairs: %s (total %s)", utils.FormatWithCommas(sum.Pairs), utils.FormatWithCommas(sum.PairTotal))
	h.out.Printf("3-grams: %s forward, %s rotated",
		utils.FormatWithCommas(sum.Forward3), utils.FormatWithCommas(sum.Rotated3))
	h.out.Printf("known words: %s", utils.FormatWithCommas(h.pipeline.Lexicon().Len()))
}

// printWalk lists the subtree of one depth-1 token.
// Rotated 3-grams are marked with '~' and terminals with '*'.
func (h *InputHandler) printWalk(first string) {
	lines := 0
	h.trie.Walk(func(path []string, n cooccur.NodeView) bool {
		if path[0] != first {
			return false
		}
		label := strings.Join(path, " ")
		if n.Rotated {
			label = "~" + label
		}
		if n.Terminal {
			label += "*"
		}
		h.out.Printf("%s%s (count: %s)", strings.Repeat("  ", n.Depth-1), label, utils.FormatWithCommas(n.Count))
		lines++
		return true
	})
	if lines == 0 {
		h.out.Warnf("Token not found: '%s'", first)
	}
}

// printContext shows how often a follows-context and a precedes-context were seen for a 3-gram.
func (h *InputHandler) printContext(a, b, c string) {
	forward, _ := h.trie.Count(a, b, c)
	rotated, _ := h.trie.RotatedCount(a, b, c)
	if forward == 0 && rotated == 0 {
		h.out.Warnf("3-gram not found: '%s %s %s'", a, b, c)
		return
	}
	h.out.Printf("%s %s then %s: %s", a, b, c, utils.FormatWithCommas(forward))
	h.out.Printf("%s before %s %s: %s", a, b, c, utils.FormatWithCommas(rotated))
}

const maxDumpNodes = 2000

func (h *InputHandler) printDump() {
	if n := h.trie.Len(); n > maxDumpNodes {
		h.out.Warnf("Trie has %s nodes, use :walk <token> instead", utils.FormatWithCommas(n))
		return
	}
	h.out.Print(h.trie.DebugString())
}

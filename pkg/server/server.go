package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/wordfind/internal/logger"
	"github.com/bastiangx/wordfind/internal/utils"
	"github.com/bastiangx/wordfind/pkg/cooccur"
	"github.com/bastiangx/wordfind/pkg/discover"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server answers IPC queries against one trained trie.
type Server struct {
	trie       *cooccur.Trie
	pipeline   *discover.Pipeline
	configPath string

	dec    *msgpack.Decoder
	out    *bufio.Writer
	enc    *msgpack.Encoder
	log    *log.Logger
	cached *cooccur.Result
}

// NewServer creates a server on stdin/stdout.
// configPath is where config changes are saved; empty keeps them in memory.
func NewServer(trie *cooccur.Trie, pipeline *discover.Pipeline, configPath string) *Server {
	return NewServerWithIO(trie, pipeline, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO is NewServer with custom streams.
func NewServerWithIO(trie *cooccur.Trie, pipeline *discover.Pipeline, configPath string, r io.Reader, w io.Writer) *Server {
	out := bufio.NewWriter(w)
	return &Server{
		trie:       trie,
		pipeline:   pipeline,
		configPath: configPath,
		dec:        msgpack.NewDecoder(bufio.NewReader(r)),
		out:        out,
		enc:        msgpack.NewEncoder(out),
		log:        logger.New("server"),
	}
}

// Start serves requests until the input ends or ctx is done.
// A clean end of input returns nil.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting server")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed")
				return nil
			}
			s.log.Errorf("Reading request: %v", err)
			return fmt.Errorf("failed to read request: %w", err)
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.log.Warnf("Malformed request: %v", err)
			if err := s.sendError("", "invalid msgpack request", 400); err != nil {
				return err
			}
			continue
		}
		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// handleRequest dispatches on the action. Only write failures are returned.
func (s *Server) handleRequest(req Request) error {
	s.log.Debug("Request", "id", req.ID, "action", req.Action)

	switch req.Action {
	case "discover":
		return s.handleDiscover(req)
	case "pair":
		return s.handlePair(req)
	case "known":
		return s.handleKnown(req)
	case "stats":
		return s.handleStats(req)
	case "config":
		return s.handleConfig(req)
	case "health":
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	case "":
		return s.sendError(req.ID, "missing action", 400)
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

// limit applies the server section bounds to a requested result count.
func (s *Server) limit(requested int) int {
	cfg := s.pipeline.Config().Server
	if requested < 1 {
		requested = cfg.DefaultLimit
	}
	if cfg.MaxLimit > 0 && requested > cfg.MaxLimit {
		requested = cfg.MaxLimit
	}
	return requested
}

func (s *Server) handleDiscover(req Request) error {
	start := time.Now()
	if s.cached == nil {
		result, err := s.pipeline.Discover(s.trie)
		if err != nil {
			s.log.Errorf("Discovery failed: %v", err)
			return s.sendError(req.ID, err.Error(), 500)
		}
		s.cached = &result
	}

	accepted := s.cached.Accepted
	if n := s.limit(req.Limit); len(accepted) > n {
		accepted = accepted[:n]
	}

	ranks := utils.CreateRankList(len(accepted))
	words := make([]WordSuggestion, len(accepted))
	for i, c := range accepted {
		words[i] = WordSuggestion{Word: c.Word, Score: c.Score, Rank: ranks[i]}
	}

	return s.send(DiscoverResponse{
		ID:        req.ID,
		Words:     words,
		Count:     len(words),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handlePair(req Request) error {
	if req.First == "" || req.Second == "" {
		return s.sendError(req.ID, "pair needs both 'x' and 'y'", 400)
	}

	stats, found, err := s.trie.PairStats(req.First, req.Second)
	if err != nil {
		s.log.Errorf("Pair %s %s: %v", req.First, req.Second, err)
		return s.sendError(req.ID, err.Error(), 500)
	}
	if !found {
		return s.send(PairResponse{ID: req.ID})
	}

	resp := PairResponse{
		ID:           req.ID,
		Found:        true,
		Count:        stats.Count,
		Terminal:     stats.Terminal,
		HasPMI:       stats.HasPMI,
		PMI:          stats.PMI,
		Probability:  stats.Probability,
		LeftEntropy:  stats.LeftEntropy,
		RightEntropy: stats.RightEntropy,
	}
	if stats.HasPMI {
		resp.Score = stats.Score()
	}
	return s.send(resp)
}

func (s *Server) handleKnown(req Request) error {
	if req.Word == "" {
		return s.sendError(req.ID, "missing 'w' parameter", 400)
	}

	lexicon := s.pipeline.Lexicon()
	resp := KnownResponse{ID: req.ID}
	if freq, ok := lexicon.Frequency(req.Word); ok {
		resp.Known = true
		resp.Frequency = freq
	}
	for _, e := range lexicon.WithPrefix(req.Word, s.limit(req.Limit)) {
		resp.Words = append(resp.Words, KnownWord{Word: e.Word, Frequency: e.Frequency})
	}
	return s.send(resp)
}

func (s *Server) handleStats(req Request) error {
	sum := s.trie.Summarize()
	return s.send(StatsResponse{
		ID:           req.ID,
		Nodes:        sum.Nodes,
		Unigrams:     sum.Unigrams,
		UnigramTotal: sum.UnigramTotal,
		Pairs:        sum.Pairs,
		PairTotal:    sum.PairTotal,
		Forward3:     sum.Forward3,
		Rotated3:     sum.Rotated3,
		KnownWords:   s.pipeline.Lexicon().Len(),
	})
}

func (s *Server) handleConfig(req Request) error {
	if req.PMIThreshold == nil && req.MaxCandidates == nil {
		return s.sendError(req.ID, "config needs 'pmi' or 'max'", 400)
	}
	if req.MaxCandidates != nil && *req.MaxCandidates < 0 {
		return s.sendError(req.ID, "'max' must not be negative", 400)
	}

	cfg := s.pipeline.Config()
	if err := cfg.Update(s.configPath, req.PMIThreshold, req.MaxCandidates); err != nil {
		s.log.Errorf("Saving config: %v", err)
		return s.sendError(req.ID, err.Error(), 500)
	}
	s.trie.SetPMIThreshold(cfg.Discover.PMIThreshold)
	s.cached = nil

	s.log.Infof("Config updated: pmi_threshold=%v max_candidates=%d",
		cfg.Discover.PMIThreshold, cfg.Discover.MaxCandidates)
	return s.send(ConfigResponse{
		ID:            req.ID,
		Status:        "ok",
		PMIThreshold:  cfg.Discover.PMIThreshold,
		MaxCandidates: cfg.Discover.MaxCandidates,
	})
}

// send encodes one response and flushes it.
func (s *Server) send(response any) error {
	if err := s.enc.Encode(response); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

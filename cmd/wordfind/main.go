// Copyright 2025 The WordFind Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordfind trainer, query CLI and IPC server.

WordFind discovers new words in raw text. It counts how often tokens appear
alone, in pairs and in triples, then ranks every adjacent pair by how strongly
the two tokens stick together (pointwise mutual information) and how freely the
pair combines with its neighbours (boundary entropy). The best pairs that do not
overlap each other are reported as new words.

# Usage

Train on a corpus and print the discovered words:

	wordfind -corpus news.txt

Seed the unigram counts with a known dictionary, save the model and write the
word list:

	wordfind -corpus a.txt,b.txt -seed dict.txt -save news.wfm -o words.txt

Query a saved model interactively, or serve it over msgpack IPC:

	wordfind -load news.wfm -c
	wordfind -load news.wfm -s

# Configuration

Options are read from a TOML file, created with defaults when missing:

	[discover]
	pmi_threshold = 20.0
	max_candidates = 20
	ngram_size = 3
	parallelism = 4
	skip_known = false

	[corpus]
	split_runes = false
	normalize = true
	min_token_len = 1
	stopwords_path = ""

	[dict]
	seed_path = ""
	min_seed_count = 2

	[server]
	max_limit = 200
	default_limit = 20

Flags override the file for one run. The default threshold of 20 is high for
most corpora; lower it with -pmi when nothing is found.

# Command Line Flags

	-corpus string     Comma separated corpus files
	-seed string       Seed dictionary of `token count` lines
	-stopwords string  Stop-word list, one per line
	-load string       Load a saved model instead of training
	-save string       Save the trained model
	-o string          Write accepted words as `word score` lines
	-pmi float         PMI threshold
	-n int             Maximum number of accepted words
	-ngram int         Longest n-gram inserted (1-3)
	-runes             Split CJK text into single runes
	-skip-known        Do not report words from the seed dictionary
	-c                 Interactive mode
	-no-filter         Look up CLI tokens with digits or symbols as typed
	-s                 msgpack IPC server on stdin/stdout
	-d                 Debug logging
	-json-logs         Log as JSON
	-config string     Config file path
	-rebuild-config    Rewrite the default config file
	-version           Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bastiangx/wordfind/internal/cli"
	"github.com/bastiangx/wordfind/internal/logger"
	"github.com/bastiangx/wordfind/internal/utils"
	"github.com/bastiangx/wordfind/pkg/config"
	"github.com/bastiangx/wordfind/pkg/cooccur"
	"github.com/bastiangx/wordfind/pkg/discover"
	"github.com/bastiangx/wordfind/pkg/model"
	"github.com/bastiangx/wordfind/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wordfind"
	gh      = "https://github.com/bastiangx/wordfind"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	wordStyle = lipgloss.NewStyle().Bold(true).Width(24).
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	scoreStyle = lipgloss.NewStyle().Width(10).Align(lipgloss.Right).
			Foreground(lipgloss.AdaptiveColor{Light: "#797593", Dark: "#908caa"})
	dimStyle = lipgloss.NewStyle().Faint(true)
)

// sigHandler cancels ctx on interrupt. A second signal exits right away.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		<-c
		os.Exit(1)
	}()
}

// main parses flags and hands off to the pipeline, the CLI or the server.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)

	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to custom config.toml file")
	rebuildConfig := flag.Bool("rebuild-config", false, "Rewrite the default config file and exit")
	corpusFlag := flag.String("corpus", "", "Comma separated list of corpus files")
	seedPath := flag.String("seed", defaults.Dict.SeedPath, "Seed dictionary with one \"token count\" entry per line")
	stopWordsPath := flag.String("stopwords", defaults.Corpus.StopWordsPath, "Stop-word list, one token per line")
	loadPath := flag.String("load", "", "Load a saved model instead of training")
	savePath := flag.String("save", "", "Save the trained model to this file")
	outPath := flag.String("o", "", "Write accepted words as \"word score\" lines")
	pmiThreshold := flag.Float64("pmi", defaults.Discover.PMIThreshold, "PMI threshold for candidate pairs")
	maxCandidates := flag.Int("n", defaults.Discover.MaxCandidates, "Maximum number of accepted words")
	ngramSize := flag.Int("ngram", defaults.Discover.NgramSize, "Longest n-gram inserted (1-3)")
	splitRunes := flag.Bool("runes", defaults.Corpus.SplitRunes, "Split CJK text into single runes")
	skipKnown := flag.Bool("skip-known", defaults.Discover.SkipKnown, "Do not report words already in the seed dictionary")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	jsonLogs := flag.Bool("json-logs", false, "Write logs as JSON")
	cliMode := flag.Bool("c", false, "Run interactive CLI")
	serverMode := flag.Bool("s", false, "Run msgpack IPC server on stdin/stdout")
	noFilter := flag.Bool("no-filter", false, "Disable CLI input filtering")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	if *jsonLogs {
		log.SetDefault(logger.NewWithConfig("", log.GetLevel(), *debugMode, true, log.JSONFormatter))
	}

	if *rebuildConfig {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Config file rebuilt at: %s\n", path)
		os.Exit(0)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	cfg, cfgPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", utils.GetAbsolutePath(cfgPath))

	// flags only override the file when given explicitly
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Dict.SeedPath = *seedPath
		case "stopwords":
			cfg.Corpus.StopWordsPath = *stopWordsPath
		case "pmi":
			cfg.Discover.PMIThreshold = *pmiThreshold
		case "n":
			cfg.Discover.MaxCandidates = *maxCandidates
		case "ngram":
			cfg.Discover.NgramSize = *ngramSize
		case "runes":
			cfg.Corpus.SplitRunes = *splitRunes
		case "skip-known":
			cfg.Discover.SkipKnown = *skipKnown
		}
	})
	cfg.Dict.SeedPath = pathResolver.ResolveInput(cfg.Dict.SeedPath)
	cfg.Corpus.StopWordsPath = pathResolver.ResolveInput(cfg.Corpus.StopWordsPath)

	pipeline := discover.New(cfg)
	trie := loadOrBuild(ctx, pipeline, pathResolver, *loadPath, *corpusFlag)

	if *savePath != "" {
		if err := model.Save(*savePath, trie); err != nil {
			log.Fatalf("Failed to save model: %v", err)
		}
		log.Infof("Model saved to %s", *savePath)
	}

	switch {
	case *serverMode:
		srv := server.NewServer(trie, pipeline, cfgPath)
		showStartupInfo(trie)
		if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("Server error: %v", err)
		}
	case *cliMode:
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(trie, pipeline, os.Stdin, os.Stderr, *noFilter)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	default:
		result, err := pipeline.Discover(trie)
		if err != nil {
			log.Fatalf("Discovery aborted: %v", err)
		}
		if *outPath != "" {
			if err := writeWordFile(*outPath, result.Accepted); err != nil {
				log.Fatalf("Failed to write words: %v", err)
			}
		}
		printResults(os.Stdout, trie, result)
	}
}

// loadOrBuild returns the trie from a model file or trains one from the corpus list.
func loadOrBuild(ctx context.Context, pipeline *discover.Pipeline, pr *utils.PathResolver, loadPath, corpusList string) *cooccur.Trie {
	if loadPath != "" {
		loadPath = pr.ResolveInput(loadPath)
		if format, err := model.DetectFileFormat(loadPath); err == nil && format == model.FormatText {
			log.Fatalf("%s is a text file, pass it with -corpus to train on it", loadPath)
		}
		trie, err := model.Load(loadPath)
		if err != nil {
			log.Fatalf("Failed to load model: %v", err)
		}
		cfg := pipeline.Config().Discover
		trie.SetPMIThreshold(cfg.PMIThreshold)
		trie.SetParallelism(cfg.Parallelism)
		// the lexicon is still needed for skip_known and known-word lookups
		if err := pipeline.LoadDictionaries(); err != nil {
			log.Fatalf("Failed to load dictionaries: %v", err)
		}
		return trie
	}

	var paths []string
	for _, p := range strings.Split(corpusList, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, pr.ResolveInput(p))
		}
	}
	if len(paths) == 0 {
		log.Fatal("No input: pass -corpus files or -load a model (see -h)")
	}

	trie, stats, err := pipeline.Build(ctx, paths...)
	if err != nil {
		log.Fatalf("Failed to build trie: %v", err)
	}
	log.Debug("Corpus ingested",
		"lines", stats.Lines,
		"sentences", stats.Sentences,
		"tokens", stats.Tokens,
		"sequences", stats.Sequences)
	return trie
}

func writeWordFile(path string, accepted []cooccur.Candidate) error {
	return utils.WriteFileAtomic(path, func(f *os.File) error {
		return discover.WriteWords(f, accepted)
	})
}

// printResults renders the accepted words as a small table.
func printResults(w io.Writer, trie *cooccur.Trie, result cooccur.Result) {
	if len(result.Accepted) == 0 {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf(
			"No new words found (%d pairs ranked, pmi threshold %v)", len(result.Ranked), trie.PMIThreshold())))
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d new words from %d ranked pairs",
		len(result.Accepted), len(result.Ranked))))
	for i, c := range result.Accepted {
		fmt.Fprintf(w, "%3d. %s%s %s\n", i+1,
			wordStyle.Render(c.Word),
			scoreStyle.Render(utils.FormatScore(c.Score)),
			dimStyle.Render(fmt.Sprintf("pmi %s  hl %s  hr %s",
				utils.FormatScore(c.PMI), utils.FormatScore(c.LeftEntropy), utils.FormatScore(c.RightEntropy))))
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ WordFind ] Finds new words in raw text")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the loaded model.
func showStartupInfo(trie *cooccur.Trie) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	sum := trie.Summarize()
	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("nodes: %s pairs: %s", utils.FormatWithCommas(sum.Nodes), utils.FormatWithCommas(sum.Pairs))
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}

// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordfuzz fuzzy dictionary lookup.

wordfuzz finds every dictionary word within a bounded Levenshtein distance of
each query word. The dictionary file is memory mapped, split into one shard
per worker and scanned in parallel. Matches are written to stdout as

	<distance>\t<word>

grouped by worker, not sorted. Logs go to stderr.

# Usage

Look up two words with the default thresholds:

	wordfuzz kitten sitting

Allow at most one edit and a length difference of two, scanned by eight
workers:

	wordfuzz -l 1 -s 2 -p 8 kitten

Repeat the whole query set five times and report timings:

	wordfuzz -r 5 -v 1 kitten

Run the interactive prompt, or serve msgpack requests on stdin/stdout:

	wordfuzz -c
	wordfuzz -serve

# Dictionaries

Dictionaries are built with dictbuild. Fixed width files can be searched with
any worker count. Variable length files are laid out for one worker count
and refuse any other; -p 0 picks the count the file was built for.

# Configuration

Defaults come from a TOML file, created at the platform config directory on
first run. Flags given on the command line win over the file.

	[search]
	max_length_diff = 5
	max_distance = 5
	workers = 4
	fold_case = false
	runner = "local"
	buffer = 1024

	[dict]
	path = "dictionary"
	format = "auto"

# Command Line Flags

	-s int     max length difference (default 5)
	-l int     max edit distance (default 5)
	-p int     number of workers, 0 to follow the file layout (default 4)
	-d string  dictionary path (default "dictionary")
	-f string  dictionary format: auto, fixed or variable (default "auto")
	-i         case-insensitive exact match
	-proc      scan in child processes instead of goroutines
	-r int     number of times to repeat the query set (default 1)
	-v int     verbosity: 0 warnings, 1 info, 2 debug
	-c         interactive prompt
	-serve     msgpack IPC on stdin/stdout
	-config    path to a config file
	-version   show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/bastiangx/wordfuzz/internal/cli"
	"github.com/bastiangx/wordfuzz/internal/logger"
	"github.com/bastiangx/wordfuzz/internal/utils"
	"github.com/bastiangx/wordfuzz/pkg/config"
	"github.com/bastiangx/wordfuzz/pkg/dictionary"
	"github.com/bastiangx/wordfuzz/pkg/search"
	"github.com/bastiangx/wordfuzz/pkg/server"
	"github.com/bastiangx/wordfuzz/pkg/shard"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "wordfuzz"
	gh      = "https://github.com/bastiangx/wordfuzz"

	// workerCommand is the hidden first argument that turns the binary into
	// a child worker for the process runner.
	workerCommand = "__worker"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(130)
	}()
}

type options struct {
	maxLengthDiff int
	maxDistance   int
	workers       int
	dictPath      string
	format        string
	foldCase      bool
	processes     bool
	runs          int
	verbosity     int
	cliMode       bool
	serveMode     bool
	configPath    string
	showVersion   bool
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == workerCommand {
		runWorker()
		return
	}
	sigHandler()

	def := config.DefaultConfig()
	var opts options
	flag.IntVar(&opts.maxLengthDiff, "s", def.Search.MaxLengthDiff, "Max length difference between query and word")
	flag.IntVar(&opts.maxDistance, "l", def.Search.MaxDistance, "Max edit distance")
	flag.IntVar(&opts.workers, "p", def.Search.Workers, "Number of workers (0 follows the dictionary layout)")
	flag.StringVar(&opts.dictPath, "d", def.Dict.Path, "Dictionary file")
	flag.StringVar(&opts.format, "f", def.Dict.Format, "Dictionary format: auto, fixed or variable")
	flag.BoolVar(&opts.foldCase, "i", def.Search.FoldCase, "Case-insensitive exact match")
	flag.BoolVar(&opts.processes, "proc", false, "Scan in child processes instead of goroutines")
	flag.IntVar(&opts.runs, "r", def.CLI.Runs, "Number of times to repeat the query set")
	flag.IntVar(&opts.verbosity, "v", def.CLI.Verbose, "Verbosity: 0 warnings, 1 info, 2 debug")
	flag.BoolVar(&opts.cliMode, "c", false, "Run the interactive prompt")
	flag.BoolVar(&opts.serveMode, "serve", false, "Serve msgpack requests on stdin/stdout")
	flag.StringVar(&opts.configPath, "config", "", "Path to a config file")
	flag.BoolVar(&opts.showVersion, "version", false, "Show current version")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] word...\n", AppName)
		flag.PrintDefaults()
	}
	flag.Parse()

	if opts.showVersion {
		showVersion()
		os.Exit(0)
	}

	logger.Setup(opts.verbosity)
	cfg, cfgPath, err := config.LoadConfigWithPriority(opts.configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyConfig(&opts, cfg)
	logger.Setup(opts.verbosity)
	log.Debugf("Using config: %s", config.GetActiveConfigPath(cfgPath))

	if !opts.cliMode && !opts.serveMode && flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	format, err := dictionary.ParseFormat(opts.format)
	if err != nil {
		log.Fatalf("Invalid -f: %v", err)
	}
	dictPath := utils.ResolveDictPath(opts.dictPath)
	d, err := dictionary.Open(dictPath, format)
	if err != nil {
		log.Fatalf("Failed to open dictionary: %v", err)
	}
	defer d.Close()

	workers := opts.workers
	if workers == 0 {
		workers = d.Runs()
		if workers == 0 {
			workers = runtime.NumCPU()
		}
	}
	shards, err := shard.Partition(d, workers)
	if err != nil {
		log.Fatalf("Failed to partition dictionary: %v", err)
	}
	log.Infof("Dictionary %s: %s records, %s, %d workers",
		dictPath, utils.FormatWithCommas(d.Len()), d.Format(), workers)

	coord := search.NewCoordinator(newRunner(&opts, d, dictPath))
	coord.Buffer = cfg.Search.Buffer
	params := search.Params{
		MaxLengthDiff: opts.maxLengthDiff,
		MaxDistance:   opts.maxDistance,
		FoldCase:      opts.foldCase,
	}
	if err := params.Validate(); err != nil {
		log.Fatalf("Invalid thresholds: %v", err)
	}

	switch {
	case opts.serveMode:
		showStartupInfo(dictPath, workers)
		if err := server.NewServer(d, shards, coord, params).Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case opts.cliMode:
		if err := cli.NewInputHandler(coord, shards, params).Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	default:
		if failed := runQueries(coord, shards, params, flag.Args(), opts.runs); failed > 0 {
			d.Close()
			os.Exit(1)
		}
	}
}

// applyConfig copies config values into every option the user did not set
// on the command line.
func applyConfig(opts *options, cfg *config.Config) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["s"] {
		opts.maxLengthDiff = cfg.Search.MaxLengthDiff
	}
	if !set["l"] {
		opts.maxDistance = cfg.Search.MaxDistance
	}
	if !set["p"] {
		opts.workers = cfg.Search.Workers
	}
	if !set["i"] {
		opts.foldCase = cfg.Search.FoldCase
	}
	if !set["proc"] {
		opts.processes = cfg.Search.Runner == "process"
	}
	if !set["d"] {
		opts.dictPath = cfg.Dict.Path
	}
	if !set["f"] {
		opts.format = cfg.Dict.Format
	}
	if !set["r"] {
		opts.runs = cfg.CLI.Runs
	}
	if !set["v"] {
		opts.verbosity = cfg.CLI.Verbose
	}
}

func newRunner(opts *options, d *dictionary.Dictionary, dictPath string) search.Runner {
	if !opts.processes {
		return &search.LocalRunner{Dict: d}
	}
	abs, err := filepath.Abs(dictPath)
	if err != nil {
		abs = dictPath
	}
	return &search.ProcessRunner{
		Args:     []string{workerCommand},
		DictPath: abs,
	}
}

// runQueries runs every query runs times, writing matches to stdout, and
// returns how many searches failed.
func runQueries(coord *search.Coordinator, shards []shard.Shard, p search.Params, queries []string, runs int) int {
	sink := search.NewTextSink(os.Stdout)
	failed := 0
	start := time.Now()

	for run := 1; run <= max(runs, 1); run++ {
		runStart := time.Now()
		for _, q := range queries {
			if err := coord.Run(shards, []byte(q), p, sink); err != nil {
				log.Errorf("Search for '%s' failed, results are incomplete: %v", q, err)
				failed++
			}
			if err := sink.Flush(); err != nil {
				log.Fatalf("Failed to write matches: %v", err)
			}
		}
		if runs > 1 {
			log.Infof("Run %d took [ %v ]", run, time.Since(runStart))
		}
	}
	log.Infof("%d queries, %d runs took [ %v ]", len(queries), max(runs, 1), time.Since(start))
	return failed
}

// runWorker is the child side of the process runner: one job on stdin,
// matches on stdout, a non-zero exit on failure.
func runWorker() {
	logger.Setup(0)
	if err := search.ServeWorker(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s worker: %v\n", AppName, err)
		os.Exit(1)
	}
}

func showVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ WordFuzz ] Finds every word within a few edits!")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the server on stderr.
func showStartupInfo(dictPath string, workers int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("dictionary: ( %s )", dictPath)
	log.Infof("workers: %d", workers)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}

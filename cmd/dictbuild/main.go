/*
Package main implements dictbuild, which turns a word list into a wordfuzz
dictionary file and describes existing ones.

# Usage

Build a fixed width dictionary from a word list:

	dictbuild -o dictionary words.txt

Build a variable length dictionary laid out for 8 workers from a compressed
list on stdin:

	zcat words.txt.gz | dictbuild -f variable -p 8 -o dictionary
	dictbuild -f variable -p 8 -o dictionary words.txt.gz

Describe a dictionary:

	dictbuild info dictionary
	dictbuild info -json dictionary

The word list holds one word per line. Trailing "\r" is stripped and empty
lines are skipped. A line over 255 bytes or one containing a NUL byte fails
the build. Lists ending in .gz, .zst or .lz4 are decompressed.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/wordfuzz/internal/logger"
	"github.com/bastiangx/wordfuzz/internal/utils"
	"github.com/bastiangx/wordfuzz/pkg/config"
	"github.com/bastiangx/wordfuzz/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "info" {
		os.Exit(runInfo(os.Args[2:]))
	}
	os.Exit(runBuild(os.Args[1:]))
}

func runBuild(args []string) int {
	def := config.DefaultConfig()
	fs := flag.NewFlagSet("dictbuild", flag.ExitOnError)
	format := fs.String("f", def.Build.Format, "Output format: "+formatNames(" or "))
	runs := fs.Int("p", def.Build.Runs, "Number of runs (workers) a variable length file is laid out for")
	out := fs.String("o", "dictionary", "Output file, - for stdout")
	quiet := fs.Bool("q", false, "Only report errors")
	unique := fs.Bool("u", false, "Drop repeated words, keeping the first")
	foldDupes := fs.Bool("U", false, "Like -u but words differing only in case count as repeats")
	verbosity := fs.Int("v", 0, "Verbosity: 0 warnings, 1 info, 2 debug")
	configPath := fs.String("config", "", "Path to a config file")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dictbuild [flags] [wordlist]\n       dictbuild info [-json] <dictionary>\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	logger.Setup(*verbosity)

	if *configPath != "" {
		cfg, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Errorf("Failed to load config: %v", err)
			return 1
		}
		set := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if !set["f"] {
			*format = cfg.Build.Format
		}
		if !set["p"] {
			*runs = cfg.Build.Runs
		}
	}

	f, err := dictionary.ParseFormat(*format)
	if err != nil || f == dictionary.FormatAuto {
		log.Errorf("Invalid -f %q: want %s", *format, formatNames(" or "))
		return 2
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	in, err := dictionary.OpenWordList(fs.Arg(0))
	if err != nil {
		log.Error(err)
		return 1
	}
	defer in.Close()

	words, skipped, err := dictionary.ReadWordList(in)
	if err != nil {
		log.Errorf("Failed to read word list: %v", err)
		return 1
	}
	dropped := 0
	if *unique || *foldDupes {
		words, dropped = utils.Dedupe(words, *foldDupes)
	}

	stats, err := writeDictionary(*out, words, dictionary.EncodeOptions{Format: f, Runs: *runs})
	if err != nil {
		log.Errorf("Failed to build dictionary: %v", err)
		return 1
	}

	if !*quiet {
		log.Printf("Wrote %s: %s words, max length %d, %s",
			*out, utils.FormatWithCommas(stats.Words), stats.MaxWordLength, utils.FormatBytes(stats.Bytes))
		if skipped > 0 || dropped > 0 {
			log.Printf("Skipped %d empty lines and %d repeated words", skipped, dropped)
		}
	}
	return 0
}

// writeDictionary encodes words into path, or stdout for "-". Files are
// written under a temporary name and renamed once complete.
func writeDictionary(path string, words [][]byte, opts dictionary.EncodeOptions) (dictionary.BuildStats, error) {
	if path == "-" {
		return dictionary.WriteWords(os.Stdout, words, opts)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".dictbuild-*")
	if err != nil {
		return dictionary.BuildStats{}, err
	}
	defer os.Remove(tmp.Name())

	stats, err := dictionary.WriteWords(tmp, words, opts)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return dictionary.BuildStats{}, err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return dictionary.BuildStats{}, err
	}
	return stats, os.Rename(tmp.Name(), path)
}

// formatNames lists the formats dictbuild can write.
func formatNames(sep string) string {
	var names []string
	for _, info := range dictionary.ListSupportedFormats() {
		names = append(names, info.Name)
	}
	return strings.Join(names, sep)
}

func runInfo(args []string) int {
	fs := flag.NewFlagSet("dictbuild info", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print as JSON")
	format := fs.String("f", "auto", "Dictionary format: auto, "+formatNames(", "))
	fs.Parse(args)
	logger.Setup(0)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: dictbuild info [-json] [-f format] <dictionary>")
		return 2
	}
	f, err := dictionary.ParseFormat(*format)
	if err != nil {
		log.Error(err)
		return 2
	}

	d, err := dictionary.Open(fs.Arg(0), f)
	if err != nil {
		log.Error(err)
		return 1
	}
	defer d.Close()

	if err := printInfo(os.Stdout, d.Info(), *asJSON); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

func printInfo(w io.Writer, info dictionary.Info, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	_, err := fmt.Fprintf(w, "format:          %s (%s)\nrecords:         %s\nmax word length: %d\nruns:            %d\nsize:            %s\nfingerprint:     %s\n",
		info.Format, info.Description, utils.FormatWithCommas(info.Records), info.MaxWordLength,
		info.Runs, utils.FormatBytes(int64(info.Size)), info.Fingerprint)
	return err
}

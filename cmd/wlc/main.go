package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/xiaobogaga/wlc/internal/compiler"
	"github.com/xiaobogaga/wlc/internal/config"
)

const version = "wlc version 0.1.0"

var (
	verbose     = flag.Bool("verbose", false, "log each compiler phase as it starts, and print an internal failure trail on error")
	configPath  = flag.String("config", "", "path to a .wlcrc file (default: search upward from each source file's directory)")
	showVersion = flag.Bool("version", false, "print the compiler version and exit")
	showHelp    = flag.Bool("help", false, "print usage and exit")
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: wlc [options] file.while...")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *showHelp {
		flag.Usage()
		return
	}
	if *showVersion {
		fmt.Println(version)
		return
	}

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "wlc: at least one source file is required")
		flag.Usage()
		os.Exit(2)
	}

	// Compile and run each file in turn, exiting immediately on the first
	// failure rather than continuing to the remaining files.
	for _, path := range files {
		if err := compileAndRun(path); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			if *verbose {
				printFailureTrail(err)
			}
			os.Exit(1)
		}
	}
}

func compileAndRun(path string) error {
	dir := filepath.Dir(path)
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, _, err = config.FindAndLoad(dir)
	}
	if err != nil {
		return fmt.Errorf("wlc: loading config: %w", err)
	}

	level := zerolog.WarnLevel
	if *verbose || cfg.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("wlc: %w", err)
	}

	return compiler.Compile(path, string(src), os.Stdout, log)
}

// printFailureTrail prints the internal stack trace captured at the
// point the failing diagnostic was raised, the way the original
// compiler's Main.printStackTrace() does when run with -verbose.
func printFailureTrail(err error) {
	var diag *compiler.Diagnostic
	if !errors.As(err, &diag) || diag.Stack == "" {
		return
	}
	fmt.Fprintln(os.Stderr, "wlc: internal failure trail:")
	fmt.Fprintln(os.Stderr, diag.Stack)
}

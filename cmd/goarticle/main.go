package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goarticle/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		debugDir    string
		timeout     time.Duration
		userAgent   string
		configPath  string
		cacheDir    string
		cacheMaxAge time.Duration
		cacheClear  bool
		outputPDF   string
		summary     bool
		llmBaseURL  string
		llmModel    string
		llmKey      string
		verbose     bool
		showVersion bool
	)

	flag.StringVar(&debugDir, "debug-dir", "", "Directory for debug artifacts (original.html, title.txt, content.txt)")
	flag.StringVar(&debugDir, "d", "", "Shorthand for -debug-dir")
	flag.DurationVar(&timeout, "timeout", app.DefaultTimeout, "Overall navigation and extraction timeout")
	flag.StringVar(&userAgent, "ua", "", "User agent override (fixed desktop default otherwise)")
	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file overlaid onto flags")
	flag.StringVar(&cacheDir, "cache.dir", "", "Rendered-page cache directory (empty disables caching)")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.StringVar(&outputPDF, "output.pdf", "", "Additionally render the article to this PDF file")
	flag.BoolVar(&summary, "summary", false, "Add an LLM summary to the output record")
	flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for OpenAI-compatible server")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: goarticle [flags] <URL>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	flagsGiven := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { flagsGiven[f.Name] = true })

	if showVersion {
		fmt.Printf("goarticle %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	rawURL, err := ensureScheme(flag.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("invalid URL")
		os.Exit(1)
	}

	cfg := app.Config{
		URL:           rawURL,
		Timeout:       timeout,
		UserAgent:     userAgent,
		DebugDir:      debugDir,
		CacheDir:      cacheDir,
		CacheMaxAge:   cacheMaxAge,
		CacheClear:    cacheClear,
		OutputPDFPath: outputPDF,
		Summarize:     summary,
		LLMBaseURL:    llmBaseURL,
		LLMModel:      llmModel,
		LLMAPIKey:     llmKey,
		Verbose:       verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(1)
		}
		if !flagsGiven["timeout"] {
			// Not on the command line, so the file may supply it.
			cfg.Timeout = 0
		}
		app.ApplyFileConfig(&cfg, fc)
		if cfg.Timeout == 0 {
			cfg.Timeout = app.DefaultTimeout
		}
		if cfg.Verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	res, err := run(cfg)
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("encode result")
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func run(cfg app.Config) (app.Result, error) {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return app.Result{}, fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}

// ensureScheme completes a scheme-less URL with https:// and rejects anything
// other than http or https.
func ensureScheme(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme == "" {
		return "https://" + raw, nil
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q (use http or https)", u.Scheme)
	}
	return raw, nil
}

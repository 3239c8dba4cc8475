package app

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goarticle/internal/browser"
	"github.com/hyperifyio/goarticle/internal/cache"
	"github.com/hyperifyio/goarticle/internal/extract"
	"github.com/hyperifyio/goarticle/internal/sanitize"
	"github.com/hyperifyio/goarticle/internal/summarize"
)

// Result is the single output record of a run.
type Result struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Domain  string `json:"domain"`
	URL     string `json:"url"`
	Summary string `json:"summary,omitempty"`
}

// Fetcher renders a page and returns its HTML. The browser session satisfies
// it; tests inject fakes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close()
}

type App struct {
	cfg        Config
	fetcher    Fetcher
	pageCache  *cache.PageCache
	summarizer *summarize.Summarizer
}

// New wires the pipeline: page cache controls and the optional summarizer.
// The browser session is launched lazily on the first cache miss, so a cached
// page never starts Chrome. Always Close the returned App so a launched
// browser process is released.
func New(_ context.Context, cfg Config) (*App, error) {
	a := &App{cfg: cfg}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			_ = cache.ClearDir(cfg.CacheDir)
		}
		if cfg.CacheMaxAge > 0 {
			// Purge by age; ignore errors to avoid failing startup.
			_, _ = cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge)
		}
		a.pageCache = &cache.PageCache{Dir: cfg.CacheDir}
	}

	if cfg.Summarize {
		a.summarizer = &summarize.Summarizer{
			Client: summarize.NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMAPIKey),
			Model:  cfg.LLMModel,
		}
	}

	return a, nil
}

// Close releases the browser session.
func (a *App) Close() {
	if a != nil && a.fetcher != nil {
		a.fetcher.Close()
	}
}

// Run executes the pipeline once: fetch rendered HTML (cache permitting),
// sanitize, extract, shape the result, persist debug artifacts, and apply the
// optional PDF and summary steps.
func (a *App) Run(ctx context.Context) (Result, error) {
	u, err := url.Parse(a.cfg.URL)
	if err != nil {
		return Result{}, fmt.Errorf("parse url: %w", err)
	}

	rawHTML, err := a.pageHTML(ctx)
	if err != nil {
		return Result{}, err
	}

	cleaned, err := sanitize.Clean(rawHTML)
	if err != nil {
		return Result{}, fmt.Errorf("sanitize: %w", err)
	}

	art, err := extract.FromHTML(cleaned, u)
	if err != nil {
		return Result{}, err
	}
	log.Info().Str("title", art.Title).Int("chars", len(art.Text)).Msg("extracted article")

	res := Result{
		Title:   art.Title,
		Content: art.Text,
		Domain:  u.Hostname(),
		URL:     a.cfg.URL,
	}

	if a.cfg.DebugDir != "" {
		if err := writeDebugArtifacts(a.cfg.DebugDir, rawHTML, res); err != nil {
			return Result{}, err
		}
		log.Info().Str("dir", a.cfg.DebugDir).Msg("wrote debug artifacts")
	}

	if a.cfg.OutputPDFPath != "" {
		if err := writeArticlePDF(res.Title, res.Content, a.cfg.OutputPDFPath); err != nil {
			return Result{}, fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPDFPath).Msg("wrote pdf")
	}

	if a.summarizer != nil {
		sum, err := a.summarizer.Summarize(ctx, res.Title, res.Content)
		if err != nil {
			// Best effort: a failed summary never discards a good extraction.
			log.Warn().Err(err).Msg("summarization failed; continuing without summary")
		} else {
			res.Summary = sum
		}
	}

	return res, nil
}

// pageHTML returns the rendered page, from cache when possible.
func (a *App) pageHTML(ctx context.Context) (string, error) {
	if a.pageCache != nil {
		if html, err := a.pageCache.Load(ctx, a.cfg.URL); err == nil && html != "" {
			log.Debug().Str("url", a.cfg.URL).Msg("page cache hit")
			return html, nil
		}
	}

	if a.fetcher == nil {
		session, err := browser.New(a.cfg.UserAgent, a.cfg.Timeout)
		if err != nil {
			return "", fmt.Errorf("launch browser: %w", err)
		}
		a.fetcher = session
	}

	log.Info().Str("url", a.cfg.URL).Msg("fetching page")
	html, err := a.fetcher.Fetch(ctx, a.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}

	if a.pageCache != nil {
		if err := a.pageCache.Save(ctx, a.cfg.URL, html); err != nil {
			log.Warn().Err(err).Msg("page cache write failed")
		}
	}
	return html, nil
}

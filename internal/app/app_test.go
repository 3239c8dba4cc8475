package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/goarticle/internal/cache"
	"github.com/hyperifyio/goarticle/internal/extract"
)

const fixtureHTML = `<!DOCTYPE html>
<html>
<head><title>Harbor Times - Tides Explained</title></head>
<body>
<nav><a href="/">home</a></nav>
<script>trackPageview();</script>
<article>
<h1>Tides Explained</h1>
<p>Tides are the periodic rise and fall of sea level driven primarily by the
gravitational pull of the moon, with a smaller contribution from the sun. Most
coastlines see two high tides and two low tides in just over a day, a pattern
called a semidiurnal tide.</p>
<p>The height difference between high and low water varies through the month.
When the sun and moon align at new and full moon their effects add up,
producing the large spring tides; at quarter moons they partially cancel,
producing the smaller neap tides.</p>
<p>Local geography reshapes this global signal dramatically. Funnel-shaped
bays amplify the range, while enclosed seas barely register a tide at all,
which is why tide tables are computed separately for every port.</p>
</article>
<footer>contact us</footer>
</body>
</html>`

type fakeFetcher struct {
	html  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.html, nil
}

func (f *fakeFetcher) Close() {}

func TestRun_ExtractsResult(t *testing.T) {
	cfg := Config{URL: "https://example.com/tides"}
	a := &App{cfg: cfg, fetcher: &fakeFetcher{html: fixtureHTML}}

	res, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(res.Title, "Tides Explained") {
		t.Fatalf("title = %q", res.Title)
	}
	if !strings.Contains(res.Content, "spring tides") {
		t.Fatalf("content missing body text:\n%s", res.Content)
	}
	if strings.Contains(res.Content, "trackPageview") || strings.Contains(res.Content, "contact us") {
		t.Fatalf("boilerplate leaked into content:\n%s", res.Content)
	}
	if res.Domain != "example.com" {
		t.Fatalf("domain = %q", res.Domain)
	}
	if res.URL != cfg.URL {
		t.Fatalf("url = %q", res.URL)
	}
	if res.Summary != "" {
		t.Fatalf("unexpected summary %q", res.Summary)
	}
}

func TestRun_DebugArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug")
	cfg := Config{URL: "https://example.com/tides", DebugDir: dir}
	a := &App{cfg: cfg, fetcher: &fakeFetcher{html: fixtureHTML}}

	res, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for name, want := range map[string]string{
		"original.html": "trackPageview", // pre-sanitize snapshot
		"title.txt":     res.Title,
		"content.txt":   res.Content,
	} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(b) == 0 {
			t.Fatalf("%s is empty", name)
		}
		if !strings.Contains(string(b), want) {
			t.Fatalf("%s does not contain %q", name, want)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected exactly 3 artifacts, got %d", len(entries))
	}
}

func TestRun_NoArticle(t *testing.T) {
	const empty = `<html><head><title>Empty</title></head><body><p>.</p></body></html>`
	cfg := Config{URL: "https://example.com/empty"}
	a := &App{cfg: cfg, fetcher: &fakeFetcher{html: empty}}

	_, err := a.Run(context.Background())
	if !errors.Is(err, extract.ErrNoArticle) {
		t.Fatalf("expected ErrNoArticle, got %v", err)
	}
}

func TestRun_FetchFailure(t *testing.T) {
	cfg := Config{URL: "https://unreachable.invalid/"}
	a := &App{cfg: cfg, fetcher: &fakeFetcher{err: errors.New("net::ERR_NAME_NOT_RESOLVED")}}

	if _, err := a.Run(context.Background()); err == nil {
		t.Fatalf("expected fetch error")
	}
}

func TestRun_CacheHitSkipsFetch(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{URL: "https://example.com/tides", CacheDir: dir}
	pc := &cache.PageCache{Dir: dir}
	if err := pc.Save(context.Background(), cfg.URL, fixtureHTML); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	ff := &fakeFetcher{err: errors.New("should not be called")}
	a := &App{cfg: cfg, fetcher: ff, pageCache: pc}

	res, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if ff.calls != 0 {
		t.Fatalf("fetcher called %d times on cache hit", ff.calls)
	}
	if !strings.Contains(res.Title, "Tides Explained") {
		t.Fatalf("title = %q", res.Title)
	}
}

func TestNew_DefersBrowserLaunch(t *testing.T) {
	a, err := New(context.Background(), Config{URL: "https://example.com/tides"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()
	if a.fetcher != nil {
		t.Fatalf("browser session created before any fetch")
	}
}

func TestRun_CacheHitNeedsNoBrowser(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{URL: "https://example.com/tides", CacheDir: dir}
	pc := &cache.PageCache{Dir: dir}
	if err := pc.Save(context.Background(), cfg.URL, fixtureHTML); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	// No fetcher injected: a cached page must be served without one.
	a := &App{cfg: cfg, pageCache: pc}
	defer a.Close()

	res, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if a.fetcher != nil {
		t.Fatalf("browser session created despite cache hit")
	}
	if !strings.Contains(res.Title, "Tides Explained") {
		t.Fatalf("title = %q", res.Title)
	}
}

func TestRun_CachePopulatedAfterFetch(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{URL: "https://example.com/tides", CacheDir: dir}
	pc := &cache.PageCache{Dir: dir}
	a := &App{cfg: cfg, fetcher: &fakeFetcher{html: fixtureHTML}, pageCache: pc}

	if _, err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := pc.Load(context.Background(), cfg.URL)
	if err != nil {
		t.Fatalf("expected cached page: %v", err)
	}
	if got != fixtureHTML {
		t.Fatalf("cached page differs from fetched page")
	}
}

package app

import "time"

// Config holds runtime configuration for one extraction run.
type Config struct {
	// Target
	URL string

	// Browser
	Timeout   time.Duration
	UserAgent string

	// Debug artifacts
	DebugDir string

	// Page cache
	CacheDir    string
	CacheMaxAge time.Duration
	CacheClear  bool

	// Optional outputs
	OutputPDFPath string

	// Summarization
	Summarize  bool
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Behavior
	Verbose bool
}

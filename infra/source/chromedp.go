// Package source retrieves the published schedule page using a headless
// Chromium instance. The outage page renders its schedule client-side, so a
// plain HTTP GET would return an empty shell.
package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/pkozlov/blackoutcal/core/logger"
)

// DefaultTimeoutSec bounds the whole fetch when no timeout is configured.
const DefaultTimeoutSec = 30

// Config holds the upstream page settings.
type Config struct {
	// URL of the outage schedule page.
	URL string `json:"url"`
	// WaitText is a text fragment that must appear on the page before the
	// body is read, signalling the client-side render finished.
	WaitText string `json:"wait_text"`
	// TimeoutSeconds bounds the entire fetch.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.WaitText == "" {
		c.WaitText = "Outage schedule"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSec
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("source url is required")
	}
	return nil
}

// Fetcher loads the schedule page and returns its visible text.
type Fetcher struct {
	cfg Config
	log logger.Logger
}

// NewFetcher creates a Fetcher for the configured page.
func NewFetcher(cfg Config, log logger.Logger) *Fetcher {
	cfg.SetDefaults()
	return &Fetcher{cfg: cfg, log: log}
}

// Fetch navigates to the page, waits until the schedule text is rendered and
// returns the body's inner text. The whole sequence is bounded by the
// configured timeout.
func (f *Fetcher) Fetch(parentCtx context.Context) (string, error) {
	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, time.Duration(f.cfg.TimeoutSeconds)*time.Second)
	defer timeoutCancel()

	f.log.Debugf("fetching %s", f.cfg.URL)

	var text string
	tasks := chromedp.Tasks{
		chromedp.Navigate(f.cfg.URL),
		chromedp.Poll(
			fmt.Sprintf("document.body && document.body.innerText.includes(%q)", f.cfg.WaitText),
			nil,
			chromedp.WithPollingInterval(250*time.Millisecond),
		),
		chromedp.Text("body", &text, chromedp.ByQuery),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return "", fmt.Errorf("fetch %s: %w", f.cfg.URL, err)
	}

	text = strings.TrimSpace(text)
	f.log.Debugw("page fetched", map[string]any{"url": f.cfg.URL, "bytes": len(text)})
	return text, nil
}

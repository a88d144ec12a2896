package linkedin

import (
	"math/rand/v2"
	"net/http"
	"time"
)

const (
	defaultMinDelay = 5 * time.Second
	defaultMaxDelay = 10 * time.Second
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.77 Safari/537.36",
}

// Politeness decides how the scraper presents itself to the job board.
type Politeness interface {
	// Delay is slept before every request attempt.
	Delay() time.Duration
	// Identity returns the headers for the next request.
	Identity() http.Header
}

// BrowserPoliteness waits a random delay in [MinDelay, MaxDelay) and rotates
// between a few desktop browser user agents.
type BrowserPoliteness struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

func NewBrowserPoliteness(minDelay, maxDelay time.Duration) *BrowserPoliteness {
	if minDelay <= 0 && maxDelay <= 0 {
		minDelay, maxDelay = defaultMinDelay, defaultMaxDelay
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &BrowserPoliteness{MinDelay: minDelay, MaxDelay: maxDelay}
}

func (b *BrowserPoliteness) Delay() time.Duration {
	spread := b.MaxDelay - b.MinDelay
	if spread <= 0 {
		return b.MinDelay
	}
	return b.MinDelay + time.Duration(rand.Int64N(int64(spread)))
}

func (b *BrowserPoliteness) Identity() http.Header {
	headers := http.Header{}
	headers.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])
	headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	headers.Set("Accept-Language", "en-US,en;q=0.9")
	headers.Set("Accept-Encoding", "gzip")
	headers.Set("Upgrade-Insecure-Requests", "1")
	return headers
}

// NoPoliteness sends a fixed user agent without any delay.
type NoPoliteness struct{}

func (NoPoliteness) Delay() time.Duration { return 0 }

func (NoPoliteness) Identity() http.Header {
	headers := http.Header{}
	headers.Set("User-Agent", userAgents[0])
	return headers
}

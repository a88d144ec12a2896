package linkedin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/linky/internal/httpclient"
)

type recordingPoliteness struct {
	delay      time.Duration
	identities int32
}

func (p *recordingPoliteness) Delay() time.Duration { return p.delay }

func (p *recordingPoliteness) Identity() http.Header {
	atomic.AddInt32(&p.identities, 1)
	h := http.Header{}
	h.Set("User-Agent", "linky-test-agent")
	return h
}

func newTestScraper(t *testing.T, politeness Politeness) (*Scraper, *[]time.Duration) {
	t.Helper()

	client := httpclient.New(httpclient.Config{MaxAttempts: 1}, zap.NewNop())
	s := NewScraper(client, politeness, nil, Config{}, zap.NewNop())

	var waits []time.Duration
	s.wait = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	s.jitter = func(time.Duration) time.Duration { return 0 }

	return s, &waits
}

func TestScrapeSuccess(t *testing.T) {
	html := loadFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "linky-test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(html))
	}))
	defer srv.Close()

	politeness := &recordingPoliteness{delay: 7 * time.Second}
	s, waits := newTestScraper(t, politeness)

	posting, err := s.Scrape(context.Background(), srv.URL+"/jobs/view/1")
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", posting.Value(FieldTitle))
	assert.Equal(t, []time.Duration{7 * time.Second}, *waits, "only the courtesy delay is slept")
	assert.EqualValues(t, 1, atomic.LoadInt32(&politeness.identities))
}

func TestScrapeRetriesWithBackoff(t *testing.T) {
	html := loadFixture(t)
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(html))
	}))
	defer srv.Close()

	s, waits := newTestScraper(t, NoPoliteness{})

	posting, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", posting.Value(FieldCompany))
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))

	// courtesy(0), backoff 1s, courtesy(0), backoff 2s, courtesy(0)
	assert.Equal(t, []time.Duration{0, time.Second, 0, 2 * time.Second, 0}, *waits)
}

func TestRetryWaitCapsExponent(t *testing.T) {
	s, _ := newTestScraper(t, NoPoliteness{})

	assert.Equal(t, 4*time.Second, s.retryWait(2))
	assert.Equal(t, time.Second<<30, s.retryWait(30))
	assert.Equal(t, time.Second<<30, s.retryWait(64))
	assert.Positive(t, s.retryWait(1000))
}

func TestScrapeGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s, _ := newTestScraper(t, NoPoliteness{})

	posting, err := s.Scrape(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, posting)
	assert.EqualValues(t, defaultMaxAttempts, atomic.LoadInt32(&calls))

	var statusErr *httpclient.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestScrapeStopsOnCanceledContext(t *testing.T) {
	s, _ := newTestScraper(t, NoPoliteness{})
	s.wait = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Scrape(ctx, "https://www.linkedin.com/jobs/view/1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestBrowserPoliteness(t *testing.T) {
	p := NewBrowserPoliteness(0, 0)
	assert.Equal(t, defaultMinDelay, p.MinDelay)
	assert.Equal(t, defaultMaxDelay, p.MaxDelay)

	for i := 0; i < 50; i++ {
		d := p.Delay()
		assert.True(t, d >= defaultMinDelay && d < defaultMaxDelay, "delay %s out of range", d)
		assert.Contains(t, userAgents, p.Identity().Get("User-Agent"))
	}

	fixed := NewBrowserPoliteness(2*time.Second, time.Second)
	assert.Equal(t, 2*time.Second, fixed.Delay())
}

package fetchutil

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"

	"fightsync-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// NewClient builds the standard client used against the upstream
// sites: browser user-agent, bounded timeout, instrumented.
func NewClient() *resty.Client {
	client := resty.New()
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 15)
	telemetry.InstrumentResty(client, "fightsync.lib.fetchutil")
	return client
}

// Options tune the retry schedule. Zero values fall back to the
// defaults both upstream sites are scraped with.
type Options struct {
	// attempts before giving up, default 3
	MaxAttempts int
	// the retry delay is BackoffBase^attempt seconds, default 2
	BackoffBase float64
	// sleep after every successful fetch to stay under the
	// upstream's implicit rate limit, default 750ms
	MinInterval time.Duration
}

// Fetcher retrieves documents with bounded retry. It deliberately has
// no error return: a document either arrives or the unit of work that
// wanted it gets skipped.
type Fetcher struct {
	client *resty.Client
	opts   Options
	sleep  func(time.Duration)
}

func New(client *resty.Client, opts Options) *Fetcher {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 2
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = 750 * time.Millisecond
	}
	if client == nil {
		client = NewClient()
	}
	return &Fetcher{client: client, opts: opts, sleep: time.Sleep}
}

// Get fetches url, retrying transient failures on an exponential
// schedule. Rate-limit responses add random jitter on top of the same
// schedule. Exhausted retries log and report ok=false; callers treat
// that as "skip this unit of work", never as a reason to abort a run.
func (f *Fetcher) Get(ctx context.Context, url string) (string, bool) {
	var lastErr error
	var lastStatus int

	for attempt := 1; attempt <= f.opts.MaxAttempts; attempt++ {
		res, err := f.client.R().SetContext(ctx).Get(url)
		if err == nil && res.IsSuccess() {
			f.sleep(f.opts.MinInterval)
			return string(res.Body()), true
		}

		lastErr = err
		if err == nil {
			lastStatus = res.StatusCode()
		}

		if attempt == f.opts.MaxAttempts {
			break
		}
		if err == nil && res.StatusCode() == http.StatusTooManyRequests {
			wait := f.backoff(attempt) + time.Duration(rand.Float64()*float64(time.Second))
			slog.WarnContext(ctx, "rate limited, backing off",
				"url", url, "wait", wait.Round(time.Millisecond), "attempt", attempt)
			f.sleep(wait)
			continue
		}
		f.sleep(f.backoff(attempt))
	}

	slog.ErrorContext(ctx, "giving up on document",
		"url", url, "attempts", f.opts.MaxAttempts, "status", lastStatus, "err", lastErr)
	return "", false
}

func (f *Fetcher) backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(f.opts.BackoffBase, float64(attempt)) * float64(time.Second))
}

package feed

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"syscall"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const maxRedirects = 10

var (
	errCrossOrigin  = errors.New("cross-origin request blocked")
	errTooManyHops  = errors.New("stopped after 10 redirects")
	acceptFeedTypes = "application/xml, text/xml;q=0.9, */*;q=0.1"
)

// Fetcher downloads feed documents. At most one fetch is outstanding at a
// time and failures are never retried.
type Fetcher struct {
	cfg    Config
	client *resty.Client
	sem    *semaphore.Weighted
	logger *zap.Logger
}

// NewFetcher builds a fetcher for cfg.
func NewFetcher(cfg Config, logger *zap.Logger) *Fetcher {
	f := &Fetcher{
		cfg:    cfg,
		sem:    semaphore.NewWeighted(1),
		logger: logger,
	}
	client := resty.New().
		SetRetryCount(0).
		SetHeader("Accept", acceptFeedTypes).
		SetRedirectPolicy(resty.RedirectPolicyFunc(f.checkRedirect))
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	f.client = client
	return f
}

// Fetch validates rawURL and downloads it. It returns ErrInvalidInput for a
// bad address, ErrFetchInProgress when another fetch is pending, and a
// *TransportError for network failures.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := ValidateSource(rawURL)
	if err != nil {
		return nil, err
	}
	if !f.sem.TryAcquire(1) {
		return nil, ErrFetchInProgress
	}
	defer f.sem.Release(1)

	target := u.String()
	if !f.cfg.hostAllowed(u.Hostname()) {
		return nil, &TransportError{Kind: KindCrossOriginBlocked, URL: target, Err: errCrossOrigin}
	}

	f.logger.Debug("fetching feed", zap.String("url", target))
	resp, err := f.client.R().SetContext(ctx).Get(target)
	if err != nil {
		terr := classify(target, err)
		f.logger.Warn("feed fetch failed",
			zap.String("url", target),
			zap.String("kind", string(terr.Kind)),
			zap.Error(err),
		)
		return nil, terr
	}
	if !resp.IsSuccess() {
		f.logger.Warn("feed fetch returned bad status",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, &TransportError{Kind: KindBadStatus, StatusCode: resp.StatusCode(), URL: target}
	}
	f.logger.Debug("feed fetched",
		zap.String("url", target),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("elapsed", resp.Time()),
	)
	return resp.Body(), nil
}

// Busy reports whether a fetch is pending.
func (f *Fetcher) Busy() bool {
	if !f.sem.TryAcquire(1) {
		return true
	}
	f.sem.Release(1)
	return false
}

func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errTooManyHops
	}
	if !f.cfg.hostAllowed(req.URL.Hostname()) {
		return errCrossOrigin
	}
	if !f.cfg.FollowCrossOriginRedirects && origin(req.URL) != origin(via[0].URL) {
		return errCrossOrigin
	}
	return nil
}

func origin(u *url.URL) string {
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}
	return u.Scheme + "://" + net.JoinHostPort(u.Hostname(), port)
}

func classify(target string, err error) *TransportError {
	kind := KindFetchFailed
	var (
		dnsErr *net.DNSError
		opErr  *net.OpError
		netErr net.Error
	)
	switch {
	case errors.Is(err, errCrossOrigin):
		kind = KindCrossOriginBlocked
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.As(err, &dnsErr),
		errors.As(err, &opErr):
		kind = KindConnectionFailed
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindConnectionFailed
	}
	return &TransportError{Kind: kind, URL: target, Err: unwrapURLError(err)}
}

// unwrapURLError drops the *url.Error wrapper, which repeats the method and URL.
func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

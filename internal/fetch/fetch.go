// Package fetch retrieves company websites and reduces their HTML to plain text for analysis.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single website fetch.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent identifies the service to the sites it fetches.
const DefaultUserAgent = "Mozilla/5.0 (compatible; VCDiscovery/1.0)"

// DefaultMaxChars caps the cleaned text handed to the rest of the pipeline.
const DefaultMaxChars = 5000

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 5 << 20

// noiseSelector lists the elements dropped before text extraction.
const noiseSelector = "script, style, nav, footer"

// Result holds the raw and processed content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	Text        string
	ContentType string
	StatusCode  int
	Rendered    bool // text came from the headless browser
	FetchedAt   time.Time
}

// Options configures the fetch behavior.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	Headers      map[string]string
	MaxChars     int
	MaxBodyBytes int64

	// UseBrowser enables headless rendering for pages whose HTTP text is thinner than MinContentLength.
	UseBrowser     bool
	BrowserTimeout time.Duration
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:        DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		MaxChars:       DefaultMaxChars,
		MaxBodyBytes:   DefaultMaxBodyBytes,
		BrowserTimeout: DefaultBrowserTimeout,
	}
}

// Fetcher downloads pages and extracts their visible text.
type Fetcher struct {
	client *http.Client
	opts   Options
	render RenderFunc
	logger *zap.Logger
}

// New creates a Fetcher. A nil opts uses DefaultOptions; a nil logger discards output.
func New(opts *Options, logger *zap.Logger) *Fetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.MaxChars <= 0 {
		o.MaxChars = DefaultMaxChars
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.BrowserTimeout <= 0 {
		o.BrowserTimeout = DefaultBrowserTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client: &http.Client{Timeout: o.Timeout},
		opts:   o,
		render: WithBrowser,
		logger: logger,
	}
}

// WithRenderer replaces the headless browser used for thin pages.
func (f *Fetcher) WithRenderer(render RenderFunc) *Fetcher {
	f.render = render
	return f
}

// Fetch retrieves urlStr and returns its cleaned, truncated body text.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	result, err := f.get(ctx, urlStr)
	if err != nil {
		return nil, err
	}

	text, err := ExtractText(result.HTML, f.opts.MaxChars)
	if err != nil {
		return nil, &Error{URL: urlStr, Kind: KindParse, Message: "failed to parse HTML", Cause: err}
	}
	result.Text = text

	if f.opts.UseBrowser && ShouldUseBrowser(text) && f.render != nil {
		f.renderInto(ctx, result)
	}

	return result, nil
}

// renderInto replaces result's text with the browser-rendered version when rendering succeeds.
func (f *Fetcher) renderInto(ctx context.Context, result *Result) {
	html, err := f.render(ctx, result.URL, f.opts.BrowserTimeout)
	if err != nil {
		f.logger.Warn("browser rendering failed, keeping HTTP text",
			zap.String("url", result.URL), zap.Error(err))
		return
	}
	text, err := ExtractText(html, f.opts.MaxChars)
	if err != nil || len(text) <= len(result.Text) {
		return
	}
	result.HTML = html
	result.Text = text
	result.Rendered = true
}

func (f *Fetcher) get(ctx context.Context, urlStr string) (*Result, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Kind: KindInvalidURL, Message: "invalid URL", Cause: err}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, &Error{URL: urlStr, Kind: KindInvalidURL, Message: fmt.Sprintf("unsupported scheme %q", parsedURL.Scheme)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Kind: KindInvalidURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	for key, value := range f.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Kind: transportKind(err), Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := KindStatus
		if resp.StatusCode == http.StatusTooManyRequests {
			kind = KindRateLimited
		}
		return nil, &Error{
			URL:        urlStr,
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes))
	if err != nil {
		kind := KindRead
		if transportKind(err) == KindTimeout {
			kind = KindTimeout
		}
		return nil, &Error{URL: urlStr, Kind: kind, Message: "failed to read response body", Cause: err}
	}

	return &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		FetchedAt:   time.Now(),
	}, nil
}

// transportKind classifies a client.Do failure.
func transportKind(err error) ErrorKind {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return KindTimeout
		}
		return KindDNS
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindUnreachable
}

// ExtractText parses HTML and returns the visible body text with whitespace collapsed,
// truncated to maxChars runes. A non-positive maxChars disables truncation.
func ExtractText(html string, maxChars int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	text := collapseWhitespace(doc.Find("body").Text())
	return Truncate(text, maxChars), nil
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

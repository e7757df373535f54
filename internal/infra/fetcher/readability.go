// Package fetcher extracts the readable article from a web page.
// Requests are SSRF-checked (including every redirect hop), size-limited
// and guarded by a circuit breaker.
package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"polysum/internal/observability/metrics"
	"polysum/internal/observability/tracing"
	"polysum/internal/resilience/circuitbreaker"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Article is the readable part of a web page.
type Article struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ReadabilityFetcher downloads pages and extracts their main text with
// go-readability, falling back to goquery when readability finds nothing.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
}

// NewReadabilityFetcher creates a fetcher with a TLS 1.2+ transport and a
// redirect policy that re-validates every hop.
func NewReadabilityFetcher(config Config) *ReadabilityFetcher {
	f := &ReadabilityFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.ArticleFetchConfig()),
		config:         config,
	}

	f.client = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	return f
}

// CircuitOpen reports whether the fetch circuit breaker is open.
func (f *ReadabilityFetcher) CircuitOpen() bool {
	return f.circuitBreaker.IsOpen()
}

// Extract downloads urlStr and returns its article.
//
// Errors:
//   - ErrInvalidURL, ErrPrivateIP: rejected before any request is made
//   - ErrTooManyRedirects, ErrBodyTooLarge, ErrTimeout: request limits
//   - ErrReadabilityFailed: the page has no readable text
func (f *ReadabilityFetcher) Extract(ctx context.Context, urlStr string) (*Article, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "fetcher.Extract")
	defer span.End()
	span.SetAttributes(attribute.String("url", urlStr))

	start := time.Now()

	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid url")
		return nil, err
	}

	article, err := circuitbreaker.Run(f.circuitBreaker, func() (*Article, error) {
		return f.doFetch(ctx, urlStr)
	})
	if err != nil {
		metrics.RecordContentFetchFailed(time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.WarnContext(ctx, "article extraction failed",
			slog.String("url", urlStr),
			slog.Any("error", err))
		return nil, err
	}

	metrics.RecordContentFetchSuccess(time.Since(start))
	span.SetAttributes(attribute.Int("text_length", len(article.Text)))
	return article, nil
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, urlStr string) (*Article, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response size %d bytes exceeds limit %d bytes",
			ErrBodyTooLarge, len(htmlBytes), f.config.MaxBodySize)
	}

	pageURL := resp.Request.URL
	return extractArticle(htmlBytes, pageURL)
}

// extractArticle runs readability over the page, then fills a missing
// title or body from the raw document.
func extractArticle(html []byte, pageURL *url.URL) (*Article, error) {
	article := &Article{URL: pageURL.String()}

	parsed, rerr := readability.FromReader(bytes.NewReader(html), pageURL)
	if rerr == nil {
		article.Title = strings.TrimSpace(parsed.Title)
		article.Text = strings.TrimSpace(parsed.TextContent)
	}

	if article.Title != "" && article.Text != "" {
		return article, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadabilityFailed, err)
	}

	if article.Title == "" {
		article.Title = documentTitle(doc)
	}
	if article.Text == "" {
		article.Text = paragraphText(doc)
	}

	if article.Text == "" {
		if rerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadabilityFailed, rerr)
		}
		return nil, fmt.Errorf("%w: no readable content found", ErrReadabilityFailed)
	}

	return article, nil
}

func documentTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func paragraphText(doc *goquery.Document) string {
	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

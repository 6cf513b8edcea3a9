package analyzer

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// DefaultUserAgent is sent when no user agent is configured
const DefaultUserAgent = "SEOAnalyzer/1.0"

// FetchResult holds a fetched page decoded to UTF-8
type FetchResult struct {
	Body        string
	FinalURL    string
	StatusCode  int
	ContentType string
	// LoadTime spans from just before the request is sent until the body is decoded
	LoadTime time.Duration
}

// Fetcher issues single GET requests through a shared, pooled client
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewFetcher creates a fetcher. A nil client gets a pooled client without
// an overall timeout; callers bound requests through the context.
func NewFetcher(client *http.Client, userAgent string, logger *zap.Logger) *Fetcher {
	if client == nil {
		client = newHTTPClient()
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, userAgent: userAgent, logger: logger}
}

func newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Transport: transport}
}

// Fetch performs one GET request and returns the decoded body.
// Transport failures wrap ErrNetwork, undecodable bodies wrap ErrDecode.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %w", ErrNetwork, rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	f.logger.Debug("Fetching page", zap.String("url", rawURL))
	start := time.Now()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrNetwork, rawURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body of %s: %w", ErrNetwork, rawURL, err)
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := decodeBody(raw, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, rawURL, err)
	}
	loadTime := time.Since(start)

	f.logger.Debug("Fetched page",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("load_time", loadTime))

	return &FetchResult{
		Body:        body,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		LoadTime:    loadTime,
	}, nil
}

// decodeBody converts raw bytes to UTF-8 text using the charset declared in
// the Content-Type header. A missing charset means UTF-8.
func decodeBody(raw []byte, contentType string) (string, error) {
	label := declaredCharset(contentType)
	if label == "" || strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("body is not valid utf-8")
		}
		return string(raw), nil
	}

	enc, name := charset.Lookup(label)
	if enc == nil {
		return "", fmt.Errorf("unsupported charset %q", label)
	}
	if name == "utf-8" {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("body is not valid utf-8")
		}
		return string(raw), nil
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s body: %w", name, err)
	}
	return string(decoded), nil
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(params["charset"])
}

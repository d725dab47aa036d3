package tcdb

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// BaseURL for TCDB pages
	BaseURL = "https://www.tcdb.com"

	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval to stay under TCDB's tolerance
	MinRequestInterval = 3 * time.Second
)

// Client fetches TCDB pages through a headless browser with rate limiting.
// TCDB renders card tables client side, so a plain HTTP GET is not enough.
type Client struct {
	baseURL     string
	lastRequest time.Time
	interval    time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewClient creates a new TCDB scraper client
func NewClient() (*Client, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Client{
		baseURL:  BaseURL,
		interval: MinRequestInterval,
		allocCtx: allocCtx,
		cancel:   cancel,
	}, nil
}

// Close releases browser resources
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// FetchSetDetail fetches a ViewSet page by numeric set ID
func (c *Client) FetchSetDetail(ctx context.Context, tcdbID int) (string, error) {
	return c.fetchWithRateLimit(ctx, fmt.Sprintf("%s/ViewSet.cfm/sid/%d", c.baseURL, tcdbID))
}

// FetchPage fetches an arbitrary TCDB path (pagination links are
// site-relative)
func (c *Client) FetchPage(ctx context.Context, path string) (string, error) {
	if strings.HasPrefix(path, "http") {
		return c.fetchWithRateLimit(ctx, path)
	}
	return c.fetchWithRateLimit(ctx, c.baseURL+"/"+strings.TrimPrefix(path, "/"))
}

// fetchWithRateLimit fetches content with automatic rate limiting
func (c *Client) fetchWithRateLimit(ctx context.Context, url string) (string, error) {
	if !c.lastRequest.IsZero() {
		elapsed := time.Since(c.lastRequest)
		if elapsed < c.interval {
			waitTime := c.interval - elapsed
			log.Printf("Rate limiting: waiting %v before next request", waitTime)
			time.Sleep(waitTime)
		}
	}

	html, err := c.fetch(ctx, url)
	c.lastRequest = time.Now()

	return html, err
}

// fetch performs the actual page load using chromedp
func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // Allow JS to render
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)

	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}

	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}

	return htmlContent, nil
}

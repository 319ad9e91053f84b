// Package wikipedia wraps the MediaWiki query API behind a rate-limited,
// retrying client. All outbound calls drain through one bounded dispatch
// queue so a full curation run cannot hammer the upstream.
package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/omerhaim/origindaily/internal/constants"
	apperrors "github.com/omerhaim/origindaily/pkg/errors"
)

type Config struct {
	BaseURL       string
	SiteURL       string
	UserAgent     string
	Timeout       time.Duration
	MaxConcurrent int
	DispatchDelay time.Duration
	MaxRetries    int
	InitialDelay  time.Duration
	BackoffFactor float64
	SearchLimit   int
	CategoryLimit int
	PageBatchSize int
}

func DefaultConfig() Config {
	return Config{
		BaseURL:       constants.APIConfig.WikipediaBaseURL,
		SiteURL:       constants.APIConfig.WikipediaSiteURL,
		UserAgent:     constants.APIConfig.UserAgent,
		Timeout:       constants.APIConfig.RequestTimeout,
		MaxConcurrent: constants.QueueConfig.MaxConcurrent,
		DispatchDelay: constants.QueueConfig.DispatchDelay,
		MaxRetries:    constants.RetryConfig.MaxRetries,
		InitialDelay:  constants.RetryConfig.InitialDelay,
		BackoffFactor: constants.RetryConfig.BackoffFactor,
		SearchLimit:   constants.APIConfig.SearchLimit,
		CategoryLimit: constants.APIConfig.CategoryLimit,
		PageBatchSize: constants.APIConfig.PageBatchSize,
	}
}

type Client struct {
	httpClient *http.Client
	cfg        Config
	queue      *dispatchQueue
	scraper    *Scraper
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		queue:      newDispatchQueue(cfg.MaxConcurrent, cfg.DispatchDelay),
		scraper:    newScraper(cfg.SiteURL, cfg.UserAgent, httpClient, logger),
		logger:     logger,
	}
}

// Close drains in-flight requests.
func (c *Client) Close() {
	c.queue.Close()
}

// SearchByTerm runs a free-text article search and keeps only results whose
// title contains the term verbatim.
func (c *Client) SearchByTerm(ctx context.Context, term string) ([]int64, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", term)
	params.Set("srlimit", strconv.Itoa(c.cfg.SearchLimit))
	params.Set("srnamespace", "0")

	resp, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}
	if resp.Query == nil {
		return nil, nil
	}

	ids := make([]int64, 0, len(resp.Query.Search))
	for _, r := range resp.Query.Search {
		if strings.Contains(r.Title, term) {
			ids = append(ids, r.PageID)
		}
	}
	return ids, nil
}

// PagesInCategory enumerates article members of a category. When the API
// call fails after retries the HTML scraper takes over.
func (c *Client) PagesInCategory(ctx context.Context, category string) ([]PageRef, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "categorymembers")
	params.Set("cmtitle", category)
	params.Set("cmlimit", strconv.Itoa(c.cfg.CategoryLimit))
	params.Set("cmnamespace", "0")

	resp, err := c.query(ctx, params)
	if err != nil {
		c.logger.Warn("Category query failed, falling back to HTML scrape",
			zap.String("category", category),
			zap.Error(err),
		)
		return c.scraper.CategoryMembers(ctx, category)
	}
	if resp.Query == nil {
		return nil, nil
	}

	refs := make([]PageRef, 0, len(resp.Query.CategoryMembers))
	for _, m := range resp.Query.CategoryMembers {
		refs = append(refs, PageRef{ID: m.PageID, Title: m.Title})
	}
	return refs, nil
}

// GetPageInfo fetches extract, categories, image list and lead thumbnail for
// a set of pages, batching requests to respect upstream limits. Batches that
// fail are skipped; the merged result covers whatever succeeded.
func (c *Client) GetPageInfo(ctx context.Context, refs []PageRef, thumbnailSize int) (map[int64]PageInfo, error) {
	if len(refs) == 0 {
		return map[int64]PageInfo{}, nil
	}
	if thumbnailSize <= 0 {
		thumbnailSize = constants.APIConfig.ThumbnailSize
	}

	pages := make(map[int64]PageInfo)
	var lastErr error

	for _, batch := range chunkRefs(refs, c.cfg.PageBatchSize) {
		params := url.Values{}
		params.Set("action", "query")
		params.Set("prop", "extracts|categories|images|info|pageimages")
		params.Set("exintro", "1")
		params.Set("explaintext", "1")
		params.Set("cllimit", "50")
		params.Set("imlimit", "50")
		params.Set("inprop", "url")
		params.Set("pithumbsize", strconv.Itoa(thumbnailSize))
		setPageSelector(params, batch)

		resp, err := c.query(ctx, params)
		if err != nil {
			lastErr = err
			c.logger.Warn("Page info batch failed", zap.Int("batch_size", len(batch)), zap.Error(err))
			continue
		}
		if resp.Query == nil {
			continue
		}
		for _, raw := range resp.Query.Pages {
			if raw.Missing != nil || raw.PageID == 0 {
				continue
			}
			pages[raw.PageID] = c.toPageInfo(raw)
		}
	}

	if len(pages) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return pages, nil
}

// ResolveImageURL looks up the direct URL of a media file by its File: title.
// Returns "" without error when the file has no resolvable URL.
func (c *Client) ResolveImageURL(ctx context.Context, imageTitle string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", imageTitle)
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url")

	resp, err := c.query(ctx, params)
	if err != nil {
		return "", err
	}
	if resp.Query == nil {
		return "", nil
	}
	for _, raw := range resp.Query.Pages {
		if len(raw.ImageInfo) > 0 {
			return raw.ImageInfo[0].URL, nil
		}
	}
	return "", nil
}

func (c *Client) toPageInfo(raw pageData) PageInfo {
	info := PageInfo{
		PageID:  raw.PageID,
		Title:   raw.Title,
		Extract: raw.Extract,
		URL:     raw.FullURL,
	}
	if info.URL == "" {
		info.URL = fmt.Sprintf("%s/?curid=%d", c.cfg.SiteURL, raw.PageID)
	}
	for _, cat := range raw.Categories {
		info.Categories = append(info.Categories, cat.Title)
	}
	for _, img := range raw.Images {
		info.Images = append(info.Images, img.Title)
	}
	if raw.Thumbnail != nil {
		info.Thumbnail = &Thumbnail{
			Source: raw.Thumbnail.Source,
			Width:  raw.Thumbnail.Width,
			Height: raw.Thumbnail.Height,
		}
	}
	return info
}

func (c *Client) query(ctx context.Context, params url.Values) (*queryResponse, error) {
	params.Set("format", "json")

	body, err := c.queue.Do(ctx, func() ([]byte, error) {
		return c.getWithRetry(ctx, params)
	})
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.NewServiceError("malformed API response", "wikipedia", "query", err)
	}
	return &resp, nil
}

func (c *Client) getWithRetry(ctx context.Context, params url.Values) ([]byte, error) {
	delay := c.cfg.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		body, err := c.getOnce(ctx, params)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isTransient(err) || attempt == c.cfg.MaxRetries {
			break
		}

		c.logger.Warn("Wikipedia request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", c.cfg.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay = time.Duration(float64(delay) * c.cfg.BackoffFactor)
	}

	return nil, lastErr
}

func (c *Client) getOnce(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := c.cfg.BaseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewAPIError(
			fmt.Sprintf("unexpected status %d", resp.StatusCode),
			resp.StatusCode,
			map[string]any{"url": c.cfg.BaseURL},
		)
	}
	return body, nil
}

// isTransient classifies the designated retryable failures: connection-level
// network errors, DNS failures, timeouts, and HTTP 5xx/429.
func isTransient(err error) bool {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	switch {
	case errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ETIMEDOUT):
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func chunkRefs(refs []PageRef, size int) [][]PageRef {
	if size <= 0 {
		size = 1
	}
	var chunks [][]PageRef
	for i := 0; i < len(refs); i += size {
		end := i + size
		if end > len(refs) {
			end = len(refs)
		}
		chunks = append(chunks, refs[i:end])
	}
	return chunks
}

// setPageSelector picks pageids= or titles= depending on what the batch
// carries. Scraped refs only have titles.
func setPageSelector(params url.Values, batch []PageRef) {
	ids := make([]string, 0, len(batch))
	titles := make([]string, 0, len(batch))
	for _, ref := range batch {
		if ref.ID != 0 {
			ids = append(ids, strconv.FormatInt(ref.ID, 10))
		} else if ref.Title != "" {
			titles = append(titles, ref.Title)
		}
	}
	if len(ids) > 0 {
		params.Set("pageids", strings.Join(ids, "|"))
	}
	if len(titles) > 0 {
		params.Set("titles", strings.Join(titles, "|"))
	}
}

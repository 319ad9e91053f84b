package wikipedia

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	apperrors "github.com/omerhaim/origindaily/pkg/errors"
)

// Scraper extracts category members from the rendered category page. It is
// the fallback path when the query API keeps failing; results carry titles
// only, which GetPageInfo resolves via titles= selectors.
type Scraper struct {
	siteURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

func newScraper(siteURL, userAgent string, httpClient *http.Client, logger *zap.Logger) *Scraper {
	return &Scraper{
		siteURL:    siteURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     logger,
	}
}

// CategoryMembers scrapes the article links in the "#mw-pages" block of a
// category page.
func (s *Scraper) CategoryMembers(ctx context.Context, category string) ([]PageRef, error) {
	pageURL := s.siteURL + "/wiki/" + url.PathEscape(category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewAPIError(
			fmt.Sprintf("category page returned status %d", resp.StatusCode),
			resp.StatusCode,
			map[string]any{"url": pageURL},
		)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, apperrors.NewServiceError("failed to parse category page", "wikipedia", "scrape", err)
	}

	var refs []PageRef
	doc.Find("#mw-pages a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !strings.HasPrefix(href, "/wiki/") {
			return
		}
		// Namespaced links (subcategories, files, pagination targets) are
		// not article members.
		if strings.Contains(strings.TrimPrefix(href, "/wiki/"), ":") {
			return
		}
		title := strings.TrimSpace(sel.Text())
		if title == "" {
			return
		}
		refs = append(refs, PageRef{Title: title})
	})

	s.logger.Debug("Scraped category members",
		zap.String("category", category),
		zap.Int("count", len(refs)),
	)
	return refs, nil
}

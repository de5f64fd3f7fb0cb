package chromedp_browser

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/user/scrapeflow/internal/entity"
)

const userAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36`

// BrowserFetcherImpl provides a concrete implementation for the
// BrowserFetcher interface using chromedp. Allocator contexts are pooled so
// browser processes are reused across pages; within one pipeline run, pages
// are fetched one at a time.
type BrowserFetcherImpl struct {
	allocatorPool *sync.Pool
	bodyTextLimit int
}

// NewBrowserFetcher creates a new fetcher. bodyTextLimit caps the extracted
// body text in bytes; zero means no cap.
func NewBrowserFetcher(bodyTextLimit int) *BrowserFetcherImpl {
	pool := &sync.Pool{
		New: func() interface{} {
			opts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", true),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
				chromedp.UserAgent(userAgent),
			)
			allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
			return allocCtx
		},
	}

	return &BrowserFetcherImpl{
		allocatorPool: pool,
		bodyTextLimit: bodyTextLimit,
	}
}

// Fetch navigates to url, waits for the body, and extracts the page fields
// from the rendered DOM. The caller bounds the total time via ctx.
func (f *BrowserFetcherImpl) Fetch(ctx context.Context, url string) (*entity.ScrapedPage, error) {
	allocCtx := f.allocatorPool.Get().(context.Context)
	defer f.allocatorPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	// Inherit the caller's deadline so a slow page fails the fetch, not the process.
	if deadline, ok := ctx.Deadline(); ok {
		taskCtx, cancel = context.WithDeadline(taskCtx, deadline)
		defer cancel()
	}

	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, err
	}

	return f.extract(url, html)
}

// extract parses the rendered HTML and pulls out the fixed field set.
func (f *BrowserFetcherImpl) extract(url, html string) (*entity.ScrapedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	page := &entity.ScrapedPage{
		URL:   url,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		H1:    []string{},
		H2:    []string{},
		Links: []string{},
	}

	if content, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		page.MetaDescription = strings.TrimSpace(content)
	}

	doc.Find("h1").Each(func(i int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			page.H1 = append(page.H1, text)
		}
	})
	doc.Find("h2").Each(func(i int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			page.H2 = append(page.H2, text)
		}
	})
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			page.Links = append(page.Links, href)
		}
	})

	body := collapseWhitespace(doc.Find("body").Text())
	if f.bodyTextLimit > 0 && len(body) > f.bodyTextLimit {
		body = body[:f.bodyTextLimit]
	}
	page.BodyText = body

	return page, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

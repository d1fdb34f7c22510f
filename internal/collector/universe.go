package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

const (
	defaultSP500URL     = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"
	defaultNasdaq100URL = "https://en.wikipedia.org/wiki/Nasdaq-100"

	defaultUniverseCacheTTL = 24 * time.Hour
)

// UniverseProvider scrapes index constituent tables to build the set of
// tickers worth scanning. Lists are cached with a TTL since they change
// rarely.
type UniverseProvider struct {
	sp500URL     string
	nasdaq100URL string
	userAgent    string
	cacheTTL     time.Duration
	httpClient   *http.Client

	mu    sync.Mutex
	cache map[string]cachedTickers
}

type cachedTickers struct {
	tickers   []string
	fetchedAt time.Time
}

// NewUniverseProvider constructs a provider with sane defaults.
func NewUniverseProvider(userAgent string, opts ...func(*UniverseProvider)) *UniverseProvider {
	p := &UniverseProvider{
		sp500URL:     defaultSP500URL,
		nasdaq100URL: defaultNasdaq100URL,
		userAgent:    userAgent,
		cacheTTL:     defaultUniverseCacheTTL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		cache:        make(map[string]cachedTickers),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithUniverseURLs overrides the scraped pages (useful for tests).
func WithUniverseURLs(sp500, nasdaq100 string) func(*UniverseProvider) {
	return func(p *UniverseProvider) {
		if sp500 != "" {
			p.sp500URL = sp500
		}
		if nasdaq100 != "" {
			p.nasdaq100URL = nasdaq100
		}
	}
}

// WithUniverseHTTPClient overrides the internal HTTP client.
func WithUniverseHTTPClient(hc *http.Client) func(*UniverseProvider) {
	return func(p *UniverseProvider) {
		p.httpClient = hc
	}
}

// SP500 returns the current S&P 500 ticker list.
func (p *UniverseProvider) SP500(ctx context.Context) ([]string, error) {
	return p.fetch(ctx, p.sp500URL)
}

// Nasdaq100 returns the current Nasdaq-100 ticker list.
func (p *UniverseProvider) Nasdaq100(ctx context.Context) ([]string, error) {
	return p.fetch(ctx, p.nasdaq100URL)
}

func (p *UniverseProvider) fetch(ctx context.Context, url string) ([]string, error) {
	p.mu.Lock()
	if entry, ok := p.cache[url]; ok && time.Since(entry.fetchedAt) < p.cacheTTL {
		tickers := entry.tickers
		p.mu.Unlock()
		return tickers, nil
	}
	p.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("universe: create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("universe: request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("universe: %s returned status %d", url, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("universe: parse HTML: %w", err)
	}

	tickers := extractTickerColumn(doc)
	if len(tickers) == 0 {
		return nil, fmt.Errorf("universe: no tickers found at %s", url)
	}

	p.mu.Lock()
	p.cache[url] = cachedTickers{tickers: tickers, fetchedAt: time.Now()}
	p.mu.Unlock()

	return tickers, nil
}

// extractTickerColumn walks the document for the first wikitable whose
// header row contains a Symbol or Ticker column and returns that column's
// cell values.
func extractTickerColumn(doc *html.Node) []string {
	table := findTable(doc)
	if table == nil {
		return nil
	}

	rows := collectRows(table)
	if len(rows) == 0 {
		return nil
	}

	column := tickerColumnIndex(rows[0])
	if column < 0 {
		return nil
	}

	var tickers []string
	for _, row := range rows[1:] {
		cells := childElements(row, "td", "th")
		if column >= len(cells) {
			continue
		}
		ticker := strings.ToUpper(strings.TrimSpace(nodeText(cells[column])))
		if ticker == "" {
			continue
		}
		tickers = append(tickers, ticker)
	}
	return tickers
}

func findTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" && hasClass(n, "wikitable") {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findTable(child); found != nil {
			return found
		}
	}
	return nil
}

func collectRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			rows = append(rows, n)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(table)
	return rows
}

func tickerColumnIndex(headerRow *html.Node) int {
	for idx, cell := range childElements(headerRow, "th", "td") {
		header := strings.ToLower(strings.TrimSpace(nodeText(cell)))
		if header == "symbol" || header == "ticker" || header == "ticker symbol" {
			return idx
		}
	}
	return -1
}

func childElements(n *html.Node, names ...string) []*html.Node {
	var out []*html.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		for _, name := range names {
			if child.Data == name {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

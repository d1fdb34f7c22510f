package collector

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultEDGARBaseURL = "https://www.sec.gov"
	defaultEDGARDataURL = "https://data.sec.gov"

	// SEC fair-access policy allows at most 10 requests per second.
	edgarRequestsPerSecond = 10
)

// EDGARClient is a thin wrapper around the SEC EDGAR JSON and archive
// endpoints. All requests go through a shared rate limiter and carry the
// mandatory identifying User-Agent.
type EDGARClient struct {
	baseURL    string
	dataURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu   sync.Mutex
	ciks map[string]string
}

// NewEDGARClient constructs a client with sane defaults.
func NewEDGARClient(userAgent string, opts ...func(*EDGARClient)) *EDGARClient {
	c := &EDGARClient{
		baseURL:    defaultEDGARBaseURL,
		dataURL:    defaultEDGARDataURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(edgarRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithEDGARHTTPClient overrides the internal HTTP client.
func WithEDGARHTTPClient(hc *http.Client) func(*EDGARClient) {
	return func(c *EDGARClient) {
		c.httpClient = hc
	}
}

// WithEDGARBaseURLs overrides both API hosts (useful for tests).
func WithEDGARBaseURLs(base, data string) func(*EDGARClient) {
	return func(c *EDGARClient) {
		if base != "" {
			c.baseURL = base
		}
		if data != "" {
			c.dataURL = data
		}
	}
}

func (c *EDGARClient) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("edgar: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("edgar: request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("edgar: %s returned status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ResolveCIK maps a ticker symbol to its zero-padded CIK. The full ticker
// table is fetched once and cached for the client's lifetime.
func (c *EDGARClient) ResolveCIK(ctx context.Context, ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	c.mu.Lock()
	cached := c.ciks
	c.mu.Unlock()

	if cached == nil {
		raw, err := c.get(ctx, c.baseURL+"/files/company_tickers.json")
		if err != nil {
			return "", err
		}

		var table map[string]struct {
			CIK    int64  `json:"cik_str"`
			Ticker string `json:"ticker"`
			Title  string `json:"title"`
		}
		if err := json.Unmarshal(raw, &table); err != nil {
			return "", fmt.Errorf("edgar: decode ticker table: %w", err)
		}

		cached = make(map[string]string, len(table))
		for _, entry := range table {
			cached[strings.ToUpper(entry.Ticker)] = fmt.Sprintf("%010d", entry.CIK)
		}

		c.mu.Lock()
		c.ciks = cached
		c.mu.Unlock()
	}

	cik, ok := cached[ticker]
	if !ok {
		return "", fmt.Errorf("edgar: unknown ticker %q", ticker)
	}
	return cik, nil
}

// Filing is one row of a company's recent-filings index.
type Filing struct {
	Form            string
	AccessionNumber string
	FilingDate      time.Time
	Items           []string
	PrimaryDocument string
}

type submissionsResponse struct {
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			Items           []string `json:"items"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// RecentFilings returns the company's recent filings index, newest first.
func (c *EDGARClient) RecentFilings(ctx context.Context, cik string) ([]Filing, error) {
	raw, err := c.get(ctx, fmt.Sprintf("%s/submissions/CIK%s.json", c.dataURL, cik))
	if err != nil {
		return nil, err
	}

	var payload submissionsResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("edgar: decode submissions: %w", err)
	}

	recent := payload.Filings.Recent
	// The index is parallel arrays; form and filingDate must line up with
	// accessionNumber or the payload is unusable.
	if len(recent.Form) < len(recent.AccessionNumber) || len(recent.FilingDate) < len(recent.AccessionNumber) {
		return nil, fmt.Errorf("edgar: submissions index for CIK %s has uneven columns", cik)
	}

	filings := make([]Filing, 0, len(recent.AccessionNumber))
	for i := range recent.AccessionNumber {
		filed, err := time.Parse("2006-01-02", recent.FilingDate[i])
		if err != nil {
			return nil, fmt.Errorf("edgar: parse filing date %q: %w", recent.FilingDate[i], err)
		}
		var items []string
		if i < len(recent.Items) && recent.Items[i] != "" {
			items = strings.Split(recent.Items[i], ",")
		}
		var doc string
		if i < len(recent.PrimaryDocument) {
			doc = recent.PrimaryDocument[i]
		}
		filings = append(filings, Filing{
			Form:            recent.Form[i],
			AccessionNumber: recent.AccessionNumber[i],
			FilingDate:      filed,
			Items:           items,
			PrimaryDocument: doc,
		})
	}
	return filings, nil
}

// FilingURL builds the archive URL for a filing document.
func (c *EDGARClient) FilingURL(cik, accession, doc string) string {
	trimmed := strings.TrimLeft(cik, "0")
	compact := strings.ReplaceAll(accession, "-", "")
	return fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s", c.baseURL, trimmed, compact, doc)
}

// ownershipDocument is the subset of the Form 4 XML schema we read.
type ownershipDocument struct {
	ReportingOwners []struct {
		ID struct {
			Name string `xml:"rptOwnerName"`
		} `xml:"reportingOwnerId"`
		Relationship struct {
			IsDirector   string `xml:"isDirector"`
			IsOfficer    string `xml:"isOfficer"`
			OfficerTitle string `xml:"officerTitle"`
		} `xml:"reportingOwnerRelationship"`
	} `xml:"reportingOwner"`
	NonDerivativeTable struct {
		Transactions []struct {
			Date struct {
				Value string `xml:"value"`
			} `xml:"transactionDate"`
			Coding struct {
				Code string `xml:"transactionCode"`
			} `xml:"transactionCoding"`
			Amounts struct {
				Shares struct {
					Value string `xml:"value"`
				} `xml:"transactionShares"`
				PricePerShare struct {
					Value string `xml:"value"`
				} `xml:"transactionPricePerShare"`
			} `xml:"transactionAmounts"`
		} `xml:"nonDerivativeTransaction"`
	} `xml:"nonDerivativeTable"`
}

// Form4Transactions fetches a Form 4 document and extracts its
// non-derivative transactions.
func (c *EDGARClient) Form4Transactions(ctx context.Context, cik string, filing Filing) ([]InsiderTransaction, error) {
	if filing.PrimaryDocument == "" {
		return nil, nil
	}

	url := c.FilingURL(cik, filing.AccessionNumber, filing.PrimaryDocument)
	raw, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var doc ownershipDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("edgar: decode form 4 %s: %w", filing.AccessionNumber, err)
	}

	var owner string
	var title string
	var isDirector, isOfficer bool
	if len(doc.ReportingOwners) > 0 {
		first := doc.ReportingOwners[0]
		owner = first.ID.Name
		title = first.Relationship.OfficerTitle
		isDirector = xmlBool(first.Relationship.IsDirector)
		isOfficer = xmlBool(first.Relationship.IsOfficer)
	}

	transactions := make([]InsiderTransaction, 0, len(doc.NonDerivativeTable.Transactions))
	for _, txn := range doc.NonDerivativeTable.Transactions {
		date := filing.FilingDate
		if txn.Date.Value != "" {
			if parsed, err := time.Parse("2006-01-02", txn.Date.Value); err == nil {
				date = parsed
			}
		}
		transactions = append(transactions, newInsiderTransaction(
			date, owner, title, txn.Coding.Code,
			txn.Amounts.Shares.Value, txn.Amounts.PricePerShare.Value,
			url, isDirector, isOfficer,
		))
	}
	return transactions, nil
}

func xmlBool(v string) bool {
	v = strings.TrimSpace(v)
	return v == "1" || strings.EqualFold(v, "true")
}

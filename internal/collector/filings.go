package collector

import (
	"time"

	"github.com/shopspring/decimal"
)

// Filing8K is a material-event filing with its enumerated item codes.
type Filing8K struct {
	FilingDate      time.Time `json:"filing_date"`
	AccessionNumber string    `json:"accession_number"`
	Items           []string  `json:"items"`
	URL             string    `json:"url"`
}

// InsiderTransaction is one non-derivative transaction from a Form 4.
type InsiderTransaction struct {
	Date       time.Time       `json:"date"`
	Insider    string          `json:"insider"`
	Title      string          `json:"title,omitempty"`
	Code       string          `json:"code"`
	Shares     decimal.Decimal `json:"shares"`
	Price      decimal.Decimal `json:"price"`
	Value      decimal.Decimal `json:"value"`
	URL        string          `json:"url,omitempty"`
	IsDirector bool            `json:"is_director"`
	IsOfficer  bool            `json:"is_officer"`
}

// IsSale reports whether the transaction is an open-market sale.
func (t InsiderTransaction) IsSale() bool { return t.Code == "S" }

// IsPurchase reports whether the transaction is an open-market purchase.
func (t InsiderTransaction) IsPurchase() bool { return t.Code == "P" }

// FilingData bundles everything collected from EDGAR for one ticker.
type FilingData struct {
	Ticker       string               `json:"ticker"`
	CIK          string               `json:"cik"`
	Filings8K    []Filing8K           `json:"filings_8k"`
	Transactions []InsiderTransaction `json:"transactions"`
	CollectedAt  time.Time            `json:"collected_at"`
}

func newInsiderTransaction(date time.Time, insider, title, code, shares, price, url string, isDirector, isOfficer bool) InsiderTransaction {
	shareCount := parseDecimal(shares)
	pricePer := parseDecimal(price)
	return InsiderTransaction{
		Date:       date,
		Insider:    insider,
		Title:      title,
		Code:       code,
		Shares:     shareCount,
		Price:      pricePer,
		Value:      shareCount.Mul(pricePer),
		URL:        url,
		IsDirector: isDirector,
		IsOfficer:  isOfficer,
	}
}

func parseDecimal(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

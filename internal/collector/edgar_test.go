package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockradar/stockradar/internal/signal"
)

const tickerTableJSON = `{
	"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."},
	"1": {"cik_str": 789019, "ticker": "MSFT", "title": "Microsoft Corp"}
}`

const submissionsJSON = `{
	"cik": "320193",
	"filings": {
		"recent": {
			"accessionNumber": ["0000320193-26-000010", "0000320193-26-000009", "0000320193-26-000008"],
			"filingDate": ["2026-02-10", "2026-02-08", "2025-11-01"],
			"form": ["8-K", "4", "8-K"],
			"items": ["4.02,9.01", "", "2.02"],
			"primaryDocument": ["a8-k.htm", "form4.xml", "old8-k.htm"]
		}
	}
}`

const form4XML = `<?xml version="1.0"?>
<ownershipDocument>
	<reportingOwner>
		<reportingOwnerId><rptOwnerName>DOE JANE</rptOwnerName></reportingOwnerId>
		<reportingOwnerRelationship>
			<isDirector>0</isDirector>
			<isOfficer>1</isOfficer>
			<officerTitle>Chief Financial Officer</officerTitle>
		</reportingOwnerRelationship>
	</reportingOwner>
	<nonDerivativeTable>
		<nonDerivativeTransaction>
			<transactionDate><value>2026-02-06</value></transactionDate>
			<transactionCoding><transactionCode>S</transactionCode></transactionCoding>
			<transactionAmounts>
				<transactionShares><value>20000</value></transactionShares>
				<transactionPricePerShare><value>150.00</value></transactionPricePerShare>
			</transactionAmounts>
		</nonDerivativeTransaction>
	</nonDerivativeTable>
</ownershipDocument>`

func edgarTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tickerTableJSON))
	})
	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(submissionsJSON))
	})
	mux.HandleFunc("/Archives/edgar/data/320193/000032019326000009/form4.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(form4XML))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(server *httptest.Server) *EDGARClient {
	return NewEDGARClient("stockradar-test/1.0 (dev@example.com)",
		WithEDGARBaseURLs(server.URL, server.URL),
		WithEDGARHTTPClient(server.Client()),
	)
}

func TestResolveCIK(t *testing.T) {
	client := newTestClient(edgarTestServer(t))

	cik, err := client.ResolveCIK(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "0000320193", cik)

	_, err = client.ResolveCIK(context.Background(), "ZZZZ")
	require.Error(t, err)
}

func TestRecentFilings(t *testing.T) {
	client := newTestClient(edgarTestServer(t))

	filings, err := client.RecentFilings(context.Background(), "0000320193")
	require.NoError(t, err)
	require.Len(t, filings, 3)

	assert.Equal(t, "8-K", filings[0].Form)
	assert.Equal(t, []string{"4.02", "9.01"}, filings[0].Items)
	assert.Equal(t, "4", filings[1].Form)
	assert.Empty(t, filings[1].Items)
}

func TestRecentFilingsRejectsUnevenColumns(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"filings": {
				"recent": {
					"accessionNumber": ["0000320193-26-000010", "0000320193-26-000009"],
					"filingDate": ["2026-02-10"],
					"form": ["8-K"],
					"items": [],
					"primaryDocument": []
				}
			}
		}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(server)
	_, err := client.RecentFilings(context.Background(), "0000320193")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uneven columns")
}

func TestForm4Transactions(t *testing.T) {
	client := newTestClient(edgarTestServer(t))

	filing := Filing{
		Form:            "4",
		AccessionNumber: "0000320193-26-000009",
		FilingDate:      time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC),
		PrimaryDocument: "form4.xml",
	}

	transactions, err := client.Form4Transactions(context.Background(), "0000320193", filing)
	require.NoError(t, err)
	require.Len(t, transactions, 1)

	txn := transactions[0]
	assert.Equal(t, "DOE JANE", txn.Insider)
	assert.Equal(t, "Chief Financial Officer", txn.Title)
	assert.True(t, txn.IsSale())
	assert.True(t, txn.IsOfficer)
	assert.False(t, txn.IsDirector)
	assert.Equal(t, "3000000", txn.Value.StringFixed(0))
	assert.Equal(t, time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC), txn.Date)
}

func TestSECCollectorEndToEnd(t *testing.T) {
	client := newTestClient(edgarTestServer(t))
	sec := NewSECCollector(client)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	signals, err := sec.Collect(context.Background(), "AAPL", from, to)
	require.NoError(t, err)

	// The in-window 8-K carries item 4.02; the old 8-K is filtered out and
	// item 2.02 would not map anyway. The $3M form 4 sale flags as large.
	require.Len(t, signals, 2)
	assert.Equal(t, signal.TypeSEC8KNonReliance, signals[0].Type)
	assert.Equal(t, signal.TypeInsiderSellLarge, signals[1].Type)
	assert.Equal(t, 3.0, signals[1].Severity)
}

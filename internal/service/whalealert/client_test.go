package whalealert

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TradeFlow/internal/domain/models"
	xhttp "TradeFlow/pkg/http"
	applogger "TradeFlow/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordScan(int, time.Duration) {}
func (nopMetrics) RecordSignal(string)           {}
func (nopMetrics) RecordProviderError(string)    {}
func (nopMetrics) RecordFallback(string)         {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestClassify(t *testing.T) {
	cases := []struct {
		from, to string
		want     models.TransactionType
	}{
		{"unknown", "Binance Hot Wallet", models.TxExchangeInflow},
		{"coinbase cold storage", "unknown", models.TxExchangeOutflow},
		{"unknown", "unknown", models.TxWalletTransfer},
		{"kraken", "binance", models.TxWalletTransfer},
	}
	for _, tc := range cases {
		if got := classify(tc.from, tc.to); got != tc.want {
			t.Fatalf("classify(%q, %q) = %s, want %s", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestFetchFromProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("min_value") != "10000000" {
			t.Errorf("unexpected min_value %s", r.URL.Query().Get("min_value"))
		}
		fmt.Fprint(w, `{"result":"success","transactions":[
			{"id":"tx1","timestamp":1700000000,"amount":100,"amount_usd":5000000,"symbol":"btc","from":{"owner":"unknown"},"to":{"owner":"binance"}},
			{"hash":"h2","timestamp":1700000100,"amount":200,"symbol":"eth","from":{"owner":"kraken"},"to":{"owner":""}}
		]}`)
	}))
	defer srv.Close()

	c := New(xhttp.NewClient(), testLogger(t), nopMetrics{},
		WithAPIKey("k"),
		WithBaseURL(srv.URL),
	)
	txs := c.Fetch(context.Background())
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].Symbol != "BTC" || txs[0].Type != models.TxExchangeInflow || txs[0].USDValue != 5000000 {
		t.Fatalf("unexpected first tx %+v", txs[0])
	}
	// Missing amount_usd falls back to amount * 50000.
	if txs[1].ID != "h2" || txs[1].USDValue != 200*50000 || txs[1].Type != models.TxExchangeOutflow {
		t.Fatalf("unexpected second tx %+v", txs[1])
	}
}

func TestFetchWithoutKeyServesSynthetic(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	c := New(xhttp.NewClient(), testLogger(t), nopMetrics{},
		WithRand(rand.New(rand.NewSource(1))),
		WithClock(func() time.Time { return now }),
	)
	txs := c.Fetch(context.Background())
	if len(txs) != 5 {
		t.Fatalf("expected 5 synthetic transactions, got %d", len(txs))
	}
	for i, tx := range txs {
		if !strings.HasPrefix(tx.ID, "sim-") {
			t.Fatalf("tx %d not synthetic: %s", i, tx.ID)
		}
		if tx.USDValue < 10_000_000 || tx.USDValue > 100_000_000 {
			t.Fatalf("tx %d usd value out of range: %v", i, tx.USDValue)
		}
		switch tx.Type {
		case models.TxExchangeInflow:
			if tx.To != "coinbase" {
				t.Fatalf("inflow should target coinbase, got %s", tx.To)
			}
		case models.TxExchangeOutflow:
			if tx.From != "binance" {
				t.Fatalf("outflow should come from binance, got %s", tx.From)
			}
		}
	}
}

func TestFetchProviderErrorServesSynthetic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":"error","message":"invalid key"}`)
	}))
	defer srv.Close()

	c := New(xhttp.NewClient(), testLogger(t), nopMetrics{},
		WithAPIKey("bad"),
		WithBaseURL(srv.URL),
		WithRand(rand.New(rand.NewSource(2))),
	)
	txs := c.Fetch(context.Background())
	if len(txs) != 5 {
		t.Fatalf("expected synthetic fallback, got %d transactions", len(txs))
	}
}

func TestSyntheticDeterministicWithSeed(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	mk := func() []models.WhaleTransaction {
		c := New(xhttp.NewClient(), testLogger(t), nopMetrics{},
			WithRand(rand.New(rand.NewSource(7))),
			WithClock(func() time.Time { return now }),
		)
		return c.Fetch(context.Background())
	}
	a, b := mk(), mk()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seeded synthetic data should be reproducible, diff at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

package cryptopanic

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
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

func TestFetchFromProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("filter") != "important" {
			t.Errorf("unexpected filter %s", r.URL.Query().Get("filter"))
		}
		fmt.Fprint(w, `{"results":[
			{"id":1,"title":"SEC Approves Spot ETF","source":{"title":"Reuters"},"published_at":"2026-03-14T10:00:00Z","votes":{"positive":10,"negative":2}},
			{"id":2,"title":"Quiet day in crypto markets","source":{"title":"CoinDesk"},"published_at":"2026-03-14T09:00:00Z","votes":{"positive":1,"negative":1}}
		]}`)
	}))
	defer srv.Close()

	c := New(xhttp.NewClient(), testLogger(t), nopMetrics{},
		WithAPIKey("k"),
		WithBaseURL(srv.URL),
	)
	items := c.Fetch(context.Background())
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Sentiment != models.SentimentPositive || items[0].Impact != models.ImpactHigh {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if len(items[0].Keywords) != 2 {
		t.Fatalf("expected SEC and ETF keywords, got %v", items[0].Keywords)
	}
	if items[1].Sentiment != models.SentimentNeutral || items[1].Impact != models.ImpactMedium {
		t.Fatalf("unexpected second item %+v", items[1])
	}
}

func TestFetchWithoutKeyServesSynthetic(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	c := New(xhttp.NewClient(), testLogger(t), nopMetrics{},
		WithRand(rand.New(rand.NewSource(1))),
		WithClock(func() time.Time { return now }),
	)
	items := c.Fetch(context.Background())
	if len(items) != 5 {
		t.Fatalf("expected 5 synthetic items, got %d", len(items))
	}
	if items[0].Title != "SEC Delays Decision on Bitcoin ETF Application" {
		t.Fatalf("unexpected first headline %q", items[0].Title)
	}
	if items[0].Impact != models.ImpactHigh {
		t.Fatalf("keyworded headline should be high impact")
	}
	if items[3].Impact != models.ImpactMedium {
		t.Fatalf("keywordless headline should be medium impact")
	}
}

func TestFetchProviderFailureServesSynthetic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(xhttp.NewClient(), testLogger(t), nopMetrics{},
		WithAPIKey("k"),
		WithBaseURL(srv.URL),
		WithRand(rand.New(rand.NewSource(2))),
	)
	items := c.Fetch(context.Background())
	if len(items) != 5 {
		t.Fatalf("expected synthetic fallback, got %d items", len(items))
	}
}

func TestMatchKeywords(t *testing.T) {
	got := matchKeywords("Fed hints at rate cut as inflation cools")
	want := map[string]bool{"Fed": true, "Rate": true, "Inflation": true}
	if len(got) != len(want) {
		t.Fatalf("expected %d keywords, got %v", len(want), got)
	}
	for _, kw := range got {
		if !want[kw] {
			t.Fatalf("unexpected keyword %s", kw)
		}
	}
}

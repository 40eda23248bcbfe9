package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TradeFlow/internal/domain/repository"
	"TradeFlow/pkg/cache"
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

func chartBody(timestamps []int64, rows [][4]interface{}, volumes []interface{}) string {
	body := `{"chart":{"result":[{"timestamp":[`
	for i, ts := range timestamps {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf("%d", ts)
	}
	body += `],"indicators":{"quote":[{"open":[`
	field := func(idx int) string {
		s := ""
		for i, r := range rows {
			if i > 0 {
				s += ","
			}
			if r[idx] == nil {
				s += "null"
			} else {
				s += fmt.Sprintf("%v", r[idx])
			}
		}
		return s
	}
	body += field(0) + `],"high":[` + field(1) + `],"low":[` + field(2) + `],"close":[` + field(3) + `],"volume":[`
	for i, v := range volumes {
		if i > 0 {
			body += ","
		}
		if v == nil {
			body += "null"
		} else {
			body += fmt.Sprintf("%v", v)
		}
	}
	body += `]}]}}],"error":null}}`
	return body
}

func TestFetchDailyCandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/AAPL" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("interval") != "1d" {
			t.Errorf("expected 1d interval, got %s", r.URL.Query().Get("interval"))
		}
		fmt.Fprint(w, chartBody(
			[]int64{1700000000, 1700086400},
			[][4]interface{}{
				{100.0, 105.0, 99.0, 104.0},
				{104.0, 108.0, 103.0, 107.0},
			},
			[]interface{}{1000000.0, 1500000.0},
		))
	}))
	defer srv.Close()

	c := New(xhttp.NewClient(), testLogger(t), nopMetrics{}, WithBaseURL(srv.URL))
	candles, err := c.FetchDailyCandles(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if candles[0].Timestamp != 1700000000000 {
		t.Fatalf("expected ms timestamp, got %d", candles[0].Timestamp)
	}
	if candles[1].Close != 107.0 || candles[1].Volume != 1500000.0 {
		t.Fatalf("unexpected candle %+v", candles[1])
	}
}

func TestFetchDailyCandlesSkipsNullRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(
			[]int64{1700000000, 1700086400, 1700172800},
			[][4]interface{}{
				{100.0, 105.0, 99.0, 104.0},
				{nil, nil, nil, nil},
				{104.0, 108.0, 103.0, 107.0},
			},
			[]interface{}{1000000.0, nil, 1500000.0},
		))
	}))
	defer srv.Close()

	c := New(xhttp.NewClient(), testLogger(t), nopMetrics{}, WithBaseURL(srv.URL))
	candles, err := c.FetchDailyCandles(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("null row should be skipped, got %d candles", len(candles))
	}
}

func TestFetchDailyCandlesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(xhttp.NewClient(), testLogger(t), nopMetrics{}, WithBaseURL(srv.URL))
	_, err := c.FetchDailyCandles(context.Background(), "AAPL")
	if !errors.Is(err, repository.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestFetchDailyCandlesCacheHit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, chartBody(
			[]int64{1700000000},
			[][4]interface{}{{100.0, 105.0, 99.0, 104.0}},
			[]interface{}{1000000.0},
		))
	}))
	defer srv.Close()

	mem := cache.NewMemoryCache()
	defer mem.Close()

	c := New(xhttp.NewClient(), testLogger(t), nopMetrics{},
		WithBaseURL(srv.URL),
		WithCache(mem, time.Minute),
	)

	for i := 0; i < 3; i++ {
		if _, err := c.FetchDailyCandles(context.Background(), "AAPL"); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls)
	}
}

func TestFormatSymbol(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"AAPL", "AAPL"},
		{"eurusd", "EURUSD=X"},
		{"BTC", "BTC-USD"},
		{" sol ", "SOL-USD"},
		{"SPY", "SPY"},
	}
	for _, tc := range cases {
		if got := FormatSymbol(tc.in); got != tc.want {
			t.Fatalf("FormatSymbol(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

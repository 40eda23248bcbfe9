package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	applogger "TradeFlow/pkg/logger"

	"github.com/gorilla/websocket"
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

// wsServer upgrades incoming connections and hands them to serve.
func wsServer(t *testing.T, serve func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		serve(conn)
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestStreamStoresQuotes(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn) {
		// consume the subscribe frame, then emit one trade
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		frame := `{"type":"trade","data":[{"s":"AAPL","p":123.4,"v":10,"t":1700000000000}]}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer srv.Close()

	s := NewStream("token", wsURL(srv), []string{"AAPL"}, time.Minute, testLogger(t), nopMetrics{})
	s.Start(context.Background())
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if q, ok := s.LatestQuote("AAPL"); ok {
			if q.Price != 123.4 || q.Timestamp != 1700000000 {
				t.Fatalf("unexpected quote %+v", q)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("quote never arrived")
}

func TestStopUnblocksSilentConnection(t *testing.T) {
	var once sync.Once
	connected := make(chan struct{})
	srv := wsServer(t, func(conn *websocket.Conn) {
		once.Do(func() { close(connected) })
		// never write anything; keep the client read blocked
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer srv.Close()

	s := NewStream("token", wsURL(srv), []string{"AAPL"}, time.Minute, testLogger(t), nopMetrics{})
	s.Start(context.Background())

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatalf("stream never connected")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not return while the upstream was silent")
	}
}

package util

import (
	"testing"
	"time"
)

func TestLookbackRange(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	from, to := LookbackRange(now, 30)
	if to != now.Unix() {
		t.Fatalf("unexpected to %d", to)
	}
	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Unix()
	if from != want {
		t.Fatalf("expected from %d, got %d", want, from)
	}
}

func TestSplitSymbols(t *testing.T) {
	got := SplitSymbols(" aapl, TSLA ,,nvda")
	want := []string{"AAPL", "TSLA", "NVDA"}
	if len(got) != len(want) {
		t.Fatalf("expected %d symbols, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %s at %d, got %s", want[i], i, got[i])
		}
	}
}

func TestSplitSymbolsEmpty(t *testing.T) {
	if got := SplitSymbols(""); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestParseIntDefault(t *testing.T) {
	if v := ParseIntDefault("", 7); v != 7 {
		t.Fatalf("expected default, got %d", v)
	}
	if v := ParseIntDefault("42", 7); v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
	if v := ParseIntDefault("x", 7); v != 7 {
		t.Fatalf("expected default on garbage, got %d", v)
	}
}

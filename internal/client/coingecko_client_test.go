package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestCoinGeckoClient(t *testing.T, handler http.HandlerFunc) PriceClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewCoinGeckoClient(server.URL, 5*time.Second, zap.NewNop())
}

func TestGetAdaPriceUSD(t *testing.T) {
	c := newTestCoinGeckoClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("ids") != "cardano" || query.Get("vs_currencies") != "usd" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"cardano":{"usd":0.4523}}`))
	})

	price, err := c.GetAdaPriceUSD(context.Background())
	if err != nil {
		t.Fatalf("GetAdaPriceUSD: %v", err)
	}
	if price != 0.4523 {
		t.Errorf("price = %v, want 0.4523", price)
	}
}

func TestGetAdaPriceUSD_UpstreamFailure(t *testing.T) {
	c := newTestCoinGeckoClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	price, err := c.GetAdaPriceUSD(context.Background())
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if price != 0 {
		t.Errorf("price = %v, want 0 on failure", price)
	}
}

func TestGetAdaPriceUSD_MalformedBody(t *testing.T) {
	c := newTestCoinGeckoClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	if _, err := c.GetAdaPriceUSD(context.Background()); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestGetAdaPriceUSD_EmptyObject(t *testing.T) {
	c := newTestCoinGeckoClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	price, err := c.GetAdaPriceUSD(context.Background())
	if err != nil {
		t.Fatalf("GetAdaPriceUSD: %v", err)
	}
	if price != 0 {
		t.Errorf("price = %v, want 0 for missing quote", price)
	}
}

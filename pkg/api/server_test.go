package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"limitbook/params"
	"limitbook/pkg/book"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	b := book.NewBook(0)
	b.Add(book.Order{ID: 1, Side: book.Sell, Price: 10100, Qty: 10})
	b.Add(book.Order{ID: 2, Side: book.Sell, Price: 10200, Qty: 10})
	b.Add(book.Order{ID: 10, Side: book.Buy, Price: 10000, Qty: 5})
	b.Add(book.Order{ID: 11, Side: book.Buy, Price: 10000, Qty: 7})
	return NewServer(b, params.Default().API, nil, zap.NewNop().Sugar())
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestGetHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decode[map[string]string](t, rec)
	if got["status"] != "ok" {
		t.Errorf("status field = %q, want ok", got["status"])
	}
}

func TestGetBook(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/book", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decode[BookView](t, rec)
	wantBids := []PriceLevel{{Price: 10000, Qty: 12}}
	wantAsks := []PriceLevel{{Price: 10100, Qty: 10}, {Price: 10200, Qty: 10}}
	if !reflect.DeepEqual(got.Bids, wantBids) {
		t.Errorf("bids = %v, want %v", got.Bids, wantBids)
	}
	if !reflect.DeepEqual(got.Asks, wantAsks) {
		t.Errorf("asks = %v, want %v", got.Asks, wantAsks)
	}
}

func TestGetBookDepth(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/book?depth=1", "")
	got := decode[BookView](t, rec)
	if len(got.Asks) != 1 || got.Asks[0].Price != 10100 {
		t.Errorf("asks = %v, want only best level 10100", got.Asks)
	}

	// Unusable depth falls back to the default.
	rec = doRequest(t, s, http.MethodGet, "/book?depth=bogus", "")
	got = decode[BookView](t, rec)
	if len(got.Asks) != 2 {
		t.Errorf("asks = %v, want both levels with default depth", got.Asks)
	}
}

func TestSubmitOrderMatches(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/orders", `{"side":"SELL","price":9900,"qty":9}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	got := decode[SubmitOrderResponse](t, rec)

	if got.OrderID != 100 {
		t.Errorf("order_id = %d, want 100 (first server-assigned id)", got.OrderID)
	}
	wantTrades := []TradeView{
		{Price: 10000, Qty: 5, TakerOrderID: 100, MakerOrderID: 10},
		{Price: 10000, Qty: 4, TakerOrderID: 100, MakerOrderID: 11},
	}
	if !reflect.DeepEqual(got.Trades, wantTrades) {
		t.Errorf("trades = %v, want %v", got.Trades, wantTrades)
	}
	wantBids := []PriceLevel{{Price: 10000, Qty: 3}}
	if !reflect.DeepEqual(got.Book.Bids, wantBids) {
		t.Errorf("book.bids = %v, want %v", got.Book.Bids, wantBids)
	}

	// Ids are sequential.
	rec = doRequest(t, s, http.MethodPost, "/orders", `{"side":"buy","price":9000,"qty":1}`)
	if next := decode[SubmitOrderResponse](t, rec); next.OrderID != 101 {
		t.Errorf("order_id = %d, want 101", next.OrderID)
	}
}

func TestSubmitOrderValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"side":"buy"`},
		{"missing fields", `{"side":"buy","price":100}`},
		{"wrong type price", `{"side":"buy","price":"100","qty":1}`},
		{"wrong type side", `{"side":7,"price":100,"qty":1}`},
		{"unknown side", `{"side":"hold","price":100,"qty":1}`},
		{"zero price", `{"side":"buy","price":0,"qty":1}`},
		{"negative qty", `{"side":"buy","price":100,"qty":-5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := doRequest(t, s, http.MethodPost, "/orders", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCancelOrder(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodDelete, "/orders/10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	got := decode[CancelOrderResponse](t, rec)
	if !got.Cancelled || got.OrderID != 10 {
		t.Errorf("response = %+v, want cancelled order 10", got)
	}
	wantBids := []PriceLevel{{Price: 10000, Qty: 7}}
	if !reflect.DeepEqual(got.Book.Bids, wantBids) {
		t.Errorf("book.bids = %v, want %v", got.Book.Bids, wantBids)
	}

	// Cancelling again is a 404.
	rec = doRequest(t, s, http.MethodDelete, "/orders/10", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second cancel status = %d, want 404", rec.Code)
	}
}

func TestCancelOrderInvalidID(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodDelete, "/orders/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetTrades(t *testing.T) {
	s := newTestServer(t)
	doRequest(t, s, http.MethodPost, "/orders", `{"side":"sell","price":9900,"qty":9}`)

	rec := doRequest(t, s, http.MethodGet, "/trades?limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[TradesResponse](t, rec)
	want := []TradeView{{Price: 10000, Qty: 4, TakerOrderID: 100, MakerOrderID: 11}}
	if !reflect.DeepEqual(got.Trades, want) {
		t.Errorf("trades = %v, want %v", got.Trades, want)
	}

	rec = doRequest(t, s, http.MethodGet, "/trades", "")
	if got := decode[TradesResponse](t, rec); len(got.Trades) != 2 {
		t.Errorf("trades = %v, want 2 entries", got.Trades)
	}
}

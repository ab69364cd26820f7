package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

const tableA = `[{"table":"A","no":"167/A/NBP/2026","effectiveDate":"2026-08-28",
"rates":[
  {"currency":"dolar amerykański","code":"USD","mid":3.6421},
  {"currency":"euro","code":"EUR","mid":4.2615}
]}]`

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(tableA))
	}))
	defer srv.Close()

	rates, err := NewClient(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rates) != 2 {
		t.Fatalf("got %d rates, want 2", len(rates))
	}
	if rates[0].Code != "USD" || !rates[0].Mid.Equal(decimal.NewFromFloat(3.6421)) {
		t.Errorf("unexpected first rate: %+v", rates[0])
	}
	if rates[1].Code != "EUR" {
		t.Errorf("unexpected second rate: %+v", rates[1])
	}
}

func TestClientFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Fetch(context.Background()); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestClientFetchEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Fetch(context.Background()); err == nil {
		t.Fatal("expected error on empty table list")
	}
}

type fakeStore struct {
	upserts map[string]decimal.Decimal
}

func (s *fakeStore) UpsertCurrencyByCode(_ context.Context, code, _ string, rate decimal.Decimal) error {
	if s.upserts == nil {
		s.upserts = make(map[string]decimal.Decimal)
	}
	s.upserts[code] = rate
	return nil
}

type fakeFetcher struct {
	rates []Rate
	err   error
}

func (f *fakeFetcher) Fetch(context.Context) ([]Rate, error) {
	return f.rates, f.err
}

func TestUpdaterRefresh(t *testing.T) {
	store := &fakeStore{}
	updater := NewUpdater(&fakeFetcher{rates: []Rate{
		{Code: "USD", Name: "US dollar", Mid: decimal.NewFromFloat(3.64)},
		{Code: "EUR", Name: "euro", Mid: decimal.NewFromFloat(4.26)},
	}}, store)

	if err := updater.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(store.upserts) != 2 {
		t.Fatalf("got %d upserts, want 2", len(store.upserts))
	}
	if !store.upserts["EUR"].Equal(decimal.NewFromFloat(4.26)) {
		t.Errorf("EUR rate = %s, want 4.26", store.upserts["EUR"])
	}
}

func TestUpdaterRefreshFetchFailure(t *testing.T) {
	store := &fakeStore{}
	updater := NewUpdater(&fakeFetcher{err: errors.New("feed down")}, store)

	if err := updater.Refresh(context.Background()); err == nil {
		t.Fatal("expected error when the feed is down")
	}
	if len(store.upserts) != 0 {
		t.Error("failed refresh must not touch stored rates")
	}
}

package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgmartins/triagem/internal/cache"
	"github.com/lgmartins/triagem/internal/model"
)

func newTestServer(t *testing.T, calls *int32, record model.CustomerRecord) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		require.Equal(t, "/v1/customer/validate", r.URL.Path)

		var req lookupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		record.TaxID = req.TaxID
		require.NoError(t, json.NewEncoder(w).Encode(record))
	}))
}

func TestLookupCustomer(t *testing.T) {
	var calls int32
	srv := newTestServer(t, &calls, model.CustomerRecord{
		IsCustomer:    true,
		Name:          "JOAO CARLOS DA SILVA",
		CustomerSince: "2020-01-15",
		TenureDays:    1800,
	})
	defer srv.Close()

	client, err := NewHTTPCustomerClient(model.LookupConfig{BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	rec, err := client.Lookup(context.Background(), "12345678900")
	require.NoError(t, err)
	assert.True(t, rec.IsCustomer)
	assert.Equal(t, "12345678900", rec.TaxID)
	assert.Equal(t, 1800, rec.TenureDays)
}

func TestLookupUsesCache(t *testing.T) {
	var calls int32
	srv := newTestServer(t, &calls, model.CustomerRecord{IsCustomer: true})
	defer srv.Close()

	store := cache.NewMemoryCache(time.Minute, time.Minute)
	client, err := NewHTTPCustomerClient(model.LookupConfig{BaseURL: srv.URL, CacheTTL: time.Minute}, store)
	require.NoError(t, err)

	_, err = client.Lookup(context.Background(), "12345678900")
	require.NoError(t, err)
	_, err = client.Lookup(context.Background(), "12345678900")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second lookup should come from cache")
}

func TestLookupRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(model.CustomerRecord{TaxID: "1", IsCustomer: false})
	}))
	defer srv.Close()

	client, err := NewHTTPCustomerClient(model.LookupConfig{BaseURL: srv.URL, MaxRetries: 2}, nil)
	require.NoError(t, err)

	rec, err := client.Lookup(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, rec.IsCustomer)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLookupDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewHTTPCustomerClient(model.LookupConfig{BaseURL: srv.URL, MaxRetries: 3}, nil)
	require.NoError(t, err)

	_, err = client.Lookup(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx must not be retried")
}

type fakeCustomerClient struct {
	records map[string]*model.CustomerRecord
	err     error
	calls   int
}

func (f *fakeCustomerClient) Lookup(_ context.Context, taxID string) (*model.CustomerRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if rec, ok := f.records[taxID]; ok {
		return rec, nil
	}
	return &model.CustomerRecord{TaxID: taxID, IsCustomer: false}, nil
}

func TestEnrichParties(t *testing.T) {
	client := &fakeCustomerClient{records: map[string]*model.CustomerRecord{
		"11111111111": {TaxID: "11111111111", IsCustomer: true, Name: "FULANO"},
	}}
	parties := []model.Party{
		{TaxID: "11111111111", Kind: model.PartyNaturalPerson},
		{TaxID: "22222222222", Kind: model.PartyNaturalPerson},
	}

	res := EnrichParties(context.Background(), client, parties)
	assert.Equal(t, 2, res.Verified)
	assert.Equal(t, 1, res.Customers)
	assert.True(t, res.AnyCustomer)
	require.NotNil(t, parties[0].Customer)
	assert.Equal(t, "FULANO", parties[0].Name, "lookup name fills a missing party name")
	require.NotNil(t, parties[1].Customer)
	assert.False(t, parties[1].Customer.IsCustomer)
}

func TestEnrichPartiesDedupesTaxIDs(t *testing.T) {
	client := &fakeCustomerClient{}
	parties := []model.Party{
		{TaxID: "11111111111"},
		{TaxID: "11111111111"},
	}
	EnrichParties(context.Background(), client, parties)
	assert.Equal(t, 1, client.calls, "same tax id must hit the collaborator once")
}

func TestEnrichPartiesLookupFailure(t *testing.T) {
	client := &fakeCustomerClient{err: errors.New("timeout")}
	parties := []model.Party{{TaxID: "11111111111"}}

	res := EnrichParties(context.Background(), client, parties)
	assert.Equal(t, 0, res.Verified)
	assert.NotEmpty(t, res.Alerts)
	assert.Nil(t, parties[0].Customer, "failure must not invent a verdict")
}

func TestEnrichPartiesNoClient(t *testing.T) {
	res := EnrichParties(context.Background(), nil, []model.Party{{TaxID: "1"}})
	assert.Zero(t, res.Verified)
	assert.NotEmpty(t, res.Alerts)
}

type fakeStore struct {
	codes map[string]map[string]bool
	err   error
}

func (f *fakeStore) Available(_ context.Context, taxID string) (map[string]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.codes[taxID], nil
}

func (f *fakeStore) Close() error { return nil }

func TestMarkAvailability(t *testing.T) {
	store := &fakeStore{codes: map[string]map[string]bool{
		"1": {"10": true},
	}}
	matches := []model.SubsidyMatch{{SubsidyID: "10"}, {SubsidyID: "20"}}

	alerts := MarkAvailability(context.Background(), store, []string{"1"}, matches)
	assert.Empty(t, alerts)
	require.NotNil(t, matches[0].Available)
	assert.True(t, *matches[0].Available)
	require.NotNil(t, matches[1].Available)
	assert.False(t, *matches[1].Available)
}

func TestMarkAvailabilityStoreDown(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	matches := []model.SubsidyMatch{{SubsidyID: "10"}}

	alerts := MarkAvailability(context.Background(), store, []string{"1"}, matches)
	assert.NotEmpty(t, alerts)
	assert.Nil(t, matches[0].Available, "no answer must leave matches unannotated")
}

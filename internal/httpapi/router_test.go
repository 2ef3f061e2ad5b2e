package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fjod/go_catalog/internal/auth"
	"github.com/fjod/go_catalog/internal/domain"
)

const testSecret = "test-secret"

// mockCatalog records how often the backing service was reached, so
// tests can assert that rejected requests never touch it.
type mockCatalog struct {
	item  *domain.Item
	err   error
	calls atomic.Int64

	lastActor domain.Identity
	lastValue int
}

func (m *mockCatalog) ListItems(context.Context) ([]domain.Item, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Item{*m.item}, nil
}

func (m *mockCatalog) GetItem(context.Context, string) (*domain.Item, error) {
	m.calls.Add(1)
	return m.item, m.err
}

func (m *mockCatalog) CreateItem(_ context.Context, actor domain.Identity, _ string, _ []string, _ float64) (*domain.Item, error) {
	m.calls.Add(1)
	m.lastActor = actor
	return m.item, m.err
}

func (m *mockCatalog) DeleteItem(_ context.Context, actor domain.Identity, _ string) error {
	m.calls.Add(1)
	m.lastActor = actor
	return m.err
}

func (m *mockCatalog) RateItem(_ context.Context, actor domain.Identity, _ string, value int) (*domain.Item, error) {
	m.calls.Add(1)
	m.lastActor = actor
	m.lastValue = value
	return m.item, m.err
}

func (m *mockCatalog) AddComment(_ context.Context, actor domain.Identity, _, _ string) (*domain.Item, error) {
	m.calls.Add(1)
	m.lastActor = actor
	return m.item, m.err
}

func (m *mockCatalog) RemoveComment(context.Context, string, string) (*domain.Item, error) {
	m.calls.Add(1)
	return m.item, m.err
}

func (m *mockCatalog) LikeComment(_ context.Context, actor domain.Identity, _, _ string) (*domain.Item, error) {
	m.calls.Add(1)
	m.lastActor = actor
	return m.item, m.err
}

func (m *mockCatalog) DislikeComment(_ context.Context, actor domain.Identity, _, _ string) (*domain.Item, error) {
	m.calls.Add(1)
	m.lastActor = actor
	return m.item, m.err
}

type mockBags struct {
	bag   *domain.Bag
	err   error
	calls atomic.Int64
}

func (m *mockBags) GetBag(context.Context, domain.Identity) (*domain.Bag, error) {
	m.calls.Add(1)
	return m.bag, m.err
}

func (m *mockBags) GetOrCreate(context.Context, domain.Identity) (*domain.Bag, error) {
	m.calls.Add(1)
	return m.bag, m.err
}

func (m *mockBags) AddItem(context.Context, domain.Identity, string) (*domain.Bag, error) {
	m.calls.Add(1)
	return m.bag, m.err
}

func (m *mockBags) RemoveItem(context.Context, domain.Identity, string) (*domain.Bag, error) {
	m.calls.Add(1)
	return m.bag, m.err
}

func (m *mockBags) DeleteBag(context.Context, domain.Identity) error {
	m.calls.Add(1)
	return m.err
}

func newTestRouter(catalog CatalogAPI, bags BagAPI) http.Handler {
	logger := slog.New(slog.DiscardHandler)
	verifier := auth.NewVerifier(testSecret)
	metrics := NewMetrics(prometheus.NewRegistry())

	return NewRouter(
		NewItemHandler(catalog, 5*time.Second),
		NewBagHandler(bags, 5*time.Second),
		NewAuthMiddleware(verifier),
		logger,
		metrics,
	)
}

func testToken(identity domain.Identity) string {
	token, err := auth.NewVerifier(testSecret).Sign(identity, time.Hour)
	if err != nil {
		panic(err)
	}
	return token
}

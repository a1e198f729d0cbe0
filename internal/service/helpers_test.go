package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
	"github.com/nanum-market/nanum/internal/repo"
	"github.com/nanum-market/nanum/internal/testdb"
	"github.com/nanum-market/nanum/pkg/oauth"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: event})
	return p.err
}

func (p *recordingPublisher) types(topic string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		if e.Topic != topic {
			continue
		}
		switch ev := e.Event.(type) {
		case UserEvent:
			out = append(out, ev.Type)
		case OrderEvent:
			out = append(out, ev.Type)
		case ReviewEvent:
			out = append(out, ev.Type)
		}
	}
	return out
}

type fakeAuthenticator struct {
	profiles map[string]*oauth.RemoteProfile
	err      error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, code string) (*oauth.RemoteProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[code]
	if !ok {
		return nil, oauth.ErrIdentityProvider
	}
	return p, nil
}

type memoryIndex struct {
	mu   sync.Mutex
	docs []ReviewDocument
}

func (m *memoryIndex) IndexReview(_ context.Context, doc ReviewDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, doc)
	return nil
}

func (m *memoryIndex) SearchReviews(_ context.Context, _ string, from, size int) (int64, []ReviewDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.docs)), m.docs, nil
}

type testEnv struct {
	Repo     *repo.GormRepo
	Events   *recordingPublisher
	Index    *memoryIndex
	Users    *UserService
	Catalog  *CatalogService
	Orders   *OrderService
	Delivery *DeliveryService
	Reviews  *ReviewService
	Auth     *AuthService
	Sellers  *SellerService
	OAuth    *fakeAuthenticator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := repo.New(testdb.Open(t))
	events := &recordingPublisher{}
	index := &memoryIndex{}
	catalog := &CatalogService{Repo: r}
	fakeOAuth := &fakeAuthenticator{profiles: map[string]*oauth.RemoteProfile{}}
	auth := &AuthService{
		Repo:          r,
		OAuth:         fakeOAuth,
		AccessSecret:  []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}

	return &testEnv{
		Repo:    r,
		Events:  events,
		Index:   index,
		Users:   &UserService{Repo: r, Events: events},
		Catalog: catalog,
		Orders: &OrderService{
			Repo:    r,
			Catalog: catalog,
			Reward:  domain.PercentageReward(decimal.RequireFromString("0.05"), domain.RoundFloor),
			Events:  events,
			Metrics: NopRecorder{},
		},
		Delivery: &DeliveryService{Repo: r},
		Reviews:  &ReviewService{Repo: r, Index: index, Events: events},
		Auth:     auth,
		Sellers:  &SellerService{Repo: r, Auth: auth},
		OAuth:    fakeOAuth,
	}
}

func testDelivery() domain.DeliveryFields {
	return domain.DeliveryFields{
		Receiver:    "Kim Minsu",
		Nickname:    "home",
		PhoneNumber: "010-1234-5678",
		Address: domain.Address{
			ZipCode:        "06236",
			DefaultAddress: "Seoul Gangnam-gu Teheran-ro 1",
			DetailAddress:  "101-1001",
		},
	}
}

func (env *testEnv) seedProduct(t *testing.T, price int64, stock int) (sellerID uuid.UUID, product *models.Product) {
	t.Helper()
	sellerID = uuid.New()
	p, err := env.Catalog.CreateProduct(context.Background(), sellerID, ProductInput{
		Name: "apple", Unit: "box", Price: price, Stock: stock,
	})
	require.NoError(t, err)
	return sellerID, p
}

func (env *testEnv) placeOrder(t *testing.T, userID, productID uuid.UUID, qty int) *models.Order {
	t.Helper()
	f := testDelivery()
	o, err := env.Orders.PlaceOrder(context.Background(), userID, PlaceOrderInput{
		ProductID: productID,
		Quantity:  qty,
		Delivery:  &f,
	})
	require.NoError(t, err)
	return o
}

func (env *testEnv) advanceTo(t *testing.T, sellerID uuid.UUID, o *models.Order, target domain.DeliveryStatus) {
	t.Helper()
	ctx := context.Background()

	cur, err := env.Repo.GetOrder(ctx, o.ID)
	require.NoError(t, err)

	path := []domain.DeliveryStatus{domain.StatusProcessing, domain.StatusShipped, domain.StatusCompleted}
	for _, st := range path {
		if cur.Status() == target {
			return
		}
		if !domain.CanTransition(cur.Status(), st) {
			continue
		}
		cur, err = env.Orders.Advance(ctx, sellerID, o.ID, st)
		require.NoError(t, err)
	}
	require.Equal(t, target, cur.Status())
}

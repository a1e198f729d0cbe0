package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/models"
	"github.com/nanum-market/nanum/internal/testdb"
	"github.com/nanum-market/nanum/pkg/tokens"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	return New(testdb.Open(t))
}

func fixedCodes(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
}

func createHost(t *testing.T, r *GormRepo, uid, code string) (*models.User, *models.UserGroup) {
	t.Helper()
	host := &models.User{UID: uid, Name: "host-" + uid}
	group, err := r.CreateHost(context.Background(), host, fixedCodes(code))
	require.NoError(t, err)
	return host, group
}

func TestCreateHost(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	host, group := createHost(t, r, "1001", "AB12CD")

	assert.Equal(t, string(domain.RoleHost), host.Role)
	require.NotNil(t, host.InviteCode)
	assert.Equal(t, "AB12CD", *host.InviteCode)
	assert.Equal(t, group.ID, host.UserGroupID)
	assert.EqualValues(t, 0, group.Point)

	_, err := r.CreateHost(ctx, &models.User{UID: "1001", Name: "again"}, fixedCodes("ZZZZZZ"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateHost_RegeneratesTakenCode(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)

	createHost(t, r, "1001", "AB12CD")
	second := &models.User{UID: "1002", Name: "second"}
	_, err := r.CreateHost(context.Background(), second, fixedCodes("AB12CD", "XY98ZW"))
	require.NoError(t, err)
	assert.Equal(t, "XY98ZW", *second.InviteCode)

	third := &models.User{UID: "1003", Name: "third"}
	_, err = r.CreateHost(context.Background(), third, fixedCodes("AB12CD"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	var n int64
	require.NoError(t, r.DB.Model(&models.UserGroup{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestJoinGroup(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	host, group := createHost(t, r, "1001", "AB12CD")

	p := &models.User{UID: "2001", Name: "participant"}
	gotHost, err := r.JoinGroup(ctx, p, "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, host.ID, gotHost.ID)
	assert.Equal(t, string(domain.RoleParticipant), p.Role)
	assert.Nil(t, p.InviteCode)
	assert.Equal(t, group.ID, p.UserGroupID)

	_, err = r.JoinGroup(ctx, &models.User{UID: "2001", Name: "dup"}, "AB12CD")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = r.JoinGroup(ctx, &models.User{UID: "2002", Name: "lost"}, "ZZZZZZ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.GetUserByUID(ctx, "2002")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func placeTestOrder(t *testing.T, r *GormRepo, userID uuid.UUID, price int64, qty int) *models.Order {
	t.Helper()
	o := &models.Order{
		UserID:         userID,
		ProductID:      uuid.New(),
		ProductName:    "apple",
		ProductUnit:    "box",
		UnitPrice:      price,
		Quantity:       qty,
		DeliveryStatus: string(domain.StatusCreated),
	}
	require.NoError(t, r.CreateOrder(context.Background(), o, nil))
	return o
}

func TestCreateOrder_DerivesTotal(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)

	o := placeTestOrder(t, r, uuid.New(), 1000, 3)
	assert.EqualValues(t, 3000, o.TotalAmount)
	assert.EqualValues(t, 1, o.Version)

	got, err := r.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3000, got.TotalAmount)
}

func TestTransitionOrder_CreditsGroup(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	host, group := createHost(t, r, "1001", "AB12CD")
	o := placeTestOrder(t, r, host.ID, 1000, 3)

	require.NoError(t, r.TransitionOrder(ctx, o, domain.StatusProcessing, 0))
	require.NoError(t, r.TransitionOrder(ctx, o, domain.StatusShipped, 0))
	require.NoError(t, r.TransitionOrder(ctx, o, domain.StatusCompleted, 150))
	assert.EqualValues(t, 4, o.Version)

	g, err := r.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 150, g.Point)
}

func TestTransitionOrder_StaleVersion(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	host, group := createHost(t, r, "1001", "AB12CD")
	o := placeTestOrder(t, r, host.ID, 1000, 3)

	stale := *o
	require.NoError(t, r.TransitionOrder(ctx, o, domain.StatusProcessing, 0))

	err := r.TransitionOrder(ctx, &stale, domain.StatusCancelled, 500)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusProcessing), got.DeliveryStatus)

	g, err := r.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, g.Point)
}

func TestListOrdersByUser_Filter(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	user := uuid.New()
	a := placeTestOrder(t, r, user, 100, 1)
	placeTestOrder(t, r, user, 200, 1)
	placeTestOrder(t, r, uuid.New(), 300, 1)
	require.NoError(t, r.TransitionOrder(ctx, a, domain.StatusProcessing, 0))

	all, err := r.ListOrdersByUser(ctx, user, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	processing, err := r.ListOrdersByUser(ctx, user, []domain.DeliveryStatus{domain.StatusProcessing})
	require.NoError(t, err)
	require.Len(t, processing, 1)
	assert.Equal(t, a.ID, processing[0].ID)
}

func TestAttachDelivery_ReplacesPrevious(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	user := uuid.New()
	o := placeTestOrder(t, r, user, 100, 1)

	first := &models.Delivery{UserID: user, Receiver: "a", Nickname: "a", PhoneNumber: "010-1234-5678"}
	require.NoError(t, r.AttachDelivery(ctx, o, first))
	second := &models.Delivery{UserID: user, Receiver: "b", Nickname: "b", PhoneNumber: "010-1234-5678"}
	require.NoError(t, r.AttachDelivery(ctx, o, second))

	got, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DeliveryID)
	assert.Equal(t, second.ID, *got.DeliveryID)
}

func TestCreateReview_OncePerOrder(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	orderID := uuid.New()
	rv := &models.Review{OrderID: orderID, UserID: uuid.New(), ProductID: uuid.New(), Rating: 4.5}
	require.NoError(t, r.CreateReview(ctx, rv))

	err := r.CreateReview(ctx, &models.Review{OrderID: orderID, UserID: rv.UserID, ProductID: rv.ProductID, Rating: 1})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := r.GetReviewByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, got.Rating)
}

func TestUpdateProduct_OwnerOnly(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	seller := uuid.New()
	p := &models.Product{SellerID: seller, Name: "apple", Unit: "box", Price: 1000, Stock: 10}
	require.NoError(t, r.CreateProduct(ctx, p))

	_, err := r.UpdateProduct(ctx, p.ID, uuid.New(), map[string]any{"price": int64(2000)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := r.UpdateProduct(ctx, p.ID, seller, map[string]any{"price": int64(2000)})
	require.NoError(t, err)
	assert.EqualValues(t, 2000, got.Price)
}

func TestRotateRefreshToken(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	exp := time.Now().UTC().Add(time.Hour)
	first := &models.RefreshToken{Subject: "s", Role: "HOST", TokenHash: tokens.Sha256Hex("raw-1"), JTI: "jti-1", ExpiresAt: exp}
	require.NoError(t, r.SaveRefreshToken(ctx, first))

	next := &models.RefreshToken{Subject: "s", Role: "HOST", TokenHash: tokens.Sha256Hex("raw-2"), JTI: "jti-2", ExpiresAt: exp}
	require.NoError(t, r.RotateRefreshToken(ctx, "jti-1", "raw-1", next))

	replay := &models.RefreshToken{Subject: "s", Role: "HOST", TokenHash: tokens.Sha256Hex("raw-3"), JTI: "jti-3", ExpiresAt: exp}
	err := r.RotateRefreshToken(ctx, "jti-1", "raw-1", replay)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, r.RevokeRefreshToken(ctx, "raw-2"))
	err = r.RotateRefreshToken(ctx, "jti-2", "raw-2", replay)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

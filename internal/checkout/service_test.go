package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCarts struct {
	mu       sync.Mutex
	cart     *models.Cart
	cleared  []string
	clearErr error
}

func (f *fakeCarts) Resolve(ctx context.Context, identityKey string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cart, nil
}

func (f *fakeCarts) Clear(ctx context.Context, identityKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = append(f.cleared, identityKey)
	return nil
}

type decrement struct {
	productID gocql.UUID
	quantity  int
}

type fakeProducts struct {
	mu         sync.Mutex
	products   map[gocql.UUID]*models.Product
	decrements []decrement
	failOn     gocql.UUID
}

func (f *fakeProducts) GetByID(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) DecrementStock(ctx context.Context, id gocql.UUID, quantity int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == f.failOn {
		return assert.AnError
	}
	f.decrements = append(f.decrements, decrement{productID: id, quantity: quantity})
	return nil
}

type fakeOrders struct {
	mu      sync.Mutex
	created []*models.Order
	deleted []*models.Order
	taken   map[string]bool
}

func (f *fakeOrders) NumberExists(ctx context.Context, number string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.taken[number], nil
}

func (f *fakeOrders) Create(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrders) Delete(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, order)
	return nil
}

func newCheckoutFixture() (*Service, *fakeCarts, *fakeProducts, *fakeOrders) {
	productA := &models.Product{
		ID:             gocql.TimeUUID(),
		Name:           "Chemise lin",
		SKU:            "CHM-001",
		Price:          75.00, // le prix vivant a bougé, le panier garde 60.00
		StockQuantity:  10,
		TrackInventory: true,
		IsActive:       true,
	}

	carts := &fakeCarts{
		cart: &models.Cart{
			ID:  gocql.TimeUUID(),
			Key: "user:u1",
			Items: []models.CartItem{
				{
					ID:        gocql.TimeUUID(),
					ProductID: productA.ID,
					Name:      "Chemise lin",
					Size:      "M",
					Color:     "blanc",
					Price:     60.00,
					Quantity:  2,
				},
			},
		},
	}

	products := &fakeProducts{products: map[gocql.UUID]*models.Product{productA.ID: productA}}
	orders := &fakeOrders{taken: map[string]bool{}}

	svc := &Service{
		Carts:    carts,
		Products: products,
		Orders:   orders,
		Now:      func() time.Time { return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC) },
		RandInt:  func(n int) int { return 122 },
	}
	return svc, carts, products, orders
}

func validInput() OrderInput {
	return OrderInput{
		BillingAddress: validAddress(),
		PaymentMethod:  "credit_card",
	}
}

func TestCheckout_Success(t *testing.T) {
	svc, carts, products, orders := newCheckoutFixture()

	order, err := svc.Checkout(context.Background(), "u1", validInput())
	require.NoError(t, err)

	assert.Equal(t, "ORD-2026-000123", order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, "u1", order.UserID)

	// 2 × 60.00 → sous-total 120, taxe 9.60, livraison offerte
	assert.Equal(t, 120.00, order.Subtotal)
	assert.Equal(t, 9.60, order.TaxAmount)
	assert.Equal(t, 0.0, order.ShippingAmount)
	assert.Equal(t, 129.60, order.TotalAmount)

	require.Len(t, orders.created, 1)
	require.Len(t, products.decrements, 1)
	assert.Equal(t, 2, products.decrements[0].quantity)
	assert.Equal(t, []string{"user:u1"}, carts.cleared)
}

func TestCheckout_SnapshotsLineFromCartNotProduct(t *testing.T) {
	svc, carts, products, _ := newCheckoutFixture()

	order, err := svc.Checkout(context.Background(), "u1", validInput())
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	line := order.Items[0]

	product := products.products[carts.cart.Items[0].ProductID]
	assert.Equal(t, product.Name, line.ProductName)
	assert.Equal(t, product.SKU, line.ProductSKU)
	// Prix figé du panier, pas le prix vivant (75.00)
	assert.Equal(t, 60.00, line.UnitPrice)
	assert.Equal(t, 120.00, line.TotalPrice)
	assert.Equal(t, "M", line.Size)
	assert.Equal(t, "blanc", line.Color)
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, carts, _, orders := newCheckoutFixture()
	carts.cart.Items = nil

	_, err := svc.Checkout(context.Background(), "u1", validInput())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, orders.created)
}

func TestCheckout_InvalidInputShortCircuits(t *testing.T) {
	svc, carts, _, orders := newCheckoutFixture()

	_, err := svc.Checkout(context.Background(), "u1", OrderInput{PaymentMethod: "credit_card"})
	_, ok := domain.AsValidation(err)
	assert.True(t, ok)
	assert.Empty(t, orders.created)
	assert.Empty(t, carts.cleared)
}

func TestCheckout_ShippingDefaultsToBilling(t *testing.T) {
	svc, _, _, _ := newCheckoutFixture()

	order, err := svc.Checkout(context.Background(), "u1", validInput())
	require.NoError(t, err)
	assert.Equal(t, order.BillingAddress, order.ShippingAddress)
}

func TestCheckout_ExplicitShippingAddressUsed(t *testing.T) {
	svc, _, _, _ := newCheckoutFixture()

	shipping := validAddress()
	shipping.City = "Liège"
	shipping.PostalCode = "4000"

	in := validInput()
	in.ShippingAddress = &shipping

	order, err := svc.Checkout(context.Background(), "u1", in)
	require.NoError(t, err)
	assert.Equal(t, "Liège", order.ShippingAddress.City)
	assert.Equal(t, "Bruxelles", order.BillingAddress.City)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	svc, carts, products, orders := newCheckoutFixture()
	products.products[carts.cart.Items[0].ProductID].StockQuantity = 1

	_, err := svc.Checkout(context.Background(), "u1", validInput())

	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "items")
	assert.Empty(t, orders.created)
	assert.Empty(t, products.decrements)
	assert.Empty(t, carts.cleared)
}

func TestCheckout_InsufficientStockAcrossLinesOfSameProduct(t *testing.T) {
	svc, carts, products, orders := newCheckoutFixture()

	// Deux lignes du même produit (tailles M et L) : chacune passe seule,
	// mais l'agrégat 3+3 dépasse le stock de 4
	productID := carts.cart.Items[0].ProductID
	products.products[productID].StockQuantity = 4
	carts.cart.Items[0].Quantity = 3
	carts.cart.Items = append(carts.cart.Items, models.CartItem{
		ID:        gocql.TimeUUID(),
		ProductID: productID,
		Name:      "Chemise lin",
		Size:      "L",
		Color:     "blanc",
		Price:     60.00,
		Quantity:  3,
	})

	_, err := svc.Checkout(context.Background(), "u1", validInput())

	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "items")
	assert.Empty(t, orders.created)
	assert.Empty(t, products.decrements)
	assert.Empty(t, carts.cleared)
}

func TestCheckout_MultiLineSameProductWithinStock(t *testing.T) {
	svc, carts, products, orders := newCheckoutFixture()

	productID := carts.cart.Items[0].ProductID
	products.products[productID].StockQuantity = 4
	carts.cart.Items[0].Quantity = 2
	carts.cart.Items = append(carts.cart.Items, models.CartItem{
		ID:        gocql.TimeUUID(),
		ProductID: productID,
		Name:      "Chemise lin",
		Size:      "L",
		Color:     "blanc",
		Price:     60.00,
		Quantity:  2,
	})

	order, err := svc.Checkout(context.Background(), "u1", validInput())
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	require.Len(t, orders.created, 1)

	// Chaque ligne décrémente sa propre quantité
	require.Len(t, products.decrements, 2)
	assert.Equal(t, 2, products.decrements[0].quantity)
	assert.Equal(t, 2, products.decrements[1].quantity)
}

func TestCheckout_UntrackedInventorySkipsStockCheck(t *testing.T) {
	svc, carts, products, _ := newCheckoutFixture()
	product := products.products[carts.cart.Items[0].ProductID]
	product.TrackInventory = false
	product.StockQuantity = 0

	_, err := svc.Checkout(context.Background(), "u1", validInput())
	require.NoError(t, err)
	assert.Empty(t, products.decrements)
}

func TestCheckout_CompensatesWhenDecrementFails(t *testing.T) {
	svc, carts, products, orders := newCheckoutFixture()
	products.failOn = carts.cart.Items[0].ProductID

	_, err := svc.Checkout(context.Background(), "u1", validInput())
	require.Error(t, err)

	// La commande créée a été effacée, le panier n'a pas été vidé
	require.Len(t, orders.created, 1)
	require.Len(t, orders.deleted, 1)
	assert.Equal(t, orders.created[0].ID, orders.deleted[0].ID)
	assert.Empty(t, carts.cleared)
}

func TestCheckout_ClearFailureDoesNotFailOrder(t *testing.T) {
	svc, carts, _, orders := newCheckoutFixture()
	carts.clearErr = assert.AnError

	order, err := svc.Checkout(context.Background(), "u1", validInput())
	require.NoError(t, err)
	assert.NotNil(t, order)
	require.Len(t, orders.created, 1)
}

func TestCheckout_RetriesOrderNumberCollision(t *testing.T) {
	svc, _, _, orders := newCheckoutFixture()
	orders.taken["ORD-2026-000123"] = true

	calls := 0
	svc.RandInt = func(n int) int {
		calls++
		if calls == 1 {
			return 122 // collision
		}
		return 500
	}

	order, err := svc.Checkout(context.Background(), "u1", validInput())
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-000501", order.OrderNumber)
}

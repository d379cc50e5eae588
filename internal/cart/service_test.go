package cart

import (
	"context"
	"sync"
	"testing"

	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu    sync.Mutex
	carts map[string]*models.Cart          // par clé d'identité
	items map[gocql.UUID][]models.CartItem // par cart_id
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		carts: map[string]*models.Cart{},
		items: map[gocql.UUID][]models.CartItem{},
	}
}

func (f *fakeStore) GetOrCreate(ctx context.Context, identityKey string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.carts[identityKey]; ok {
		return &models.Cart{ID: c.ID, Key: c.Key, CreatedAt: c.CreatedAt}, nil
	}
	c := &models.Cart{ID: gocql.TimeUUID(), Key: identityKey}
	f.carts[identityKey] = c
	return &models.Cart{ID: c.ID, Key: c.Key}, nil
}

func (f *fakeStore) Items(ctx context.Context, cartID gocql.UUID) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CartItem(nil), f.items[cartID]...), nil
}

func (f *fakeStore) FindItem(ctx context.Context, itemID gocql.UUID) (*models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, items := range f.items {
		for _, item := range items {
			if item.ID == itemID {
				found := item
				return &found, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) InsertItem(ctx context.Context, item *models.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.CartID] = append(f.items[item.CartID], *item)
	return nil
}

func (f *fakeStore) UpdateQuantity(ctx context.Context, cartID, itemID gocql.UUID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items[cartID] {
		if item.ID == itemID {
			f.items[cartID][i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeStore) DeleteItem(ctx context.Context, cartID, itemID gocql.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.items[cartID]
	for i, item := range items {
		if item.ID == itemID {
			f.items[cartID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeStore) ClearItems(ctx context.Context, cartID gocql.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[cartID] = nil
	return nil
}

type fakeProducts struct {
	mu       sync.Mutex
	products map[gocql.UUID]*models.Product
}

func (f *fakeProducts) GetByID(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func newCartFixture() (*Service, *fakeStore, *models.Product, *int, *int) {
	product := &models.Product{
		ID:            gocql.TimeUUID(),
		Name:          "Pull mérinos",
		SKU:           "PUL-042",
		Price:         45.00,
		StockQuantity: 20,
		IsActive:      true,
	}

	store := newFakeStore()
	locks := 0
	notifies := 0

	// Verrou réel par clé d'identité, comme le SETNX Redis en production
	var mu sync.Mutex
	lockTable := map[string]*sync.Mutex{}

	svc := &Service{
		Store:    store,
		Products: &fakeProducts{products: map[gocql.UUID]*models.Product{product.ID: product}},
		Lock: func(ctx context.Context, identityKey string) (func(), error) {
			mu.Lock()
			locks++
			l, ok := lockTable[identityKey]
			if !ok {
				l = &sync.Mutex{}
				lockTable[identityKey] = l
			}
			mu.Unlock()
			l.Lock()
			return l.Unlock, nil
		},
		Notify: func(ctx context.Context, identityKey string) {
			mu.Lock()
			notifies++
			mu.Unlock()
		},
	}
	return svc, store, product, &locks, &notifies
}

func TestAddItem_CreatesLineWithPriceSnapshot(t *testing.T) {
	svc, _, product, locks, notifies := newCartFixture()

	cart, err := svc.AddItem(context.Background(), "session:s1", AddItemInput{
		ProductID: product.ID, Quantity: 2, Size: "M", Color: "gris",
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 45.00, cart.Items[0].Price)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, product.Name, cart.Items[0].Name)
	assert.Equal(t, 1, *locks)
	assert.Equal(t, 1, *notifies)
}

func TestAddItem_MergesSameLine(t *testing.T) {
	svc, _, product, _, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session:s1", AddItemInput{ProductID: product.ID, Quantity: 2, Size: "M"})
	require.NoError(t, err)

	cart, err := svc.AddItem(ctx, "session:s1", AddItemInput{ProductID: product.ID, Quantity: 3, Size: "M"})
	require.NoError(t, err)

	// Une seule ligne, quantités additionnées
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddItem_DifferentVariantMakesNewLine(t *testing.T) {
	svc, _, product, _, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session:s1", AddItemInput{ProductID: product.ID, Quantity: 1, Size: "M"})
	require.NoError(t, err)

	cart, err := svc.AddItem(ctx, "session:s1", AddItemInput{ProductID: product.ID, Quantity: 1, Size: "L"})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestAddItem_MergeKeepsOriginalSnapshotPrice(t *testing.T) {
	svc, _, product, _, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session:s1", AddItemInput{ProductID: product.ID, Quantity: 1, Size: "M"})
	require.NoError(t, err)

	// Le prix vivant change entre les deux ajouts
	product.Price = 99.00
	svc.Products = &fakeProducts{products: map[gocql.UUID]*models.Product{product.ID: product}}

	cart, err := svc.AddItem(ctx, "session:s1", AddItemInput{ProductID: product.ID, Quantity: 1, Size: "M"})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 45.00, cart.Items[0].Price)
	assert.Equal(t, 90.00, cart.TotalAmount())
}

func TestAddItem_RejectsQuantityBelowOne(t *testing.T) {
	svc, _, product, _, notifies := newCartFixture()

	_, err := svc.AddItem(context.Background(), "session:s1", AddItemInput{ProductID: product.ID, Quantity: 0})
	_, ok := domain.AsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, 0, *notifies)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc, _, _, _, _ := newCartFixture()

	_, err := svc.AddItem(context.Background(), "session:s1", AddItemInput{ProductID: gocql.TimeUUID(), Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateItemQuantity_Success(t *testing.T) {
	svc, _, product, _, _ := newCartFixture()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "session:s1", AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	updated, err := svc.UpdateItemQuantity(ctx, "session:s1", cart.Items[0].ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Items[0].Quantity)
	assert.Equal(t, 180.00, updated.TotalAmount())
}

func TestUpdateItemQuantity_RejectsQuantityBelowOne(t *testing.T) {
	svc, _, product, _, _ := newCartFixture()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "session:s1", AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.UpdateItemQuantity(ctx, "session:s1", cart.Items[0].ID, 0)
	_, ok := domain.AsValidation(err)
	assert.True(t, ok)
}

func TestUpdateItemQuantity_ForbiddenAcrossCarts(t *testing.T) {
	svc, store, product, _, _ := newCartFixture()
	ctx := context.Background()

	victim, err := svc.AddItem(ctx, "session:victime", AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	// Un autre panier tente de modifier la ligne du premier
	_, err = svc.UpdateItemQuantity(ctx, "session:attaquant", victim.Items[0].ID, 99)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Les deux paniers sont intacts
	items, _ := store.Items(ctx, victim.ID)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestRemoveItem_ForbiddenAcrossCarts(t *testing.T) {
	svc, store, product, _, _ := newCartFixture()
	ctx := context.Background()

	victim, err := svc.AddItem(ctx, "session:victime", AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.RemoveItem(ctx, "session:attaquant", victim.Items[0].ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	items, _ := store.Items(ctx, victim.ID)
	assert.Len(t, items, 1)
}

func TestRemoveItem_Success(t *testing.T) {
	svc, _, product, _, _ := newCartFixture()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "session:s1", AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	updated, err := svc.RemoveItem(ctx, "session:s1", cart.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Items)
}

func TestClear_EmptiesItemsButKeepsCart(t *testing.T) {
	svc, _, product, _, _ := newCartFixture()
	ctx := context.Background()

	before, err := svc.AddItem(ctx, "session:s1", AddItemInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "session:s1"))

	after, err := svc.Resolve(ctx, "session:s1")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Empty(t, after.Items)
	assert.Equal(t, 0.0, after.TotalAmount())
}

func TestConcurrentMutations_NeverCrossIdentities(t *testing.T) {
	svc, _, product, _, _ := newCartFixture()
	ctx := context.Background()

	// Deux identités mutent en parallèle : chacune ne doit voir que ses
	// propres lignes, jamais celles de l'autre.
	keys := []string{"user:u1", "session:s2"}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := keys[i%2]
			_, err := svc.AddItem(ctx, key, AddItemInput{ProductID: product.ID, Quantity: 1, Size: "M"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for _, key := range keys {
		cart, err := svc.Resolve(ctx, key)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 10, cart.Items[0].Quantity)
		assert.Equal(t, cart.ID, cart.Items[0].CartID)
	}
}

func TestResolve_CreatesCartOnFirstAccess(t *testing.T) {
	svc, _, _, _, _ := newCartFixture()
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "user:u1")
	require.NoError(t, err)
	assert.Empty(t, first.Items)

	second, err := svc.Resolve(ctx, "user:u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

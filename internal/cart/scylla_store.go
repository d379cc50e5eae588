package cart

import (
	"context"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ScyllaStore persiste les paniers dans le keyspace carts. Deux tables
// portent les lignes : cart_items (partition par panier) et
// cart_items_by_id (index inverse pour le contrôle de propriété), écrites
// en double comme orders/orders_by_user. Chaque appel construit sa propre
// *gocql.Query depuis la chaîne CQL partagée — une instance partagée serait
// mutée par Bind sous concurrence.
type ScyllaStore struct{}

func NewScyllaStore() *ScyllaStore {
	return &ScyllaStore{}
}

func (s *ScyllaStore) GetOrCreate(ctx context.Context, identityKey string) (*models.Cart, error) {
	session, err := database.GetCartsSession()
	if err != nil {
		return nil, err
	}

	var cartID gocql.UUID
	var createdAt time.Time

	err = session.Query(database.CQLGetCartByKey, identityKey).WithContext(ctx).Scan(&cartID, &createdAt)
	if err == nil {
		return &models.Cart{ID: cartID, Key: identityKey, CreatedAt: createdAt}, nil
	}
	if err != gocql.ErrNotFound {
		return nil, err
	}

	// Création paresseuse au premier accès. Le IF NOT EXISTS (LWT) garantit
	// exactement un panier par clé même sous concurrence.
	newID := gocql.TimeUUID()
	now := time.Now()

	previous := make(map[string]interface{})
	applied, err := session.Query(database.CQLInsertCart, identityKey, newID, now).
		WithContext(ctx).MapScanCAS(previous)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Une requête concurrente a gagné la création, on reprend sa ligne
		if id, ok := previous["cart_id"].(gocql.UUID); ok {
			cartID = id
		}
		if ts, ok := previous["created_at"].(time.Time); ok {
			createdAt = ts
		}
		return &models.Cart{ID: cartID, Key: identityKey, CreatedAt: createdAt}, nil
	}
	return &models.Cart{ID: newID, Key: identityKey, CreatedAt: now}, nil
}

func (s *ScyllaStore) Items(ctx context.Context, cartID gocql.UUID) ([]models.CartItem, error) {
	session, err := database.GetCartsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(database.CQLGetCartItems, cartID).WithContext(ctx).Iter()

	var items []models.CartItem
	var item models.CartItem

	for iter.Scan(&item.ID, &item.ProductID, &item.Name, &item.Size, &item.Color,
		&item.Price, &item.Quantity, &item.ImageURL, &item.AddedAt) {
		item.CartID = cartID
		items = append(items, item)
		item = models.CartItem{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

func (s *ScyllaStore) FindItem(ctx context.Context, itemID gocql.UUID) (*models.CartItem, error) {
	session, err := database.GetCartsSession()
	if err != nil {
		return nil, err
	}

	var cartID gocql.UUID
	err = session.Query(database.CQLGetCartItemByID, itemID).WithContext(ctx).Scan(&cartID)
	if err == gocql.ErrNotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := s.Items(ctx, cartID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	// Index inverse orphelin (ligne supprimée entre-temps)
	return nil, domain.ErrNotFound
}

func (s *ScyllaStore) InsertItem(ctx context.Context, item *models.CartItem) error {
	session, err := database.GetCartsSession()
	if err != nil {
		return err
	}

	if err := session.Query(database.CQLInsertCartItem,
		item.CartID, item.ID, item.ProductID, item.Name, item.Size, item.Color,
		item.Price, item.Quantity, item.ImageURL, item.AddedAt,
	).WithContext(ctx).Exec(); err != nil {
		return err
	}
	return session.Query(database.CQLIndexCartItem, item.ID, item.CartID).WithContext(ctx).Exec()
}

func (s *ScyllaStore) UpdateQuantity(ctx context.Context, cartID, itemID gocql.UUID, quantity int) error {
	session, err := database.GetCartsSession()
	if err != nil {
		return err
	}
	return session.Query(database.CQLUpdateCartQty, quantity, cartID, itemID).WithContext(ctx).Exec()
}

func (s *ScyllaStore) DeleteItem(ctx context.Context, cartID, itemID gocql.UUID) error {
	session, err := database.GetCartsSession()
	if err != nil {
		return err
	}

	if err := session.Query(database.CQLDeleteCartItem, cartID, itemID).WithContext(ctx).Exec(); err != nil {
		return err
	}
	return session.Query(database.CQLUnindexCartItem, itemID).WithContext(ctx).Exec()
}

func (s *ScyllaStore) ClearItems(ctx context.Context, cartID gocql.UUID) error {
	session, err := database.GetCartsSession()
	if err != nil {
		return err
	}

	// Désindexe chaque ligne avant de vider la partition
	items, err := s.Items(ctx, cartID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := session.Query(database.CQLUnindexCartItem, item.ID).WithContext(ctx).Exec(); err != nil {
			return err
		}
	}
	return session.Query(database.CQLClearCartItems, cartID).WithContext(ctx).Exec()
}

// Package catalog expose les lectures produits/catégories et la mutation de
// stock sur ScyllaDB. Les paniers et commandes n'accèdent jamais aux tables
// produits directement, ils passent par ce store.
package catalog

import (
	"context"
	"log"
	"strings"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Filter : critères de navigation catalogue (produits actifs uniquement).
type Filter struct {
	CategorySlug string
	Search       string
	MinPrice     float64
	MaxPrice     float64
}

type Store struct{}

func NewStore() *Store {
	return &Store{}
}

const productColumns = `product_id, name, slug, description, sku, price, compare_price, stock_quantity,
	track_inventory, sizes, colors, image_urls, category_id, is_active, is_featured, created_at, updated_at`

func scanProduct(scan func(...interface{}) error) (*models.Product, error) {
	var p models.Product
	err := scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.SKU, &p.Price, &p.ComparePrice,
		&p.StockQuantity, &p.TrackInventory, &p.Sizes, &p.Colors, &p.ImageURLs,
		&p.CategoryID, &p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID récupère un produit par identifiant.
func (s *Store) GetByID(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	p, err := scanProduct(session.Query(
		`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan)
	if err == gocql.ErrNotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetBySlug récupère un produit par slug via la table products_by_slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	var id gocql.UUID
	err = session.Query(`SELECT product_id FROM products_by_slug WHERE slug = ?`, slug).
		WithContext(ctx).Scan(&id)
	if err == gocql.ErrNotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// List parcourt les produits actifs et filtre en mémoire.
// Note: ScyllaDB ne supporte pas les recherches LIKE natives — le filtrage
// texte/prix se fait en mémoire, Elasticsearch couvre la vraie recherche.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	var categoryID *gocql.UUID
	if f.CategorySlug != "" {
		var id gocql.UUID
		err := session.Query(`SELECT category_id FROM categories_by_slug WHERE slug = ?`, f.CategorySlug).
			WithContext(ctx).Scan(&id)
		if err == gocql.ErrNotFound {
			return []models.Product{}, nil
		}
		if err != nil {
			return nil, err
		}
		categoryID = &id
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product

	for iter.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.SKU, &p.Price, &p.ComparePrice,
		&p.StockQuantity, &p.TrackInventory, &p.Sizes, &p.Colors, &p.ImageURLs,
		&p.CategoryID, &p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt) {
		if matches(&p, f, categoryID) {
			products = append(products, p)
		}
		p = models.Product{} // Reset pour la prochaine itération
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func matches(p *models.Product, f Filter, categoryID *gocql.UUID) bool {
	if !p.IsActive {
		return false
	}
	if categoryID != nil && p.CategoryID != *categoryID {
		return false
	}
	if f.Search != "" && !containsIgnoreCase(p.Name, f.Search) && !containsIgnoreCase(p.Description, f.Search) {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	return true
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Create insère un nouveau produit et son index par slug.
func (s *Store) Create(ctx context.Context, p *models.Product) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	// Le slug doit rester unique : l'index par slug est posé en LWT
	applied, err := session.Query(`INSERT INTO products_by_slug (slug, product_id) VALUES (?, ?) IF NOT EXISTS`,
		p.Slug, p.ID).WithContext(ctx).ScanCAS(nil, nil)
	if err != nil {
		return err
	}
	if !applied {
		return domain.NewValidationError("slug", "ce slug est déjà utilisé")
	}

	return session.Query(`INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Slug, p.Description, p.SKU, p.Price, p.ComparePrice,
		p.StockQuantity, p.TrackInventory, p.Sizes, p.Colors, p.ImageURLs,
		p.CategoryID, p.IsActive, p.IsFeatured, p.CreatedAt, p.UpdatedAt).
		WithContext(ctx).Exec()
}

// Categories liste les catégories actives.
func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT category_id, name, slug, is_active, created_at FROM categories`).
		WithContext(ctx).Iter()

	var categories []models.Category
	var cat models.Category

	for iter.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.IsActive, &cat.CreatedAt) {
		if cat.IsActive {
			categories = append(categories, cat)
		}
		cat = models.Category{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// DecrementStock décrémente le stock d'un produit suite à une vente et trace
// le mouvement dans stock_movements.
func (s *Store) DecrementStock(ctx context.Context, id gocql.UUID, quantity int, reason string) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	var currentStock int
	var name string
	err = session.Query(`SELECT stock_quantity, name FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(&currentStock, &name)
	if err == gocql.ErrNotFound {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	newStock := currentStock - quantity

	if err := session.Query(`UPDATE products SET stock_quantity = ?, updated_at = ? WHERE product_id = ?`,
		newStock, time.Now(), id).WithContext(ctx).Exec(); err != nil {
		return err
	}

	movement := models.StockMovement{
		ID:        gocql.TimeUUID(),
		ProductID: id,
		Type:      "sale",
		Quantity:  quantity,
		PrevStock: currentStock,
		NewStock:  newStock,
		Reason:    reason,
		CreatedAt: time.Now(),
	}

	if err := session.Query(`INSERT INTO stock_movements (id, product_id, type, quantity, prev_stock, new_stock, reason, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.PrevStock, movement.NewStock, movement.Reason, movement.UserID,
		movement.CreatedAt).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ Erreur enregistrement mouvement stock: %v", err)
	}

	log.Printf("✅ Stock décrémenté pour %s: %d -> %d", name, currentStock, newStock)
	return nil
}

// AdjustStock applique un réassort ("restock", delta) ou un ajustement
// absolu ("adjustment") côté admin, avec traçabilité.
func (s *Store) AdjustStock(ctx context.Context, id gocql.UUID, opType string, quantity int, reason, userID string) (prev, next int, err error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return 0, 0, err
	}

	var currentStock int
	var name string
	err = session.Query(`SELECT stock_quantity, name FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(&currentStock, &name)
	if err == gocql.ErrNotFound {
		return 0, 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, 0, err
	}

	var newStock int
	switch opType {
	case "restock":
		newStock = currentStock + quantity
	case "adjustment":
		newStock = quantity // Quantité absolue
	default:
		return 0, 0, domain.NewValidationError("type", "type d'opération invalide")
	}

	if newStock < 0 {
		return 0, 0, domain.NewValidationError("quantity", "le stock ne peut pas être négatif")
	}

	if err := session.Query(`UPDATE products SET stock_quantity = ?, updated_at = ? WHERE product_id = ?`,
		newStock, time.Now(), id).WithContext(ctx).Exec(); err != nil {
		return 0, 0, err
	}

	movement := models.StockMovement{
		ID:        gocql.TimeUUID(),
		ProductID: id,
		Type:      opType,
		Quantity:  quantity,
		PrevStock: currentStock,
		NewStock:  newStock,
		Reason:    reason,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	if err := session.Query(`INSERT INTO stock_movements (id, product_id, type, quantity, prev_stock, new_stock, reason, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.PrevStock, movement.NewStock, movement.Reason, movement.UserID,
		movement.CreatedAt).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ Erreur enregistrement mouvement stock: %v", err)
	}

	log.Printf("✅ Stock mis à jour pour %s: %d -> %d", name, currentStock, newStock)
	return currentStock, newStock, nil
}

// StockMovements retourne l'historique des mouvements, optionnellement
// filtré par produit.
func (s *Store) StockMovements(ctx context.Context, productID *gocql.UUID, limit int) ([]models.StockMovement, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var iter *gocql.Iter
	if productID != nil {
		iter = session.Query(`SELECT id, product_id, type, quantity, prev_stock, new_stock, reason, user_id, created_at
			FROM stock_movements WHERE product_id = ? LIMIT ?`, *productID, limit).WithContext(ctx).Iter()
	} else {
		iter = session.Query(`SELECT id, product_id, type, quantity, prev_stock, new_stock, reason, user_id, created_at
			FROM stock_movements LIMIT ?`, limit).WithContext(ctx).Iter()
	}

	var movements []models.StockMovement
	var m models.StockMovement

	for iter.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.PrevStock, &m.NewStock,
		&m.Reason, &m.UserID, &m.CreatedAt) {
		movements = append(movements, m)
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	if movements == nil {
		movements = []models.StockMovement{}
	}
	return movements, nil
}

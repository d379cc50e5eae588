// Package checkout implémente le pipeline de conversion panier → commande :
// calcul des montants, numérotation, snapshot des lignes, décrément de stock
// et vidage du panier, avec compensation si une étape échoue après la
// création de la commande.
package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Carts : accès au panier de l'acheteur.
type Carts interface {
	Resolve(ctx context.Context, identityKey string) (*models.Cart, error)
	Clear(ctx context.Context, identityKey string) error
}

// Products : lecture produit et décrément de stock.
type Products interface {
	GetByID(ctx context.Context, id gocql.UUID) (*models.Product, error)
	DecrementStock(ctx context.Context, id gocql.UUID, quantity int, reason string) error
}

// Orders : persistance des commandes. Create écrit la commande et toutes ses
// lignes d'un bloc (batch logged) ; Delete est la compensation.
type Orders interface {
	NumberExists(ctx context.Context, number string) (bool, error)
	Create(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, order *models.Order) error
}

type Service struct {
	Carts    Carts
	Products Products
	Orders   Orders

	// Now et RandInt sont remplaçables en test ; nil = horloge et source
	// aléatoire réelles.
	Now     func() time.Time
	RandInt func(n int) int
}

// Checkout convertit le panier de l'utilisateur en commande. Préconditions :
// appelant authentifié, panier non vide (sinon ErrEmptyCart), payload déjà
// validé champ par champ.
func (s *Service) Checkout(ctx context.Context, userID string, in OrderInput) (*models.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	// 1. Charger le panier avec ses lignes
	identityKey := "user:" + userID
	cart, err := s.Carts.Resolve(ctx, identityKey)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// 2. Vérifier les produits et le stock disponible avant toute écriture.
	//    Un même produit peut apparaître sur plusieurs lignes (tailles,
	//    couleurs) : le stock se compare à la quantité agrégée par produit,
	//    pas ligne par ligne.
	products := make(map[gocql.UUID]*models.Product, len(cart.Items))
	requested := make(map[gocql.UUID]int, len(cart.Items))
	for _, item := range cart.Items {
		if _, loaded := products[item.ProductID]; !loaded {
			product, err := s.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				return nil, fmt.Errorf("produit %s: %w", item.ProductID, err)
			}
			products[item.ProductID] = product
		}
		requested[item.ProductID] += item.Quantity
	}
	for _, item := range cart.Items {
		product := products[item.ProductID]
		total, pending := requested[item.ProductID]
		if !pending {
			continue // déjà contrôlé via une ligne précédente
		}
		delete(requested, item.ProductID)
		if product.TrackInventory && product.StockQuantity < total {
			ve := domain.NewValidationError("items", fmt.Sprintf("stock insuffisant pour %s (disponible: %d, demandé: %d)",
				product.Name, product.StockQuantity, total))
			return nil, ve
		}
	}

	// 3-5. Montants : sous-total depuis les prix figés, taxe 8%, livraison
	totals := ComputeTotals(cart.Items)

	// 6. Numéro unique (génère-et-revérifie)
	number, err := GenerateOrderNumber(ctx, now(), s.RandInt, s.Orders.NumberExists)
	if err != nil {
		return nil, err
	}

	// 7. Construire la commande : statut pending, paiement pending, USD.
	//    Livraison = facturation si absente.
	shipping := in.BillingAddress
	if in.ShippingAddress != nil {
		shipping = *in.ShippingAddress
	}

	createdAt := now()
	order := &models.Order{
		ID:              gocql.TimeUUID(),
		OrderNumber:     number,
		UserID:          userID,
		Status:          models.OrderStatusPending,
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		ShippingAmount:  totals.ShippingAmount,
		TotalAmount:     totals.TotalAmount,
		Currency:        "USD",
		BillingAddress:  in.BillingAddress,
		ShippingAddress: shipping,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}

	// 8a. Snapshot figé de chaque ligne : nom/SKU copiés du produit, prix
	//     unitaire copié de la ligne de panier. Plus aucune lecture du
	//     produit vivant après ça.
	for _, item := range cart.Items {
		product := products[item.ProductID]
		order.Items = append(order.Items, models.OrderItem{
			ID:          gocql.TimeUUID(),
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Size:        item.Size,
			Color:       item.Color,
			UnitPrice:   item.Price,
			Quantity:    item.Quantity,
			TotalPrice:  roundCents(item.Price * float64(item.Quantity)),
		})
	}

	// Commande + lignes + index écrits atomiquement (batch logged)
	if err := s.Orders.Create(ctx, order); err != nil {
		return nil, err
	}

	// 8b. Décrémenter le stock. En cas d'échec, la commande est effacée :
	//     une commande partielle ne doit jamais être visible.
	for _, item := range order.Items {
		product := products[item.ProductID]
		if !product.TrackInventory {
			continue
		}
		if err := s.Products.DecrementStock(ctx, item.ProductID, item.Quantity, "commande "+order.OrderNumber); err != nil {
			if delErr := s.Orders.Delete(ctx, order); delErr != nil {
				log.Printf("❌ Compensation impossible pour la commande %s: %v", order.OrderNumber, delErr)
			}
			return nil, fmt.Errorf("décrément stock %s: %w", item.ProductID, err)
		}
	}

	// 9. Vider le panier. La commande est déjà engagée : un échec ici est
	//    journalisé, la prochaine lecture du panier retentera le nettoyage.
	if err := s.Carts.Clear(ctx, identityKey); err != nil {
		log.Printf("⚠️ Panier %s non vidé après la commande %s: %v", identityKey, order.OrderNumber, err)
	}

	log.Printf("✅ Commande %s créée (%.2f %s) pour %s", order.OrderNumber, order.TotalAmount, order.Currency, userID)

	// 10. Retourner la commande avec ses lignes pour la confirmation
	return order, nil
}

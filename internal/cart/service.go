// Package cart implémente l'agrégat panier : résolution par clé d'identité,
// mutations de lignes avec règle de fusion (produit, taille, couleur) et
// totaux dérivés.
package cart

import (
	"context"
	"time"

	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Store persiste les paniers et leurs lignes.
type Store interface {
	GetOrCreate(ctx context.Context, identityKey string) (*models.Cart, error)
	Items(ctx context.Context, cartID gocql.UUID) ([]models.CartItem, error)
	FindItem(ctx context.Context, itemID gocql.UUID) (*models.CartItem, error)
	InsertItem(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, cartID, itemID gocql.UUID, quantity int) error
	DeleteItem(ctx context.Context, cartID, itemID gocql.UUID) error
	ClearItems(ctx context.Context, cartID gocql.UUID) error
}

// Products : lecture produit nécessaire à l'ajout au panier.
type Products interface {
	GetByID(ctx context.Context, id gocql.UUID) (*models.Product, error)
}

// Locker pose l'exclusion mutuelle par panier autour de la fusion
// ajout-ou-incrément.
type Locker func(ctx context.Context, identityKey string) (release func(), err error)

// Notifier est appelé après chaque mutation (invalidation cache + pub/sub).
type Notifier func(ctx context.Context, identityKey string)

type Service struct {
	Store    Store
	Products Products
	Lock     Locker
	Notify   Notifier
}

// AddItemInput : requête d'ajout validée.
type AddItemInput struct {
	ProductID gocql.UUID
	Quantity  int
	Size      string
	Color     string
}

// Resolve retourne le panier de la clé d'identité, créé au premier accès.
func (s *Service) Resolve(ctx context.Context, identityKey string) (*models.Cart, error) {
	cart, err := s.Store.GetOrCreate(ctx, identityKey)
	if err != nil {
		return nil, err
	}
	cart.Items, err = s.Store.Items(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem ajoute un produit au panier. Si une ligne (produit, taille,
// couleur) existe déjà, sa quantité est incrémentée ; sinon une nouvelle
// ligne est créée avec le prix figé du produit. Aucun contrôle de stock ici,
// il n'intervient qu'au checkout.
func (s *Service) AddItem(ctx context.Context, identityKey string, in AddItemInput) (*models.Cart, error) {
	if in.Quantity < 1 {
		return nil, domain.NewValidationError("quantity", "la quantité doit être au moins 1")
	}

	product, err := s.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	// La fusion lire-puis-écrire s'exécute sous le verrou du panier pour
	// éviter les lignes dupliquées entre requêtes concurrentes.
	if s.Lock != nil {
		release, err := s.Lock(ctx, identityKey)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	cart, err := s.Resolve(ctx, identityKey)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].SameLine(in.ProductID, in.Size, in.Color) {
			newQuantity := cart.Items[i].Quantity + in.Quantity
			if err := s.Store.UpdateQuantity(ctx, cart.ID, cart.Items[i].ID, newQuantity); err != nil {
				return nil, err
			}
			cart.Items[i].Quantity = newQuantity
			merged = true
			break
		}
	}

	if !merged {
		imageURL := ""
		if len(product.ImageURLs) > 0 {
			imageURL = product.ImageURLs[0]
		}
		item := models.CartItem{
			ID:        gocql.TimeUUID(),
			CartID:    cart.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Size:      in.Size,
			Color:     in.Color,
			Price:     product.Price, // snapshot, plus jamais relu
			Quantity:  in.Quantity,
			ImageURL:  imageURL,
			AddedAt:   time.Now(),
		}
		if err := s.Store.InsertItem(ctx, &item); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}

	s.notify(ctx, identityKey)
	return cart, nil
}

// UpdateItemQuantity modifie la quantité d'une ligne (≥ 1). La ligne doit
// appartenir au panier du demandeur, sinon ErrForbidden.
func (s *Service) UpdateItemQuantity(ctx context.Context, identityKey string, itemID gocql.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, domain.NewValidationError("quantity", "la quantité doit être au moins 1")
	}

	cart, err := s.Store.GetOrCreate(ctx, identityKey)
	if err != nil {
		return nil, err
	}

	item, err := s.Store.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, domain.ErrForbidden
	}

	if err := s.Store.UpdateQuantity(ctx, cart.ID, itemID, quantity); err != nil {
		return nil, err
	}

	s.notify(ctx, identityKey)
	return s.Resolve(ctx, identityKey)
}

// RemoveItem supprime une ligne du panier, sous la même règle de propriété.
func (s *Service) RemoveItem(ctx context.Context, identityKey string, itemID gocql.UUID) (*models.Cart, error) {
	cart, err := s.Store.GetOrCreate(ctx, identityKey)
	if err != nil {
		return nil, err
	}

	item, err := s.Store.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, domain.ErrForbidden
	}

	if err := s.Store.DeleteItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}

	s.notify(ctx, identityKey)
	return s.Resolve(ctx, identityKey)
}

// Clear vide toutes les lignes du panier. Le panier lui-même survit et sera
// réutilisé au prochain cycle d'achat.
func (s *Service) Clear(ctx context.Context, identityKey string) error {
	cart, err := s.Store.GetOrCreate(ctx, identityKey)
	if err != nil {
		return err
	}
	if err := s.Store.ClearItems(ctx, cart.ID); err != nil {
		return err
	}
	s.notify(ctx, identityKey)
	return nil
}

func (s *Service) notify(ctx context.Context, identityKey string) {
	if s.Notify != nil {
		s.Notify(ctx, identityKey)
	}
}

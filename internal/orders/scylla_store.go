package orders

import (
	"context"
	"encoding/json"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ScyllaStore persiste les commandes dans le keyspace orders. Trois tables :
// orders (partition par commande), orders_by_user (historique client trié
// par date) et orders_by_number (unicité du numéro affichable). Les adresses
// sont figées en JSON dans la ligne de commande.
type ScyllaStore struct{}

func NewScyllaStore() *ScyllaStore {
	return &ScyllaStore{}
}

// NumberExists vérifie si un numéro de commande est déjà attribué.
func (s *ScyllaStore) NumberExists(ctx context.Context, number string) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, err
	}

	var orderID gocql.UUID
	err = session.Query(`SELECT order_id FROM orders_by_number WHERE order_number = ?`, number).
		WithContext(ctx).Scan(&orderID)
	if err == gocql.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create écrit la commande, ses lignes et les deux index dans un seul batch
// logged : tout est appliqué, ou rien.
func (s *ScyllaStore) Create(ctx context.Context, order *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	billingJSON, err := json.Marshal(order.BillingAddress)
	if err != nil {
		return err
	}
	shippingJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)

	batch.Query(`INSERT INTO orders (order_id, order_number, user_id, status, subtotal, tax_amount,
			shipping_amount, total_amount, currency, billing_address, shipping_address, payment_method,
			payment_status, payment_reference, notes, shipped_at, delivered_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.OrderNumber, order.UserID, order.Status, order.Subtotal, order.TaxAmount,
		order.ShippingAmount, order.TotalAmount, order.Currency, string(billingJSON), string(shippingJSON),
		order.PaymentMethod, order.PaymentStatus, order.PaymentReference, order.Notes,
		order.ShippedAt, order.DeliveredAt, order.CreatedAt, order.UpdatedAt)

	batch.Query(`INSERT INTO orders_by_number (order_number, order_id) VALUES (?, ?)`,
		order.OrderNumber, order.ID)

	batch.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id, order_number, status, total_amount)
		VALUES (?, ?, ?, ?, ?, ?)`,
		order.UserID, order.CreatedAt, order.ID, order.OrderNumber, order.Status, order.TotalAmount)

	for _, item := range order.Items {
		batch.Query(`INSERT INTO order_items (order_id, item_id, product_id, product_name, product_sku,
				size, color, unit_price, quantity, total_price)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			order.ID, item.ID, item.ProductID, item.ProductName, item.ProductSKU,
			item.Size, item.Color, item.UnitPrice, item.Quantity, item.TotalPrice)
	}

	return session.ExecuteBatch(batch)
}

// Delete efface une commande et ses index — compensation du pipeline de
// checkout, jamais exposé par l'API.
func (s *ScyllaStore) Delete(ctx context.Context, order *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`DELETE FROM orders WHERE order_id = ?`, order.ID)
	batch.Query(`DELETE FROM orders_by_number WHERE order_number = ?`, order.OrderNumber)
	batch.Query(`DELETE FROM orders_by_user WHERE user_id = ? AND created_at = ? AND order_id = ?`,
		order.UserID, order.CreatedAt, order.ID)
	batch.Query(`DELETE FROM order_items WHERE order_id = ?`, order.ID)

	return session.ExecuteBatch(batch)
}

const orderColumns = `order_id, order_number, user_id, status, subtotal, tax_amount, shipping_amount,
	total_amount, currency, billing_address, shipping_address, payment_method, payment_status,
	payment_reference, notes, shipped_at, delivered_at, created_at, updated_at`

func scanOrder(scan func(...interface{}) error) (*models.Order, error) {
	var o models.Order
	var billingJSON, shippingJSON string

	err := scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.Subtotal, &o.TaxAmount,
		&o.ShippingAmount, &o.TotalAmount, &o.Currency, &billingJSON, &shippingJSON,
		&o.PaymentMethod, &o.PaymentStatus, &o.PaymentReference, &o.Notes,
		&o.ShippedAt, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if billingJSON != "" {
		json.Unmarshal([]byte(billingJSON), &o.BillingAddress)
	}
	if shippingJSON != "" {
		json.Unmarshal([]byte(shippingJSON), &o.ShippingAddress)
	}
	return &o, nil
}

// GetByID charge une commande avec ses lignes.
func (s *ScyllaStore) GetByID(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, id).
		WithContext(ctx).Scan)
	if err == gocql.ErrNotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	order.Items, err = s.items(ctx, session, id)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *ScyllaStore) items(ctx context.Context, session *gocql.Session, orderID gocql.UUID) ([]models.OrderItem, error) {
	iter := session.Query(`SELECT item_id, product_id, product_name, product_sku, size, color,
			unit_price, quantity, total_price FROM order_items WHERE order_id = ?`, orderID).
		WithContext(ctx).Iter()

	var items []models.OrderItem
	var item models.OrderItem

	for iter.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.ProductSKU,
		&item.Size, &item.Color, &item.UnitPrice, &item.Quantity, &item.TotalPrice) {
		item.OrderID = orderID
		items = append(items, item)
		item = models.OrderItem{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.OrderItem{}
	}
	return items, nil
}

// OrderSummary : ligne de l'historique client (table orders_by_user).
type OrderSummary struct {
	ID          gocql.UUID `json:"id"`
	OrderNumber string     `json:"order_number"`
	Status      string     `json:"status"`
	TotalAmount float64    `json:"total_amount"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ListByUser retourne l'historique de commandes d'un client, le plus récent
// d'abord (ordre de clustering de orders_by_user).
func (s *ScyllaStore) ListByUser(ctx context.Context, userID string) ([]OrderSummary, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id, order_number, status, total_amount, created_at
		FROM orders_by_user WHERE user_id = ?`, userID).WithContext(ctx).Iter()

	var summaries []OrderSummary
	var sum OrderSummary

	for iter.Scan(&sum.ID, &sum.OrderNumber, &sum.Status, &sum.TotalAmount, &sum.CreatedAt) {
		summaries = append(summaries, sum)
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []OrderSummary{}
	}
	return summaries, nil
}

// ListAll retourne toutes les commandes pour l'admin, optionnellement
// filtrées par statut. Scan complet, acceptable pour un back-office.
func (s *ScyllaStore) ListAll(ctx context.Context, statusFilter string) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT ` + orderColumns + ` FROM orders`).WithContext(ctx).Iter()

	var orders []models.Order
	for {
		var o models.Order
		var billingJSON, shippingJSON string
		if !iter.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.Subtotal, &o.TaxAmount,
			&o.ShippingAmount, &o.TotalAmount, &o.Currency, &billingJSON, &shippingJSON,
			&o.PaymentMethod, &o.PaymentStatus, &o.PaymentReference, &o.Notes,
			&o.ShippedAt, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt) {
			break
		}
		if statusFilter != "" && o.Status != statusFilter {
			continue
		}
		if billingJSON != "" {
			json.Unmarshal([]byte(billingJSON), &o.BillingAddress)
		}
		if shippingJSON != "" {
			json.Unmarshal([]byte(shippingJSON), &o.ShippingAddress)
		}
		orders = append(orders, o)
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// UpdateStatus persiste le résultat d'une Transition : statut, notes,
// timestamps et la ligne dénormalisée de orders_by_user.
func (s *ScyllaStore) UpdateStatus(ctx context.Context, order *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	if err := session.Query(`UPDATE orders SET status = ?, notes = ?, shipped_at = ?, delivered_at = ?, updated_at = ?
		WHERE order_id = ?`,
		order.Status, order.Notes, order.ShippedAt, order.DeliveredAt, order.UpdatedAt, order.ID).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	return session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND created_at = ? AND order_id = ?`,
		order.Status, order.UserID, order.CreatedAt, order.ID).WithContext(ctx).Exec()
}

// SetPaymentReference enregistre l'identifiant PaymentIntent Stripe.
func (s *ScyllaStore) SetPaymentReference(ctx context.Context, orderID gocql.UUID, reference string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}
	return session.Query(`UPDATE orders SET payment_reference = ?, updated_at = ? WHERE order_id = ?`,
		reference, time.Now(), orderID).WithContext(ctx).Exec()
}

// MarkPaid passe le paiement à "paid" (webhook Stripe).
func (s *ScyllaStore) MarkPaid(ctx context.Context, orderID gocql.UUID, reference string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}
	return session.Query(`UPDATE orders SET payment_status = ?, payment_reference = ?, updated_at = ? WHERE order_id = ?`,
		models.PaymentStatusPaid, reference, time.Now(), orderID).WithContext(ctx).Exec()
}

// Package orders porte la persistance des commandes et la machine à états
// des statuts côté admin.
package orders

import (
	"time"

	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/models"
)

// Progression normale : pending → processing → shipped → delivered.
// cancelled est atteignable depuis tout état non terminal.
var statusRank = map[string]int{
	models.OrderStatusPending:    0,
	models.OrderStatusProcessing: 1,
	models.OrderStatusShipped:    2,
	models.OrderStatusDelivered:  3,
}

// ValidStatuses liste les valeurs acceptées par l'API admin.
var ValidStatuses = []string{
	models.OrderStatusPending,
	models.OrderStatusProcessing,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
	models.OrderStatusCancelled,
}

func isValidStatus(status string) bool {
	if status == models.OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[status]
	return ok
}

// Transition applique un changement de statut sur la commande, en mémoire.
// Tout échec intervient avant la moindre mutation (tout-ou-rien) :
//   - statut cible inconnu → ValidationError
//   - sortie d'un état terminal (delivered, cancelled) → ValidationError
//   - retour en arrière dans la progression → ValidationError
//
// Re-poser le même statut est idempotent : shipped_at / delivered_at ne sont
// posés qu'à la première transition, jamais écrasés. Les notes peuvent être
// attachées sur n'importe quelle transition.
func Transition(order *models.Order, status, notes string, now time.Time) error {
	if !isValidStatus(status) {
		return domain.NewValidationError("status", "statut invalide (pending, processing, shipped, delivered ou cancelled)")
	}

	if status != order.Status {
		if order.IsTerminal() {
			return domain.NewValidationError("status", "la commande est dans un état terminal")
		}
		if status != models.OrderStatusCancelled && statusRank[status] < statusRank[order.Status] {
			return domain.NewValidationError("status", "retour en arrière de statut interdit")
		}
	}

	order.Status = status

	if status == models.OrderStatusShipped && order.ShippedAt == nil {
		t := now
		order.ShippedAt = &t
	}
	if status == models.OrderStatusDelivered && order.DeliveredAt == nil {
		t := now
		order.DeliveredAt = &t
	}

	if notes != "" {
		order.Notes = notes
	}
	order.UpdatedAt = now

	return nil
}

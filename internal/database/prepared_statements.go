package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

// Requêtes chaudes du panier, partagées comme chaînes CQL : gocql prépare
// chaque chaîne à la première exécution et réutilise le statement préparé
// ensuite. On ne partage jamais une instance *gocql.Query entre requêtes
// concurrentes — Bind mute la valeur en place.
const (
	CQLGetCartByKey = `SELECT cart_id, created_at FROM carts_by_key WHERE identity_key = ?`

	CQLInsertCart = `INSERT INTO carts_by_key (identity_key, cart_id, created_at) VALUES (?, ?, ?) IF NOT EXISTS`

	CQLGetCartItems = `SELECT item_id, product_id, product_name, size, color, price, quantity, image_url, added_at
		FROM cart_items WHERE cart_id = ?`

	CQLGetCartItemByID = `SELECT cart_id FROM cart_items_by_id WHERE item_id = ?`

	CQLInsertCartItem = `INSERT INTO cart_items (cart_id, item_id, product_id, product_name, size, color, price, quantity, image_url, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	CQLIndexCartItem = `INSERT INTO cart_items_by_id (item_id, cart_id) VALUES (?, ?)`

	CQLUpdateCartQty = `UPDATE cart_items SET quantity = ? WHERE cart_id = ? AND item_id = ?`

	CQLDeleteCartItem = `DELETE FROM cart_items WHERE cart_id = ? AND item_id = ?`

	CQLUnindexCartItem = `DELETE FROM cart_items_by_id WHERE item_id = ?`

	CQLClearCartItems = `DELETE FROM cart_items WHERE cart_id = ?`
)

var preparedOnce sync.Once

// InitPreparedStatements pré-chauffe les statements de lecture du panier pour
// éviter l'aller-retour de préparation sur la première requête client.
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		session, err := GetCartsSession()
		if err != nil {
			log.Printf("⚠️ Impossible de pré-chauffer les prepared statements: %v", err)
			return
		}

		if err := session.Query(CQLGetCartByKey, "warmup:init").Exec(); err != nil {
			log.Printf("⚠️ Pré-chauffage carts_by_key: %v", err)
		}
		if err := session.Query(CQLGetCartItemByID, gocql.UUID{}).Exec(); err != nil {
			log.Printf("⚠️ Pré-chauffage cart_items_by_id: %v", err)
		}

		log.Println("✅ Prepared statements initialisés")
	})
}

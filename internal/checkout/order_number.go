package checkout

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"atelier_back_end/internal/domain"
)

// maxNumberAttempts borne la boucle génère-et-revérifie. Une collision est
// très improbable, en enchaîner autant relève d'un problème de données.
const maxNumberAttempts = 10

// NumberExistsFunc vérifie si un numéro de commande est déjà pris.
type NumberExistsFunc func(ctx context.Context, number string) (bool, error)

// GenerateOrderNumber produit un numéro unique au format ORD-YYYY-NNNNNN
// (NNNNNN aléatoire dans [1, 999999], complété par des zéros). L'unicité est
// garantie par revérification, pas par construction : on boucle tant que le
// numéro existe déjà.
func GenerateOrderNumber(ctx context.Context, now time.Time, randInt func(n int) int, exists NumberExistsFunc) (string, error) {
	if randInt == nil {
		randInt = rand.Intn
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number := fmt.Sprintf("ORD-%d-%06d", now.Year(), randInt(999999)+1)

		taken, err := exists(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
		// Collision : on retente, jamais exposé au client
	}

	return "", domain.ErrConflict
}

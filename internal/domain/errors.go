package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Erreurs sentinelles du domaine. Les handlers les traduisent en codes HTTP,
// la logique métier ne connaît que ces erreurs.
var (
	// ErrNotFound : produit, ligne de panier ou commande inexistant.
	ErrNotFound = errors.New("ressource introuvable")

	// ErrForbidden : violation de propriété (ligne d'un autre panier) ou de
	// privilège (endpoint admin).
	ErrForbidden = errors.New("accès refusé")

	// ErrEmptyCart : checkout tenté sur un panier vide ou absent.
	ErrEmptyCart = errors.New("panier vide")

	// ErrConflict : collision de numéro de commande pendant la génération.
	// Géré en interne par retry, jamais exposé au client.
	ErrConflict = errors.New("conflit de numéro de commande")
)

// ValidationError porte des erreurs champ par champ, levées avant toute
// mutation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "données invalides"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "données invalides (" + strings.Join(parts, "; ") + ")"
}

// NewValidationError crée une erreur de validation mono-champ.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add enregistre une erreur pour un champ (le premier message gagne).
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// Empty indique si aucune erreur n'a été enregistrée.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// AsValidation extrait une *ValidationError d'une chaîne d'erreurs.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

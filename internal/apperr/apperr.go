// Package apperr porte la taxonomie d'erreurs de l'API : chaque erreur a un
// genre, et chaque genre un statut HTTP. Rien ne remonte jusqu'à la page
// d'erreur de gin.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Validation    Kind = iota // 400 — entrée absente, mal formée, hors bornes
	NotFound                  // 404 — id référencé inexistant
	Conflict                  // 409 — lien de relation dupliqué
	NoOp                      // 200 — update sans aucun champ à modifier
	WorkflowState             // 409 — callback de paiement incohérent avec l'état en attente
	Internal                  // 500 — détail loggé côté serveur uniquement
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int {
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict, WorkflowState:
		return http.StatusConflict
	case NoOp:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap enveloppe une erreur inattendue (store, collaborateur externe) en
// erreur interne. Le message est destiné au client, err au log serveur.
func Wrap(err error, message string) *Error {
	return &Error{Kind: Internal, Message: message, Err: err}
}

// From normalise n'importe quelle erreur en *Error.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(err, "Internal server error")
}

// IsKind dit si err porte le genre donné.
func IsKind(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}

// Is permet errors.Is(err, apperr.New(kind, "")) sur le genre seul quand le
// message est vide.
func (e *Error) Is(target error) bool {
	var ae *Error
	if !errors.As(target, &ae) {
		return false
	}
	return ae.Kind == e.Kind && (ae.Message == "" || ae.Message == e.Message)
}

// Package validate remplace les checkers dupliqués par entité par un schéma
// déclaratif : chaque champ décrit son type, ses bornes, sa présence requise
// et son éventuel check d'existence en base. Les contrôleurs ne font plus que
// déclarer leur schéma et appeler Check.
package validate

import (
	"context"
	"math"
	"net/mail"
	"regexp"
	"strconv"

	"foodtruck_back_end/internal/apperr"

	"github.com/gocql/gocql"
)

type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
	// ID : nombre entier > 0 dont l'existence est vérifiée dans le store.
	ID
)

// ExistsFunc vérifie qu'une ligne existe pour l'id donné.
type ExistsFunc func(ctx context.Context, id int64) (bool, error)

type Field struct {
	Name        string // clé JSON
	Column      string // colonne CQL, Name si vide
	Label       string // libellé des messages d'erreur, Name si vide
	Kind        Kind
	Required    bool // présence exigée sur le chemin create
	MinLen      int
	Positive    bool    // strictement > 0
	NonNegative bool    // >= 0
	Max         float64 // borne haute inclusive, 0 = pas de borne
	Entity      string // pour Kind ID : nom d'entité des messages
	Exists      ExistsFunc
}

func (f Field) label() string {
	if f.Kind == ID {
		return f.Entity + " ID"
	}
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func (f Field) column() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

type Schema struct {
	Entity string
	Fields []Field
}

// Check normalise un body brut en map colonne → valeur typée.
//
// optional=false (create) : chaque champ Required doit être présent ; tout
// champ présent est vérifié type/bornes/existence ; la première violation
// interrompt.
//
// optional=true (update) : seuls les champs présents sont vérifiés ; s'il ne
// reste aucun champ, Check signale NoOp "No details to update" (succès sans
// effet, pas une vraie erreur).
func (s Schema) Check(ctx context.Context, details map[string]any, optional bool) (map[string]any, error) {
	out := make(map[string]any)

	for _, f := range s.Fields {
		raw, present := details[f.Name]
		if !present || raw == nil {
			if !optional && f.Required {
				return nil, apperr.New(apperr.Validation, f.label()+" is required")
			}
			continue
		}

		val, err := f.check(ctx, raw)
		if err != nil {
			return nil, err
		}
		out[f.column()] = val
	}

	if optional && len(out) == 0 {
		return nil, apperr.New(apperr.NoOp, "No details to update")
	}
	return out, nil
}

func (f Field) check(ctx context.Context, raw any) (any, error) {
	label := f.label()

	switch f.Kind {
	case String:
		str, ok := raw.(string)
		if !ok {
			return nil, apperr.New(apperr.Validation, label+" must be a string")
		}
		if len(str) < f.MinLen {
			return nil, apperr.Newf(apperr.Validation, "%s must be at least %d characters", label, f.MinLen)
		}
		return str, nil

	case Bool:
		b, ok := raw.(bool)
		if !ok {
			return nil, apperr.New(apperr.Validation, label+" must be a boolean")
		}
		return b, nil

	case Float:
		num, ok := toFloat(raw)
		if !ok {
			return nil, apperr.New(apperr.Validation, label+" must be a number")
		}
		if err := f.checkRange(label, num); err != nil {
			return nil, err
		}
		return num, nil

	case Int:
		num, ok := toFloat(raw)
		if !ok || num != math.Trunc(num) {
			return nil, apperr.New(apperr.Validation, label+" must be an integer")
		}
		if err := f.checkRange(label, num); err != nil {
			return nil, err
		}
		return int(num), nil

	case ID:
		num, ok := toFloat(raw)
		if !ok || num != math.Trunc(num) {
			return nil, apperr.New(apperr.Validation, f.Entity+" ID must be a number")
		}
		id := int64(num)
		if id <= 0 {
			return nil, apperr.New(apperr.Validation, f.Entity+" ID must be greater than 0")
		}
		if f.Exists != nil {
			found, err := f.Exists(ctx, id)
			if err != nil {
				return nil, apperr.Wrap(err, "Internal server error")
			}
			if !found {
				return nil, apperr.New(apperr.NotFound, f.Entity+" not found")
			}
		}
		return id, nil
	}

	return nil, apperr.Newf(apperr.Internal, "unknown field kind %d", f.Kind)
}

func (f Field) checkRange(label string, num float64) error {
	if f.Positive && num <= 0 {
		return apperr.New(apperr.Validation, label+" must be greater than 0")
	}
	if f.NonNegative && num < 0 {
		return apperr.New(apperr.Validation, label+" cannot be negative")
	}
	if f.Max > 0 && num > f.Max {
		return apperr.Newf(apperr.Validation, "%s must be at most %g", label, f.Max)
	}
	return nil
}

// toFloat accepte les nombres JSON (float64) et leurs variantes Go.
func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// CheckID parse un id numérique de chemin ou de body.
func CheckID(entity, raw string) (int64, error) {
	if raw == "" {
		return 0, apperr.New(apperr.Validation, entity+" ID is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.New(apperr.Validation, entity+" ID must be a number")
	}
	if id <= 0 {
		return 0, apperr.New(apperr.Validation, entity+" ID must be greater than 0")
	}
	return id, nil
}

// CheckUUID parse un identifiant unique de chemin (commandes, utilisateurs).
func CheckUUID(entity, raw string) (gocql.UUID, error) {
	if raw == "" {
		return gocql.UUID{}, apperr.New(apperr.Validation, entity+" ID is required")
	}
	id, err := gocql.ParseUUID(raw)
	if err != nil {
		return gocql.UUID{}, apperr.New(apperr.Validation, entity+" ID is not valid")
	}
	return id, nil
}

var phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 .\-]{7,19}$`)

// IsEmail vérifie la forme syntaxique d'une adresse e-mail.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// IsPhone vérifie la forme syntaxique d'un numéro de téléphone.
func IsPhone(s string) bool {
	return phoneRe.MatchString(s)
}


// RequireContact impose au moins un contact valide parmi email et téléphone.
//
// Le client d'un food truck ne laisse parfois qu'un numéro : l'un ou l'autre
// suffit, mais celui qui est fourni doit être bien formé.
func RequireContact(email, phone string) error {
	if email == "" && phone == "" {
		return apperr.New(apperr.Validation, "An email or a phone number is required")
	}
	if email != "" && !IsEmail(email) {
		return apperr.New(apperr.Validation, "email is not valid")
	}
	if phone != "" && !IsPhone(phone) {
		return apperr.New(apperr.Validation, "phoneNumber is not valid")
	}
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"time"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/database"
	"foodtruck_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

// PendingCheckoutTTL borne la durée de vie d'un checkout initié : au-delà,
// la page de paiement a expiré de toute façon.
const PendingCheckoutTTL = time.Hour

func pendingKey(orderID string) string { return "pending_checkout:" + orderID }

// SavePendingCheckout enregistre l'état intermédiaire du checkout, adressé
// par l'id de la future commande.
func (s *Store) SavePendingCheckout(ctx context.Context, pc *models.PendingCheckout) error {
	data, err := json.Marshal(pc)
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := database.Redis.Set(ctx, pendingKey(pc.Order.ID.String()), data, PendingCheckoutTTL).Err(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

// GetPendingCheckout retourne (nil, nil) si aucun checkout n'est en attente
// pour cet id — le contrôleur décide quoi en faire.
func (s *Store) GetPendingCheckout(ctx context.Context, orderID string) (*models.PendingCheckout, error) {
	data, err := database.Redis.Get(ctx, pendingKey(orderID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	var pc models.PendingCheckout
	if err := json.Unmarshal([]byte(data), &pc); err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return &pc, nil
}

func (s *Store) DeletePendingCheckout(ctx context.Context, orderID string) error {
	if err := database.Redis.Del(ctx, pendingKey(orderID)).Err(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

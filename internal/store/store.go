// Package store regroupe les accès ScyllaDB/Redis par entité. Les ids
// numériques du catalogue sortent d'une séquence Redis (INCR seq:<entité>),
// les commandes et utilisateurs sont en UUID.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"foodtruck_back_end/internal/database"

	"github.com/gocql/gocql"
)

const listCacheTTL = time.Hour

type Store struct{}

func New() *Store { return &Store{} }

// NextID réserve l'id suivant de la séquence d'une entité.
func (s *Store) NextID(ctx context.Context, entity string) (int64, error) {
	return database.Redis.Incr(ctx, "seq:"+entity).Result()
}

// exists vérifie la présence d'une ligne par clé primaire.
func exists(ctx context.Context, session *gocql.Session, table, idCol string, id int64) (bool, error) {
	var found int64
	err := session.Query(
		fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", idCol, table, idCol), id,
	).WithContext(ctx).Scan(&found)
	if err == gocql.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// applyUpdate construit et exécute un UPDATE partiel colonne → valeur.
func applyUpdate(ctx context.Context, session *gocql.Session, table, idCol string, id any, updates map[string]any) error {
	cols := make([]string, 0, len(updates))
	for col := range updates {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for _, col := range cols {
		sets = append(sets, col+" = ?")
		args = append(args, updates[col])
	}
	args = append(args, id)

	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", table, strings.Join(sets, ", "), idCol)
	return session.Query(q, args...).WithContext(ctx).Exec()
}

// invalidateCache jette les listes mises en cache après une mutation.
func invalidateCache(ctx context.Context, keys ...string) {
	if len(keys) > 0 {
		database.Redis.Del(ctx, keys...)
	}
}

package store

import (
	"context"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/database"
	"foodtruck_back_end/internal/models"

	"github.com/gocql/gocql"
)

// =============================================
// OPTION GROUPS
// =============================================

func (s *Store) OptionGroupExists(ctx context.Context, id int64) (bool, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return false, err
	}
	return exists(ctx, session, "option_groups", "option_group_id", id)
}

func (s *Store) GetOptionGroup(ctx context.Context, id int64) (*models.OptionGroup, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	var g models.OptionGroup
	g.ID = id
	err = session.Query(`SELECT name, product_id FROM option_groups WHERE option_group_id = ?`, id).
		WithContext(ctx).Scan(&g.Name, &g.ProductID)
	if err == gocql.ErrNotFound {
		return nil, apperr.New(apperr.NotFound, "OptionGroup not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	options, err := s.listOptionsByGroup(ctx, session, id)
	if err != nil {
		return nil, err
	}
	g.Options = options
	return &g, nil
}

func (s *Store) ListOptionGroups(ctx context.Context) ([]models.OptionGroup, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	iter := session.Query(`SELECT option_group_id, name, product_id FROM option_groups`).
		WithContext(ctx).Iter()

	groups := []models.OptionGroup{}
	var g models.OptionGroup
	for iter.Scan(&g.ID, &g.Name, &g.ProductID) {
		groups = append(groups, g)
		g = models.OptionGroup{}
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	for i := range groups {
		options, err := s.listOptionsByGroup(ctx, session, groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Options = options
	}
	return groups, nil
}

func (s *Store) CreateOptionGroup(ctx context.Context, g *models.OptionGroup) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	id, err := s.NextID(ctx, "option_groups")
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	g.ID = id

	err = session.Query(`INSERT INTO option_groups (option_group_id, name, product_id) VALUES (?, ?, ?)`,
		g.ID, g.Name, g.ProductID).WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

func (s *Store) UpdateOptionGroup(ctx context.Context, id int64, updates map[string]any) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := applyUpdate(ctx, session, "option_groups", "option_group_id", id, updates); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

// DeleteOptionGroup supprime le groupe et ses options (cascade).
func (s *Store) DeleteOptionGroup(ctx context.Context, id int64) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	options, err := s.listOptionsByGroup(ctx, session, id)
	if err != nil {
		return err
	}
	for _, opt := range options {
		if err := session.Query(`DELETE FROM options WHERE option_id = ?`, opt.ID).WithContext(ctx).Exec(); err != nil {
			return apperr.Wrap(err, "Internal server error")
		}
	}

	if err := session.Query(`DELETE FROM option_groups WHERE option_group_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

// =============================================
// OPTIONS
// =============================================

func (s *Store) OptionExists(ctx context.Context, id int64) (bool, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return false, err
	}
	return exists(ctx, session, "options", "option_id", id)
}

func (s *Store) GetOption(ctx context.Context, id int64) (*models.Option, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}

	var opt models.Option
	opt.ID = id
	err = session.Query(`SELECT name, price, option_group_id FROM options WHERE option_id = ?`, id).
		WithContext(ctx).Scan(&opt.Name, &opt.Price, &opt.OptionGroupID)
	if err == gocql.ErrNotFound {
		return nil, apperr.New(apperr.NotFound, "Option not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return &opt, nil
}

func (s *Store) CreateOption(ctx context.Context, opt *models.Option) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}

	id, err := s.NextID(ctx, "options")
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	opt.ID = id

	err = session.Query(`INSERT INTO options (option_id, name, price, option_group_id) VALUES (?, ?, ?, ?)`,
		opt.ID, opt.Name, opt.Price, opt.OptionGroupID).WithContext(ctx).Exec()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

func (s *Store) UpdateOption(ctx context.Context, id int64, updates map[string]any) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := applyUpdate(ctx, session, "options", "option_id", id, updates); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

func (s *Store) DeleteOption(ctx context.Context, id int64) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := session.Query(`DELETE FROM options WHERE option_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

func (s *Store) listOptionsByGroup(ctx context.Context, session *gocql.Session, groupID int64) ([]models.Option, error) {
	iter := session.Query(`SELECT option_id, name, price, option_group_id FROM options WHERE option_group_id = ? ALLOW FILTERING`, groupID).
		WithContext(ctx).Iter()

	options := []models.Option{}
	var opt models.Option
	for iter.Scan(&opt.ID, &opt.Name, &opt.Price, &opt.OptionGroupID) {
		options = append(options, opt)
		opt = models.Option{}
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return options, nil
}

package store

import (
	"context"
	"time"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/database"
	"foodtruck_back_end/internal/models"

	"github.com/gocql/gocql"
)

func (s *Store) GetUser(ctx context.Context, id gocql.UUID) (*models.User, error) {
	var u models.User
	u.ID = id

	stmt := database.GetPreparedGetUserByID()
	if stmt == nil {
		return nil, apperr.New(apperr.Internal, "Internal server error")
	}
	err := stmt.Bind(id).WithContext(ctx).Scan(&u.Email, &u.FirstName, &u.LastName, &u.Provider, &u.PasswordHash, &u.CreatedAt)
	if err == gocql.ErrNotFound {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return &u, nil
}

// GetUserByEmail passe par la table users_by_email puis charge l'utilisateur.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	stmt := database.GetPreparedGetUserByEmail()
	if stmt == nil {
		return nil, apperr.New(apperr.Internal, "Internal server error")
	}

	var id gocql.UUID
	err := stmt.Bind(email).WithContext(ctx).Scan(&id)
	if err == gocql.ErrNotFound {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "Internal server error")
	}
	return s.GetUser(ctx, id)
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	insertUser := database.GetPreparedInsertUser()
	insertByEmail := database.GetPreparedInsertUserByEmail()
	if insertUser == nil || insertByEmail == nil {
		return apperr.New(apperr.Internal, "Internal server error")
	}

	if u.ID == (gocql.UUID{}) {
		u.ID = gocql.TimeUUID()
	}
	u.CreatedAt = time.Now()

	if err := insertUser.Bind(u.ID, u.Email, u.FirstName, u.LastName, u.Provider, u.PasswordHash, u.CreatedAt).
		WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	if err := insertByEmail.Bind(u.Email, u.ID).WithContext(ctx).Exec(); err != nil {
		return apperr.Wrap(err, "Internal server error")
	}
	return nil
}

// UpsertOAuthUser retrouve ou crée l'utilisateur résolu par le provider OAuth.
func (s *Store) UpsertOAuthUser(ctx context.Context, email, firstName, lastName, provider string) (*models.User, error) {
	u, err := s.GetUserByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if apperr.From(err).Kind != apperr.NotFound {
		return nil, err
	}

	u = &models.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Provider:  provider,
	}
	if err := s.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

package store

import (
	"context"

	"github.com/allfantasy/bracket-live/internal/users"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) CreateUser(ctx context.Context, user *users.User) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO users (id, display_name, avatar_url)
		VALUES (:id, :display_name, :avatar_url)`, user)
	return err
}

func (s *UserStore) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]users.User, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]users.User{}, nil
	}
	query, args, err := sqlx.In("SELECT * FROM users WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	var rows []users.User
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]users.User, len(rows))
	for _, u := range rows {
		byID[u.ID] = u
	}
	return byID, nil
}

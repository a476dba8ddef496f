package session

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/brainswap/internal/client/repositories/kv"
	"github.com/dmitrijs2005/brainswap/internal/dbx"
)

// Storage keys shared with every client process using the same store.
const (
	KeyToken    = "token"
	KeyUsername = "username"
)

// Store persists the session token and the cached username.
type Store interface {
	// Token returns the stored token, or "" when there is none.
	Token(ctx context.Context) (string, error)
	Username(ctx context.Context) (string, error)
	Save(ctx context.Context, token, username string) error
	Clear(ctx context.Context) error
}

type SQLiteStore struct {
	db   *sql.DB
	repo kv.Repository
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, repo: kv.NewSQLiteRepository(db)}
}

func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	v, _, err := s.repo.Get(ctx, KeyToken)
	return v, err
}

func (s *SQLiteStore) Username(ctx context.Context) (string, error) {
	v, _, err := s.repo.Get(ctx, KeyUsername)
	return v, err
}

// Save writes token and username together.
func (s *SQLiteStore) Save(ctx context.Context, token, username string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyToken, token); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUsername, username)
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, KeyToken, KeyUsername)
}

var _ Store = (*SQLiteStore)(nil)

// Package tokens persists the session credential pair in the client's local
// metadata table.
//
// Three keys are used: accessToken and refreshToken hold the pair, and token
// holds the bare credential returned by password sign-in. The access token
// resolves to accessToken first and falls back to token.
package tokens

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/osp/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/osp/internal/common"
	"github.com/dmitrijs2005/osp/internal/dbx"
)

// newRepo builds a metadata repository over a connection or a transaction.
var newRepo = func(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Store reads and writes the credential pair. It is safe for concurrent use;
// SQLite serializes the writes.
type Store struct {
	db   *sql.DB
	repo metadata.Repository
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, repo: newRepo(db)}
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// AccessToken returns the stored access token, or "" when there is none.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	tok, err := s.get(ctx, common.AccessTokenKey)
	if err != nil || tok != "" {
		return tok, err
	}
	return s.get(ctx, common.LegacyTokenKey)
}

// RefreshToken returns the stored refresh token, or "" when there is none.
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, common.RefreshTokenKey)
}

// SetTokens writes the pair in one transaction. An empty refresh token keeps
// the stored one.
func (s *Store) SetTokens(ctx context.Context, access, refresh string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := newRepo(tx)
		if err := r.Set(ctx, common.AccessTokenKey, []byte(access)); err != nil {
			return err
		}
		if refresh == "" {
			return nil
		}
		return r.Set(ctx, common.RefreshTokenKey, []byte(refresh))
	})
}

var credentialKeys = []string{common.AccessTokenKey, common.RefreshTokenKey, common.LegacyTokenKey}

// Replace drops every stored credential and writes the non-empty values in
// the same transaction, so a new sign-in never inherits the previous session.
func (s *Store) Replace(ctx context.Context, legacy, access, refresh string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := newRepo(tx)
		if err := r.Delete(ctx, credentialKeys...); err != nil {
			return err
		}
		for _, kv := range [][2]string{
			{common.LegacyTokenKey, legacy},
			{common.AccessTokenKey, access},
			{common.RefreshTokenKey, refresh},
		} {
			if kv[1] == "" {
				continue
			}
			if err := r.Set(ctx, kv[0], []byte(kv[1])); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear removes every credential key. Other metadata rows are kept.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, credentialKeys...)
}

// HasToken reports whether an access token is stored. Read errors count as
// signed out.
func (s *Store) HasToken(ctx context.Context) bool {
	tok, err := s.AccessToken(ctx)
	return err == nil && tok != ""
}

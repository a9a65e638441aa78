package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/osp/internal/common"
	"github.com/dmitrijs2005/osp/internal/dbx"
	"github.com/dmitrijs2005/osp/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Media) (*models.Media, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	query := `
		INSERT INTO media (id, title, description, thumbnail_url, thumbnail_key, location, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.Title, m.Description, m.ThumbnailURL, m.ThumbnailKey, m.Location, m.Latitude, m.Longitude).Scan(&m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Media, error) {
	query := `
		SELECT id, title, description, thumbnail_url, thumbnail_key, location, latitude, longitude, created_at
		FROM media
		WHERE id = $1
	`
	m := &models.Media{}
	var lat, lon sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Title, &m.Description, &m.ThumbnailURL, &m.ThumbnailKey, &m.Location, &lat, &lon, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if lat.Valid && lon.Valid {
		m.Latitude, m.Longitude = &lat.Float64, &lon.Float64
	}
	return m, nil
}

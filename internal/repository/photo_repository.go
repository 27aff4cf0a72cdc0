package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/autosell-mx/reposting-api/internal/models"
)

type PhotoRepository interface {
	Create(ctx context.Context, p *models.Photo) (int64, error)
	ListByVehicleID(ctx context.Context, vehicleID int64) ([]*models.Photo, error)
}

type photoRepository struct {
	db *sql.DB
}

func NewPhotoRepository(db *sql.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, p *models.Photo) (int64, error) {
	query := `
		INSERT INTO photos (vehicle_id, file_name, file_type, file_size, file_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, p.VehicleID, p.FileName, p.FileType, p.FileSize, p.FileURL).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *photoRepository) ListByVehicleID(ctx context.Context, vehicleID int64) ([]*models.Photo, error) {
	query := `SELECT id, vehicle_id, file_name, file_type, file_size, file_url, created_at FROM photos WHERE vehicle_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var photos []*models.Photo
	for rows.Next() {
		var p models.Photo
		err := rows.Scan(&p.ID, &p.VehicleID, &p.FileName, &p.FileType, &p.FileSize, &p.FileURL, &p.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		photos = append(photos, &p)
	}
	return photos, rows.Err()
}

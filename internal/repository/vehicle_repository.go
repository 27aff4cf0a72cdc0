package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/autosell-mx/reposting-api/internal/models"
	"github.com/lib/pq"
)

type VehicleRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Vehicle, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Vehicle, error)
	ListByStatuses(ctx context.Context, statuses []string) ([]*models.Vehicle, error)
	CountByStatuses(ctx context.Context, statuses []string) (int, error)
	MarkSold(ctx context.Context, id int64) error
}

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

const vehicleColumns = `id, external_id, brand, model, year, color, price, mileage, status, location, description, features, created_at, updated_at, created_by, updated_by`

func scanVehicle(row interface{ Scan(...interface{}) error }) (*models.Vehicle, error) {
	var v models.Vehicle
	// features is a nullable JSON column, scan through []byte
	var features []byte
	err := row.Scan(&v.ID, &v.ExternalID, &v.Brand, &v.Model, &v.Year, &v.Color,
		&v.Price, &v.Mileage, &v.Status, &v.Location, &v.Description, &features,
		&v.CreatedAt, &v.UpdatedAt, &v.CreatedBy, &v.UpdatedBy)
	if err != nil {
		return nil, err
	}
	v.Features = features
	return &v, nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	v, err := scanVehicle(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return v, nil
}

func (r *vehicleRepository) List(ctx context.Context, status string, limit, offset int) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	args := []interface{}{}

	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepository) ListByStatuses(ctx context.Context, statuses []string) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE status = ANY($1) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(statuses))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepository) CountByStatuses(ctx context.Context, statuses []string) (int, error) {
	query := `SELECT COUNT(*) FROM vehicles WHERE status = ANY($1)`

	var count int
	err := r.db.QueryRowContext(ctx, query, pq.Array(statuses)).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return count, nil
}

func (r *vehicleRepository) MarkSold(ctx context.Context, id int64) error {
	query := `UPDATE vehicles SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, models.VehicleStatusSold, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

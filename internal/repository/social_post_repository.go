package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/autosell-mx/reposting-api/internal/models"
)

type SocialPostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, p *models.SocialPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.SocialPost, error)
	ListByPlatform(ctx context.Context, platform string, accountID int64, limit, offset int) ([]*models.SocialPost, error)
	ListPostedSince(ctx context.Context, platform string, since time.Time, limit int) ([]*models.SocialPost, error)
	CountPostedForVehicleSince(ctx context.Context, vehicleID int64, platform string, since time.Time) (int, error)
	CountCreatedSince(ctx context.Context, platform string, since time.Time) (int, error)
	CountByPlatform(ctx context.Context, platform string) (int, error)
	LastPostedAt(ctx context.Context, platform string) (*time.Time, error)
	MarkDeleted(ctx context.Context, id int64, removedAt time.Time) error
	UpdateEngagement(ctx context.Context, id int64, metrics json.RawMessage) error
}

type socialPostRepository struct {
	db *sql.DB
}

func NewSocialPostRepository(db *sql.DB) SocialPostRepository {
	return &socialPostRepository{db: db}
}

const socialPostColumns = `id, vehicle_id, account_id, platform, message, status, external_post_id, engagement_metrics, posted_at, removed_at, created_at, updated_at`

func scanSocialPost(row interface{ Scan(...interface{}) error }) (*models.SocialPost, error) {
	var p models.SocialPost
	// engagement_metrics is a nullable JSON column, scan through []byte
	var metrics []byte
	err := row.Scan(&p.ID, &p.VehicleID, &p.AccountID, &p.Platform, &p.Message,
		&p.Status, &p.ExternalPostID, &metrics, &p.PostedAt, &p.RemovedAt,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.EngagementMetrics = metrics
	return &p, nil
}

func (r *socialPostRepository) Create(ctx context.Context, tx *sql.Tx, p *models.SocialPost) (int64, error) {
	query := `
		INSERT INTO social_posts (vehicle_id, account_id, platform, message, status, external_post_id, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, p.VehicleID, p.AccountID, p.Platform,
			p.Message, p.Status, p.ExternalPostID, p.PostedAt).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, p.VehicleID, p.AccountID, p.Platform,
			p.Message, p.Status, p.ExternalPostID, p.PostedAt).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *socialPostRepository) GetByID(ctx context.Context, id int64) (*models.SocialPost, error) {
	query := `SELECT ` + socialPostColumns + ` FROM social_posts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	p, err := scanSocialPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return p, nil
}

func (r *socialPostRepository) ListByPlatform(ctx context.Context, platform string, accountID int64, limit, offset int) ([]*models.SocialPost, error) {
	query := `SELECT ` + socialPostColumns + ` FROM social_posts WHERE platform = $1`
	args := []interface{}{platform}

	if accountID != 0 {
		query += ` AND account_id = $2`
		args = append(args, accountID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.SocialPost
	for rows.Next() {
		p, err := scanSocialPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *socialPostRepository) ListPostedSince(ctx context.Context, platform string, since time.Time, limit int) ([]*models.SocialPost, error) {
	query := `SELECT ` + socialPostColumns + `
		FROM social_posts
		WHERE platform = $1 AND status = $2 AND external_post_id <> '' AND posted_at >= $3
		ORDER BY posted_at DESC LIMIT $4`
	rows, err := r.db.QueryContext(ctx, query, platform, models.PostStatusPosted, since, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.SocialPost
	for rows.Next() {
		p, err := scanSocialPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *socialPostRepository) CountPostedForVehicleSince(ctx context.Context, vehicleID int64, platform string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM social_posts
		WHERE vehicle_id = $1 AND platform = $2 AND status = $3 AND created_at > $4
	`

	var count int
	err := r.db.QueryRowContext(ctx, query, vehicleID, platform, models.PostStatusPosted, since).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return count, nil
}

func (r *socialPostRepository) CountCreatedSince(ctx context.Context, platform string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM social_posts WHERE platform = $1 AND created_at >= $2`

	var count int
	err := r.db.QueryRowContext(ctx, query, platform, since).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return count, nil
}

func (r *socialPostRepository) CountByPlatform(ctx context.Context, platform string) (int, error) {
	query := `SELECT COUNT(*) FROM social_posts WHERE platform = $1`

	var count int
	err := r.db.QueryRowContext(ctx, query, platform).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return count, nil
}

func (r *socialPostRepository) LastPostedAt(ctx context.Context, platform string) (*time.Time, error) {
	query := `
		SELECT posted_at FROM social_posts
		WHERE platform = $1 AND status = $2
		ORDER BY posted_at DESC LIMIT 1
	`

	var postedAt time.Time
	err := r.db.QueryRowContext(ctx, query, platform, models.PostStatusPosted).Scan(&postedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &postedAt, nil
}

func (r *socialPostRepository) MarkDeleted(ctx context.Context, id int64, removedAt time.Time) error {
	query := `
		UPDATE social_posts
		SET status = $1,
			removed_at = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusDeleted, removedAt, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *socialPostRepository) UpdateEngagement(ctx context.Context, id int64, metrics json.RawMessage) error {
	query := `UPDATE social_posts SET engagement_metrics = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, metrics, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/autosell-mx/reposting-api/internal/models"
)

type FacebookAccountRepository interface {
	Create(ctx context.Context, tx *sql.Tx, a *models.FacebookAccount) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.FacebookAccount, error)
	List(ctx context.Context) ([]*models.FacebookAccount, error)
	ListAutoActive(ctx context.Context) ([]*models.FacebookAccount, error)
	Update(ctx context.Context, a *models.FacebookAccount) error
}

type facebookAccountRepository struct {
	db *sql.DB
}

func NewFacebookAccountRepository(db *sql.DB) FacebookAccountRepository {
	return &facebookAccountRepository{db: db}
}

const accountColumns = `id, name, account_type, is_active, access_token, page_id, user_id, app_id, app_secret, automation_config, created_at, updated_at`

func scanAccount(row interface{ Scan(...interface{}) error }) (*models.FacebookAccount, error) {
	var a models.FacebookAccount
	err := row.Scan(&a.ID, &a.Name, &a.AccountType, &a.IsActive, &a.AccessToken,
		&a.PageID, &a.UserID, &a.AppID, &a.AppSecret, &a.AutomationConfig,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *facebookAccountRepository) Create(ctx context.Context, tx *sql.Tx, a *models.FacebookAccount) (int64, error) {
	query := `
		INSERT INTO facebook_accounts (name, account_type, is_active, access_token, page_id, user_id, app_id, app_secret, automation_config)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, a.Name, a.AccountType, a.IsActive, a.AccessToken,
			a.PageID, a.UserID, a.AppID, a.AppSecret, a.AutomationConfig).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, a.Name, a.AccountType, a.IsActive, a.AccessToken,
			a.PageID, a.UserID, a.AppID, a.AppSecret, a.AutomationConfig).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *facebookAccountRepository) GetByID(ctx context.Context, id int64) (*models.FacebookAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM facebook_accounts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return a, nil
}

func (r *facebookAccountRepository) List(ctx context.Context) ([]*models.FacebookAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM facebook_accounts ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.FacebookAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *facebookAccountRepository) ListAutoActive(ctx context.Context) ([]*models.FacebookAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM facebook_accounts WHERE account_type = $1 AND is_active = TRUE ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, models.AccountTypeAuto)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.FacebookAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *facebookAccountRepository) Update(ctx context.Context, a *models.FacebookAccount) error {
	query := `
		UPDATE facebook_accounts
		SET name = $1,
			account_type = $2,
			is_active = $3,
			access_token = $4,
			page_id = $5,
			user_id = $6,
			app_id = $7,
			app_secret = $8,
			automation_config = $9,
			updated_at = $10
		WHERE id = $11
	`
	_, err := r.db.ExecContext(ctx, query, a.Name, a.AccountType, a.IsActive, a.AccessToken,
		a.PageID, a.UserID, a.AppID, a.AppSecret, a.AutomationConfig, time.Now(), a.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/autosell-mx/reposting-api/internal/models"
)

type AutomationWorkflowRepository interface {
	GetByType(ctx context.Context, workflowType string) (*models.AutomationWorkflow, bool, error)
	Upsert(ctx context.Context, w *models.AutomationWorkflow) (int64, error)
}

type automationWorkflowRepository struct {
	db *sql.DB
}

func NewAutomationWorkflowRepository(db *sql.DB) AutomationWorkflowRepository {
	return &automationWorkflowRepository{db: db}
}

func (r *automationWorkflowRepository) GetByType(ctx context.Context, workflowType string) (*models.AutomationWorkflow, bool, error) {
	query := `SELECT id, name, workflow_type, is_active, config, created_at FROM automation_workflows WHERE workflow_type = $1`
	row := r.db.QueryRowContext(ctx, query, workflowType)

	var w models.AutomationWorkflow
	err := row.Scan(&w.ID, &w.Name, &w.WorkflowType, &w.IsActive, &w.Config, &w.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &w, true, nil
}

func (r *automationWorkflowRepository) Upsert(ctx context.Context, w *models.AutomationWorkflow) (int64, error) {
	query := `
		INSERT INTO automation_workflows (name, workflow_type, is_active, config)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (workflow_type) DO UPDATE
		SET name = EXCLUDED.name,
			is_active = EXCLUDED.is_active,
			config = EXCLUDED.config
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, w.Name, w.WorkflowType, w.IsActive, w.Config).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

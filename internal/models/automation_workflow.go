package models

import (
	"encoding/json"
	"time"
)

const WorkflowTypeFacebookReposting = "facebook_reposting"

type AutomationWorkflow struct {
	ID           int64           `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	WorkflowType string          `db:"workflow_type" json:"workflow_type"`
	IsActive     bool            `db:"is_active" json:"is_active"`
	Config       json.RawMessage `db:"config" json:"config"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

const (
	PostStatusDraft   = "draft"
	PostStatusPosted  = "posted"
	PostStatusFailed  = "failed"
	PostStatusDeleted = "deleted"
	PostStatusTest    = "test"
)

const (
	PlatformFacebook    = "facebook"
	PlatformMarketplace = "marketplace"
)

type SocialPost struct {
	ID                int64           `db:"id" json:"id"`
	VehicleID         int64           `db:"vehicle_id" json:"vehicle_id"`
	AccountID         sql.NullInt64   `db:"account_id" json:"account_id"`
	Platform          string          `db:"platform" json:"platform"`
	Message           string          `db:"message" json:"message"`
	Status            string          `db:"status" json:"status"`
	ExternalPostID    string          `db:"external_post_id" json:"external_post_id"`
	EngagementMetrics json.RawMessage `db:"engagement_metrics" json:"engagement_metrics"`
	PostedAt          sql.NullTime    `db:"posted_at" json:"posted_at"`
	RemovedAt         sql.NullTime    `db:"removed_at" json:"removed_at"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

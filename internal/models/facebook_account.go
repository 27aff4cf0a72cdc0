package models

import (
	"encoding/json"
	"time"
)

const (
	AccountTypeManual = "manual"
	AccountTypeAuto   = "auto"
)

type FacebookAccount struct {
	ID               int64           `db:"id" json:"id"`
	Name             string          `db:"name" json:"name"`
	AccountType      string          `db:"account_type" json:"account_type"`
	IsActive         bool            `db:"is_active" json:"is_active"`
	AccessToken      string          `db:"access_token" json:"-"`
	PageID           string          `db:"page_id" json:"page_id"`
	UserID           string          `db:"user_id" json:"user_id"`
	AppID            string          `db:"app_id" json:"app_id"`
	AppSecret        string          `db:"app_secret" json:"-"`
	AutomationConfig json.RawMessage `db:"automation_config" json:"automation_config"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// IsConfigured reports whether the account carries the minimum
// credentials needed to publish: an access token and a page id.
func (a *FacebookAccount) IsConfigured() bool {
	return a.AccessToken != "" && a.PageID != ""
}

func (a *FacebookAccount) IsManual() bool {
	return a.AccountType == AccountTypeManual
}

func (a *FacebookAccount) IsAuto() bool {
	return a.AccountType == AccountTypeAuto
}

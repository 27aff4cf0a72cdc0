package transfer

import (
	"encoding/json"
	"time"
)

type FacebookCredentials struct {
	AccessToken string `json:"access_token"`
	PageID      string `json:"page_id"`
	UserID      string `json:"user_id"`
	AppID       string `json:"app_id"`
	AppSecret   string `json:"app_secret"`
}

type AutomationSchedule struct {
	Time           string `json:"time"`
	Days           []int  `json:"days"`
	MaxPostsPerDay int    `json:"max_posts_per_day"`
}

type AutomationConfig struct {
	AutoPosting bool               `json:"auto_posting"`
	Schedule    AutomationSchedule `json:"schedule"`
}

type AccountCreation struct {
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
	AccessToken string `json:"access_token"`
	PageID      string `json:"page_id"`
	UserID      string `json:"user_id"`
	AppID       string `json:"app_id"`
	AppSecret   string `json:"app_secret"`
	// Kept raw so the service can decode it strictly.
	AutomationConfig json.RawMessage `json:"automation_config"`
}

type AccountInfo struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	AccountType      string           `json:"account_type"`
	IsActive         bool             `json:"is_active"`
	IsConfigured     bool             `json:"is_configured"`
	AutomationConfig AutomationConfig `json:"automation_config"`
}

type MultiAccountStatus struct {
	Accounts           []AccountInfo `json:"accounts"`
	TotalAccounts      int           `json:"total_accounts"`
	ManualAccounts     int           `json:"manual_accounts"`
	AutoAccounts       int           `json:"auto_accounts"`
	ActiveAccounts     int           `json:"active_accounts"`
	ConfiguredAccounts int           `json:"configured_accounts"`
}

// RepostingSchedule is the persisted configuration of the daily
// reposting workflow.
type RepostingSchedule struct {
	IsActive          bool   `json:"is_active"`
	TimeOfDay         string `json:"time_of_day"`
	DaysOfWeek        []int  `json:"days_of_week"`
	MaxPostsPerDay    int    `json:"max_posts_per_day"`
	PostIntervalHours int    `json:"post_interval_hours"`
	// Pointer so an absent field can be told apart from an explicit
	// false; absent defaults to true.
	IncludeMarketplace *bool `json:"include_marketplace"`
}

// Marketplace reports whether marketplace listings are enabled,
// treating an unset value as enabled.
func (s *RepostingSchedule) Marketplace() bool {
	return s.IncludeMarketplace == nil || *s.IncludeMarketplace
}

type RepostingStatus struct {
	IsActive       bool       `json:"is_active"`
	LastPosted     *time.Time `json:"last_posted"`
	PostsLastWeek  int        `json:"posts_last_week"`
	ActiveVehicles int        `json:"active_vehicles"`
	NextScheduled  *time.Time `json:"next_scheduled"`
	TotalPosts     int        `json:"total_posts"`
	WorkflowName   string     `json:"workflow_name,omitempty"`
}

type PostCreation struct {
	Message   string `json:"message"`
	VehicleID int64  `json:"vehicle_id"`
	Platform  string `json:"platform"`
	AccountID int64  `json:"account_id"`
}

type PostInfo struct {
	ID             int64      `json:"id"`
	VehicleID      int64      `json:"vehicle_id"`
	AccountID      *int64     `json:"account_id"`
	Platform       string     `json:"platform"`
	Message        string     `json:"message"`
	Status         string     `json:"status"`
	PostedAt       *time.Time `json:"posted_at"`
	ExternalPostID string     `json:"external_post_id,omitempty"`
}

type PublishResult struct {
	Success bool   `json:"success"`
	PostID  string `json:"post_id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ListingResult struct {
	Success   bool   `json:"success"`
	ListingID string `json:"listing_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

type DeleteResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type CredentialCheck struct {
	Valid         bool     `json:"valid"`
	PageName      string   `json:"page_name,omitempty"`
	PageCategory  string   `json:"page_category,omitempty"`
	Followers     int64    `json:"followers_count,omitempty"`
	Error         string   `json:"error,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

type InsightsResult struct {
	Success  bool            `json:"success"`
	Insights json.RawMessage `json:"insights,omitempty"`
	Error    string          `json:"error,omitempty"`
}

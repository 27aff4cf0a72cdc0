package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/autosell-mx/reposting-api/internal/models"
	"github.com/autosell-mx/reposting-api/internal/transfer"
)

// Publisher wraps outbound calls to the social platform for one
// account's credentials. Methods never return a Go error: transport
// failures and non-2xx responses are folded into the result value.
type Publisher interface {
	IsConfigured() bool
	PublishPost(ctx context.Context, v *models.Vehicle, message string) *transfer.PublishResult
	PublishListing(ctx context.Context, v *models.Vehicle, message string) *transfer.ListingResult
	DeletePost(ctx context.Context, externalPostID string) *transfer.DeleteResult
	ValidateCredentials(ctx context.Context) *transfer.CredentialCheck
	PageInsights(ctx context.Context) *transfer.InsightsResult
}

// PublisherFactory binds a Publisher to one account's credentials.
type PublisherFactory func(account *models.FacebookAccount) Publisher

type FacebookService struct {
	baseURL string
	creds   transfer.FacebookCredentials
	client  *http.Client
}

func NewFacebookService(baseURL string, creds transfer.FacebookCredentials) *FacebookService {
	return &FacebookService{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *FacebookService) IsConfigured() bool {
	return s.creds.AccessToken != "" && s.creds.PageID != ""
}

func (s *FacebookService) PublishPost(ctx context.Context, v *models.Vehicle, message string) *transfer.PublishResult {
	if !s.IsConfigured() {
		return &transfer.PublishResult{Error: "facebook account not configured"}
	}

	endpoint := fmt.Sprintf("%s/%s/feed", s.baseURL, s.creds.PageID)
	form := url.Values{}
	form.Set("message", message)
	form.Set("access_token", s.creds.AccessToken)

	body, err := s.doForm(ctx, http.MethodPost, endpoint, form)
	if err != nil {
		slog.Info(err.Error())
		return &transfer.PublishResult{Error: fmt.Sprintf("facebook API error: %v", err)}
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Info(err.Error())
		return &transfer.PublishResult{Error: fmt.Sprintf("error parsing response: %v", err)}
	}
	if result.ID == "" {
		return &transfer.PublishResult{Error: "no post id returned from facebook"}
	}

	return &transfer.PublishResult{
		Success: true,
		PostID:  result.ID,
		Message: "Post created successfully",
	}
}

func (s *FacebookService) PublishListing(ctx context.Context, v *models.Vehicle, message string) *transfer.ListingResult {
	if !s.IsConfigured() {
		return &transfer.ListingResult{Error: "facebook account not configured"}
	}

	endpoint := fmt.Sprintf("%s/%s/marketplace_listings", s.baseURL, s.creds.UserID)
	form := url.Values{}
	form.Set("access_token", s.creds.AccessToken)
	form.Set("title", v.DisplayName())
	form.Set("description", message)
	form.Set("price", fmt.Sprintf("%.0f", v.Price))
	form.Set("category", "VEHICLES")
	form.Set("condition", "USED_EXCELLENT")

	body, err := s.doForm(ctx, http.MethodPost, endpoint, form)
	if err != nil {
		slog.Info(err.Error())
		return &transfer.ListingResult{Error: fmt.Sprintf("marketplace API error: %v", err)}
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Info(err.Error())
		return &transfer.ListingResult{Error: fmt.Sprintf("error parsing response: %v", err)}
	}

	return &transfer.ListingResult{
		Success:   true,
		ListingID: result.ID,
	}
}

func (s *FacebookService) DeletePost(ctx context.Context, externalPostID string) *transfer.DeleteResult {
	if !s.IsConfigured() {
		return &transfer.DeleteResult{Error: "facebook account not configured"}
	}

	endpoint := fmt.Sprintf("%s/%s", s.baseURL, externalPostID)
	form := url.Values{}
	form.Set("access_token", s.creds.AccessToken)

	if _, err := s.doForm(ctx, http.MethodDelete, endpoint, form); err != nil {
		slog.Info(err.Error())
		return &transfer.DeleteResult{Error: fmt.Sprintf("facebook API error: %v", err)}
	}

	return &transfer.DeleteResult{Success: true}
}

func (s *FacebookService) ValidateCredentials(ctx context.Context) *transfer.CredentialCheck {
	if missing := s.missingCredentials(); len(missing) > 0 {
		return &transfer.CredentialCheck{
			Valid:         false,
			Error:         "missing required credentials",
			MissingFields: missing,
		}
	}

	endpoint := fmt.Sprintf("%s/%s?fields=name,category,followers_count&access_token=%s",
		s.baseURL, s.creds.PageID, url.QueryEscape(s.creds.AccessToken))

	body, err := s.doGet(ctx, endpoint)
	if err != nil {
		slog.Info(err.Error())
		return &transfer.CredentialCheck{
			Valid: false,
			Error: fmt.Sprintf("API validation failed: %v", err),
		}
	}

	var pageInfo struct {
		Name           string `json:"name"`
		Category       string `json:"category"`
		FollowersCount int64  `json:"followers_count"`
	}
	if err := json.Unmarshal(body, &pageInfo); err != nil {
		slog.Info(err.Error())
		return &transfer.CredentialCheck{
			Valid: false,
			Error: fmt.Sprintf("error parsing response: %v", err),
		}
	}

	return &transfer.CredentialCheck{
		Valid:        true,
		PageName:     pageInfo.Name,
		PageCategory: pageInfo.Category,
		Followers:    pageInfo.FollowersCount,
	}
}

func (s *FacebookService) PageInsights(ctx context.Context) *transfer.InsightsResult {
	if !s.IsConfigured() {
		return &transfer.InsightsResult{Error: "facebook account not configured"}
	}

	endpoint := fmt.Sprintf("%s/%s/insights?metric=page_impressions,page_engaged_users,page_posts_impressions&access_token=%s",
		s.baseURL, s.creds.PageID, url.QueryEscape(s.creds.AccessToken))

	body, err := s.doGet(ctx, endpoint)
	if err != nil {
		slog.Info(err.Error())
		return &transfer.InsightsResult{Error: fmt.Sprintf("facebook API error: %v", err)}
	}

	var result struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Info(err.Error())
		return &transfer.InsightsResult{Error: fmt.Sprintf("error parsing response: %v", err)}
	}

	return &transfer.InsightsResult{
		Success:  true,
		Insights: result.Data,
	}
}

func (s *FacebookService) missingCredentials() []string {
	var missing []string
	if s.creds.AccessToken == "" {
		missing = append(missing, "access_token")
	}
	if s.creds.PageID == "" {
		missing = append(missing, "page_id")
	}
	if s.creds.UserID == "" {
		missing = append(missing, "user_id")
	}
	if s.creds.AppID == "" {
		missing = append(missing, "app_id")
	}
	if s.creds.AppSecret == "" {
		missing = append(missing, "app_secret")
	}
	return missing
}

func (s *FacebookService) doForm(ctx context.Context, method, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return s.do(req)
}

func (s *FacebookService) doGet(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	return s.do(req)
}

func (s *FacebookService) do(req *http.Request) ([]byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, body)
	}

	return body, nil
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	config "github.com/autosell-mx/reposting-api/configs"
	"github.com/autosell-mx/reposting-api/internal/models"
	"github.com/autosell-mx/reposting-api/internal/repository"
	"github.com/autosell-mx/reposting-api/internal/transfer"
	"github.com/autosell-mx/reposting-api/pkg/utils"
)

type AccountService interface {
	Create(ctx context.Context, ac *transfer.AccountCreation) (*transfer.AccountInfo, error)
	Update(ctx context.Context, id int64, ac *transfer.AccountCreation) (*transfer.AccountInfo, error)
	Get(ctx context.Context, id int64) (*transfer.AccountInfo, error)
	Status(ctx context.Context) (*transfer.MultiAccountStatus, error)
	ValidateCredentials(ctx context.Context, id int64) (*transfer.CredentialCheck, error)
}

type accountService struct {
	cfg          config.Config
	fa           repository.FacebookAccountRepository
	newPublisher PublisherFactory
}

func NewAccountService(cfg config.Config, fa repository.FacebookAccountRepository, newPublisher PublisherFactory) AccountService {
	return &accountService{cfg: cfg, fa: fa, newPublisher: newPublisher}
}

func (s *accountService) Create(ctx context.Context, ac *transfer.AccountCreation) (*transfer.AccountInfo, error) {
	account, err := s.accountFromCreation(ac)
	if err != nil {
		return nil, err
	}
	account.IsActive = true

	id, err := s.fa.Create(ctx, nil, account)
	if err != nil {
		return nil, err
	}
	account.ID = id

	return accountInfo(account), nil
}

func (s *accountService) Update(ctx context.Context, id int64, ac *transfer.AccountCreation) (*transfer.AccountInfo, error) {
	existing, err := s.fa.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	account, err := s.accountFromCreation(ac)
	if err != nil {
		return nil, err
	}
	account.ID = existing.ID
	account.IsActive = existing.IsActive

	if err := s.fa.Update(ctx, account); err != nil {
		return nil, err
	}

	return accountInfo(account), nil
}

func (s *accountService) Get(ctx context.Context, id int64) (*transfer.AccountInfo, error) {
	account, err := s.fa.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	return accountInfo(account), nil
}

func (s *accountService) Status(ctx context.Context) (*transfer.MultiAccountStatus, error) {
	accounts, err := s.fa.List(ctx)
	if err != nil {
		return nil, err
	}

	status := &transfer.MultiAccountStatus{
		Accounts:      make([]transfer.AccountInfo, 0, len(accounts)),
		TotalAccounts: len(accounts),
	}

	for _, a := range accounts {
		if a.IsManual() {
			status.ManualAccounts++
		}
		if a.IsAuto() {
			status.AutoAccounts++
		}
		if a.IsActive {
			status.ActiveAccounts++
		}
		if a.IsConfigured() {
			status.ConfiguredAccounts++
		}
		status.Accounts = append(status.Accounts, *accountInfo(a))
	}

	return status, nil
}

// ValidateCredentials probes the account's page with a lightweight
// read. Diagnostics come back in the result, never as an error.
func (s *accountService) ValidateCredentials(ctx context.Context, id int64) (*transfer.CredentialCheck, error) {
	account, err := s.fa.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	publisher := s.newPublisher(account)
	return publisher.ValidateCredentials(ctx), nil
}

func (s *accountService) accountFromCreation(ac *transfer.AccountCreation) (*models.FacebookAccount, error) {
	if ac.Name == "" {
		err := errors.New("account name cannot be empty")
		slog.Info(err.Error())
		return nil, err
	}
	if ac.AccountType != models.AccountTypeManual && ac.AccountType != models.AccountTypeAuto {
		err := fmt.Errorf("invalid account type: %s", ac.AccountType)
		slog.Info(err.Error())
		return nil, err
	}
	var automationConfig json.RawMessage
	if len(ac.AutomationConfig) > 0 && string(ac.AutomationConfig) != "null" {
		cfg, err := DecodeAutomationConfig(ac.AutomationConfig)
		if err != nil {
			err = fmt.Errorf("invalid automation_config: %w", err)
			slog.Info(err.Error())
			return nil, err
		}
		if err := ValidateAutomationConfig(cfg); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		automationConfig = ac.AutomationConfig
	}
	if ac.AccountType == models.AccountTypeAuto && automationConfig == nil {
		err := errors.New("auto accounts require an automation configuration")
		slog.Info(err.Error())
		return nil, err
	}

	account := &models.FacebookAccount{
		Name:             ac.Name,
		AccountType:      ac.AccountType,
		PageID:           ac.PageID,
		UserID:           ac.UserID,
		AppID:            ac.AppID,
		AutomationConfig: automationConfig,
	}

	if ac.AccessToken != "" {
		encrypted, err := utils.Encrypt([]byte(ac.AccessToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return nil, err
		}
		account.AccessToken = encrypted
	}
	if ac.AppSecret != "" {
		encrypted, err := utils.Encrypt([]byte(ac.AppSecret), []byte(s.cfg.SecretKey))
		if err != nil {
			return nil, err
		}
		account.AppSecret = encrypted
	}

	return account, nil
}

func accountInfo(a *models.FacebookAccount) *transfer.AccountInfo {
	return &transfer.AccountInfo{
		ID:               a.ID,
		Name:             a.Name,
		AccountType:      a.AccountType,
		IsActive:         a.IsActive,
		IsConfigured:     a.IsConfigured(),
		AutomationConfig: ParseAutomationConfig(a.AutomationConfig),
	}
}

// ValidateAutomationConfig rejects malformed automation settings at
// write time instead of letting defaults paper over them later.
func ValidateAutomationConfig(cfg *transfer.AutomationConfig) error {
	if _, err := time.Parse("15:04", cfg.Schedule.Time); err != nil {
		return fmt.Errorf("invalid schedule time %q: expected HH:MM", cfg.Schedule.Time)
	}
	for _, day := range cfg.Schedule.Days {
		if day < 0 || day > 6 {
			return fmt.Errorf("invalid schedule day %d: must be in 0..6", day)
		}
	}
	if cfg.Schedule.MaxPostsPerDay < 0 {
		return fmt.Errorf("invalid max_posts_per_day %d: must be >= 0", cfg.Schedule.MaxPostsPerDay)
	}
	return nil
}

// DecodeAutomationConfig strictly parses a raw automation config,
// rejecting unknown fields.
func DecodeAutomationConfig(raw json.RawMessage) (*transfer.AutomationConfig, error) {
	var cfg transfer.AutomationConfig
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseAutomationConfig reads a stored automation config, applying the
// documented defaults for absent values.
func ParseAutomationConfig(raw json.RawMessage) transfer.AutomationConfig {
	cfg := transfer.AutomationConfig{
		Schedule: transfer.AutomationSchedule{
			Time:           "09:00",
			Days:           []int{1, 2, 3, 4, 5},
			MaxPostsPerDay: 3,
		},
	}

	if len(raw) == 0 {
		return cfg
	}

	var stored transfer.AutomationConfig
	if err := json.Unmarshal(raw, &stored); err != nil {
		slog.Info(err.Error())
		return cfg
	}

	cfg.AutoPosting = stored.AutoPosting
	if stored.Schedule.Time != "" {
		cfg.Schedule.Time = stored.Schedule.Time
	}
	if stored.Schedule.Days != nil {
		cfg.Schedule.Days = stored.Schedule.Days
	}
	if stored.Schedule.MaxPostsPerDay != 0 {
		cfg.Schedule.MaxPostsPerDay = stored.Schedule.MaxPostsPerDay
	}
	return cfg
}

// CredentialsFor decrypts an account's stored credentials for use by a
// Publisher. Undecryptable values are treated as absent.
func CredentialsFor(a *models.FacebookAccount, secretKey string) transfer.FacebookCredentials {
	creds := transfer.FacebookCredentials{
		PageID: a.PageID,
		UserID: a.UserID,
		AppID:  a.AppID,
	}

	if a.AccessToken != "" {
		token, err := utils.Decrypt(a.AccessToken, []byte(secretKey))
		if err == nil {
			creds.AccessToken = token
		}
	}
	if a.AppSecret != "" {
		secret, err := utils.Decrypt(a.AppSecret, []byte(secretKey))
		if err == nil {
			creds.AppSecret = secret
		}
	}

	return creds
}

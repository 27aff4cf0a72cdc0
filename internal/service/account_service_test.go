package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/autosell-mx/reposting-api/configs"
	"github.com/autosell-mx/reposting-api/internal/models"
	"github.com/autosell-mx/reposting-api/internal/transfer"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

func newTestAccountService(fa *fakeAccountRepo) AccountService {
	cfg := config.Config{SecretKey: testSecretKey}
	return NewAccountService(cfg, fa, func(account *models.FacebookAccount) Publisher {
		return &fakePublisher{}
	})
}

func TestCreateAccountValidation(t *testing.T) {
	s := newTestAccountService(&fakeAccountRepo{})

	tests := []struct {
		name     string
		creation transfer.AccountCreation
	}{
		{"empty name", transfer.AccountCreation{AccountType: models.AccountTypeManual}},
		{"bad type", transfer.AccountCreation{Name: "Cuenta", AccountType: "hybrid"}},
		{"auto without config", transfer.AccountCreation{Name: "Cuenta", AccountType: models.AccountTypeAuto}},
		{"auto with bad time", transfer.AccountCreation{
			Name:             "Cuenta",
			AccountType:      models.AccountTypeAuto,
			AutomationConfig: json.RawMessage(`{"schedule":{"time":"9am","days":[1]}}`),
		}},
		{"auto with bad day", transfer.AccountCreation{
			Name:             "Cuenta",
			AccountType:      models.AccountTypeAuto,
			AutomationConfig: json.RawMessage(`{"schedule":{"time":"09:00","days":[8]}}`),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), &tt.creation)
			assert.Error(t, err)
		})
	}
}

func TestCreateManualAccountEncryptsCredentials(t *testing.T) {
	fa := &fakeAccountRepo{}
	s := newTestAccountService(fa)

	info, err := s.Create(context.Background(), &transfer.AccountCreation{
		Name:        "Cuenta Principal",
		AccountType: models.AccountTypeManual,
		AccessToken: "raw-token",
		AppSecret:   "raw-secret",
		PageID:      "12345",
		UserID:      "67890",
	})
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, "Cuenta Principal", info.Name)
	assert.True(t, info.IsActive)
	assert.True(t, info.IsConfigured)

	require.NotNil(t, fa.created)
	assert.NotEqual(t, "raw-token", fa.created.AccessToken)
	assert.NotEqual(t, "raw-secret", fa.created.AppSecret)

	creds := CredentialsFor(fa.created, testSecretKey)
	assert.Equal(t, "raw-token", creds.AccessToken)
	assert.Equal(t, "raw-secret", creds.AppSecret)
	assert.Equal(t, "12345", creds.PageID)
}

func TestCreateAutoAccountKeepsConfig(t *testing.T) {
	fa := &fakeAccountRepo{}
	s := newTestAccountService(fa)

	info, err := s.Create(context.Background(), &transfer.AccountCreation{
		Name:        "Cuenta Auto",
		AccountType: models.AccountTypeAuto,
		AccessToken: "token",
		PageID:      "12345",
		AutomationConfig: json.RawMessage(`{"auto_posting":true,"schedule":{"time":"10:30","days":[1,3,5],"max_posts_per_day":2}}`),
	})
	require.NoError(t, err)

	assert.True(t, info.AutomationConfig.AutoPosting)
	assert.Equal(t, "10:30", info.AutomationConfig.Schedule.Time)
	assert.Equal(t, []int{1, 3, 5}, info.AutomationConfig.Schedule.Days)
	assert.Equal(t, 2, info.AutomationConfig.Schedule.MaxPostsPerDay)
}

func TestCreateAccountRejectsUnknownConfigFields(t *testing.T) {
	fa := &fakeAccountRepo{}
	s := newTestAccountService(fa)

	_, err := s.Create(context.Background(), &transfer.AccountCreation{
		Name:             "Cuenta",
		AccountType:      models.AccountTypeAuto,
		AutomationConfig: json.RawMessage(`{"auto_posting":true,"frequency":"daily","schedule":{"time":"09:00","days":[1]}}`),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "frequency")
	assert.Nil(t, fa.created)
}

func TestGetAccountMissing(t *testing.T) {
	s := newTestAccountService(&fakeAccountRepo{})

	info, err := s.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestAccountsStatusCounts(t *testing.T) {
	manual := &models.FacebookAccount{ID: 1, Name: "Manual", AccountType: models.AccountTypeManual, IsActive: true}
	auto := autoAccount(2)
	inactive := &models.FacebookAccount{ID: 3, Name: "Apagada", AccountType: models.AccountTypeAuto}

	s := newTestAccountService(&fakeAccountRepo{accounts: []*models.FacebookAccount{manual, auto, inactive}})

	status, err := s.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, status.TotalAccounts)
	assert.Equal(t, 1, status.ManualAccounts)
	assert.Equal(t, 2, status.AutoAccounts)
	assert.Equal(t, 2, status.ActiveAccounts)
	assert.Equal(t, 1, status.ConfiguredAccounts)
	assert.Len(t, status.Accounts, 3)
}

func TestParseAutomationConfigDefaults(t *testing.T) {
	cfg := ParseAutomationConfig(nil)

	assert.Equal(t, "09:00", cfg.Schedule.Time)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, cfg.Schedule.Days)
	assert.Equal(t, 3, cfg.Schedule.MaxPostsPerDay)
	assert.False(t, cfg.AutoPosting)
}

func TestParseAutomationConfigPartialOverride(t *testing.T) {
	cfg := ParseAutomationConfig([]byte(`{"auto_posting":true,"schedule":{"time":"18:00"}}`))

	assert.True(t, cfg.AutoPosting)
	assert.Equal(t, "18:00", cfg.Schedule.Time)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, cfg.Schedule.Days)
	assert.Equal(t, 3, cfg.Schedule.MaxPostsPerDay)
}

func TestDecodeAutomationConfigRejectsUnknownFields(t *testing.T) {
	_, err := DecodeAutomationConfig([]byte(`{"auto_posting":true,"frequency":"daily"}`))
	assert.Error(t, err)
}

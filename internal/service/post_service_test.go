package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autosell-mx/reposting-api/internal/models"
	"github.com/autosell-mx/reposting-api/internal/transfer"
)

func newTestPostService(sp *fakeSocialPostRepo, vr *fakeVehicleRepo, fa *fakeAccountRepo, pub *fakePublisher) PostService {
	return NewPostService(sp, vr, fa, func(account *models.FacebookAccount) Publisher {
		pub.accountID = account.ID
		return pub
	})
}

func TestManualPost(t *testing.T) {
	sp := &fakeSocialPostRepo{}
	vr := &fakeVehicleRepo{vehicles: []*models.Vehicle{sampleVehicle()}}
	fa := &fakeAccountRepo{accounts: []*models.FacebookAccount{autoAccount(1)}}
	pub := &fakePublisher{}
	s := newTestPostService(sp, vr, fa, pub)

	info, err := s.ManualPost(context.Background(), 1, &transfer.PostCreation{
		VehicleID: 1,
		Message:   "oferta especial",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusPosted, info.Status)
	assert.Equal(t, "post_1", info.ExternalPostID)
	require.NotNil(t, info.AccountID)
	assert.Equal(t, int64(1), *info.AccountID)
	require.Len(t, sp.created, 1)
	assert.Equal(t, "oferta especial", sp.created[0].Message)
}

func TestManualPostAccountMissing(t *testing.T) {
	s := newTestPostService(&fakeSocialPostRepo{}, &fakeVehicleRepo{}, &fakeAccountRepo{}, &fakePublisher{})

	_, err := s.ManualPost(context.Background(), 42, &transfer.PostCreation{VehicleID: 1})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestManualPostAccountNotConfigured(t *testing.T) {
	account := &models.FacebookAccount{ID: 1, Name: "Sin credenciales", AccountType: models.AccountTypeManual, IsActive: true}
	s := newTestPostService(&fakeSocialPostRepo{}, &fakeVehicleRepo{}, &fakeAccountRepo{accounts: []*models.FacebookAccount{account}}, &fakePublisher{})

	_, err := s.ManualPost(context.Background(), 1, &transfer.PostCreation{VehicleID: 1})
	assert.ErrorIs(t, err, ErrAccountNotConfigured)
}

func TestManualPostVehicleMissing(t *testing.T) {
	fa := &fakeAccountRepo{accounts: []*models.FacebookAccount{autoAccount(1)}}
	s := newTestPostService(&fakeSocialPostRepo{}, &fakeVehicleRepo{}, fa, &fakePublisher{})

	_, err := s.ManualPost(context.Background(), 1, &transfer.PostCreation{VehicleID: 99})
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestManualPostPublishFailureLeavesLedgerAlone(t *testing.T) {
	sp := &fakeSocialPostRepo{}
	vr := &fakeVehicleRepo{vehicles: []*models.Vehicle{sampleVehicle()}}
	fa := &fakeAccountRepo{accounts: []*models.FacebookAccount{autoAccount(1)}}
	pub := &fakePublisher{failVehicles: map[int64]bool{1: true}}
	s := newTestPostService(sp, vr, fa, pub)

	_, err := s.ManualPost(context.Background(), 1, &transfer.PostCreation{VehicleID: 1})

	assert.Error(t, err)
	assert.Empty(t, sp.created)
}

func TestTestPostRecordsWithoutPublishing(t *testing.T) {
	sp := &fakeSocialPostRepo{}
	vr := &fakeVehicleRepo{vehicles: []*models.Vehicle{sampleVehicle()}}
	pub := &fakePublisher{}
	s := newTestPostService(sp, vr, &fakeAccountRepo{}, pub)

	info, err := s.TestPost(context.Background(), &transfer.PostCreation{Message: "prueba"})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusTest, info.Status)
	assert.Contains(t, info.ExternalPostID, "test_")
	assert.Empty(t, pub.published)
	require.Len(t, sp.created, 1)
}

func TestDeletePostAttemptsExternalDelete(t *testing.T) {
	posted := &models.SocialPost{
		ID:             3,
		VehicleID:      1,
		AccountID:      sql.NullInt64{Int64: 1, Valid: true},
		Platform:       models.PlatformFacebook,
		Status:         models.PostStatusPosted,
		ExternalPostID: "12345_67890",
		PostedAt:       sql.NullTime{Time: time.Now(), Valid: true},
	}
	sp := &fakeSocialPostRepo{post: posted}
	fa := &fakeAccountRepo{accounts: []*models.FacebookAccount{autoAccount(1)}}
	s := newTestPostService(sp, &fakeVehicleRepo{}, fa, &fakePublisher{})

	err := s.Delete(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, []int64{3}, sp.deleted)
}

func TestDeletePostMissing(t *testing.T) {
	s := newTestPostService(&fakeSocialPostRepo{}, &fakeVehicleRepo{}, &fakeAccountRepo{}, &fakePublisher{})

	err := s.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autosell-mx/reposting-api/internal/models"
	"github.com/autosell-mx/reposting-api/internal/transfer"
)

type fakeWorkflowRepo struct {
	workflow *models.AutomationWorkflow
}

func (r *fakeWorkflowRepo) GetByType(ctx context.Context, workflowType string) (*models.AutomationWorkflow, bool, error) {
	if r.workflow == nil {
		return nil, false, nil
	}
	return r.workflow, true, nil
}

func (r *fakeWorkflowRepo) Upsert(ctx context.Context, w *models.AutomationWorkflow) (int64, error) {
	r.workflow = w
	return 1, nil
}

type fakeSocialPostRepo struct {
	createdToday   int
	postedRecently map[int64]int
	created        []*models.SocialPost
	lastPosted     *time.Time
	totalPosts     int
	post           *models.SocialPost
	deleted        []int64
}

func (r *fakeSocialPostRepo) Create(ctx context.Context, tx *sql.Tx, p *models.SocialPost) (int64, error) {
	r.created = append(r.created, p)
	return int64(len(r.created)), nil
}

func (r *fakeSocialPostRepo) GetByID(ctx context.Context, id int64) (*models.SocialPost, error) {
	if r.post != nil && r.post.ID == id {
		return r.post, nil
	}
	return nil, nil
}

func (r *fakeSocialPostRepo) ListByPlatform(ctx context.Context, platform string, accountID int64, limit, offset int) ([]*models.SocialPost, error) {
	return nil, nil
}

func (r *fakeSocialPostRepo) ListPostedSince(ctx context.Context, platform string, since time.Time, limit int) ([]*models.SocialPost, error) {
	return nil, nil
}

func (r *fakeSocialPostRepo) CountPostedForVehicleSince(ctx context.Context, vehicleID int64, platform string, since time.Time) (int, error) {
	return r.postedRecently[vehicleID], nil
}

func (r *fakeSocialPostRepo) CountCreatedSince(ctx context.Context, platform string, since time.Time) (int, error) {
	return r.createdToday, nil
}

func (r *fakeSocialPostRepo) CountByPlatform(ctx context.Context, platform string) (int, error) {
	return r.totalPosts, nil
}

func (r *fakeSocialPostRepo) LastPostedAt(ctx context.Context, platform string) (*time.Time, error) {
	return r.lastPosted, nil
}

func (r *fakeSocialPostRepo) MarkDeleted(ctx context.Context, id int64, removedAt time.Time) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeSocialPostRepo) UpdateEngagement(ctx context.Context, id int64, metrics json.RawMessage) error {
	return nil
}

type fakeVehicleRepo struct {
	vehicles []*models.Vehicle
}

func (r *fakeVehicleRepo) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	for _, v := range r.vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (r *fakeVehicleRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.Vehicle, error) {
	return r.vehicles, nil
}

func (r *fakeVehicleRepo) ListByStatuses(ctx context.Context, statuses []string) ([]*models.Vehicle, error) {
	return r.vehicles, nil
}

func (r *fakeVehicleRepo) CountByStatuses(ctx context.Context, statuses []string) (int, error) {
	return len(r.vehicles), nil
}

func (r *fakeVehicleRepo) MarkSold(ctx context.Context, id int64) error {
	return nil
}

type fakeAccountRepo struct {
	accounts []*models.FacebookAccount
	created  *models.FacebookAccount
}

func (r *fakeAccountRepo) Create(ctx context.Context, tx *sql.Tx, a *models.FacebookAccount) (int64, error) {
	r.created = a
	return 1, nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.FacebookAccount, error) {
	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) List(ctx context.Context) ([]*models.FacebookAccount, error) {
	return r.accounts, nil
}

func (r *fakeAccountRepo) ListAutoActive(ctx context.Context) ([]*models.FacebookAccount, error) {
	return r.accounts, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, a *models.FacebookAccount) error {
	return nil
}

type fakePublisher struct {
	failVehicles map[int64]bool
	published    []int64
	listed       []int64
	byAccount    map[int64]int
	accountID    int64
}

func (p *fakePublisher) IsConfigured() bool { return true }

func (p *fakePublisher) PublishPost(ctx context.Context, v *models.Vehicle, message string) *transfer.PublishResult {
	if p.failVehicles[v.ID] {
		return &transfer.PublishResult{Error: "facebook API error: rate limited"}
	}
	p.published = append(p.published, v.ID)
	if p.byAccount != nil {
		p.byAccount[p.accountID]++
	}
	return &transfer.PublishResult{Success: true, PostID: "post_1"}
}

func (p *fakePublisher) PublishListing(ctx context.Context, v *models.Vehicle, message string) *transfer.ListingResult {
	p.listed = append(p.listed, v.ID)
	return &transfer.ListingResult{Success: true, ListingID: "listing_1"}
}

func (p *fakePublisher) DeletePost(ctx context.Context, externalPostID string) *transfer.DeleteResult {
	return &transfer.DeleteResult{Success: true}
}

func (p *fakePublisher) ValidateCredentials(ctx context.Context) *transfer.CredentialCheck {
	return &transfer.CredentialCheck{Valid: true}
}

func (p *fakePublisher) PageInsights(ctx context.Context) *transfer.InsightsResult {
	return &transfer.InsightsResult{Success: true}
}

func autoAccount(id int64) *models.FacebookAccount {
	return &models.FacebookAccount{
		ID:          id,
		Name:        "Cuenta Auto",
		AccountType: models.AccountTypeAuto,
		AccessToken: "token",
		PageID:      "12345",
		IsActive:    true,
	}
}

func newTestAutomation(db *sql.DB, wf *fakeWorkflowRepo, sp *fakeSocialPostRepo, vr *fakeVehicleRepo, fa *fakeAccountRepo, pub *fakePublisher) *automationService {
	return &automationService{
		db: db,
		wf: wf,
		sp: sp,
		vr: vr,
		fa: fa,
		newPublisher: func(account *models.FacebookAccount) Publisher {
			pub.accountID = account.ID
			return pub
		},
		tickEvery: time.Hour,
		lookback:  24 * time.Hour,
		now:       time.Now,
	}
}

func TestStartStopIdempotent(t *testing.T) {
	s := newTestAutomation(nil, &fakeWorkflowRepo{}, &fakeSocialPostRepo{}, &fakeVehicleRepo{}, &fakeAccountRepo{}, &fakePublisher{})

	assert.False(t, s.IsRunning())

	s.Start()
	s.Start()
	assert.True(t, s.IsRunning())

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestShouldPostNow(t *testing.T) {
	// 2025-06-02 is a Monday
	monday := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	schedule := &transfer.RepostingSchedule{
		IsActive:       true,
		TimeOfDay:      "09:00",
		DaysOfWeek:     []int{1, 2, 3, 4, 5},
		MaxPostsPerDay: 3,
	}

	tests := []struct {
		name         string
		now          time.Time
		createdToday int
		inactive     bool
		expected     bool
	}{
		{"monday at nine", monday, 0, false, true},
		{"one minute past", monday.Add(time.Minute), 0, false, false},
		{"sunday excluded", monday.AddDate(0, 0, -1), 0, false, false},
		{"cap reached", monday, 3, false, false},
		{"under cap", monday, 2, false, true},
		{"schedule inactive", monday, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := &fakeSocialPostRepo{createdToday: tt.createdToday}
			s := newTestAutomation(nil, &fakeWorkflowRepo{}, sp, &fakeVehicleRepo{}, &fakeAccountRepo{}, &fakePublisher{})
			s.now = func() time.Time { return tt.now }

			sched := *schedule
			sched.IsActive = !tt.inactive

			got, err := s.shouldPostNow(context.Background(), &sched)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExecuteDailyRepostingPartialFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	vehicles := []*models.Vehicle{
		{ID: 1, Brand: "Toyota", Model: "Corolla", Year: 2020, Status: models.VehicleStatusAvailable},
		{ID: 2, Brand: "Honda", Model: "Civic", Year: 2021, Status: models.VehicleStatusAvailable},
		{ID: 3, Brand: "Mazda", Model: "3", Year: 2019, Status: models.VehicleStatusAvailable},
	}

	sp := &fakeSocialPostRepo{postedRecently: map[int64]int{}}
	pub := &fakePublisher{failVehicles: map[int64]bool{2: true}}
	s := newTestAutomation(db, &fakeWorkflowRepo{}, sp, &fakeVehicleRepo{vehicles: vehicles}, &fakeAccountRepo{accounts: []*models.FacebookAccount{autoAccount(1)}}, pub)

	schedule := &transfer.RepostingSchedule{
		IsActive:       true,
		TimeOfDay:      "09:00",
		DaysOfWeek:     []int{1},
		MaxPostsPerDay: 5,
	}

	err = s.executeDailyReposting(context.Background(), schedule)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 3}, pub.published)
	require.Len(t, sp.created, 2)
	assert.Equal(t, models.PostStatusPosted, sp.created[0].Status)
	assert.Equal(t, int64(1), sp.created[0].AccountID.Int64)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteDailyRepostingHonorsCap(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	var vehicles []*models.Vehicle
	for i := int64(1); i <= 5; i++ {
		vehicles = append(vehicles, &models.Vehicle{ID: i, Brand: "Toyota", Model: "Corolla", Year: 2020})
	}

	sp := &fakeSocialPostRepo{postedRecently: map[int64]int{}}
	pub := &fakePublisher{}
	s := newTestAutomation(db, &fakeWorkflowRepo{}, sp, &fakeVehicleRepo{vehicles: vehicles}, &fakeAccountRepo{accounts: []*models.FacebookAccount{autoAccount(1)}}, pub)

	schedule := &transfer.RepostingSchedule{
		IsActive:       true,
		MaxPostsPerDay: 2,
	}

	require.NoError(t, s.executeDailyReposting(context.Background(), schedule))
	assert.Equal(t, []int64{1, 2}, pub.published)
}

func TestExecuteDailyRepostingRoundRobin(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	var vehicles []*models.Vehicle
	for i := int64(1); i <= 4; i++ {
		vehicles = append(vehicles, &models.Vehicle{ID: i, Brand: "Toyota", Model: "Corolla", Year: 2020})
	}

	sp := &fakeSocialPostRepo{postedRecently: map[int64]int{}}
	pub := &fakePublisher{byAccount: map[int64]int{}}
	accounts := []*models.FacebookAccount{autoAccount(1), autoAccount(2)}
	s := newTestAutomation(db, &fakeWorkflowRepo{}, sp, &fakeVehicleRepo{vehicles: vehicles}, &fakeAccountRepo{accounts: accounts}, pub)

	schedule := &transfer.RepostingSchedule{IsActive: true, MaxPostsPerDay: 4}

	require.NoError(t, s.executeDailyReposting(context.Background(), schedule))
	assert.Equal(t, 2, pub.byAccount[1])
	assert.Equal(t, 2, pub.byAccount[2])
}

func TestExecuteDailyRepostingMarketplaceToggle(t *testing.T) {
	run := func(t *testing.T, includeMarketplace *bool) *fakePublisher {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		vehicles := []*models.Vehicle{{ID: 1, Brand: "Toyota", Model: "Corolla", Year: 2020}}
		sp := &fakeSocialPostRepo{postedRecently: map[int64]int{}}
		pub := &fakePublisher{}
		s := newTestAutomation(db, &fakeWorkflowRepo{}, sp, &fakeVehicleRepo{vehicles: vehicles}, &fakeAccountRepo{accounts: []*models.FacebookAccount{autoAccount(1)}}, pub)

		schedule := &transfer.RepostingSchedule{
			IsActive:           true,
			MaxPostsPerDay:     5,
			IncludeMarketplace: includeMarketplace,
		}
		require.NoError(t, s.executeDailyReposting(context.Background(), schedule))
		return pub
	}

	t.Run("unset defaults to listing", func(t *testing.T) {
		pub := run(t, nil)
		assert.Equal(t, []int64{1}, pub.listed)
	})

	t.Run("explicit false skips listing", func(t *testing.T) {
		disabled := false
		pub := run(t, &disabled)
		assert.Empty(t, pub.listed)
	})
}

func TestExecuteDailyRepostingNoAccounts(t *testing.T) {
	vehicles := []*models.Vehicle{{ID: 1, Brand: "Toyota", Model: "Corolla", Year: 2020}}
	sp := &fakeSocialPostRepo{postedRecently: map[int64]int{}}
	s := newTestAutomation(nil, &fakeWorkflowRepo{}, sp, &fakeVehicleRepo{vehicles: vehicles}, &fakeAccountRepo{}, &fakePublisher{})

	schedule := &transfer.RepostingSchedule{IsActive: true, MaxPostsPerDay: 5}

	err := s.executeDailyReposting(context.Background(), schedule)
	assert.Error(t, err)
}

func TestVehiclesForRepostingSkipsRecentlyPosted(t *testing.T) {
	vehicles := []*models.Vehicle{
		{ID: 1, Brand: "Toyota", Model: "Corolla", Year: 2020},
		{ID: 2, Brand: "Honda", Model: "Civic", Year: 2021},
	}
	sp := &fakeSocialPostRepo{postedRecently: map[int64]int{1: 1}}
	s := newTestAutomation(nil, &fakeWorkflowRepo{}, sp, &fakeVehicleRepo{vehicles: vehicles}, &fakeAccountRepo{}, &fakePublisher{})

	candidates, err := s.vehiclesForReposting(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, int64(2), candidates[0].ID)
}

func TestScheduleAppliesDefaultsAndPersists(t *testing.T) {
	wf := &fakeWorkflowRepo{}
	s := newTestAutomation(nil, wf, &fakeSocialPostRepo{}, &fakeVehicleRepo{}, &fakeAccountRepo{}, &fakePublisher{})
	defer s.Stop()

	err := s.Schedule(context.Background(), &transfer.RepostingSchedule{IsActive: true})
	require.NoError(t, err)

	require.NotNil(t, wf.workflow)
	assert.True(t, wf.workflow.IsActive)
	assert.Equal(t, models.WorkflowTypeFacebookReposting, wf.workflow.WorkflowType)

	var saved transfer.RepostingSchedule
	require.NoError(t, json.Unmarshal(wf.workflow.Config, &saved))
	assert.Equal(t, "09:00", saved.TimeOfDay)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, saved.DaysOfWeek)
	assert.Equal(t, 5, saved.MaxPostsPerDay)
	require.NotNil(t, saved.IncludeMarketplace)
	assert.True(t, *saved.IncludeMarketplace)

	assert.True(t, s.IsRunning())
}

func TestScheduleRejectsInvalidConfig(t *testing.T) {
	wf := &fakeWorkflowRepo{}
	s := newTestAutomation(nil, wf, &fakeSocialPostRepo{}, &fakeVehicleRepo{}, &fakeAccountRepo{}, &fakePublisher{})

	tests := []struct {
		name     string
		schedule transfer.RepostingSchedule
	}{
		{"bad time", transfer.RepostingSchedule{TimeOfDay: "25:00", DaysOfWeek: []int{1}}},
		{"bad day", transfer.RepostingSchedule{TimeOfDay: "09:00", DaysOfWeek: []int{7}}},
		{"negative day", transfer.RepostingSchedule{TimeOfDay: "09:00", DaysOfWeek: []int{-1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Schedule(context.Background(), &tt.schedule)
			assert.Error(t, err)
			assert.Nil(t, wf.workflow)
		})
	}
}

func TestNextScheduledTime(t *testing.T) {
	// 2025-06-02 is a Monday
	monday := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		schedule transfer.RepostingSchedule
		expected time.Time
	}{
		{
			"later today",
			monday,
			transfer.RepostingSchedule{TimeOfDay: "09:00", DaysOfWeek: []int{1, 2, 3, 4, 5}},
			time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		},
		{
			"already passed today",
			monday.Add(2 * time.Hour),
			transfer.RepostingSchedule{TimeOfDay: "09:00", DaysOfWeek: []int{1, 2, 3, 4, 5}},
			time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC),
		},
		{
			"wraps to next week",
			monday,
			transfer.RepostingSchedule{TimeOfDay: "07:00", DaysOfWeek: []int{1}},
			time.Date(2025, 6, 9, 7, 0, 0, 0, time.UTC),
		},
		{
			"empty days treated as daily",
			monday,
			transfer.RepostingSchedule{TimeOfDay: "07:00", DaysOfWeek: []int{}},
			time.Date(2025, 6, 3, 7, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nextScheduledTime(&tt.schedule, tt.now))
		})
	}
}

func TestParseRepostingScheduleMarketplaceDefault(t *testing.T) {
	schedule, err := parseRepostingSchedule([]byte(`{"is_active":true,"time_of_day":"09:00","days_of_week":[1]}`))
	require.NoError(t, err)
	assert.True(t, schedule.Marketplace())

	schedule, err = parseRepostingSchedule([]byte(`{"is_active":true,"include_marketplace":false}`))
	require.NoError(t, err)
	assert.False(t, schedule.Marketplace())
}

func TestTickSkipsInactiveWorkflow(t *testing.T) {
	raw, err := json.Marshal(transfer.RepostingSchedule{IsActive: true, TimeOfDay: "09:00", DaysOfWeek: []int{1}})
	require.NoError(t, err)

	wf := &fakeWorkflowRepo{workflow: &models.AutomationWorkflow{
		WorkflowType: models.WorkflowTypeFacebookReposting,
		IsActive:     false,
		Config:       raw,
	}}
	pub := &fakePublisher{}
	s := newTestAutomation(nil, wf, &fakeSocialPostRepo{}, &fakeVehicleRepo{}, &fakeAccountRepo{}, pub)

	require.NoError(t, s.tick(context.Background()))
	assert.Empty(t, pub.published)
}

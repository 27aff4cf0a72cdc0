package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/autosell-mx/reposting-api/internal/models"
	"github.com/autosell-mx/reposting-api/internal/repository"
	"github.com/autosell-mx/reposting-api/internal/transfer"
)

const (
	workflowName      = "Facebook Daily Reposting"
	defaultTickEvery  = 15 * time.Minute
	defaultLookback   = 24 * time.Hour
	defaultDailyLimit = 5
)

// AutomationService runs the daily Facebook reposting loop and exposes
// its control surface.
type AutomationService interface {
	Status(ctx context.Context) (*transfer.RepostingStatus, error)
	Schedule(ctx context.Context, schedule *transfer.RepostingSchedule) error
	Start()
	Stop()
	IsRunning() bool
}

type automationService struct {
	db           *sql.DB
	wf           repository.AutomationWorkflowRepository
	sp           repository.SocialPostRepository
	vr           repository.VehicleRepository
	fa           repository.FacebookAccountRepository
	newPublisher PublisherFactory

	tickEvery time.Duration
	lookback  time.Duration
	now       func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

func NewAutomationService(
	db *sql.DB,
	wf repository.AutomationWorkflowRepository,
	sp repository.SocialPostRepository,
	vr repository.VehicleRepository,
	fa repository.FacebookAccountRepository,
	newPublisher PublisherFactory) AutomationService {
	return &automationService{
		db:           db,
		wf:           wf,
		sp:           sp,
		vr:           vr,
		fa:           fa,
		newPublisher: newPublisher,
		tickEvery:    defaultTickEvery,
		lookback:     defaultLookback,
		now:          time.Now,
	}
}

// Start transitions the loop to Running. Calling Start on a running
// loop is a no-op; only one background goroutine ever exists.
func (s *automationService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		log.Println("Facebook automation already running")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	log.Println("Starting Facebook automation service")
	go s.run(ctx)
}

// Stop transitions the loop to Stopped, interrupting the inter-tick
// wait immediately. Idempotent.
func (s *automationService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	log.Println("Stopping Facebook automation service")
	s.cancel()
	s.cancel = nil
	s.running = false
}

func (s *automationService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *automationService) run(ctx context.Context) {
	for {
		if err := s.tick(ctx); err != nil {
			slog.Error("automation tick failed", "error", err)
		}

		select {
		case <-ctx.Done():
			log.Println("Facebook scheduler cancelled")
			return
		case <-time.After(s.tickEvery):
		}
	}
}

// tick evaluates the schedule once and, when the window is open, runs
// the daily reposting procedure. Errors abort this tick only.
func (s *automationService) tick(ctx context.Context) error {
	workflow, exists, err := s.wf.GetByType(ctx, models.WorkflowTypeFacebookReposting)
	if err != nil {
		return err
	}
	if !exists || !workflow.IsActive {
		return nil
	}

	schedule, err := parseRepostingSchedule(workflow.Config)
	if err != nil {
		return err
	}

	shouldPost, err := s.shouldPostNow(ctx, schedule)
	if err != nil {
		return err
	}
	if !shouldPost {
		return nil
	}

	return s.executeDailyReposting(ctx, schedule)
}

// shouldPostNow reports whether the configured posting window is open
// at this exact minute. The time comparison is minute-granularity
// string equality against the configured time of day.
func (s *automationService) shouldPostNow(ctx context.Context, schedule *transfer.RepostingSchedule) (bool, error) {
	if !schedule.IsActive {
		return false, nil
	}

	now := s.now()

	if !containsDay(schedule.DaysOfWeek, int(now.Weekday())) {
		return false, nil
	}

	if now.Format("15:04") != schedule.TimeOfDay {
		return false, nil
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayPosts, err := s.sp.CountCreatedSince(ctx, models.PlatformFacebook, startOfDay)
	if err != nil {
		return false, err
	}

	return todayPosts < schedule.MaxPostsPerDay, nil
}

// executeDailyReposting publishes eligible vehicles up to the daily
// cap, recording each outcome. Ledger writes share one transaction per
// tick; per-vehicle publish failures are logged and skipped.
func (s *automationService) executeDailyReposting(ctx context.Context, schedule *transfer.RepostingSchedule) error {
	log.Println("Executing daily Facebook reposting")

	vehicles, err := s.vehiclesForReposting(ctx)
	if err != nil {
		return err
	}
	if len(vehicles) == 0 {
		log.Println("No vehicles need reposting today")
		return nil
	}

	accounts, err := s.eligibleAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return errors.New("no active configured auto accounts available for posting")
	}

	if len(vehicles) > schedule.MaxPostsPerDay {
		vehicles = vehicles[:schedule.MaxPostsPerDay]
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := s.now()
	posted := 0
	for i, vehicle := range vehicles {
		account := accounts[i%len(accounts)]
		publisher := s.newPublisher(account)

		message := GeneratePostContent(vehicle, "")
		result := publisher.PublishPost(ctx, vehicle, message)
		if !result.Success {
			slog.Error("failed to post vehicle",
				"vehicle_id", vehicle.ID, "account_id", account.ID, "error", result.Error)
			continue
		}

		post := &models.SocialPost{
			VehicleID:      vehicle.ID,
			AccountID:      sql.NullInt64{Int64: account.ID, Valid: true},
			Platform:       models.PlatformFacebook,
			Message:        message,
			Status:         models.PostStatusPosted,
			ExternalPostID: result.PostID,
			PostedAt:       sql.NullTime{Time: now, Valid: true},
		}
		if _, err := s.sp.Create(ctx, tx, post); err != nil {
			return err
		}

		if schedule.Marketplace() {
			listing := publisher.PublishListing(ctx, vehicle, message)
			if listing.Success {
				log.Printf("Posted vehicle %d to Marketplace", vehicle.ID)
			} else {
				slog.Error("failed to post marketplace listing",
					"vehicle_id", vehicle.ID, "error", listing.Error)
			}
		}

		posted++
		log.Printf("Successfully posted vehicle %d to Facebook", vehicle.ID)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("Daily reposting completed: %d vehicles posted", posted)
	return nil
}

// vehiclesForReposting selects listed vehicles with no posted record
// inside the lookback window, in creation order.
func (s *automationService) vehiclesForReposting(ctx context.Context) ([]*models.Vehicle, error) {
	vehicles, err := s.vr.ListByStatuses(ctx, models.ListedStatuses)
	if err != nil {
		return nil, err
	}

	since := s.now().Add(-s.lookback)

	var candidates []*models.Vehicle
	for _, v := range vehicles {
		recent, err := s.sp.CountPostedForVehicleSince(ctx, v.ID, models.PlatformFacebook, since)
		if err != nil {
			return nil, err
		}
		if recent == 0 {
			candidates = append(candidates, v)
		}
	}

	return candidates, nil
}

func (s *automationService) eligibleAccounts(ctx context.Context) ([]*models.FacebookAccount, error) {
	accounts, err := s.fa.ListAutoActive(ctx)
	if err != nil {
		return nil, err
	}

	var eligible []*models.FacebookAccount
	for _, a := range accounts {
		if a.IsConfigured() {
			eligible = append(eligible, a)
		}
	}
	return eligible, nil
}

func (s *automationService) Status(ctx context.Context) (*transfer.RepostingStatus, error) {
	now := s.now()

	lastPosted, err := s.sp.LastPostedAt(ctx, models.PlatformFacebook)
	if err != nil {
		return nil, err
	}
	totalPosts, err := s.sp.CountByPlatform(ctx, models.PlatformFacebook)
	if err != nil {
		return nil, err
	}
	postsLastWeek, err := s.sp.CountCreatedSince(ctx, models.PlatformFacebook, now.Add(-7*24*time.Hour))
	if err != nil {
		return nil, err
	}
	candidates, err := s.vehiclesForReposting(ctx)
	if err != nil {
		return nil, err
	}

	status := &transfer.RepostingStatus{
		LastPosted:     lastPosted,
		PostsLastWeek:  postsLastWeek,
		ActiveVehicles: len(candidates),
		TotalPosts:     totalPosts,
	}

	workflow, exists, err := s.wf.GetByType(ctx, models.WorkflowTypeFacebookReposting)
	if err != nil {
		return nil, err
	}
	if !exists {
		return status, nil
	}

	schedule, err := parseRepostingSchedule(workflow.Config)
	if err != nil {
		return nil, err
	}

	status.IsActive = workflow.IsActive && s.IsRunning()
	status.WorkflowName = workflow.Name
	if schedule.IsActive {
		next := nextScheduledTime(schedule, now)
		status.NextScheduled = &next
	}

	return status, nil
}

// Schedule validates and persists the reposting configuration, starting
// the loop when the configuration is active.
func (s *automationService) Schedule(ctx context.Context, schedule *transfer.RepostingSchedule) error {
	applyScheduleDefaults(schedule)
	if err := validateRepostingSchedule(schedule); err != nil {
		slog.Info(err.Error())
		return err
	}

	raw, err := json.Marshal(schedule)
	if err != nil {
		return err
	}

	workflow := &models.AutomationWorkflow{
		Name:         workflowName,
		WorkflowType: models.WorkflowTypeFacebookReposting,
		IsActive:     schedule.IsActive,
		Config:       raw,
	}
	if _, err := s.wf.Upsert(ctx, workflow); err != nil {
		return err
	}

	if schedule.IsActive {
		s.Start()
	}

	return nil
}

// nextScheduledTime projects the next posting slot from the configured
// weekday set and time of day. Informational only: the loop's actual
// next evaluation is simply its next tick.
func nextScheduledTime(schedule *transfer.RepostingSchedule, now time.Time) time.Time {
	hour, minute := 9, 0
	if t, err := time.Parse("15:04", schedule.TimeOfDay); err == nil {
		hour, minute = t.Hour(), t.Minute()
	}

	days := append([]int(nil), schedule.DaysOfWeek...)
	if len(days) == 0 {
		// Persisted configs bypass write-time validation.
		days = []int{0, 1, 2, 3, 4, 5, 6}
	}
	sort.Ints(days)
	today := int(now.Weekday())

	at := func(daysAhead int) time.Time {
		d := now.AddDate(0, 0, daysAhead)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, now.Location())
	}

	for _, day := range days {
		if day < today {
			continue
		}
		next := at(day - today)
		if next.After(now) {
			return next
		}
	}

	// Nothing left this week: wrap to the earliest configured day.
	return at(7 - today + days[0])
}

func applyScheduleDefaults(schedule *transfer.RepostingSchedule) {
	if schedule.TimeOfDay == "" {
		schedule.TimeOfDay = "09:00"
	}
	if schedule.DaysOfWeek == nil {
		schedule.DaysOfWeek = []int{0, 1, 2, 3, 4, 5, 6}
	}
	if schedule.MaxPostsPerDay == 0 {
		schedule.MaxPostsPerDay = defaultDailyLimit
	}
	if schedule.PostIntervalHours == 0 {
		schedule.PostIntervalHours = 4
	}
	if schedule.IncludeMarketplace == nil {
		enabled := true
		schedule.IncludeMarketplace = &enabled
	}
}

func validateRepostingSchedule(schedule *transfer.RepostingSchedule) error {
	if _, err := time.Parse("15:04", schedule.TimeOfDay); err != nil {
		return fmt.Errorf("invalid time_of_day %q: expected HH:MM", schedule.TimeOfDay)
	}
	if len(schedule.DaysOfWeek) == 0 {
		return errors.New("days_of_week cannot be empty")
	}
	for _, day := range schedule.DaysOfWeek {
		if day < 0 || day > 6 {
			return fmt.Errorf("invalid day_of_week %d: must be in 0..6", day)
		}
	}
	if schedule.MaxPostsPerDay < 0 {
		return fmt.Errorf("invalid max_posts_per_day %d: must be >= 0", schedule.MaxPostsPerDay)
	}
	return nil
}

func parseRepostingSchedule(raw json.RawMessage) (*transfer.RepostingSchedule, error) {
	var schedule transfer.RepostingSchedule
	if err := json.Unmarshal(raw, &schedule); err != nil {
		return nil, fmt.Errorf("malformed reposting schedule: %w", err)
	}
	applyScheduleDefaults(&schedule)
	return &schedule, nil
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

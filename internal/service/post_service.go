package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/autosell-mx/reposting-api/internal/models"
	"github.com/autosell-mx/reposting-api/internal/repository"
	"github.com/autosell-mx/reposting-api/internal/transfer"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountNotConfigured = errors.New("account not configured")
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrPostNotFound         = errors.New("post not found")
)

type PostService interface {
	ManualPost(ctx context.Context, accountID int64, pc *transfer.PostCreation) (*transfer.PostInfo, error)
	TestPost(ctx context.Context, pc *transfer.PostCreation) (*transfer.PostInfo, error)
	List(ctx context.Context, accountID int64, limit, offset int) ([]*transfer.PostInfo, error)
	Delete(ctx context.Context, postID int64) error
}

type postService struct {
	sp           repository.SocialPostRepository
	vr           repository.VehicleRepository
	fa           repository.FacebookAccountRepository
	newPublisher PublisherFactory
}

func NewPostService(
	sp repository.SocialPostRepository,
	vr repository.VehicleRepository,
	fa repository.FacebookAccountRepository,
	newPublisher PublisherFactory) PostService {
	return &postService{
		sp:           sp,
		vr:           vr,
		fa:           fa,
		newPublisher: newPublisher,
	}
}

// ManualPost publishes one vehicle through a specific account, outside
// the scheduler.
func (s *postService) ManualPost(ctx context.Context, accountID int64, pc *transfer.PostCreation) (*transfer.PostInfo, error) {
	account, err := s.fa.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if !account.IsConfigured() {
		return nil, ErrAccountNotConfigured
	}

	vehicle, err := s.vr.GetByID(ctx, pc.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	publisher := s.newPublisher(account)
	result := publisher.PublishPost(ctx, vehicle, pc.Message)
	if !result.Success {
		return nil, fmt.Errorf("facebook API error: %s", result.Error)
	}

	post := &models.SocialPost{
		VehicleID:      vehicle.ID,
		AccountID:      sql.NullInt64{Int64: account.ID, Valid: true},
		Platform:       models.PlatformFacebook,
		Message:        pc.Message,
		Status:         models.PostStatusPosted,
		ExternalPostID: result.PostID,
		PostedAt:       sql.NullTime{Time: time.Now(), Valid: true},
	}
	id, err := s.sp.Create(ctx, nil, post)
	if err != nil {
		return nil, err
	}
	post.ID = id

	return postInfo(post), nil
}

// TestPost records a simulated post against a sample vehicle without
// calling the platform.
func (s *postService) TestPost(ctx context.Context, pc *transfer.PostCreation) (*transfer.PostInfo, error) {
	vehicles, err := s.vr.ListByStatuses(ctx, []string{models.VehicleStatusAvailable})
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return nil, ErrVehicleNotFound
	}
	vehicle := vehicles[0]

	accountID := sql.NullInt64{}
	if pc.AccountID != 0 {
		accountID = sql.NullInt64{Int64: pc.AccountID, Valid: true}
	}

	post := &models.SocialPost{
		VehicleID:      vehicle.ID,
		AccountID:      accountID,
		Platform:       models.PlatformFacebook,
		Message:        pc.Message,
		Status:         models.PostStatusTest,
		ExternalPostID: fmt.Sprintf("test_%d", time.Now().Unix()),
		PostedAt:       sql.NullTime{Time: time.Now(), Valid: true},
	}
	id, err := s.sp.Create(ctx, nil, post)
	if err != nil {
		return nil, err
	}
	post.ID = id

	return postInfo(post), nil
}

func (s *postService) List(ctx context.Context, accountID int64, limit, offset int) ([]*transfer.PostInfo, error) {
	posts, err := s.sp.ListByPlatform(ctx, models.PlatformFacebook, accountID, limit, offset)
	if err != nil {
		return nil, err
	}

	infos := make([]*transfer.PostInfo, 0, len(posts))
	for _, p := range posts {
		infos = append(infos, postInfo(p))
	}
	return infos, nil
}

// Delete flips a ledger row to deleted and attempts the external
// delete. External failures are logged, never surfaced: the ledger is
// authoritative.
func (s *postService) Delete(ctx context.Context, postID int64) error {
	post, err := s.sp.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil || post.Platform != models.PlatformFacebook {
		return ErrPostNotFound
	}

	if post.ExternalPostID != "" && post.AccountID.Valid {
		account, err := s.fa.GetByID(ctx, post.AccountID.Int64)
		if err != nil {
			return err
		}
		if account != nil && account.IsConfigured() {
			publisher := s.newPublisher(account)
			if result := publisher.DeletePost(ctx, post.ExternalPostID); !result.Success {
				slog.Error("failed to delete external post",
					"post_id", post.ID, "external_post_id", post.ExternalPostID, "error", result.Error)
			} else {
				log.Printf("Successfully deleted Facebook post: %s", post.ExternalPostID)
			}
		}
	}

	return s.sp.MarkDeleted(ctx, postID, time.Now())
}

func postInfo(p *models.SocialPost) *transfer.PostInfo {
	info := &transfer.PostInfo{
		ID:             p.ID,
		VehicleID:      p.VehicleID,
		Platform:       p.Platform,
		Message:        p.Message,
		Status:         p.Status,
		ExternalPostID: p.ExternalPostID,
	}
	if p.AccountID.Valid {
		accountID := p.AccountID.Int64
		info.AccountID = &accountID
	}
	if p.PostedAt.Valid {
		postedAt := p.PostedAt.Time
		info.PostedAt = &postedAt
	}
	return info
}

package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/autosell-mx/reposting-api/internal/models"
	"github.com/autosell-mx/reposting-api/internal/repository"
	"github.com/autosell-mx/reposting-api/internal/service"
)

type EngagementJob struct {
	fa           repository.FacebookAccountRepository
	sp           repository.SocialPostRepository
	newPublisher service.PublisherFactory
}

func NewEngagementJob(
	fa repository.FacebookAccountRepository,
	sp repository.SocialPostRepository,
	newPublisher service.PublisherFactory) *EngagementJob {
	return &EngagementJob{
		fa:           fa,
		sp:           sp,
		newPublisher: newPublisher,
	}
}

// RefreshEngagement pulls page insights for every configured account
// and stamps them onto the posts published in the last week.
func (c *EngagementJob) RefreshEngagement() {
	ctx := context.Background()

	accounts, err := c.fa.List(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	oneWeekAgo := time.Now().Add(-7 * 24 * time.Hour)
	posts, err := c.sp.ListPostedSince(ctx, models.PlatformFacebook, oneWeekAgo, 100)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	postsByAccount := make(map[int64][]*models.SocialPost)
	for _, p := range posts {
		if p.AccountID.Valid {
			postsByAccount[p.AccountID.Int64] = append(postsByAccount[p.AccountID.Int64], p)
		}
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		if !acc.IsConfigured() {
			continue
		}
		accountPosts := postsByAccount[acc.ID]
		if len(accountPosts) == 0 {
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.FacebookAccount, accountPosts []*models.SocialPost) {
			defer wg.Done()
			defer func() { <-semaphore }()

			publisher := c.newPublisher(acc)
			result := publisher.PageInsights(ctx)
			if !result.Success {
				slog.Info("Unable to fetch insights", "account_id", acc.ID, "error", result.Error)
				return
			}

			for _, p := range accountPosts {
				if err := c.sp.UpdateEngagement(ctx, p.ID, result.Insights); err != nil {
					slog.Info(err.Error())
				}
			}
		}(acc, accountPosts)
	}

	wg.Wait()
}

package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/autosell-mx/reposting-api/internal/queue"
	"github.com/autosell-mx/reposting-api/internal/service"
	"github.com/autosell-mx/reposting-api/internal/transfer"
)

type FacebookHandler struct {
	as          service.AccountService
	ps          service.PostService
	au          service.AutomationService
	AsynqClient *asynq.Client
}

func NewFacebookHandler(
	as service.AccountService,
	ps service.PostService,
	au service.AutomationService,
	asynqClient *asynq.Client) *FacebookHandler {
	return &FacebookHandler{as: as, ps: ps, au: au, AsynqClient: asynqClient}
}

func (h *FacebookHandler) AutomationStatus(c *fiber.Ctx) error {
	status, err := h.au.Status(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to get automation status",
		})
	}

	return c.Status(fiber.StatusOK).JSON(status)
}

func (h *FacebookHandler) AccountsStatus(c *fiber.Ctx) error {
	status, err := h.as.Status(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to get accounts status",
		})
	}

	return c.Status(fiber.StatusOK).JSON(status)
}

func (h *FacebookHandler) GetAccount(c *fiber.Ctx) error {
	accountID := ParamID(c, "id")

	account, err := h.as.Get(c.Context(), accountID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to get account",
		})
	}
	if account == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Account not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(account)
}

func (h *FacebookHandler) CreateAccount(c *fiber.Ctx) error {
	var ac transfer.AccountCreation
	if err := c.BodyParser(&ac); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	account, err := h.as.Create(c.Context(), &ac)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(account)
}

func (h *FacebookHandler) UpdateAccount(c *fiber.Ctx) error {
	accountID := ParamID(c, "id")

	var ac transfer.AccountCreation
	if err := c.BodyParser(&ac); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	account, err := h.as.Update(c.Context(), accountID, &ac)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if account == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Account not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(account)
}

func (h *FacebookHandler) ValidateAccount(c *fiber.Ctx) error {
	accountID := ParamID(c, "id")

	check, err := h.as.ValidateCredentials(c.Context(), accountID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to validate credentials",
		})
	}
	if check == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Account not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(check)
}

func (h *FacebookHandler) ManualPost(c *fiber.Ctx) error {
	accountID := ParamID(c, "id")

	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	post, err := h.ps.ManualPost(c.Context(), accountID, &pc)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound), errors.Is(err, service.ErrVehicleNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, service.ErrAccountNotConfigured):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	err = queue.EnqueueNotifyWorkflow(h.AsynqClient, queue.NotifyWorkflowPayload{
		VehicleID: post.VehicleID,
		PostID:    post.ExternalPostID,
		Message:   post.Message,
	})
	if err != nil {
		slog.Error("Error notifying workflow", "error", err)
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *FacebookHandler) TestPost(c *fiber.Ctx) error {
	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	post, err := h.ps.TestPost(c.Context(), &pc)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No available vehicle for test post",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *FacebookHandler) Schedule(c *fiber.Ctx) error {
	var schedule transfer.RepostingSchedule
	if err := c.BodyParser(&schedule); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.au.Schedule(c.Context(), &schedule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Reposting schedule saved",
	})
}

func (h *FacebookHandler) StartAutomation(c *fiber.Ctx) error {
	h.au.Start()

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "Automation started",
		"is_running": h.au.IsRunning(),
	})
}

func (h *FacebookHandler) StopAutomation(c *fiber.Ctx) error {
	h.au.Stop()

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "Automation stopped",
		"is_running": h.au.IsRunning(),
	})
}

func (h *FacebookHandler) ListPosts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	accountID := c.QueryInt("account_id", 0)

	posts, err := h.ps.List(c.Context(), int64(accountID), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *FacebookHandler) DeletePost(c *fiber.Ctx) error {
	postID := ParamID(c, "id")

	err := h.ps.Delete(c.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Post not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to delete post",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post deleted",
	})
}

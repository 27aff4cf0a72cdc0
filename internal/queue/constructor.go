package queue

import (
	cfg "github.com/autosell-mx/reposting-api/configs"
	"github.com/autosell-mx/reposting-api/internal/service"
)

type Queue struct {
	cfg *cfg.Config
	ss  service.SheetsService
}

func NewQueue(cfg *cfg.Config, ss service.SheetsService) *Queue {
	return &Queue{
		cfg: cfg,
		ss:  ss,
	}
}

const (
	TaskTypeSyncVehicle    = "sheets:sync_vehicle"
	TaskTypeSyncInventory  = "sheets:sync_inventory"
	TaskTypeNotifyWorkflow = "n8n:facebook_post"
)

type SyncVehiclePayload struct {
	VehicleID int64 `json:"vehicle_id"`
}

type SyncInventoryPayload struct{}

// NotifyWorkflowPayload mirrors the body the n8n facebook-post webhook
// expects.
type NotifyWorkflowPayload struct {
	VehicleID int64  `json:"vehicle_id"`
	PostID    string `json:"post_id"`
	Message   string `json:"message"`
}

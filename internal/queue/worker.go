package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
)

// HandleSyncVehicleTask pushes a single vehicle row to the sheet after
// a status change.
func (j *Queue) HandleSyncVehicleTask(ctx context.Context, task *asynq.Task) error {
	var payload SyncVehiclePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if err := j.ss.ExportVehicle(ctx, payload.VehicleID); err != nil {
		log.Printf("Error syncing vehicle %d to sheet: %v", payload.VehicleID, err)
		return err
	}

	return j.postWebhook(ctx, "/webhook/sync-single-vehicle", payload)
}

func (j *Queue) HandleSyncInventoryTask(ctx context.Context, task *asynq.Task) error {
	count, err := j.ss.ExportInventory(ctx)
	if err != nil {
		log.Printf("Error exporting inventory to sheet: %v", err)
		return err
	}

	log.Printf("Exported %d vehicles to sheet", count)
	return j.postWebhook(ctx, "/webhook/sync-from-sheets", SyncInventoryPayload{})
}

// HandleNotifyWorkflowTask tells the n8n workflow about a published
// post so downstream automations can pick it up.
func (j *Queue) HandleNotifyWorkflowTask(ctx context.Context, task *asynq.Task) error {
	var payload NotifyWorkflowPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return j.postWebhook(ctx, "/webhook/facebook-post", payload)
}

func (j *Queue) postWebhook(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := j.cfg.N8NBaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("Error calling webhook %s: %v", path, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s returned status %d", path, resp.StatusCode)
	}

	return nil
}

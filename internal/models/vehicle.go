package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	VehicleStatusAvailable     = "DISPONIBLE"
	VehicleStatusPhotosPending = "FOTOS"
	VehicleStatusAbsent        = "AUSENTE"
	VehicleStatusReserved      = "APARTADO"
	VehicleStatusSold          = "VENDIDO"
)

// ListedStatuses are the statuses that make a vehicle eligible for
// public advertisement.
var ListedStatuses = []string{VehicleStatusAvailable, VehicleStatusPhotosPending}

type Vehicle struct {
	ID          int64           `db:"id" json:"id"`
	ExternalID  string          `db:"external_id" json:"external_id"`
	Brand       string          `db:"brand" json:"brand"`
	Model       string          `db:"model" json:"model"`
	Year        int             `db:"year" json:"year"`
	Color       string          `db:"color" json:"color"`
	Price       float64         `db:"price" json:"price"`
	Mileage     string          `db:"mileage" json:"mileage"`
	Status      string          `db:"status" json:"status"`
	Location    string          `db:"location" json:"location"`
	Description string          `db:"description" json:"description"`
	Features    json.RawMessage `db:"features" json:"features"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
	CreatedBy   string          `db:"created_by" json:"created_by"`
	UpdatedBy   string          `db:"updated_by" json:"updated_by"`
}

func (v *Vehicle) DisplayName() string {
	return fmt.Sprintf("%d %s %s", v.Year, v.Brand, v.Model)
}

func (v *Vehicle) IsListed() bool {
	for _, s := range ListedStatuses {
		if v.Status == s {
			return true
		}
	}
	return false
}

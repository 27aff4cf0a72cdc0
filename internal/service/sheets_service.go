package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	cfg "github.com/autosell-mx/reposting-api/configs"
	"github.com/autosell-mx/reposting-api/internal/models"
	"github.com/autosell-mx/reposting-api/internal/repository"
)

type SheetsService interface {
	ExportInventory(ctx context.Context) (int, error)
	ExportVehicle(ctx context.Context, vehicleID int64) error
}

type sheetsService struct {
	cfg *cfg.Config
	vr  repository.VehicleRepository
}

func NewSheetsService(cfg *cfg.Config, vr repository.VehicleRepository) SheetsService {
	return &sheetsService{cfg: cfg, vr: vr}
}

func (s *sheetsService) client(ctx context.Context) (*sheets.Service, error) {
	conf := &oauth2.Config{
		ClientID:     s.cfg.Sheets.ClientID,
		ClientSecret: s.cfg.Sheets.ClientSecret,
		Scopes:       []string{sheets.SpreadsheetsScope},
		Endpoint:     google.Endpoint,
	}

	tokenSource := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: s.cfg.Sheets.RefreshToken})

	service, err := sheets.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return service, nil
}

// ExportInventory rewrites the configured sheet range with the current
// vehicle inventory. Returns the number of exported rows.
func (s *sheetsService) ExportInventory(ctx context.Context) (int, error) {
	vehicles, err := s.vr.List(ctx, "", 1000, 0)
	if err != nil {
		return 0, err
	}

	rows := make([][]interface{}, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, vehicleRow(v))
	}

	service, err := s.client(ctx)
	if err != nil {
		return 0, err
	}

	values := &sheets.ValueRange{Values: rows}
	_, err = service.Spreadsheets.Values.
		Update(s.cfg.Sheets.SpreadsheetID, s.cfg.Sheets.Range, values).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return len(rows), nil
}

// ExportVehicle appends a single vehicle row, used after a status
// change so the sheet reflects sold units without a full export.
func (s *sheetsService) ExportVehicle(ctx context.Context, vehicleID int64) error {
	vehicle, err := s.vr.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	if vehicle == nil {
		return ErrVehicleNotFound
	}

	service, err := s.client(ctx)
	if err != nil {
		return err
	}

	values := &sheets.ValueRange{Values: [][]interface{}{vehicleRow(vehicle)}}
	_, err = service.Spreadsheets.Values.
		Append(s.cfg.Sheets.SpreadsheetID, s.cfg.Sheets.Range, values).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func vehicleRow(v *models.Vehicle) []interface{} {
	return []interface{}{
		v.ExternalID,
		v.Brand,
		v.Model,
		v.Year,
		v.Color,
		fmt.Sprintf("%.2f", v.Price),
		v.Mileage,
		v.Status,
		v.Location,
	}
}

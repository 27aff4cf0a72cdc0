package service

import (
	"context"

	"github.com/autosell-mx/reposting-api/internal/models"
	"github.com/autosell-mx/reposting-api/internal/repository"
)

type VehicleService interface {
	Get(ctx context.Context, id int64) (*models.Vehicle, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Vehicle, error)
	MarkSold(ctx context.Context, id int64) (*models.Vehicle, error)
}

type vehicleService struct {
	vr repository.VehicleRepository
}

func NewVehicleService(vr repository.VehicleRepository) VehicleService {
	return &vehicleService{vr: vr}
}

func (s *vehicleService) Get(ctx context.Context, id int64) (*models.Vehicle, error) {
	vehicle, err := s.vr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}
	return vehicle, nil
}

func (s *vehicleService) List(ctx context.Context, status string, limit, offset int) ([]*models.Vehicle, error) {
	return s.vr.List(ctx, status, limit, offset)
}

func (s *vehicleService) MarkSold(ctx context.Context, id int64) (*models.Vehicle, error) {
	vehicle, err := s.vr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	if err := s.vr.MarkSold(ctx, id); err != nil {
		return nil, err
	}
	vehicle.Status = models.VehicleStatusSold
	return vehicle, nil
}

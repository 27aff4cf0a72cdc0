package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"

	cfg "github.com/autosell-mx/reposting-api/configs"
	"github.com/autosell-mx/reposting-api/internal/models"
	"github.com/autosell-mx/reposting-api/internal/repository"
)

type PhotoService interface {
	Upload(ctx context.Context, vehicleID int64, files []*multipart.FileHeader) ([]*models.Photo, error)
	ListByVehicle(ctx context.Context, vehicleID int64) ([]*models.Photo, error)
}

type photoService struct {
	config  cfg.Config
	pr      repository.PhotoRepository
	vr      repository.VehicleRepository
	storage *StorageService
}

func NewPhotoService(cfg cfg.Config, pr repository.PhotoRepository, vr repository.VehicleRepository, storage *StorageService) PhotoService {
	return &photoService{
		config:  cfg,
		pr:      pr,
		vr:      vr,
		storage: storage,
	}
}

func (s *photoService) Upload(ctx context.Context, vehicleID int64, files []*multipart.FileHeader) ([]*models.Photo, error) {
	vehicle, err := s.vr.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	allowedTypes := map[string]struct{}{
		"jpeg": {}, "jpg": {}, "png": {}, "webp": {},
	}

	var photos []*models.Photo
	for _, file := range files {
		fileContent, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("error opening file: %w", err)
		}
		defer fileContent.Close()

		fileBytes, err := io.ReadAll(fileContent)
		if err != nil {
			return nil, fmt.Errorf("error reading file content: %w", err)
		}

		fileType, err := filetype.Match(fileBytes)
		if err != nil || fileType == types.Unknown {
			return nil, fmt.Errorf("unsupported file type: %w", err)
		}
		if _, ok := allowedTypes[fileType.Extension]; !ok {
			return nil, fmt.Errorf("file type %s is not allowed", fileType.Extension)
		}

		photo, err := s.saveFile(ctx, vehicleID, fileType.MIME.Value, fileBytes)
		if err != nil {
			return nil, fmt.Errorf("error uploading file: %w", err)
		}
		photos = append(photos, photo)
	}

	return photos, nil
}

func (s *photoService) saveFile(ctx context.Context, vehicleID int64, fileType string, file []byte) (*models.Photo, error) {
	id, err := gonanoid.New()
	if err != nil {
		log.Println(err.Error())
		return nil, err
	}

	if err := s.storage.Upload(ctx, id, file, fileType); err != nil {
		return nil, err
	}

	photo := &models.Photo{
		VehicleID: vehicleID,
		FileName:  id,
		FileType:  fileType,
		FileSize:  int64(len(file)),
		FileURL:   fmt.Sprintf("%s/%s", s.config.S3.PublicURL, id),
	}

	photoID, err := s.pr.Create(ctx, photo)
	if err != nil {
		return nil, err
	}
	photo.ID = photoID

	return photo, nil
}

func (s *photoService) ListByVehicle(ctx context.Context, vehicleID int64) ([]*models.Photo, error) {
	return s.pr.ListByVehicleID(ctx, vehicleID)
}

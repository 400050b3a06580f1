package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/prasadbobby/suraksha-backend/internal/models"
	"github.com/prasadbobby/suraksha-backend/internal/repository"
)

const defaultShareDurationHours = 24

type LocationService struct {
	userRepo     *repository.UserRepository
	contactRepo  *repository.ContactRepository
	locationRepo *repository.LocationRepository
	dispatcher   *DispatchService
}

func NewLocationService(dispatcher *DispatchService) *LocationService {
	return &LocationService{
		userRepo:     repository.NewUserRepository(),
		contactRepo:  repository.NewContactRepository(),
		locationRepo: repository.NewLocationRepository(),
		dispatcher:   dispatcher,
	}
}

// UpdateLocation persists a location fix without notifying anyone
func (s *LocationService) UpdateLocation(ctx context.Context, userID string, req *models.UpdateLocationRequest) (*models.Location, error) {
	location := &models.Location{
		LocationID: uuid.NewString(),
		UserID:     userID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Address:    req.Address,
		Accuracy:   req.Accuracy,
		Timestamp:  time.Now(),
	}

	if err := s.locationRepo.CreateLocation(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// GetLatestLocation returns the user's most recent location fix
func (s *LocationService) GetLatestLocation(ctx context.Context, userID string) (*models.Location, error) {
	return s.locationRepo.GetLatestLocation(ctx, userID)
}

// ShareLocation shares a location with selected contacts and notifies
// them. Deduplicated batches (live-sharing gate or every contact inside
// its cooldown) are acknowledged without persisting a share.
func (s *LocationService) ShareLocation(ctx context.Context, userID string, req *models.ShareLocationRequest) (*models.ShareLocationResponse, error) {
	contacts, err := s.contactRepo.FindContactsByIDs(ctx, req.ContactIDs, userID)
	if err != nil {
		return nil, errors.New("failed to resolve contacts")
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	event := &models.Event{
		Kind: models.EventLocationShare,
		Location: &models.GeoPoint{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Address:   req.Address,
		},
		IsLiveSharing: req.IsLiveSharing,
		CreatedAt:     time.Now(),
	}

	record := s.dispatcher.Dispatch(ctx, user, contacts, event)

	if record.Duplicate {
		return &models.ShareLocationResponse{
			Success:                       true,
			Message:                       "Location update already sent recently",
			NotificationsSkippedDuplicate: record.SkippedDuplicate,
			IsLiveSharing:                 req.IsLiveSharing,
			IsDuplicate:                   true,
		}, nil
	}

	duration := req.DurationHours
	if duration <= 0 {
		duration = defaultShareDurationHours
	}
	expiresAt := event.CreatedAt.Add(time.Duration(duration) * time.Hour)

	location := &models.Location{
		LocationID: uuid.NewString(),
		UserID:     userID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Address:    req.Address,
		Timestamp:  event.CreatedAt,
		IsShared:   true,
		SharedWith: req.ContactIDs,
		ExpiresAt:  &expiresAt,
		Record:     record,
	}

	if err := s.locationRepo.CreateLocation(ctx, location); err != nil {
		return nil, err
	}

	return &models.ShareLocationResponse{
		Success:                       true,
		Location:                      location,
		ContactsNotified:              len(contacts),
		NotificationsSent:             record.Sent,
		NotificationsSkippedDuplicate: record.SkippedDuplicate,
		IsLiveSharing:                 req.IsLiveSharing,
	}, nil
}

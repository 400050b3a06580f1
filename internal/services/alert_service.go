package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/prasadbobby/suraksha-backend/internal/models"
	"github.com/prasadbobby/suraksha-backend/internal/repository"
)

const alertHistoryLimit = 50

type AlertService struct {
	userRepo    *repository.UserRepository
	contactRepo *repository.ContactRepository
	alertRepo   *repository.AlertRepository
	dispatcher  *DispatchService
}

func NewAlertService(dispatcher *DispatchService) *AlertService {
	return &AlertService{
		userRepo:    repository.NewUserRepository(),
		contactRepo: repository.NewContactRepository(),
		alertRepo:   repository.NewAlertRepository(),
		dispatcher:  dispatcher,
	}
}

// TriggerAlert creates an emergency alert and fans it out to the user's
// trusted contacts. A store lookup failure is fatal; channel failures are
// recorded per contact and the alert still succeeds.
func (s *AlertService) TriggerAlert(ctx context.Context, userID string, req *models.CreateAlertRequest) (*models.CreateAlertResponse, error) {
	contacts, err := s.contactRepo.FindTrustedContacts(ctx, userID)
	if err != nil {
		return nil, errors.New("failed to resolve trusted contacts")
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	event := &models.Event{
		Kind:      models.EventEmergencyAlert,
		Location:  req.Location,
		CreatedAt: time.Now(),
	}

	record := s.dispatcher.Dispatch(ctx, user, contacts, event)

	notified := make([]string, 0, len(contacts))
	for _, contact := range contacts {
		notified = append(notified, contact.ContactID)
	}

	alert := &models.EmergencyAlert{
		AlertID:          uuid.NewString(),
		UserID:           userID,
		TriggerMethod:    req.TriggerMethod,
		Location:         req.Location,
		Status:           models.AlertActive,
		ContactsNotified: notified,
		Record:           record,
		CreatedAt:        event.CreatedAt,
	}

	if err := s.alertRepo.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}

	return &models.CreateAlertResponse{
		Success:           true,
		AlertID:           alert.AlertID,
		ContactsNotified:  len(contacts),
		NotificationsSent: record.Sent,
	}, nil
}

// GetAlerts returns the user's most recent alerts, newest first
func (s *AlertService) GetAlerts(ctx context.Context, userID string) ([]*models.EmergencyAlert, error) {
	return s.alertRepo.GetAlertsByUser(ctx, userID, alertHistoryLimit)
}

// ResolveAlert transitions an active alert to resolved or cancelled
func (s *AlertService) ResolveAlert(ctx context.Context, userID, alertID string, status models.AlertStatus) error {
	if status != models.AlertResolved && status != models.AlertCancelled {
		return errors.New("invalid alert status")
	}

	alert, err := s.alertRepo.GetAlert(ctx, alertID, userID)
	if err != nil {
		return errors.New("alert not found")
	}
	if alert.Status != models.AlertActive {
		return errors.New("alert already resolved")
	}

	return s.alertRepo.ResolveAlert(ctx, alertID, status)
}

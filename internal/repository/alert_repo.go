package repository

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/prasadbobby/suraksha-backend/internal/config"
	"github.com/prasadbobby/suraksha-backend/internal/models"
)

type AlertRepository struct {
	client *firestore.Client
}

func NewAlertRepository() *AlertRepository {
	return &AlertRepository{
		client: config.FirestoreClient,
	}
}

// CreateAlert persists an emergency alert together with its notification record
func (r *AlertRepository) CreateAlert(ctx context.Context, alert *models.EmergencyAlert) error {
	_, err := r.client.Collection("emergencyAlerts").Doc(alert.AlertID).Set(ctx, alert)
	return err
}

// GetAlert retrieves one alert owned by the given user
func (r *AlertRepository) GetAlert(ctx context.Context, alertID, userID string) (*models.EmergencyAlert, error) {
	doc, err := r.client.Collection("emergencyAlerts").Doc(alertID).Get(ctx)
	if err != nil {
		return nil, err
	}

	var alert models.EmergencyAlert
	if err := doc.DataTo(&alert); err != nil {
		return nil, err
	}
	if alert.UserID != userID {
		return nil, errors.New("alert not found")
	}

	return &alert, nil
}

// GetAlertsByUser retrieves a user's alerts, newest first
func (r *AlertRepository) GetAlertsByUser(ctx context.Context, userID string, limit int) ([]*models.EmergencyAlert, error) {
	iter := r.client.Collection("emergencyAlerts").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)

	var alerts []*models.EmergencyAlert
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var alert models.EmergencyAlert
		if err := doc.DataTo(&alert); err != nil {
			continue
		}
		alerts = append(alerts, &alert)
	}

	return alerts, nil
}

// ResolveAlert marks an alert resolved and stamps the resolution time
func (r *AlertRepository) ResolveAlert(ctx context.Context, alertID string, status models.AlertStatus) error {
	now := time.Now()
	_, err := r.client.Collection("emergencyAlerts").Doc(alertID).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(status)},
		{Path: "resolvedAt", Value: now},
	})
	return err
}

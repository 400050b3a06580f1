package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/prasadbobby/suraksha-backend/internal/config"
	"github.com/prasadbobby/suraksha-backend/internal/models"
)

type LocationRepository struct {
	client *firestore.Client
}

func NewLocationRepository() *LocationRepository {
	return &LocationRepository{
		client: config.FirestoreClient,
	}
}

// CreateLocation persists a location fix, with its notification record when
// the location was shared
func (r *LocationRepository) CreateLocation(ctx context.Context, location *models.Location) error {
	_, err := r.client.Collection("locations").Doc(location.LocationID).Set(ctx, location)
	return err
}

// GetLatestLocation retrieves the most recent location fix for a user
func (r *LocationRepository) GetLatestLocation(ctx context.Context, userID string) (*models.Location, error) {
	iter := r.client.Collection("locations").
		Where("userId", "==", userID).
		OrderBy("timestamp", firestore.Desc).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err != nil {
		return nil, err
	}

	var location models.Location
	if err := doc.DataTo(&location); err != nil {
		return nil, err
	}

	return &location, nil
}

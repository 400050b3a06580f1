package repository

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/prasadbobby/suraksha-backend/internal/config"
	"github.com/prasadbobby/suraksha-backend/internal/models"
)

type UserRepository struct {
	client *firestore.Client
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		client: config.FirestoreClient,
	}
}

// CreateUser creates a new user in Firestore
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.client.Collection("users").Doc(user.UserID).Set(ctx, user)
	return err
}

// GetUserByID retrieves a user by their ID
func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	doc, err := r.client.Collection("users").Doc(userID).Get(ctx)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by their email address
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	iter := r.client.Collection("users").Where("email", "==", email).Limit(1).Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.New("user not found")
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateNotificationToken updates the user's registered device token
func (r *UserRepository) UpdateNotificationToken(ctx context.Context, userID, token string) error {
	_, err := r.client.Collection("users").Doc(userID).Update(ctx, []firestore.Update{
		{Path: "notificationToken", Value: token},
	})
	return err
}

// DeviceTokenByEmail looks up the device token registered for the active
// account with this email. Used by the push channel to reach contacts.
func (r *UserRepository) DeviceTokenByEmail(ctx context.Context, email string) (string, error) {
	iter := r.client.Collection("users").
		Where("email", "==", email).
		Where("isActive", "==", true).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err == iterator.Done {
		return "", errors.New("user not found")
	}
	if err != nil {
		return "", err
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return "", err
	}

	return user.NotificationToken, nil
}

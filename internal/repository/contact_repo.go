package repository

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/prasadbobby/suraksha-backend/internal/config"
	"github.com/prasadbobby/suraksha-backend/internal/models"
)

type ContactRepository struct {
	client *firestore.Client
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{
		client: config.FirestoreClient,
	}
}

// CreateContact creates a new contact in Firestore
func (r *ContactRepository) CreateContact(ctx context.Context, contact *models.Contact) error {
	_, err := r.client.Collection("contacts").Doc(contact.ContactID).Set(ctx, contact)
	return err
}

// GetContact retrieves one contact owned by the given user
func (r *ContactRepository) GetContact(ctx context.Context, contactID, userID string) (*models.Contact, error) {
	doc, err := r.client.Collection("contacts").Doc(contactID).Get(ctx)
	if err != nil {
		return nil, err
	}

	var contact models.Contact
	if err := doc.DataTo(&contact); err != nil {
		return nil, err
	}
	if contact.UserID != userID {
		return nil, errors.New("contact not found")
	}

	return &contact, nil
}

// GetContacts retrieves all contacts for a user
func (r *ContactRepository) GetContacts(ctx context.Context, userID string) ([]*models.Contact, error) {
	iter := r.client.Collection("contacts").
		Where("userId", "==", userID).
		Documents(ctx)

	return collectContacts(iter)
}

// FindTrustedContacts retrieves the user's trusted contacts, the recipient
// set for emergency alerts
func (r *ContactRepository) FindTrustedContacts(ctx context.Context, userID string) ([]*models.Contact, error) {
	iter := r.client.Collection("contacts").
		Where("userId", "==", userID).
		Where("isTrusted", "==", true).
		Documents(ctx)

	return collectContacts(iter)
}

// FindContactsByIDs retrieves the selected contacts, scoped to the owner so
// one user cannot notify another user's contacts
func (r *ContactRepository) FindContactsByIDs(ctx context.Context, contactIDs []string, userID string) ([]*models.Contact, error) {
	var contacts []*models.Contact
	for _, id := range contactIDs {
		doc, err := r.client.Collection("contacts").Doc(id).Get(ctx)
		if err != nil {
			// Unknown IDs are skipped, a stale client selection should
			// not abort the whole dispatch
			continue
		}

		var contact models.Contact
		if err := doc.DataTo(&contact); err != nil {
			continue
		}
		if contact.UserID != userID {
			continue
		}
		contacts = append(contacts, &contact)
	}
	return contacts, nil
}

// UpdateContact overwrites a contact document
func (r *ContactRepository) UpdateContact(ctx context.Context, contact *models.Contact) error {
	_, err := r.client.Collection("contacts").Doc(contact.ContactID).Set(ctx, contact)
	return err
}

// DeleteContact deletes a contact owned by the given user
func (r *ContactRepository) DeleteContact(ctx context.Context, contactID, userID string) error {
	if _, err := r.GetContact(ctx, contactID, userID); err != nil {
		return err
	}
	_, err := r.client.Collection("contacts").Doc(contactID).Delete(ctx)
	return err
}

func collectContacts(iter *firestore.DocumentIterator) ([]*models.Contact, error) {
	var contacts []*models.Contact
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var contact models.Contact
		if err := doc.DataTo(&contact); err != nil {
			continue
		}
		contacts = append(contacts, &contact)
	}
	return contacts, nil
}

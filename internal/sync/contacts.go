package sync

import (
	"errors"
	"fmt"

	"brevosync/internal/models"
	"brevosync/internal/services/brevo"
)

// Subscribe ensures a contact exists remotely and is linked to the store's
// list. An already-present contact is updated, never re-created.
func (s *Synchronizer) Subscribe(email string, storeID int64) error {
	cfg := LoadSyncConfig(s.db, s.appCfg, storeID)
	client, err := s.client(cfg)
	if err != nil {
		return err
	}
	if cfg.ListID == 0 {
		s.logger.Warn("store %d: list id is empty, contact %s not subscribed", storeID, email)
		return nil
	}

	attributes := s.contactAttributes(email, storeID)

	_, err = client.GetContact(email)
	if errors.Is(err, brevo.ErrNotFound) {
		return client.CreateContact(&brevo.CreateContactRequest{
			Email:         email,
			Attributes:    attributes,
			ListIDs:       []int64{cfg.ListID},
			UpdateEnabled: true,
		})
	}
	if err != nil {
		return err
	}

	return client.UpdateContact(email, &brevo.UpdateContactRequest{
		Attributes: attributes,
		ListIDs:    []int64{cfg.ListID},
	})
}

// Unsubscribe removes the list linkage only. The contact record stays on the
// Brevo side so its history survives a re-subscription.
func (s *Synchronizer) Unsubscribe(email string, storeID int64) error {
	cfg := LoadSyncConfig(s.db, s.appCfg, storeID)
	client, err := s.client(cfg)
	if err != nil {
		return err
	}
	if cfg.ListID == 0 {
		s.logger.Warn("store %d: list id is empty, contact %s not unsubscribed", storeID, email)
		return nil
	}

	_, err = client.GetContact(email)
	if errors.Is(err, brevo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return client.UpdateContact(email, &brevo.UpdateContactRequest{
		UnlinkListIDs: []int64{cfg.ListID},
	})
}

// contactAttributes derives the flat attribute map for a contact from the
// matching customer record, tolerating a missing customer.
func (s *Synchronizer) contactAttributes(email string, storeID int64) map[string]interface{} {
	attributes := map[string]interface{}{
		MapToken("%Store.Id%"): fmt.Sprintf("%d", storeID),
	}

	var customer models.Customer
	if err := s.db.Where("email = ?", email).First(&customer).Error; err != nil {
		return attributes
	}

	attributes["FIRSTNAME"] = customer.FirstName
	attributes["LASTNAME"] = customer.LastName
	attributes[MapToken("%Customer.Username%")] = customer.Username
	attributes[MapToken("%Customer.Country%")] = customer.CountryCode
	if customer.Phone != "" {
		attributes["SMS"] = SMSPhone(customer.Phone, customer.CountryCode)
	}
	return attributes
}

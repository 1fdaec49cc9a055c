package sync

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	appconfig "brevosync/internal/config"
	"brevosync/internal/logger"
	"brevosync/internal/models"
	"brevosync/internal/services/brevo"
)

// Outcome is the per-store result severity of a synchronization pass.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeWarning Outcome = "WARNING"
	OutcomeError   Outcome = "ERROR"
)

// Result is the outcome of synchronizing a single store.
type Result struct {
	StoreID int64   `json:"store_id"`
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
}

const contactsPageSize = 500

// Synchronizer reconciles local subscriptions with Brevo contact lists.
type Synchronizer struct {
	db     *gorm.DB
	appCfg *appconfig.Config
	logger *logger.Logger
}

func NewSynchronizer(db *gorm.DB, appCfg *appconfig.Config, logger *logger.Logger) *Synchronizer {
	return &Synchronizer{
		db:     db,
		appCfg: appCfg,
		logger: logger,
	}
}

func (s *Synchronizer) client(cfg *SyncConfig) (*brevo.Client, error) {
	return brevo.NewClientWithBaseURL(cfg.APIKey, s.appCfg.BrevoBaseURL, s.logger)
}

// SynchronizeAll runs the scheduled synchronization: every store plus the
// cross-store default.
func (s *Synchronizer) SynchronizeAll() ([]Result, error) {
	var stores []models.Store
	if err := s.db.Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	storeIDs := []int64{models.DefaultStoreID}
	for _, store := range stores {
		storeIDs = append(storeIDs, store.ID)
	}
	return s.synchronize(storeIDs)
}

// SynchronizeStore runs a manual synchronization for a single store.
func (s *Synchronizer) SynchronizeStore(storeID int64) ([]Result, error) {
	return s.synchronize([]int64{storeID})
}

// synchronize iterates the stores sequentially, isolating failures so one
// store's error does not abort the others. It returns one result per store.
// Only a globally missing API key aborts the whole run.
func (s *Synchronizer) synchronize(storeIDs []int64) ([]Result, error) {
	globalCfg := LoadSyncConfig(s.db, s.appCfg, models.DefaultStoreID)
	if globalCfg.APIKey == "" {
		return nil, brevo.ErrNotConfigured
	}

	results := make([]Result, 0, len(storeIDs))
	for _, storeID := range storeIDs {
		results = append(results, s.syncStore(storeID))
	}
	return results, nil
}

// syncStore runs the import and export phases for one store and folds their
// outcomes into a single result.
func (s *Synchronizer) syncStore(storeID int64) Result {
	cfg := LoadSyncConfig(s.db, s.appCfg, storeID)

	client, err := s.client(cfg)
	if err != nil {
		return Result{StoreID: storeID, Outcome: OutcomeError, Message: err.Error()}
	}

	if cfg.ListID == 0 {
		msg := fmt.Sprintf("store %d: list id is empty, skipping", storeID)
		s.logger.Warn(msg)
		return Result{StoreID: storeID, Outcome: OutcomeWarning, Message: msg}
	}

	var warnings, failures []string

	if warn, err := s.importStore(client, cfg); err != nil {
		s.logger.Error("store %d: import failed: %v", storeID, err)
		failures = append(failures, "import: "+err.Error())
	} else if warn != "" {
		s.logger.Warn("store %d: %s", storeID, warn)
		warnings = append(warnings, warn)
	}

	if err := s.exportBlacklist(client, cfg); err != nil {
		s.logger.Error("store %d: export failed: %v", storeID, err)
		failures = append(failures, "export: "+err.Error())
	}

	switch {
	case len(failures) > 0:
		return Result{StoreID: storeID, Outcome: OutcomeError, Message: strings.Join(append(failures, warnings...), "; ")}
	case len(warnings) > 0:
		return Result{StoreID: storeID, Outcome: OutcomeWarning, Message: strings.Join(warnings, "; ")}
	default:
		return Result{StoreID: storeID, Outcome: OutcomeSuccess, Message: "synchronized"}
	}
}

// importStore pushes the store's active subscriptions to Brevo as one bulk
// CSV import. A store without subscribers is a warning, not an error, and
// issues no remote call.
func (s *Synchronizer) importStore(client *brevo.Client, cfg *SyncConfig) (warning string, err error) {
	var subscriptions []models.Subscription
	if err := s.db.Where("store_id = ? AND active = ?", cfg.StoreID, true).Find(&subscriptions).Error; err != nil {
		return "", fmt.Errorf("failed to load subscriptions: %w", err)
	}
	if len(subscriptions) == 0 {
		return fmt.Sprintf("there are no active subscriptions for store %d", cfg.StoreID), nil
	}

	csv := s.buildImportCSV(subscriptions, cfg.StoreID)

	_, err = client.ImportContacts(&brevo.ImportContactsRequest{
		FileBody:               csv,
		ListIDs:                []int64{cfg.ListID},
		NotifyURL:              cfg.NotifyURL,
		UpdateExistingContacts: true,
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("store %d: submitted import of %d contacts to list %d", cfg.StoreID, len(subscriptions), cfg.ListID)
	return "", nil
}

// buildImportCSV renders the bulk import payload. Customer fields default to
// empty when no customer record matches the subscription email.
func (s *Synchronizer) buildImportCSV(subscriptions []models.Subscription, storeID int64) string {
	var b strings.Builder
	b.WriteString("EMAIL;FIRSTNAME;LASTNAME;USERNAME;SMS;COUNTRY;STORE_ID\n")

	for _, sub := range subscriptions {
		var customer models.Customer
		if err := s.db.Where("email = ?", sub.Email).First(&customer).Error; err != nil {
			customer = models.Customer{}
		}

		sms := ""
		if customer.Phone != "" {
			sms = SMSPhone(customer.Phone, customer.CountryCode)
		}

		b.WriteString(fmt.Sprintf("%s;%s;%s;%s;%s;%s;%d\n",
			sub.Email,
			customer.FirstName,
			customer.LastName,
			customer.Username,
			sms,
			customer.CountryCode,
			storeID,
		))
	}
	return b.String()
}

// exportBlacklist pulls the remote list and deactivates subscriptions for
// every contact blacklisted on the Brevo side. A remote blacklist entry is a
// global signal: the subscription is deactivated in every store, not just the
// one owning the synced list.
func (s *Synchronizer) exportBlacklist(client *brevo.Client, cfg *SyncConfig) error {
	offset := 0
	for {
		page, err := client.GetContactsFromList(cfg.ListID, contactsPageSize, offset)
		if err != nil {
			return err
		}

		for _, contact := range page.Contacts {
			if !contact.EmailBlacklisted {
				continue
			}
			if err := s.deactivateEverywhere(contact.Email); err != nil {
				s.logger.Error("failed to deactivate %s: %v", contact.Email, err)
			}
		}

		offset += len(page.Contacts)
		if len(page.Contacts) < contactsPageSize || int64(offset) >= page.Count {
			return nil
		}
	}
}

func (s *Synchronizer) deactivateEverywhere(email string) error {
	result := s.db.Model(&models.Subscription{}).
		Where("email = ? AND active = ?", email, true).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		s.logger.Info("deactivated %d subscription(s) for blacklisted contact %s", result.RowsAffected, email)
	}
	return nil
}

package notify

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"brevosync/internal/models"
	"brevosync/internal/services/brevo"
	"brevosync/internal/sync"
)

// ExportTemplate pushes a local message template to Brevo, rewriting local
// tokens into Brevo params, and links the created remote template back to the
// local record.
func ExportTemplate(db *gorm.DB, client *brevo.Client, templateName string, tokens []string, sender brevo.Sender) (int64, error) {
	var template models.MessageTemplate
	if err := db.Where("name = ?", templateName).First(&template).Error; err != nil {
		return 0, fmt.Errorf("unknown message template %s: %w", templateName, err)
	}

	remoteID, err := client.CreateTemplate(&brevo.CreateTemplateRequest{
		TemplateName: template.Name,
		Subject:      sync.MapTemplateContent(template.Subject, tokens),
		HTMLContent:  sync.MapTemplateContent(template.Body, tokens),
		IsActive:     true,
		Sender:       sender,
	})
	if err != nil {
		return 0, err
	}

	template.BrevoTemplateID = &remoteID
	if err := db.Save(&template).Error; err != nil {
		return 0, err
	}
	return remoteID, nil
}

// ImportTemplate pulls a Brevo-managed template into the local store,
// mapping Brevo params back to local tokens. The reverse mapping is lossy
// for names containing underscores that did not come from dots.
func ImportTemplate(db *gorm.DB, client *brevo.Client, remoteID int64) (*models.MessageTemplate, error) {
	remote, err := client.GetTemplate(remoteID)
	if err != nil {
		return nil, err
	}

	var template models.MessageTemplate
	err = db.Where("name = ?", remote.Name).First(&template).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	template.Name = remote.Name
	template.Subject = sync.ReverseMapTemplateContent(remote.Subject)
	template.Body = sync.ReverseMapTemplateContent(remote.HTMLContent)
	template.BrevoTemplateID = &remote.ID
	template.UseBrevo = true

	if template.ID == "" {
		if err := db.Create(&template).Error; err != nil {
			return nil, err
		}
	} else if err := db.Save(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

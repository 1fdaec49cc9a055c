package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"gorm.io/gorm"

	appconfig "brevosync/internal/config"
	"brevosync/internal/logger"
	"brevosync/internal/models"
	"brevosync/internal/services/brevo"
	"brevosync/internal/sync"
)

// Dispatcher sends one notification built from a message template.
type Dispatcher interface {
	Send(template *models.MessageTemplate, to string, tokens map[string]string) error
}

// SMTPDispatcher delivers through the local SMTP relay, substituting tokens
// directly into the template body.
type SMTPDispatcher struct {
	appCfg *appconfig.Config
	logger *logger.Logger
}

func NewSMTPDispatcher(appCfg *appconfig.Config, logger *logger.Logger) *SMTPDispatcher {
	return &SMTPDispatcher{
		appCfg: appCfg,
		logger: logger,
	}
}

func (d *SMTPDispatcher) Send(template *models.MessageTemplate, to string, tokens map[string]string) error {
	subject := substituteTokens(template.Subject, tokens)
	body := substituteTokens(template.Body, tokens)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		d.appCfg.SMTPFrom, to, subject, body)

	addr := d.appCfg.SMTPHost + ":" + d.appCfg.SMTPPort
	var auth smtp.Auth
	if d.appCfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", d.appCfg.SMTPUser, d.appCfg.SMTPPass, d.appCfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, d.appCfg.SMTPFrom, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	d.logger.Debug("Sent %s to %s over SMTP", template.Name, to)
	return nil
}

// BrevoDispatcher relays through Brevo's transactional email API using the
// remote template linked to the local one. Token values travel as params
// keyed by the mapped attribute names.
type BrevoDispatcher struct {
	db     *gorm.DB
	appCfg *appconfig.Config
	logger *logger.Logger
}

func NewBrevoDispatcher(db *gorm.DB, appCfg *appconfig.Config, logger *logger.Logger) *BrevoDispatcher {
	return &BrevoDispatcher{
		db:     db,
		appCfg: appCfg,
		logger: logger,
	}
}

func (d *BrevoDispatcher) Send(template *models.MessageTemplate, to string, tokens map[string]string) error {
	if template.BrevoTemplateID == nil {
		return fmt.Errorf("template %s has no Brevo template id", template.Name)
	}

	cfg := sync.LoadSyncConfig(d.db, d.appCfg, models.DefaultStoreID)
	client, err := brevo.NewClientWithBaseURL(cfg.APIKey, d.appCfg.BrevoBaseURL, d.logger)
	if err != nil {
		return err
	}

	params := make(map[string]interface{}, len(tokens))
	for token, value := range tokens {
		params[sync.MapToken(token)] = value
	}

	resp, err := client.SendTemplateEmail(&brevo.SendTemplateEmailRequest{
		TemplateID: *template.BrevoTemplateID,
		To:         []brevo.Recipient{{Email: to}},
		Params:     params,
	})
	if err != nil {
		return err
	}

	d.logger.Debug("Relayed %s to %s through Brevo (message %s)", template.Name, to, resp.MessageID)
	return nil
}

// Service picks the dispatcher per template at send time: templates flagged
// UseBrevo (with a linked remote template) go through the vendor, everything
// else through local SMTP.
type Service struct {
	db     *gorm.DB
	local  Dispatcher
	vendor Dispatcher
	logger *logger.Logger
}

func NewService(db *gorm.DB, local, vendor Dispatcher, logger *logger.Logger) *Service {
	return &Service{
		db:     db,
		local:  local,
		vendor: vendor,
		logger: logger,
	}
}

// SendByTemplateName looks up the template and dispatches the notification.
func (s *Service) SendByTemplateName(name, to string, tokens map[string]string) error {
	var template models.MessageTemplate
	if err := s.db.Where("name = ?", name).First(&template).Error; err != nil {
		return fmt.Errorf("unknown message template %s: %w", name, err)
	}

	if template.UseBrevo && template.BrevoTemplateID != nil {
		return s.vendor.Send(&template, to, tokens)
	}
	return s.local.Send(&template, to, tokens)
}

func substituteTokens(content string, tokens map[string]string) string {
	pairs := make([]string, 0, len(tokens)*2)
	for token, value := range tokens {
		pairs = append(pairs, token, value)
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

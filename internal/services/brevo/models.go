package brevo

import "time"

// Contact is a remote contact record keyed by email.
type Contact struct {
	ID               int64                  `json:"id"`
	Email            string                 `json:"email"`
	EmailBlacklisted bool                   `json:"emailBlacklisted"`
	SMSBlacklisted   bool                   `json:"smsBlacklisted"`
	ListIDs          []int64                `json:"listIds"`
	Attributes       map[string]interface{} `json:"attributes"`
	CreatedAt        string                 `json:"createdAt"`
	ModifiedAt       string                 `json:"modifiedAt"`
}

type ContactsResponse struct {
	Contacts []Contact `json:"contacts"`
	Count    int64     `json:"count"`
}

type CreateContactRequest struct {
	Email         string                 `json:"email"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
	ListIDs       []int64                `json:"listIds,omitempty"`
	UpdateEnabled bool                   `json:"updateEnabled"`
}

type UpdateContactRequest struct {
	Attributes       map[string]interface{} `json:"attributes,omitempty"`
	ListIDs          []int64                `json:"listIds,omitempty"`
	UnlinkListIDs    []int64                `json:"unlinkListIds,omitempty"`
	EmailBlacklisted *bool                  `json:"emailBlacklisted,omitempty"`
}

// ImportContactsRequest is the bulk CSV import payload. FileBody is the CSV
// content; NotifyURL receives the import-completion callback.
type ImportContactsRequest struct {
	FileBody                string  `json:"fileBody"`
	ListIDs                 []int64 `json:"listIds"`
	NotifyURL               string  `json:"notifyUrl,omitempty"`
	UpdateExistingContacts  bool    `json:"updateExistingContacts"`
	EmptyContactsAttributes bool    `json:"emptyContactsAttributes"`
}

type ImportContactsResponse struct {
	ProcessID int64 `json:"processId"`
}

type List struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	TotalSubscribers  int64  `json:"totalSubscribers"`
	TotalBlacklisted  int64  `json:"totalBlacklisted"`
	UniqueSubscribers int64  `json:"uniqueSubscribers"`
	FolderID          int64  `json:"folderId"`
}

type ListsResponse struct {
	Lists []List `json:"lists"`
	Count int64  `json:"count"`
}

type CreateListRequest struct {
	Name     string `json:"name"`
	FolderID int64  `json:"folderId"`
}

// Attribute categories.
const (
	AttributeCategoryNormal        = "normal"
	AttributeCategoryTransactional = "transactional"
	AttributeCategoryCalculated    = "calculated"
	AttributeCategoryGlobal        = "global"
)

type Attribute struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
	Value    string `json:"value,omitempty"`
}

type AttributesResponse struct {
	Attributes []Attribute `json:"attributes"`
}

type CreateAttributesRequest struct {
	Attributes []Attribute `json:"attributes"`
}

type EmailTemplate struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	HTMLContent string `json:"htmlContent"`
	IsActive    bool   `json:"isActive"`
	Sender      Sender `json:"sender"`
}

type Sender struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type CreateTemplateRequest struct {
	TemplateName string `json:"templateName"`
	Subject      string `json:"subject"`
	HTMLContent  string `json:"htmlContent"`
	IsActive     bool   `json:"isActive"`
	Sender       Sender `json:"sender"`
}

type SendTemplateEmailRequest struct {
	TemplateID int64                  `json:"templateId"`
	To         []Recipient            `json:"to"`
	Params     map[string]interface{} `json:"params,omitempty"`
}

type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type SendEmailResponse struct {
	MessageID string `json:"messageId"`
}

type SendSMSRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
	Type      string `json:"type,omitempty"`
}

type SendSMSResponse struct {
	Reference        string  `json:"reference"`
	MessageID        int64   `json:"messageId"`
	RemainingCredits float64 `json:"smsCount"`
}

type CreateSMSCampaignRequest struct {
	Name        string                `json:"name"`
	Sender      string                `json:"sender"`
	Content     string                `json:"content"`
	Recipients  SMSCampaignRecipients `json:"recipients"`
	ScheduledAt string                `json:"scheduledAt,omitempty"`
}

type SMSCampaignRecipients struct {
	ListIDs []int64 `json:"listIds"`
}

// Webhook types and events.
const (
	WebhookTypeTransactional = "transactional"
	WebhookTypeMarketing     = "marketing"

	WebhookEventUnsubscribed = "unsubscribed"
)

type Webhook struct {
	ID          int64    `json:"id"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Events      []string `json:"events"`
	Type        string   `json:"type"`
}

type WebhooksResponse struct {
	Webhooks []Webhook `json:"webhooks"`
}

type CreateWebhookRequest struct {
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Events      []string `json:"events"`
	Type        string   `json:"type"`
}

type IDResponse struct {
	ID int64 `json:"id"`
}

type Account struct {
	Email       string        `json:"email"`
	FirstName   string        `json:"firstName"`
	LastName    string        `json:"lastName"`
	CompanyName string        `json:"companyName"`
	Plan        []AccountPlan `json:"plan"`
	Relay       AccountRelay  `json:"relay"`
}

type AccountPlan struct {
	Type        string  `json:"type"`
	Credits     float64 `json:"credits"`
	CreditsType string  `json:"creditsType"`
}

// AccountRelay carries the SMTP relay credentials tied to the account.
type AccountRelay struct {
	Enabled bool             `json:"enabled"`
	Data    AccountRelayData `json:"data"`
}

type AccountRelayData struct {
	UserName string `json:"userName"`
	Relay    string `json:"relay"`
	Port     int    `json:"port"`
}

type SetPartnerRequest struct {
	Partner string `json:"partner"`
}

// TrackEventRequest is a marketing-automation tracking event.
type TrackEventRequest struct {
	Email      string                 `json:"email"`
	Event      string                 `json:"event"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	EventData  map[string]interface{} `json:"eventdata,omitempty"`
}

// ErrorResponse is the vendor's error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportNotification is the form-encoded import-completion callback Brevo
// posts to the notify URL supplied with a bulk import.
type ImportNotification struct {
	NewEmails       string    `json:"new_emails" form:"new_emails"`
	EmailsExists    string    `json:"emails_exists" form:"emails_exists"`
	InvalidEmail    string    `json:"invalid_email" form:"invalid_email"`
	DuplicatesEmail string    `json:"duplicates_email" form:"duplicates_email"`
	ReceivedAt      time.Time `json:"received_at"`
}

// UnsubscribeNotification is the JSON unsubscribe webhook body. Tag carries
// back the store id this service attached at send time.
type UnsubscribeNotification struct {
	Tag       string `json:"tag"`
	Email     string `json:"email"`
	DateEvent string `json:"date_event"`
}

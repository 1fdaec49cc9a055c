package brevo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"brevosync/internal/logger"
)

const DefaultBaseURL = "https://api.brevo.com/v3"

// ErrNotConfigured is returned when no API key has been configured.
var ErrNotConfigured = errors.New("brevo plugin is not configured")

// ErrNotFound is returned for 404 responses (e.g. unknown contact email).
var ErrNotFound = errors.New("brevo: not found")

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient builds an authenticated client. An empty API key is a
// configuration error, not a transport error.
func NewClient(apiKey string, logger *logger.Logger) (*Client, error) {
	return NewClientWithBaseURL(apiKey, DefaultBaseURL, logger)
}

func NewClientWithBaseURL(apiKey, baseURL string, logger *logger.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}, nil
}

// do issues an authenticated request and decodes the JSON response into out
// (when out is non-nil). Non-2xx responses are returned as errors carrying
// the status code and body.
func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Add authentication header
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var apiErr ErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("API request failed: %d - %s (%s)", resp.StatusCode, apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetContact fetches a contact by email.
func (c *Client) GetContact(email string) (*Contact, error) {
	var contact Contact
	if err := c.do("GET", "/contacts/"+url.PathEscape(email), nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// CreateContact creates a contact, optionally linking it to lists.
func (c *Client) CreateContact(req *CreateContactRequest) error {
	return c.do("POST", "/contacts", req, nil)
}

// UpdateContact updates attributes and list linkage of an existing contact.
func (c *Client) UpdateContact(email string, req *UpdateContactRequest) error {
	return c.do("PUT", "/contacts/"+url.PathEscape(email), req, nil)
}

// GetContactsFromList fetches one page of a list's contacts.
func (c *Client) GetContactsFromList(listID int64, limit, offset int) (*ContactsResponse, error) {
	path := fmt.Sprintf("/contacts/lists/%d/contacts?limit=%d&offset=%d", listID, limit, offset)
	var contacts ContactsResponse
	if err := c.do("GET", path, nil, &contacts); err != nil {
		return nil, err
	}
	return &contacts, nil
}

// ImportContacts submits a bulk CSV import.
func (c *Client) ImportContacts(req *ImportContactsRequest) (*ImportContactsResponse, error) {
	var resp ImportContactsResponse
	if err := c.do("POST", "/contacts/import", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetLists fetches one page of contact lists.
func (c *Client) GetLists(limit, offset int) (*ListsResponse, error) {
	path := fmt.Sprintf("/contacts/lists?limit=%d&offset=%d", limit, offset)
	var lists ListsResponse
	if err := c.do("GET", path, nil, &lists); err != nil {
		return nil, err
	}
	return &lists, nil
}

// CreateList creates a contact list and returns its id.
func (c *Client) CreateList(name string, folderID int64) (int64, error) {
	var resp IDResponse
	if err := c.do("POST", "/contacts/lists", &CreateListRequest{Name: name, FolderID: folderID}, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// GetAttributes fetches all contact attributes across categories.
func (c *Client) GetAttributes() (*AttributesResponse, error) {
	var attrs AttributesResponse
	if err := c.do("GET", "/contacts/attributes", nil, &attrs); err != nil {
		return nil, err
	}
	return &attrs, nil
}

// CreateAttributes creates a batch of attributes in a single category.
func (c *Client) CreateAttributes(category string, attributes []Attribute) error {
	return c.do("POST", "/contacts/attributes/"+category, &CreateAttributesRequest{Attributes: attributes}, nil)
}

// GetTemplate fetches a transactional email template.
func (c *Client) GetTemplate(templateID int64) (*EmailTemplate, error) {
	var tmpl EmailTemplate
	if err := c.do("GET", fmt.Sprintf("/smtp/templates/%d", templateID), nil, &tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// CreateTemplate creates a transactional email template and returns its id.
func (c *Client) CreateTemplate(req *CreateTemplateRequest) (int64, error) {
	var resp IDResponse
	if err := c.do("POST", "/smtp/templates", req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// SendTemplateEmail sends a transactional email based on a stored template.
func (c *Client) SendTemplateEmail(req *SendTemplateEmailRequest) (*SendEmailResponse, error) {
	var resp SendEmailResponse
	if err := c.do("POST", "/smtp/email", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendSMS sends a transactional SMS.
func (c *Client) SendSMS(req *SendSMSRequest) (*SendSMSResponse, error) {
	var resp SendSMSResponse
	if err := c.do("POST", "/transactionalSMS/sms", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateSMSCampaign creates an SMS campaign and returns its id.
func (c *Client) CreateSMSCampaign(req *CreateSMSCampaignRequest) (int64, error) {
	var resp IDResponse
	if err := c.do("POST", "/smsCampaigns", req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// SendSMSCampaignNow triggers immediate sending of an SMS campaign.
func (c *Client) SendSMSCampaignNow(campaignID int64) error {
	return c.do("POST", fmt.Sprintf("/smsCampaigns/%d/sendNow", campaignID), nil, nil)
}

// GetWebhooks fetches registered webhooks of the given type.
func (c *Client) GetWebhooks(webhookType string) (*WebhooksResponse, error) {
	var resp WebhooksResponse
	if err := c.do("GET", "/webhooks?type="+url.QueryEscape(webhookType), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateWebhook registers a webhook and returns its id.
func (c *Client) CreateWebhook(req *CreateWebhookRequest) (int64, error) {
	var resp IDResponse
	if err := c.do("POST", "/webhooks", req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// GetAccount fetches account info, plan credits and SMTP relay details.
func (c *Client) GetAccount() (*Account, error) {
	var account Account
	if err := c.do("GET", "/account", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// SetPartner tags the account with a partner identifier.
func (c *Client) SetPartner(partner string) error {
	return c.do("POST", "/account/partner", &SetPartnerRequest{Partner: partner}, nil)
}

// TrackEvent sends a marketing-automation tracking event.
func (c *Client) TrackEvent(req *TrackEventRequest) error {
	return c.do("POST", "/trackEvent", req, nil)
}

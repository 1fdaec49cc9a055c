package brevo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brevosync/internal/logger"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("", logger.New("error"))
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClientWithBaseURL("", "http://example.test", logger.New("error"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClientSendsAPIKeyHeader(t *testing.T) {
	var gotKey, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"email":"anna@example.com"}`))
	}))
	defer server.Close()

	client, err := NewClientWithBaseURL("secret", server.URL, logger.New("error"))
	require.NoError(t, err)

	contact, err := client.GetContact("anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", contact.Email)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClientNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"document_not_found","message":"Contact does not exist"}`))
	}))
	defer server.Close()

	client, err := NewClientWithBaseURL("key", server.URL, logger.New("error"))
	require.NoError(t, err)

	_, err = client.GetContact("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientDecodesErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"invalid_parameter","message":"listIds is required"}`))
	}))
	defer server.Close()

	client, err := NewClientWithBaseURL("key", server.URL, logger.New("error"))
	require.NoError(t, err)

	err = client.CreateContact(&CreateContactRequest{Email: "anna@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listIds is required")
	assert.Contains(t, err.Error(), "invalid_parameter")
}

func TestClientEscapesContactEmail(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClientWithBaseURL("key", server.URL, logger.New("error"))
	require.NoError(t, err)

	_, err = client.GetContact("anna+tag@example.com")
	require.NoError(t, err)
	assert.Equal(t, "/contacts/anna+tag@example.com", gotPath)
}

func TestGetLists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts/lists", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		w.Write([]byte(`{"lists":[{"id":5,"name":"Newsletter","totalSubscribers":120}],"count":1}`))
	}))
	defer server.Close()

	client, err := NewClientWithBaseURL("key", server.URL, logger.New("error"))
	require.NoError(t, err)

	lists, err := client.GetLists(50, 0)
	require.NoError(t, err)
	require.Len(t, lists.Lists, 1)
	assert.Equal(t, int64(5), lists.Lists[0].ID)
	assert.Equal(t, "Newsletter", lists.Lists[0].Name)
	assert.Equal(t, int64(120), lists.Lists[0].TotalSubscribers)
}

func TestCreateList(t *testing.T) {
	var got CreateListRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contacts/lists", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":9}`))
	}))
	defer server.Close()

	client, err := NewClientWithBaseURL("key", server.URL, logger.New("error"))
	require.NoError(t, err)

	listID, err := client.CreateList("Newsletter", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(9), listID)
	assert.Equal(t, "Newsletter", got.Name)
	assert.Equal(t, int64(2), got.FolderID)
}

func TestCreateSMSCampaignAndSendNow(t *testing.T) {
	var created CreateSMSCampaignRequest
	var sendNowPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/smsCampaigns":
			json.NewDecoder(r.Body).Decode(&created)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":12}`))
		default:
			sendNowPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	client, err := NewClientWithBaseURL("key", server.URL, logger.New("error"))
	require.NoError(t, err)

	campaignID, err := client.CreateSMSCampaign(&CreateSMSCampaignRequest{
		Name:       "Spring sale",
		Sender:     "MyShop",
		Content:    "20% off this week",
		Recipients: SMSCampaignRecipients{ListIDs: []int64{5}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), campaignID)
	assert.Equal(t, "Spring sale", created.Name)
	assert.Equal(t, []int64{5}, created.Recipients.ListIDs)

	require.NoError(t, client.SendSMSCampaignNow(campaignID))
	assert.Equal(t, "/smsCampaigns/12/sendNow", sendNowPath)
}

func TestSendTemplateEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/smtp/email", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"messageId":"<202603141200.123@smtp-relay>"}`))
	}))
	defer server.Close()

	client, err := NewClientWithBaseURL("key", server.URL, logger.New("error"))
	require.NoError(t, err)

	resp, err := client.SendTemplateEmail(&SendTemplateEmailRequest{
		TemplateID: 3,
		To:         []Recipient{{Email: "anna@example.com"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "<202603141200.123@smtp-relay>", resp.MessageID)
}
